package repository

import (
	"context"
	"time"

	"pharmapos/internal/dto"
	"pharmapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicineRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type MedicineRepository interface {
	Create(ctx context.Context, m *model.Medicine) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error)
	FindByName(ctx context.Context, name string) (*model.Medicine, error)
	List(ctx context.Context, filter dto.MedicineFilter, asOf time.Time) ([]model.Medicine, error)
	Update(ctx context.Context, m *model.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Dashboard counters
	Count(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	CountExpired(ctx context.Context, asOf time.Time) (int64, error)
	CountExpiringWithin(ctx context.Context, asOf time.Time, days int) (int64, error)

	// Used inside billing transactions — callers must pass the tx instance.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Medicine, error)
	FindByNameTx(tx *gorm.DB, name string) (*model.Medicine, error)
	CreateTx(tx *gorm.DB, m *model.Medicine) error
	UpdateTx(tx *gorm.DB, m *model.Medicine) error
	// DecrementStockTx issues a conditional single-statement decrement and
	// reports how many rows it touched. Zero rows means insufficient stock.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error)
	// AddStockTx is the additive counterpart used by imports and adjustments.
	AddStockTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type medicineRepo struct{ db *gorm.DB }

func NewMedicineRepository(db *gorm.DB) MedicineRepository { return &medicineRepo{db: db} }

func (r *medicineRepo) Create(ctx context.Context, m *model.Medicine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *medicineRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	var m model.Medicine
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *medicineRepo) FindByName(ctx context.Context, name string) (*model.Medicine, error) {
	var m model.Medicine
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	return &m, err
}

func (r *medicineRepo) List(ctx context.Context, filter dto.MedicineFilter, asOf time.Time) ([]model.Medicine, error) {
	var medicines []model.Medicine

	q := r.db.WithContext(ctx).Model(&model.Medicine{})
	if filter.Query != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Query+"%")
	}

	today := asOf.Truncate(24 * time.Hour)
	switch filter.Filter {
	case "low_stock":
		q = q.Where("quantity < ?", lowStockThreshold)
	case "expired":
		q = q.Where("expiry_date < ?", today)
	case "expiring_soon":
		q = q.Where("expiry_date BETWEEN ? AND ?", today, today.AddDate(0, 0, expiryWindowDays))
	}

	err := q.Order("name ASC").Find(&medicines).Error
	return medicines, err
}

// Update writes every column except quantity. Stock counts change only
// through DecrementStockTx and AddStockTx so a concurrent sale is never
// clobbered by a catalog edit.
func (r *medicineRepo) Update(ctx context.Context, m *model.Medicine) error {
	return r.db.WithContext(ctx).Omit("quantity").Save(m).Error
}

func (r *medicineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Medicine{}, id).Error
}

// lowStockThreshold and expiryWindowDays mirror the dashboard definitions:
// fewer than 3 units on hand is "low stock", anything expiring inside 60 days
// is "expiring soon".
const (
	lowStockThreshold = 3
	expiryWindowDays  = 60
)

func (r *medicineRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Medicine{}).Count(&n).Error
	return n, err
}

func (r *medicineRepo) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Medicine{}).
		Where("quantity < ?", threshold).Count(&n).Error
	return n, err
}

func (r *medicineRepo) CountExpired(ctx context.Context, asOf time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Medicine{}).
		Where("expiry_date < ?", asOf.Truncate(24*time.Hour)).Count(&n).Error
	return n, err
}

func (r *medicineRepo) CountExpiringWithin(ctx context.Context, asOf time.Time, days int) (int64, error) {
	var n int64
	today := asOf.Truncate(24 * time.Hour)
	err := r.db.WithContext(ctx).Model(&model.Medicine{}).
		Where("expiry_date BETWEEN ? AND ?", today, today.AddDate(0, 0, days)).Count(&n).Error
	return n, err
}

func (r *medicineRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Medicine, error) {
	var m model.Medicine
	err := tx.First(&m, id).Error
	return &m, err
}

func (r *medicineRepo) FindByNameTx(tx *gorm.DB, name string) (*model.Medicine, error) {
	var m model.Medicine
	err := tx.Where("name = ?", name).First(&m).Error
	return &m, err
}

func (r *medicineRepo) CreateTx(tx *gorm.DB, m *model.Medicine) error {
	return tx.Create(m).Error
}

func (r *medicineRepo) UpdateTx(tx *gorm.DB, m *model.Medicine) error {
	return tx.Omit("quantity").Save(m).Error
}

func (r *medicineRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.Medicine{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	return res.RowsAffected, res.Error
}

func (r *medicineRepo) AddStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Medicine{}).Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *medicineRepo) DB() *gorm.DB { return r.db }

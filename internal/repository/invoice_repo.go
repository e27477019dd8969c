package repository

import (
	"context"
	"time"

	"pharmapos/internal/dto"
	"pharmapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailySalesRow is one day of aggregated sales scanned straight from SQL.
type DailySalesRow struct {
	Day   time.Time       `gorm:"column:day"`
	Total decimal.Decimal `gorm:"column:total"`
}

// InvoiceRepository is the data access contract for committed sales and their
// line-item snapshots. The read-side aggregation queries live here so the
// report service can stay free of SQL.
type InvoiceRepository interface {
	CreateTx(tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, error)
	FindByPhone(ctx context.Context, phone string) ([]model.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SearchCustomers(ctx context.Context, query string, limit int) ([]dto.CustomerRef, error)

	// Aggregation reads. Ranges are half-open [from, to).
	SalesTotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	DailySalesBetween(ctx context.Context, from, to time.Time) ([]DailySalesRow, error)
	ItemsBetween(ctx context.Context, from, to time.Time) ([]model.InvoiceItem, error)

	DB() *gorm.DB
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) CreateTx(tx *gorm.DB, inv *model.Invoice) error {
	return tx.Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Preload("Items").First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) List(ctx context.Context, filter dto.InvoiceFilter) ([]model.Invoice, error) {
	var invoices []model.Invoice
	q := r.db.WithContext(ctx).Preload("Items")
	if filter.Query != "" {
		term := "%" + filter.Query + "%"
		q = q.Where("customer_name ILIKE ? OR customer_phone ILIKE ?", term, term)
	}
	err := q.Order("bill_date DESC").Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) FindByPhone(ctx context.Context, phone string) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).Preload("Items").
		Where("customer_phone = ?", phone).
		Order("bill_date DESC").Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Line items cascade with the invoice; reminders keep their snapshot.
	res := r.db.WithContext(ctx).Select("Items").Delete(&model.Invoice{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *invoiceRepo) SearchCustomers(ctx context.Context, query string, limit int) ([]dto.CustomerRef, error) {
	var refs []dto.CustomerRef
	term := "%" + query + "%"
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Select("customer_phone as phone, MAX(customer_name) as name").
		Where("customer_phone ILIKE ? OR customer_name ILIKE ?", term, term).
		Group("customer_phone").
		Order("MAX(bill_date) DESC").
		Limit(limit).
		Scan(&refs).Error
	return refs, err
}

func (r *invoiceRepo) SalesTotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Select("COALESCE(SUM(grand_total), 0)").
		Where("bill_date >= ? AND bill_date < ?", from, to).
		Scan(&total).Error
	return total, err
}

func (r *invoiceRepo) DailySalesBetween(ctx context.Context, from, to time.Time) ([]DailySalesRow, error) {
	var rows []DailySalesRow
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Select("DATE(bill_date) as day, COALESCE(SUM(grand_total), 0) as total").
		Where("bill_date >= ? AND bill_date < ?", from, to).
		Group("DATE(bill_date)").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *invoiceRepo) ItemsBetween(ctx context.Context, from, to time.Time) ([]model.InvoiceItem, error) {
	var items []model.InvoiceItem
	err := r.db.WithContext(ctx).Model(&model.InvoiceItem{}).
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoices.bill_date >= ? AND invoices.bill_date < ?", from, to).
		Find(&items).Error
	return items, err
}

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

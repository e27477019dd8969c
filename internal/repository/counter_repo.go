package repository

import (
	"context"

	"pharmapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Counter-book repositories: shortages, advance payments and purchase
// invoices are simple append-and-flag records kept by the person at the till.

// ─── Shortages ───────────────────────────────────────────────────────────────

type ShortageRepository interface {
	Create(ctx context.Context, s *model.Shortage) error
	ListPending(ctx context.Context) ([]model.Shortage, error)
	Resolve(ctx context.Context, id uuid.UUID) error
	CountPending(ctx context.Context) (int64, error)
}

type shortageRepo struct{ db *gorm.DB }

func NewShortageRepository(db *gorm.DB) ShortageRepository { return &shortageRepo{db: db} }

func (r *shortageRepo) Create(ctx context.Context, s *model.Shortage) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *shortageRepo) ListPending(ctx context.Context) ([]model.Shortage, error) {
	var shortages []model.Shortage
	err := r.db.WithContext(ctx).Where("status = ?", "Pending").
		Order("requested_at DESC").Find(&shortages).Error
	return shortages, err
}

func (r *shortageRepo) Resolve(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Shortage{}).
		Where("id = ?", id).Update("status", "Resolved")
	if res.Error == nil && res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return res.Error
}

func (r *shortageRepo) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Shortage{}).
		Where("status = ?", "Pending").Count(&n).Error
	return n, err
}

// ─── Advance payments ────────────────────────────────────────────────────────

type AdvanceRepository interface {
	Create(ctx context.Context, a *model.AdvancePayment) error
	ListUndelivered(ctx context.Context) ([]model.AdvancePayment, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	CountUndelivered(ctx context.Context) (int64, error)
}

type advanceRepo struct{ db *gorm.DB }

func NewAdvanceRepository(db *gorm.DB) AdvanceRepository { return &advanceRepo{db: db} }

func (r *advanceRepo) Create(ctx context.Context, a *model.AdvancePayment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *advanceRepo) ListUndelivered(ctx context.Context) ([]model.AdvancePayment, error) {
	var advances []model.AdvancePayment
	err := r.db.WithContext(ctx).Where("is_delivered = false").
		Order("created_at DESC").Find(&advances).Error
	return advances, err
}

func (r *advanceRepo) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.AdvancePayment{}).
		Where("id = ?", id).Update("is_delivered", true)
	if res.Error == nil && res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return res.Error
}

func (r *advanceRepo) CountUndelivered(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.AdvancePayment{}).
		Where("is_delivered = false").Count(&n).Error
	return n, err
}

// ─── Purchase invoices ───────────────────────────────────────────────────────

type PurchaseInvoiceRepository interface {
	Create(ctx context.Context, p *model.PurchaseInvoice) error
	List(ctx context.Context) ([]model.PurchaseInvoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type purchaseInvoiceRepo struct{ db *gorm.DB }

func NewPurchaseInvoiceRepository(db *gorm.DB) PurchaseInvoiceRepository {
	return &purchaseInvoiceRepo{db: db}
}

func (r *purchaseInvoiceRepo) Create(ctx context.Context, p *model.PurchaseInvoice) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *purchaseInvoiceRepo) List(ctx context.Context) ([]model.PurchaseInvoice, error) {
	var invoices []model.PurchaseInvoice
	err := r.db.WithContext(ctx).Order("invoice_date DESC").Find(&invoices).Error
	return invoices, err
}

func (r *purchaseInvoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PurchaseInvoice{}, id).Error
}

package repository

import (
	"context"
	"time"

	"pharmapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptRepository interface {
	Create(ctx context.Context, r *model.Receipt) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error)
	Update(ctx context.Context, r *model.Receipt) error
	// ListPendingRetries returns receipts stuck in "pending" whose next retry
	// time has passed, oldest first, capped at limit.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Receipt, error)
}

type receiptRepo struct{ db *gorm.DB }

func NewReceiptRepository(db *gorm.DB) ReceiptRepository { return &receiptRepo{db: db} }

func (r *receiptRepo) Create(ctx context.Context, rec *model.Receipt) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *receiptRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Receipt, error) {
	var rec model.Receipt
	err := r.db.WithContext(ctx).First(&rec, id).Error
	return &rec, err
}

func (r *receiptRepo) Update(ctx context.Context, rec *model.Receipt) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *receiptRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Receipt, error) {
	var receipts []model.Receipt
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", "pending", now).
		Order("next_retry_at ASC").Limit(limit).Find(&receipts).Error
	return receipts, err
}

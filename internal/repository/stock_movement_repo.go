package repository

import (
	"context"

	"pharmapos/internal/model"

	"gorm.io/gorm"
)

// StockMovementRepository appends to the immutable stock movement ledger.
// Movements are never updated or deleted.
type StockMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, limit int) ([]model.StockMovement, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) List(ctx context.Context, limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&movements).Error
	return movements, err
}

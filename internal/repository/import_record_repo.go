package repository

import (
	"context"

	"pharmapos/internal/model"

	"gorm.io/gorm"
)

type ImportRecordRepository interface {
	CreateTx(tx *gorm.DB, rec *model.ImportRecord) error
	List(ctx context.Context) ([]model.ImportRecord, error)
}

type importRecordRepo struct{ db *gorm.DB }

func NewImportRecordRepository(db *gorm.DB) ImportRecordRepository {
	return &importRecordRepo{db: db}
}

func (r *importRecordRepo) CreateTx(tx *gorm.DB, rec *model.ImportRecord) error {
	return tx.Create(rec).Error
}

func (r *importRecordRepo) List(ctx context.Context) ([]model.ImportRecord, error) {
	var records []model.ImportRecord
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error
	return records, err
}

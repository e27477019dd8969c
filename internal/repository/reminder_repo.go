package repository

import (
	"context"
	"time"

	"pharmapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderRepository interface {
	CreateTx(tx *gorm.DB, r *model.Reminder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reminder, error)
	// ListActive returns everything not dismissed, soonest due date first.
	ListActive(ctx context.Context) ([]model.Reminder, error)
	// FindDue returns pending reminders with due date on or before asOf.
	FindDue(ctx context.Context, asOf time.Time) ([]model.Reminder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	CountPending(ctx context.Context) (int64, error)
}

type reminderRepo struct{ db *gorm.DB }

func NewReminderRepository(db *gorm.DB) ReminderRepository { return &reminderRepo{db: db} }

func (r *reminderRepo) CreateTx(tx *gorm.DB, rem *model.Reminder) error {
	return tx.Create(rem).Error
}

func (r *reminderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	var rem model.Reminder
	err := r.db.WithContext(ctx).First(&rem, id).Error
	return &rem, err
}

func (r *reminderRepo) ListActive(ctx context.Context) ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := r.db.WithContext(ctx).
		Where("status <> ?", model.ReminderDismissed).
		Order("due_date ASC").Find(&reminders).Error
	return reminders, err
}

func (r *reminderRepo) FindDue(ctx context.Context, asOf time.Time) ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date <= ?", model.ReminderPending, asOf.Truncate(24*time.Hour)).
		Order("due_date ASC").Find(&reminders).Error
	return reminders, err
}

func (r *reminderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *reminderRepo) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("status = ?", model.ReminderPending).Count(&n).Error
	return n, err
}

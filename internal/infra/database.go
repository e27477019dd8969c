package infra

import (
	"fmt"

	"pharmapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate to create / update all tables. gen_random_uuid() defaults
// require the pgcrypto extension, enabled here before migration.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("enable pgcrypto: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}
	return db, nil
}

// RunMigrations applies the schema. Also used by integration tests against a
// throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Medicine{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.StockMovement{},
		&model.Reminder{},
		&model.Shortage{},
		&model.AdvancePayment{},
		&model.PurchaseInvoice{},
		&model.ImportRecord{},
		&model.Receipt{},
		&model.User{},
	); err != nil {
		return err
	}

	// Partial index backing the receipt retry cron query.
	return db.Exec(`
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_receipts_pending_retry') THEN
    CREATE INDEX idx_receipts_pending_retry
        ON receipts (next_retry_at)
        WHERE status = 'pending' AND next_retry_at IS NOT NULL;
  END IF;
END $$`).Error
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Receipt tracks the PDF/email delivery of a committed invoice.
// Status: "pending" | "sent" | "error"
type Receipt struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`
	Email     string    `gorm:"type:varchar(255);not null"`
	PDFPath   *string   `gorm:"column:pdf_path"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'"`
	// Retry fields — used by the retry cron to re-attempt failed sends.
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

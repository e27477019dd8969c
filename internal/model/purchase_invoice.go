package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseInvoice logs a supplier bill. Purely informational — stock arrives
// through the import pipeline, not through this record.
type PurchaseInvoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AgencyName    string          `gorm:"type:varchar(100);not null"`
	InvoiceNumber string          `gorm:"type:varchar(50)"`
	InvoiceDate   time.Time       `gorm:"type:date;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Medicine is a catalog row. Name is the business identity: invoice line items
// and reminders reference medicines by name snapshot, never by foreign key, so
// deleting or renaming a catalog row leaves sale history untouched.
//
// Quantity is the on-hand unit count and must never go negative. Only billing
// (decrement), stock import / adjustment (additive) and ad-hoc registration
// (created at zero) mutate it — regular catalog updates cannot.
type Medicine struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"uniqueIndex;not null"`
	Quantity int       `gorm:"not null;default:0"`
	// FreeQty counts bonus units received from the supplier — informational only.
	FreeQty    int    `gorm:"not null;default:0"`
	BatchNo    string `gorm:"type:varchar(80)"`
	ExpiryDate *time.Time
	// MRP is the listed per-unit retail price before discount.
	MRP decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	// PTR is the per-unit purchase price before tax — the profit cost basis.
	// Zero means "no purchase-cost data"; such rows are excluded from profit sums.
	PTR        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	GstPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Category   string          `gorm:"index"`
	Formula    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

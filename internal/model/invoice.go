package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is a committed sale. Created atomically with all of its line items
// or not at all. Customers are identified only by the free-text phone string.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerName  string    `gorm:"type:varchar(100)"`
	CustomerPhone string    `gorm:"type:varchar(20);index"`
	BillDate      time.Time `gorm:"index;not null"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMode   string          `gorm:"type:varchar(20);not null;default:'Cash'"`
	CreatedAt     time.Time

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// InvoiceItem is a denormalized snapshot taken at sale time. MedicineName,
// MRP, UnitCost and GstPercent are copied from the catalog (or the manual
// entry) when the bill commits and are never recomputed afterwards — this is
// what keeps historical profit reports stable when catalog costs change later.
type InvoiceItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	MedicineName    string          `gorm:"type:varchar(120);not null"`
	Quantity        int             `gorm:"not null"`
	MRP             decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	// TotalPrice is the post-discount line total: mrp * qty * (1 - discount/100).
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// UnitCost is the catalog PTR at sale time; zero for manual, non-inventory lines.
	UnitCost   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	GstPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

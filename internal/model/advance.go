package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdvancePayment is money taken up front for a medicine to be delivered later.
type AdvancePayment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerName  string          `gorm:"type:varchar(100);not null"`
	CustomerPhone string          `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes         string
	IsDelivered   bool `gorm:"not null;default:false"`
	CreatedAt     time.Time
}

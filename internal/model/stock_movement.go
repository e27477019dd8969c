package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every change to a medicine's on-hand quantity.
// Created automatically on billing, import and manual adjustment.
type StockMovement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MedicineID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"not null"` // "sale" | "import" | "adjustment"
	Quantity   int       `gorm:"not null"` // positive = in, negative = out
	StockBefore int      `gorm:"not null"`
	StockAfter  int      `gorm:"not null"`
	Reason      string
	// ReferenceID links to the originating invoice or import record.
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }

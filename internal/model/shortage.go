package model

import (
	"time"

	"github.com/google/uuid"
)

// Shortage is a customer request for a medicine that is out of stock.
// Status: "Pending" | "Resolved"
type Shortage struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MedicineName  string    `gorm:"type:varchar(120);not null"`
	CustomerName  *string   `gorm:"type:varchar(100)"`
	CustomerPhone *string   `gorm:"type:varchar(20)"`
	RequestedAt   time.Time `gorm:"not null"`
	Status        string    `gorm:"type:varchar(20);not null;default:'Pending'"`
}

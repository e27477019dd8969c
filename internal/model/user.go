package model

import (
	"time"

	"github.com/google/uuid"
)

// User stores system users with role-based access.
// Role: "customer" | "admin"
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(80);not null"`
	Phone        string    `gorm:"uniqueIndex;type:varchar(20);not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'customer'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// ImportRecord is the audit trail of a stock file upload.
type ImportRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OriginalFilename string    `gorm:"type:varchar(255);not null"`
	ImportedCount    int       `gorm:"not null"`
	UpdatedCount     int       `gorm:"not null"`
	UserID           *uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time
}

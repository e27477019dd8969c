package model

import (
	"time"

	"github.com/google/uuid"
)

// Reminder statuses. Reminders are never deleted, only status-transitioned:
// Pending → Sent (daily sweep) and Pending|Sent → Dismissed (user action).
const (
	ReminderPending   = "Pending"
	ReminderSent      = "Sent"
	ReminderDismissed = "Dismissed"
)

// Reminder is derived from an invoice line at billing time when the cashier
// supplies a positive lead-days value for the item.
type Reminder struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerName  string    `gorm:"type:varchar(100);not null"`
	CustomerPhone string    `gorm:"type:varchar(20);not null"`
	MedicineName  string    `gorm:"type:varchar(120);not null"`
	// DueDate = sale date + lead days.
	DueDate   time.Time  `gorm:"type:date;index;not null"`
	Status    string     `gorm:"type:varchar(20);not null;default:'Pending'"`
	InvoiceID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
}

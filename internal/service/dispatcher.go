package service

import "context"

// Queue names for background jobs pushed through Redis.
const (
	QueueReceipts      = "jobs:receipts"
	QueueNotifications = "jobs:notifications"
)

// Dispatcher enqueues a background job. Implemented by the Redis-backed
// worker dispatcher; tests plug in a recording fake.
type Dispatcher interface {
	Enqueue(ctx context.Context, queue string, payload any) error
}

// ReceiptJob asks the worker pool to render and email an invoice receipt.
type ReceiptJob struct {
	ReceiptID string `json:"receipt_id"`
	InvoiceID string `json:"invoice_id"`
	Email     string `json:"email"`
}

// NotificationJob asks the worker pool to notify a customer that a refill
// reminder has come due.
type NotificationJob struct {
	ReminderID    string `json:"reminder_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	MedicineName  string `json:"medicine_name"`
	DueDate       string `json:"due_date"`
}

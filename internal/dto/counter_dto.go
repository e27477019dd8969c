package dto

import "github.com/shopspring/decimal"

// ─── Shortages ───────────────────────────────────────────────────────────────

type CreateShortageRequest struct {
	MedicineName  string  `json:"medicine_name" validate:"required,min=1"`
	CustomerName  *string `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone"`
}

type ShortageResponse struct {
	ID            string  `json:"id"`
	MedicineName  string  `json:"medicine_name"`
	CustomerName  *string `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone"`
	RequestedAt   string  `json:"requested_at"`
	Status        string  `json:"status"`
}

// ─── Advance payments ────────────────────────────────────────────────────────

type CreateAdvanceRequest struct {
	CustomerName  string          `json:"customer_name"  validate:"required,min=1"`
	CustomerPhone string          `json:"customer_phone" validate:"required,min=7"`
	Amount        decimal.Decimal `json:"amount"         validate:"required"`
	Notes         string          `json:"notes"`
}

type AdvanceResponse struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Amount        decimal.Decimal `json:"amount"`
	Notes         string          `json:"notes"`
	IsDelivered   bool            `json:"is_delivered"`
	CreatedAt     string          `json:"created_at"`
}

// ─── Purchase invoices ───────────────────────────────────────────────────────

type CreatePurchaseInvoiceRequest struct {
	AgencyName    string          `json:"agency_name"    validate:"required,min=1"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   string          `json:"invoice_date"   validate:"required,datetime=2006-01-02"`
	Amount        decimal.Decimal `json:"amount"         validate:"required"`
}

type PurchaseInvoiceResponse struct {
	ID            string          `json:"id"`
	AgencyName    string          `json:"agency_name"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   string          `json:"invoice_date"`
	Amount        decimal.Decimal `json:"amount"`
}

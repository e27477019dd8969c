package dto

import "github.com/shopspring/decimal"

type CustomerInfo struct {
	Name  string  `json:"name"  validate:"required,min=1"`
	Phone string  `json:"phone" validate:"required,min=7,max=20"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// BillItemRequest is one cart line. Catalog-backed lines carry MedicineID;
// manual lines set Manual=true and optionally SaveToInventory to register the
// name as a new zero-stock catalog entry.
type BillItemRequest struct {
	MedicineID      *string         `json:"medicine_id"       validate:"omitempty,uuid"`
	Name            string          `json:"name"              validate:"required,min=1"`
	Quantity        int             `json:"quantity"          validate:"required,min=1"`
	MRP             decimal.Decimal `json:"mrp"               validate:"min=0"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Manual          bool            `json:"is_manual"`
	SaveToInventory bool            `json:"save_to_inventory"`
	// LeadDays > 0 schedules a refill reminder due that many days after the sale.
	LeadDays int `json:"reminder_days" validate:"min=0"`
}

type CreateBillRequest struct {
	Customer    *CustomerInfo     `json:"customer"     validate:"required"`
	Items       []BillItemRequest `json:"items"        validate:"required,min=1,dive"`
	PaymentMode string            `json:"payment_mode" validate:"omitempty,oneof=Cash Card UPI"`
}

type InvoiceItemResponse struct {
	MedicineName    string          `json:"medicine_name"`
	Quantity        int             `json:"quantity"`
	MRP             decimal.Decimal `json:"mrp"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TotalPrice      decimal.Decimal `json:"total_price"`
}

type InvoiceResponse struct {
	ID            string                `json:"id"`
	CustomerName  string                `json:"customer_name"`
	CustomerPhone string                `json:"customer_phone"`
	BillDate      string                `json:"bill_date"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
	PaymentMode   string                `json:"payment_mode"`
	Items         []InvoiceItemResponse `json:"items"`
}

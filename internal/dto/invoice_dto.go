package dto

import "github.com/shopspring/decimal"

// InvoiceFilter is bound from the query string of GET /v1/invoices.
type InvoiceFilter struct {
	Query string `form:"q"` // matches customer name or phone
}

type InvoiceListItem struct {
	ID            string                `json:"id"`
	CustomerName  string                `json:"customer_name"`
	CustomerPhone string                `json:"customer_phone"`
	BillDate      string                `json:"bill_date"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
	PaymentMode   string                `json:"payment_mode"`
	Items         []InvoiceItemResponse `json:"items"`
}

// CustomerRef is a distinct customer surfaced by the typeahead search,
// most recent purchaser first.
type CustomerRef struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

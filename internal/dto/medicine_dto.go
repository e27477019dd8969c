package dto

import "github.com/shopspring/decimal"

// MedicineFilter is bound from the query string of GET /v1/medicines.
// Filter: "" | low_stock | expired | expiring_soon
type MedicineFilter struct {
	Query  string `form:"q"`
	Filter string `form:"filter"`
}

type CreateMedicineRequest struct {
	Name       string          `json:"name"        validate:"required,min=1,max=120"`
	Quantity   int             `json:"quantity"    validate:"min=0"`
	FreeQty    int             `json:"free_qty"    validate:"min=0"`
	BatchNo    string          `json:"batch_no"`
	ExpiryDate string          `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	MRP        decimal.Decimal `json:"mrp"         validate:"min=0"`
	PTR        decimal.Decimal `json:"ptr"         validate:"min=0"`
	GstPercent decimal.Decimal `json:"gst_percent" validate:"min=0,max=100"`
	Category   string          `json:"category"`
	Formula    string          `json:"formula"`
}

// UpdateMedicineRequest is an explicit allow-list: only the fields below can
// be changed through the catalog API. Quantity is deliberately absent — stock
// moves only through billing, import and the stock-adjust endpoint.
type UpdateMedicineRequest struct {
	Name       *string          `json:"name"        validate:"omitempty,min=1,max=120"`
	FreeQty    *int             `json:"free_qty"    validate:"omitempty,min=0"`
	BatchNo    *string          `json:"batch_no"`
	ExpiryDate *string          `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	MRP        *decimal.Decimal `json:"mrp"         validate:"omitempty,min=0"`
	PTR        *decimal.Decimal `json:"ptr"         validate:"omitempty,min=0"`
	GstPercent *decimal.Decimal `json:"gst_percent" validate:"omitempty,min=0,max=100"`
	Category   *string          `json:"category"`
	Formula    *string          `json:"formula"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

type MedicineResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	FreeQty    int             `json:"free_qty"`
	BatchNo    string          `json:"batch_no"`
	ExpiryDate *string         `json:"expiry_date"`
	MRP        decimal.Decimal `json:"mrp"`
	PTR        decimal.Decimal `json:"ptr"`
	GstPercent decimal.Decimal `json:"gst_percent"`
	Category   string          `json:"category"`
	Formula    string          `json:"formula"`
}

// ImportResult summarizes a stock file upload.
type ImportResult struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

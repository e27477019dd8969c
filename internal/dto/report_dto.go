package dto

import "github.com/shopspring/decimal"

// DailySalesPoint is one day in a sales trend series.
type DailySalesPoint struct {
	Date  string          `json:"date"` // YYYY-MM-DD
	Sales decimal.Decimal `json:"sales"`
}

type DashboardResponse struct {
	TotalMedicines    int64             `json:"total_medicines"`
	LowStockCount     int64             `json:"low_stock_count"`
	ExpiredCount      int64             `json:"expired_count"`
	ExpiringSoonCount int64             `json:"expiring_soon_count"`
	SalesToday        decimal.Decimal   `json:"sales_today"`
	ProfitToday       decimal.Decimal   `json:"profit_today"`
	PendingReminders  int64             `json:"pending_reminders"`
	PendingShortages  int64             `json:"pending_shortages"`
	PendingAdvances   int64             `json:"pending_advances"`
	SalesChart        []DailySalesPoint `json:"sales_chart"`
}

// PeriodReportFilter is bound from the query string of GET /v1/reports/period.
// Both dates are inclusive.
type PeriodReportFilter struct {
	StartDate string `form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   validate:"required,datetime=2006-01-02"`
}

// ProductRank is one row of a top-N ranking.
type ProductRank struct {
	MedicineName string          `json:"medicine_name"`
	Quantity     int             `json:"quantity"`
	Profit       decimal.Decimal `json:"profit"`
}

type PeriodReportResponse struct {
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	TotalSales     decimal.Decimal   `json:"total_sales"`
	TotalProfit    decimal.Decimal   `json:"total_profit"`
	DailyTrend     []DailySalesPoint `json:"daily_trend"`
	Top5ByQuantity []ProductRank     `json:"top5_by_quantity"`
	Top5ByProfit   []ProductRank     `json:"top5_by_profit"`
}

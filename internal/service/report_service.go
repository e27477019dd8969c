package service

import (
	"context"
	"sort"
	"time"

	"pharmapos/internal/dto"
	"pharmapos/internal/model"
	"pharmapos/internal/pricing"
	"pharmapos/internal/repository"

	"github.com/shopspring/decimal"
)

// salesChartDays is the window of the dashboard trend chart.
const salesChartDays = 30

// ReportService computes the live dashboard and period reports. All profit
// figures come from the per-line snapshots through the pricing package, so
// reports stay stable when catalog costs change after the sale.
type ReportService struct {
	invoices  repository.InvoiceRepository
	medicines repository.MedicineRepository
	reminders repository.ReminderRepository
	shortages repository.ShortageRepository
	advances  repository.AdvanceRepository
	now       func() time.Time
}

func NewReportService(
	invoices repository.InvoiceRepository,
	medicines repository.MedicineRepository,
	reminders repository.ReminderRepository,
	shortages repository.ShortageRepository,
	advances repository.AdvanceRepository,
) *ReportService {
	return &ReportService{
		invoices:  invoices,
		medicines: medicines,
		reminders: reminders,
		shortages: shortages,
		advances:  advances,
		now:       time.Now,
	}
}

// Dashboard builds the landing-page snapshot: catalog health counters,
// today's sales and profit, pending work queues and the 30-day trend.
func (s *ReportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := s.now()
	today := dayStart(now)
	tomorrow := today.AddDate(0, 0, 1)

	resp := &dto.DashboardResponse{}
	var err error

	if resp.TotalMedicines, err = s.medicines.Count(ctx); err != nil {
		return nil, err
	}
	if resp.LowStockCount, err = s.medicines.CountLowStock(ctx, 3); err != nil {
		return nil, err
	}
	if resp.ExpiredCount, err = s.medicines.CountExpired(ctx, now); err != nil {
		return nil, err
	}
	if resp.ExpiringSoonCount, err = s.medicines.CountExpiringWithin(ctx, now, 60); err != nil {
		return nil, err
	}
	if resp.SalesToday, err = s.invoices.SalesTotalBetween(ctx, today, tomorrow); err != nil {
		return nil, err
	}

	items, err := s.invoices.ItemsBetween(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}
	if resp.ProfitToday, err = sumProfit(items); err != nil {
		return nil, err
	}

	if resp.PendingReminders, err = s.reminders.CountPending(ctx); err != nil {
		return nil, err
	}
	if resp.PendingShortages, err = s.shortages.CountPending(ctx); err != nil {
		return nil, err
	}
	if resp.PendingAdvances, err = s.advances.CountUndelivered(ctx); err != nil {
		return nil, err
	}

	chartFrom := today.AddDate(0, 0, -(salesChartDays - 1))
	rows, err := s.invoices.DailySalesBetween(ctx, chartFrom, tomorrow)
	if err != nil {
		return nil, err
	}
	resp.SalesChart = fillDailySeries(chartFrom, tomorrow, rows)

	return resp, nil
}

// PeriodReport aggregates an inclusive date range: totals, a per-day trend
// and the top five products by units sold and by profit.
func (s *ReportService) PeriodReport(ctx context.Context, filter dto.PeriodReportFilter) (*dto.PeriodReportResponse, error) {
	start, err := time.Parse("2006-01-02", filter.StartDate)
	if err != nil {
		return nil, ErrInvalidNumeric
	}
	end, err := time.Parse("2006-01-02", filter.EndDate)
	if err != nil {
		return nil, ErrInvalidNumeric
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	// Inclusive end date becomes a half-open upper bound.
	to := end.AddDate(0, 0, 1)

	resp := &dto.PeriodReportResponse{StartDate: filter.StartDate, EndDate: filter.EndDate}

	if resp.TotalSales, err = s.invoices.SalesTotalBetween(ctx, start, to); err != nil {
		return nil, err
	}

	items, err := s.invoices.ItemsBetween(ctx, start, to)
	if err != nil {
		return nil, err
	}
	if resp.TotalProfit, err = sumProfit(items); err != nil {
		return nil, err
	}

	rows, err := s.invoices.DailySalesBetween(ctx, start, to)
	if err != nil {
		return nil, err
	}
	resp.DailyTrend = fillDailySeries(start, to, rows)

	ranks, err := rankProducts(items)
	if err != nil {
		return nil, err
	}
	resp.Top5ByQuantity = topN(ranks, 5, func(a, b dto.ProductRank) bool {
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.MedicineName < b.MedicineName
	})
	resp.Top5ByProfit = topN(ranks, 5, func(a, b dto.ProductRank) bool {
		if !a.Profit.Equal(b.Profit) {
			return a.Profit.GreaterThan(b.Profit)
		}
		return a.MedicineName < b.MedicineName
	})

	return resp, nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sumProfit(items []model.InvoiceItem) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range items {
		p, err := pricing.LineProfit(it.MRP, it.DiscountPercent, it.UnitCost, it.GstPercent, it.Quantity)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(p)
	}
	return total, nil
}

// fillDailySeries expands sparse per-day rows into a dense series over the
// half-open range [from, to), zero-filling days without sales.
func fillDailySeries(from, to time.Time, rows []repository.DailySalesRow) []dto.DailySalesPoint {
	byDay := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		byDay[row.Day.Format("2006-01-02")] = row.Total
	}

	var series []dto.DailySalesPoint
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		total, ok := byDay[key]
		if !ok {
			total = decimal.Zero
		}
		series = append(series, dto.DailySalesPoint{Date: key, Sales: total})
	}
	return series
}

func rankProducts(items []model.InvoiceItem) ([]dto.ProductRank, error) {
	byName := make(map[string]*dto.ProductRank)
	for _, it := range items {
		p, err := pricing.LineProfit(it.MRP, it.DiscountPercent, it.UnitCost, it.GstPercent, it.Quantity)
		if err != nil {
			return nil, err
		}
		rank, ok := byName[it.MedicineName]
		if !ok {
			rank = &dto.ProductRank{MedicineName: it.MedicineName, Profit: decimal.Zero}
			byName[it.MedicineName] = rank
		}
		rank.Quantity += it.Quantity
		rank.Profit = rank.Profit.Add(p)
	}

	out := make([]dto.ProductRank, 0, len(byName))
	for _, r := range byName {
		out = append(out, *r)
	}
	return out, nil
}

func topN(ranks []dto.ProductRank, n int, less func(a, b dto.ProductRank) bool) []dto.ProductRank {
	sorted := make([]dto.ProductRank, len(ranks))
	copy(sorted, ranks)
	sort.Slice(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

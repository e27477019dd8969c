package service

import (
	"context"
	"testing"
	"time"

	"pharmapos/internal/dto"
	"pharmapos/internal/model"
	"pharmapos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotItem(name string, qty int, mrp, discount, ptr, gst string) model.InvoiceItem {
	return model.InvoiceItem{
		MedicineName:    name,
		Quantity:        qty,
		MRP:             decimal.RequireFromString(mrp),
		DiscountPercent: decimal.RequireFromString(discount),
		UnitCost:        decimal.RequireFromString(ptr),
		GstPercent:      decimal.RequireFromString(gst),
	}
}

func newReportFixture(invoices *stubInvoiceRepo, medicines *stubMedicineRepo) *ReportService {
	svc := NewReportService(invoices, medicines, &stubReminderRepo{},
		&stubShortageRepo{pending: 2}, &stubAdvanceRepo{undelivered: 1})
	svc.now = func() time.Time { return time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestPeriodReportValidatesRange(t *testing.T) {
	svc := newReportFixture(&stubInvoiceRepo{}, newStubMedicineRepo())

	_, err := svc.PeriodReport(context.Background(), dto.PeriodReportFilter{
		StartDate: "2026-02-03", EndDate: "2026-02-01",
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.PeriodReport(context.Background(), dto.PeriodReportFilter{
		StartDate: "03/02/2026", EndDate: "2026-02-05",
	})
	assert.ErrorIs(t, err, ErrInvalidNumeric)
}

func TestPeriodReportAggregates(t *testing.T) {
	invoices := &stubInvoiceRepo{
		salesTotal: decimal.RequireFromString("300"),
		daily: []repository.DailySalesRow{
			{Day: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), Total: decimal.RequireFromString("120")},
		},
		items: []model.InvoiceItem{
			// profit (10-4)*5 = 30
			snapshotItem("Amoxil 500", 5, "10", "0", "4", "0"),
			// profit (10-2)*5 = 40
			snapshotItem("Brufen 400", 5, "10", "0", "2", "0"),
			// profit (50-10)*2 = 80
			snapshotItem("Cetzine 10", 2, "50", "0", "10", "0"),
			// no cost data: profit counts as zero
			snapshotItem("Digene Gel", 7, "15", "0", "0", "0"),
		},
	}
	svc := newReportFixture(invoices, newStubMedicineRepo())

	resp, err := svc.PeriodReport(context.Background(), dto.PeriodReportFilter{
		StartDate: "2026-02-01", EndDate: "2026-02-03",
	})
	require.NoError(t, err)

	assert.True(t, resp.TotalSales.Equal(decimal.RequireFromString("300")))
	assert.True(t, resp.TotalProfit.Equal(decimal.RequireFromString("150")),
		"total profit = %s", resp.TotalProfit)

	// Dense per-day trend over the inclusive range, zero-filled.
	require.Len(t, resp.DailyTrend, 3)
	assert.Equal(t, "2026-02-01", resp.DailyTrend[0].Date)
	assert.True(t, resp.DailyTrend[0].Sales.IsZero())
	assert.Equal(t, "2026-02-02", resp.DailyTrend[1].Date)
	assert.True(t, resp.DailyTrend[1].Sales.Equal(decimal.RequireFromString("120")))
	assert.True(t, resp.DailyTrend[2].Sales.IsZero())

	// By quantity: 7, then the 5-5 tie broken by name, then 2.
	require.Len(t, resp.Top5ByQuantity, 4)
	assert.Equal(t, "Digene Gel", resp.Top5ByQuantity[0].MedicineName)
	assert.Equal(t, "Amoxil 500", resp.Top5ByQuantity[1].MedicineName)
	assert.Equal(t, "Brufen 400", resp.Top5ByQuantity[2].MedicineName)
	assert.Equal(t, "Cetzine 10", resp.Top5ByQuantity[3].MedicineName)

	// By profit: 80, 40, 30, 0.
	require.Len(t, resp.Top5ByProfit, 4)
	assert.Equal(t, "Cetzine 10", resp.Top5ByProfit[0].MedicineName)
	assert.Equal(t, "Brufen 400", resp.Top5ByProfit[1].MedicineName)
	assert.Equal(t, "Amoxil 500", resp.Top5ByProfit[2].MedicineName)
	assert.Equal(t, "Digene Gel", resp.Top5ByProfit[3].MedicineName)
}

func TestPeriodReportCapsRankingsAtFive(t *testing.T) {
	invoices := &stubInvoiceRepo{}
	for i := 0; i < 7; i++ {
		invoices.items = append(invoices.items,
			snapshotItem(string(rune('A'+i))+" tablet", i+1, "10", "0", "4", "0"))
	}
	svc := newReportFixture(invoices, newStubMedicineRepo())

	resp, err := svc.PeriodReport(context.Background(), dto.PeriodReportFilter{
		StartDate: "2026-02-01", EndDate: "2026-02-01",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Top5ByQuantity, 5)
	assert.Equal(t, "G tablet", resp.Top5ByQuantity[0].MedicineName)
}

func TestDashboard(t *testing.T) {
	exp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)     // already expired
	soon := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)    // inside the 60-day window
	far := time.Date(2027, 12, 31, 0, 0, 0, 0, time.UTC)   // fine
	lowStock := catalogMedicine("Dolo 650", 1, "30", "18", "12")
	expired := catalogMedicine("Old Syrup", 10, "80", "40", "12")
	expired.ExpiryDate = &exp
	expiring := catalogMedicine("Azithral 250", 10, "100", "60", "12")
	expiring.ExpiryDate = &soon
	healthy := catalogMedicine("Crocin Advance", 50, "25", "15", "12")
	healthy.ExpiryDate = &far

	invoices := &stubInvoiceRepo{
		salesTotal: decimal.RequireFromString("540"),
		items: []model.InvoiceItem{
			// profit (20*0.9 - 5*1.1)*3 = 37.5
			snapshotItem("Paracetamol 500mg", 3, "20", "10", "5", "10"),
		},
	}
	svc := newReportFixture(invoices, newStubMedicineRepo(lowStock, expired, expiring, healthy))

	resp, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), resp.TotalMedicines)
	assert.Equal(t, int64(1), resp.LowStockCount)
	assert.Equal(t, int64(1), resp.ExpiredCount)
	assert.Equal(t, int64(1), resp.ExpiringSoonCount)
	assert.True(t, resp.SalesToday.Equal(decimal.RequireFromString("540")))
	assert.True(t, resp.ProfitToday.Equal(decimal.RequireFromString("37.5")),
		"profit today = %s", resp.ProfitToday)
	assert.Equal(t, int64(2), resp.PendingShortages)
	assert.Equal(t, int64(1), resp.PendingAdvances)
	assert.Len(t, resp.SalesChart, 30)
	assert.Equal(t, "2026-01-12", resp.SalesChart[0].Date)
	assert.Equal(t, "2026-02-10", resp.SalesChart[29].Date)
}

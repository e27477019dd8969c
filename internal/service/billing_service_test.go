package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pharmapos/internal/dto"
	"pharmapos/internal/model"
	"pharmapos/internal/pricing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var billTime = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

type billingFixture struct {
	svc       *BillingService
	medicines *stubMedicineRepo
	movements *stubMovementRepo
	invoices  *stubInvoiceRepo
	reminders *stubReminderRepo
	receipts  *stubReceiptRepo
	jobs      *recordingDispatcher
}

func newBillingFixture(t *testing.T, meds ...*model.Medicine) *billingFixture {
	t.Helper()
	f := &billingFixture{
		medicines: newStubMedicineRepo(meds...),
		movements: &stubMovementRepo{},
		invoices:  &stubInvoiceRepo{},
		reminders: &stubReminderRepo{},
		receipts:  &stubReceiptRepo{},
		jobs:      &recordingDispatcher{},
	}
	inventory := NewInventoryService(f.medicines, f.movements, &stubImportRepo{}, zerolog.Nop())
	f.svc = NewBillingService(f.invoices, f.reminders, f.receipts, inventory, f.jobs, zerolog.Nop())
	f.svc.now = func() time.Time { return billTime }
	// Mirror a real transaction: when the closure fails, every write it made
	// is rolled back across all stubs.
	f.svc.tx = func(_ context.Context, fn func(tx *gorm.DB) error) error {
		meds := f.medicines.snapshot()
		movs := len(f.movements.movements)
		rems := len(f.reminders.reminders)
		invs := len(f.invoices.invoices)
		err := fn(nil)
		if err != nil {
			f.medicines.restore(meds)
			f.movements.movements = f.movements.movements[:movs]
			f.reminders.reminders = f.reminders.reminders[:rems]
			f.invoices.invoices = f.invoices.invoices[:invs]
		}
		return err
	}
	return f
}

func catalogMedicine(name string, qty int, mrp, ptr, gst string) *model.Medicine {
	return &model.Medicine{
		ID:         uuid.New(),
		Name:       name,
		Quantity:   qty,
		MRP:        decimal.RequireFromString(mrp),
		PTR:        decimal.RequireFromString(ptr),
		GstPercent: decimal.RequireFromString(gst),
	}
}

func catalogLine(med *model.Medicine, qty int, discount string) dto.BillItemRequest {
	id := med.ID.String()
	return dto.BillItemRequest{
		MedicineID:      &id,
		Name:            med.Name,
		Quantity:        qty,
		MRP:             med.MRP,
		DiscountPercent: decimal.RequireFromString(discount),
	}
}

func billRequest(items ...dto.BillItemRequest) dto.CreateBillRequest {
	return dto.CreateBillRequest{
		Customer: &dto.CustomerInfo{Name: "Ramesh Kumar", Phone: "9876543210"},
		Items:    items,
	}
}

func TestCreateBillCommitsSaleAndDecrementsStock(t *testing.T) {
	med := catalogMedicine("Paracetamol 500mg", 10, "20", "5", "10")
	f := newBillingFixture(t, med)

	resp, err := f.svc.CreateBill(context.Background(), billRequest(catalogLine(med, 3, "10")))
	require.NoError(t, err)

	// 20 * 3 * 0.9
	assert.True(t, resp.GrandTotal.Equal(decimal.RequireFromString("54")),
		"grand total = %s", resp.GrandTotal)
	assert.Equal(t, "Cash", resp.PaymentMode)

	after, err := f.medicines.FindByID(context.Background(), med.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, after.Quantity)

	require.Len(t, f.invoices.invoices, 1)
	inv := f.invoices.invoices[0]
	require.Len(t, inv.Items, 1)
	item := inv.Items[0]
	assert.Equal(t, "Paracetamol 500mg", item.MedicineName)
	assert.True(t, item.UnitCost.Equal(decimal.RequireFromString("5")))
	assert.True(t, item.GstPercent.Equal(decimal.RequireFromString("10")))
	assert.True(t, item.TotalPrice.Equal(decimal.RequireFromString("54")))

	require.Len(t, f.movements.movements, 1)
	mv := f.movements.movements[0]
	assert.Equal(t, "sale", mv.Type)
	assert.Equal(t, -3, mv.Quantity)
	assert.Equal(t, 10, mv.StockBefore)
	assert.Equal(t, 7, mv.StockAfter)
	require.NotNil(t, mv.ReferenceID)
	assert.Equal(t, inv.ID, *mv.ReferenceID)
}

func TestCreateBillGrandTotalSumsLines(t *testing.T) {
	medA := catalogMedicine("Azithral 250", 20, "100", "60", "12")
	medB := catalogMedicine("Dolo 650", 20, "30", "18", "12")
	f := newBillingFixture(t, medA, medB)

	resp, err := f.svc.CreateBill(context.Background(), billRequest(
		catalogLine(medA, 2, "0"),  // 200
		catalogLine(medB, 4, "25"), // 30 * 4 * 0.75 = 90
	))
	require.NoError(t, err)
	assert.True(t, resp.GrandTotal.Equal(decimal.RequireFromString("290")),
		"grand total = %s", resp.GrandTotal)
}

func TestCreateBillInsufficientStockAborts(t *testing.T) {
	medA := catalogMedicine("Azithral 250", 10, "100", "60", "12")
	medB := catalogMedicine("Dolo 650", 2, "30", "18", "12")
	medC := catalogMedicine("Crocin Advance", 10, "25", "15", "12")
	f := newBillingFixture(t, medA, medB, medC)

	_, err := f.svc.CreateBill(context.Background(), billRequest(
		catalogLine(medA, 1, "0"),
		catalogLine(medB, 5, "0"), // only 2 on hand
		catalogLine(medC, 1, "0"),
	))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Dolo 650", stockErr.Item)

	// Nothing committed: no invoice, no reminder, no receipt, no movement.
	assert.Empty(t, f.invoices.invoices)
	assert.Empty(t, f.reminders.reminders)
	assert.Empty(t, f.receipts.receipts)
	assert.Empty(t, f.jobs.jobs)
	assert.Empty(t, f.movements.movements)

	// The decrement for the first line is rolled back, the line after the
	// failing one was never touched.
	for _, tc := range []struct {
		id   uuid.UUID
		want int
	}{
		{medA.ID, 10},
		{medB.ID, 2},
		{medC.ID, 10},
	} {
		after, err := f.medicines.FindByID(context.Background(), tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.want, after.Quantity)
	}
}

func TestCreateBillRejectsEmptyCart(t *testing.T) {
	f := newBillingFixture(t)

	_, err := f.svc.CreateBill(context.Background(), billRequest())
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Empty(t, f.invoices.invoices)
}

func TestCreateBillRejectsMissingCustomer(t *testing.T) {
	med := catalogMedicine("Dolo 650", 10, "30", "18", "12")
	f := newBillingFixture(t, med)

	_, err := f.svc.CreateBill(context.Background(), dto.CreateBillRequest{
		Items: []dto.BillItemRequest{catalogLine(med, 1, "0")},
	})
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Empty(t, f.invoices.invoices)

	after, err := f.medicines.FindByID(context.Background(), med.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, after.Quantity)
}

func TestCreateBillRejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []int{0, -2} {
		med := catalogMedicine("Dolo 650", 10, "30", "18", "12")
		f := newBillingFixture(t, med)

		_, err := f.svc.CreateBill(context.Background(), billRequest(catalogLine(med, qty, "0")))
		assert.ErrorIs(t, err, ErrInvalidNumeric, "quantity %d", qty)
		assert.Empty(t, f.invoices.invoices)

		// A negative quantity must never reach the decrement; it would put
		// stock back on the shelf.
		after, err := f.medicines.FindByID(context.Background(), med.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, after.Quantity)
	}
}

func TestCreateBillRequiresMedicineIDForCatalogLines(t *testing.T) {
	f := newBillingFixture(t)

	_, err := f.svc.CreateBill(context.Background(), billRequest(dto.BillItemRequest{
		Name:     "Unlinked item",
		Quantity: 1,
		MRP:      decimal.RequireFromString("10"),
	}))
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestCreateBillRejectsOutOfRangeDiscount(t *testing.T) {
	med := catalogMedicine("Dolo 650", 10, "30", "18", "12")
	f := newBillingFixture(t, med)

	_, err := f.svc.CreateBill(context.Background(), billRequest(catalogLine(med, 1, "150")))
	assert.ErrorIs(t, err, pricing.ErrInvalidDiscount)
	assert.Empty(t, f.invoices.invoices)
}

func TestCreateBillManualItemSavedOnce(t *testing.T) {
	f := newBillingFixture(t)

	manual := dto.BillItemRequest{
		Name:            "Ayurvedic Balm",
		Quantity:        1,
		MRP:             decimal.RequireFromString("45"),
		Manual:          true,
		SaveToInventory: true,
	}
	_, err := f.svc.CreateBill(context.Background(), billRequest(manual, manual))
	require.NoError(t, err)

	// Two lines, one catalog row, registered at zero stock.
	saved, err := f.medicines.FindByName(context.Background(), "Ayurvedic Balm")
	require.NoError(t, err)
	assert.Equal(t, 0, saved.Quantity)
	assert.Equal(t, int64(1), func() int64 { n, _ := f.medicines.Count(context.Background()); return n }())
}

func TestCreateBillSchedulesReminder(t *testing.T) {
	med := catalogMedicine("Thyronorm 50mcg", 30, "150", "110", "12")
	f := newBillingFixture(t, med)

	line := catalogLine(med, 1, "0")
	line.LeadDays = 15
	_, err := f.svc.CreateBill(context.Background(), billRequest(line))
	require.NoError(t, err)

	require.Len(t, f.reminders.reminders, 1)
	rem := f.reminders.reminders[0]
	assert.Equal(t, "Ramesh Kumar", rem.CustomerName)
	assert.Equal(t, "Thyronorm 50mcg", rem.MedicineName)
	assert.Equal(t, model.ReminderPending, rem.Status)
	assert.Equal(t, billTime.AddDate(0, 0, 15).Truncate(24*time.Hour), rem.DueDate)
	require.NotNil(t, rem.InvoiceID)
	assert.Equal(t, f.invoices.invoices[0].ID, *rem.InvoiceID)
}

func TestCreateBillEnqueuesReceiptWhenEmailGiven(t *testing.T) {
	med := catalogMedicine("Dolo 650", 10, "30", "18", "12")
	f := newBillingFixture(t, med)

	email := "ramesh@example.com"
	req := billRequest(catalogLine(med, 1, "0"))
	req.Customer.Email = &email

	resp, err := f.svc.CreateBill(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, f.receipts.receipts, 1)
	rec := f.receipts.receipts[0]
	assert.Equal(t, "pending", rec.Status)
	assert.Equal(t, email, rec.Email)

	require.Len(t, f.jobs.jobs, 1)
	assert.Equal(t, QueueReceipts, f.jobs.jobs[0].queue)
	job, ok := f.jobs.jobs[0].payload.(ReceiptJob)
	require.True(t, ok)
	assert.Equal(t, resp.ID, job.InvoiceID)
	assert.Equal(t, rec.ID.String(), job.ReceiptID)
}

func TestCreateBillNoReceiptWithoutEmail(t *testing.T) {
	med := catalogMedicine("Dolo 650", 10, "30", "18", "12")
	f := newBillingFixture(t, med)

	_, err := f.svc.CreateBill(context.Background(), billRequest(catalogLine(med, 1, "0")))
	require.NoError(t, err)
	assert.Empty(t, f.receipts.receipts)
	assert.Empty(t, f.jobs.jobs)
}

func TestCreateBillEnqueueFailureDoesNotFailSale(t *testing.T) {
	med := catalogMedicine("Dolo 650", 10, "30", "18", "12")
	f := newBillingFixture(t, med)
	f.jobs.err = errors.New("redis down")

	email := "ramesh@example.com"
	req := billRequest(catalogLine(med, 1, "0"))
	req.Customer.Email = &email

	_, err := f.svc.CreateBill(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, f.invoices.invoices, 1)
	// The pending receipt row is still recorded.
	assert.Len(t, f.receipts.receipts, 1)
}

func TestGetInvoiceNotFound(t *testing.T) {
	f := newBillingFixture(t)
	_, err := f.svc.GetInvoice(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteInvoice(t *testing.T) {
	med := catalogMedicine("Dolo 650", 10, "30", "18", "12")
	f := newBillingFixture(t, med)

	resp, err := f.svc.CreateBill(context.Background(), billRequest(catalogLine(med, 1, "0")))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.DeleteInvoice(context.Background(), id))
	_, err = f.svc.GetInvoice(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteInvoiceNotFound(t *testing.T) {
	f := newBillingFixture(t)
	err := f.svc.DeleteInvoice(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

package service

import (
	"context"
	"strings"
	"time"

	"pharmapos/internal/dto"
	"pharmapos/internal/model"
	"pharmapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory stub repositories. The services under test run with a nil *gorm.DB
// so runTx invokes its callback directly; every Tx variant here ignores the tx
// argument. Reads hand out copies so a caller holding a stale snapshot never
// observes later writes.

// ─── medicines ───────────────────────────────────────────────────────────────

type stubMedicineRepo struct {
	byID map[uuid.UUID]*model.Medicine
}

var _ repository.MedicineRepository = (*stubMedicineRepo)(nil)

func newStubMedicineRepo(meds ...*model.Medicine) *stubMedicineRepo {
	r := &stubMedicineRepo{byID: make(map[uuid.UUID]*model.Medicine)}
	for _, m := range meds {
		cp := *m
		r.byID[m.ID] = &cp
	}
	return r
}

func (r *stubMedicineRepo) get(id uuid.UUID) (*model.Medicine, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *stubMedicineRepo) getByName(name string) (*model.Medicine, error) {
	for _, m := range r.byID {
		if m.Name == name {
			cp := *m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMedicineRepo) store(m *model.Medicine) error {
	if _, err := r.getByName(m.Name); err == nil {
		return gorm.ErrDuplicatedKey
	}
	cp := *m
	r.byID[m.ID] = &cp
	return nil
}

// save writes everything except quantity, mirroring the Omit("quantity")
// behaviour of the real repository.
func (r *stubMedicineRepo) save(m *model.Medicine) error {
	stored, ok := r.byID[m.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	qty := stored.Quantity
	cp := *m
	cp.Quantity = qty
	r.byID[m.ID] = &cp
	return nil
}

func (r *stubMedicineRepo) Create(_ context.Context, m *model.Medicine) error { return r.store(m) }
func (r *stubMedicineRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Medicine, error) {
	return r.get(id)
}
func (r *stubMedicineRepo) FindByName(_ context.Context, name string) (*model.Medicine, error) {
	return r.getByName(name)
}

func (r *stubMedicineRepo) List(_ context.Context, filter dto.MedicineFilter, _ time.Time) ([]model.Medicine, error) {
	var out []model.Medicine
	for _, m := range r.byID {
		if filter.Query == "" || strings.Contains(strings.ToLower(m.Name), strings.ToLower(filter.Query)) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMedicineRepo) Update(_ context.Context, m *model.Medicine) error { return r.save(m) }

func (r *stubMedicineRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *stubMedicineRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func (r *stubMedicineRepo) CountLowStock(_ context.Context, threshold int) (int64, error) {
	var n int64
	for _, m := range r.byID {
		if m.Quantity < threshold {
			n++
		}
	}
	return n, nil
}

func (r *stubMedicineRepo) CountExpired(_ context.Context, asOf time.Time) (int64, error) {
	var n int64
	day := asOf.Truncate(24 * time.Hour)
	for _, m := range r.byID {
		if m.ExpiryDate != nil && m.ExpiryDate.Before(day) {
			n++
		}
	}
	return n, nil
}

func (r *stubMedicineRepo) CountExpiringWithin(_ context.Context, asOf time.Time, days int) (int64, error) {
	var n int64
	day := asOf.Truncate(24 * time.Hour)
	limit := day.AddDate(0, 0, days)
	for _, m := range r.byID {
		if m.ExpiryDate != nil && !m.ExpiryDate.Before(day) && !m.ExpiryDate.After(limit) {
			n++
		}
	}
	return n, nil
}

func (r *stubMedicineRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Medicine, error) {
	return r.get(id)
}
func (r *stubMedicineRepo) FindByNameTx(_ *gorm.DB, name string) (*model.Medicine, error) {
	return r.getByName(name)
}
func (r *stubMedicineRepo) CreateTx(_ *gorm.DB, m *model.Medicine) error { return r.store(m) }
func (r *stubMedicineRepo) UpdateTx(_ *gorm.DB, m *model.Medicine) error { return r.save(m) }

func (r *stubMedicineRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	stored, ok := r.byID[id]
	if !ok || stored.Quantity < qty {
		return 0, nil
	}
	stored.Quantity -= qty
	return 1, nil
}

func (r *stubMedicineRepo) AddStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	stored, ok := r.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Quantity += delta
	return nil
}

func (r *stubMedicineRepo) DB() *gorm.DB { return nil }

// snapshot and restore let the billing fixture mirror a transaction rollback.
func (r *stubMedicineRepo) snapshot() map[uuid.UUID]model.Medicine {
	snap := make(map[uuid.UUID]model.Medicine, len(r.byID))
	for id, m := range r.byID {
		snap[id] = *m
	}
	return snap
}

func (r *stubMedicineRepo) restore(snap map[uuid.UUID]model.Medicine) {
	r.byID = make(map[uuid.UUID]*model.Medicine, len(snap))
	for id, m := range snap {
		cp := m
		r.byID[id] = &cp
	}
}

// ─── stock movements ─────────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, limit int) ([]model.StockMovement, error) {
	if len(r.movements) > limit {
		return r.movements[:limit], nil
	}
	return r.movements, nil
}

// ─── import records ──────────────────────────────────────────────────────────

type stubImportRepo struct {
	records []model.ImportRecord
}

var _ repository.ImportRecordRepository = (*stubImportRepo)(nil)

func (r *stubImportRepo) CreateTx(_ *gorm.DB, rec *model.ImportRecord) error {
	r.records = append(r.records, *rec)
	return nil
}

func (r *stubImportRepo) List(_ context.Context) ([]model.ImportRecord, error) {
	return r.records, nil
}

// ─── invoices ────────────────────────────────────────────────────────────────

type stubInvoiceRepo struct {
	invoices []model.Invoice

	// canned aggregation reads for report tests
	items      []model.InvoiceItem
	daily      []repository.DailySalesRow
	salesTotal decimal.Decimal
}

var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

func (r *stubInvoiceRepo) CreateTx(_ *gorm.DB, inv *model.Invoice) error {
	r.invoices = append(r.invoices, *inv)
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	for i := range r.invoices {
		if r.invoices[i].ID == id {
			cp := r.invoices[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInvoiceRepo) List(_ context.Context, _ dto.InvoiceFilter) ([]model.Invoice, error) {
	return r.invoices, nil
}

func (r *stubInvoiceRepo) FindByPhone(_ context.Context, phone string) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range r.invoices {
		if inv.CustomerPhone == phone {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *stubInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.invoices {
		if r.invoices[i].ID == id {
			r.invoices = append(r.invoices[:i], r.invoices[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubInvoiceRepo) SearchCustomers(_ context.Context, _ string, _ int) ([]dto.CustomerRef, error) {
	return nil, nil
}

func (r *stubInvoiceRepo) SalesTotalBetween(_ context.Context, _, _ time.Time) (decimal.Decimal, error) {
	return r.salesTotal, nil
}

func (r *stubInvoiceRepo) DailySalesBetween(_ context.Context, _, _ time.Time) ([]repository.DailySalesRow, error) {
	return r.daily, nil
}

func (r *stubInvoiceRepo) ItemsBetween(_ context.Context, _, _ time.Time) ([]model.InvoiceItem, error) {
	return r.items, nil
}

func (r *stubInvoiceRepo) DB() *gorm.DB { return nil }

// ─── reminders ───────────────────────────────────────────────────────────────

type stubReminderRepo struct {
	reminders []model.Reminder
}

var _ repository.ReminderRepository = (*stubReminderRepo)(nil)

func (r *stubReminderRepo) CreateTx(_ *gorm.DB, rem *model.Reminder) error {
	r.reminders = append(r.reminders, *rem)
	return nil
}

func (r *stubReminderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Reminder, error) {
	for i := range r.reminders {
		if r.reminders[i].ID == id {
			cp := r.reminders[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubReminderRepo) ListActive(_ context.Context) ([]model.Reminder, error) {
	var out []model.Reminder
	for _, rem := range r.reminders {
		if rem.Status != model.ReminderDismissed {
			out = append(out, rem)
		}
	}
	return out, nil
}

func (r *stubReminderRepo) FindDue(_ context.Context, asOf time.Time) ([]model.Reminder, error) {
	var out []model.Reminder
	day := asOf.Truncate(24 * time.Hour)
	for _, rem := range r.reminders {
		if rem.Status == model.ReminderPending && !rem.DueDate.After(day) {
			out = append(out, rem)
		}
	}
	return out, nil
}

func (r *stubReminderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	for i := range r.reminders {
		if r.reminders[i].ID == id {
			r.reminders[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubReminderRepo) CountPending(_ context.Context) (int64, error) {
	var n int64
	for _, rem := range r.reminders {
		if rem.Status == model.ReminderPending {
			n++
		}
	}
	return n, nil
}

// ─── receipts ────────────────────────────────────────────────────────────────

type stubReceiptRepo struct {
	receipts []model.Receipt
}

var _ repository.ReceiptRepository = (*stubReceiptRepo)(nil)

func (r *stubReceiptRepo) Create(_ context.Context, rec *model.Receipt) error {
	r.receipts = append(r.receipts, *rec)
	return nil
}

func (r *stubReceiptRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Receipt, error) {
	for i := range r.receipts {
		if r.receipts[i].ID == id {
			cp := r.receipts[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubReceiptRepo) Update(_ context.Context, rec *model.Receipt) error {
	for i := range r.receipts {
		if r.receipts[i].ID == rec.ID {
			r.receipts[i] = *rec
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubReceiptRepo) ListPendingRetries(_ context.Context, now time.Time, limit int) ([]model.Receipt, error) {
	var out []model.Receipt
	for _, rec := range r.receipts {
		if rec.Status == "pending" && rec.NextRetryAt != nil && !rec.NextRetryAt.After(now) {
			out = append(out, rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ─── users ───────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users []model.User
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.users = append(r.users, *u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			cp := r.users[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByPhone(_ context.Context, phone string) (*model.User, error) {
	for i := range r.users {
		if r.users[i].Phone == phone {
			cp := r.users[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ─── counter book ────────────────────────────────────────────────────────────

type stubShortageRepo struct {
	pending int64
}

var _ repository.ShortageRepository = (*stubShortageRepo)(nil)

func (r *stubShortageRepo) Create(_ context.Context, _ *model.Shortage) error      { return nil }
func (r *stubShortageRepo) ListPending(_ context.Context) ([]model.Shortage, error) { return nil, nil }
func (r *stubShortageRepo) Resolve(_ context.Context, _ uuid.UUID) error           { return nil }
func (r *stubShortageRepo) CountPending(_ context.Context) (int64, error)          { return r.pending, nil }

type stubAdvanceRepo struct {
	undelivered int64
}

var _ repository.AdvanceRepository = (*stubAdvanceRepo)(nil)

func (r *stubAdvanceRepo) Create(_ context.Context, _ *model.AdvancePayment) error { return nil }
func (r *stubAdvanceRepo) ListUndelivered(_ context.Context) ([]model.AdvancePayment, error) {
	return nil, nil
}
func (r *stubAdvanceRepo) MarkDelivered(_ context.Context, _ uuid.UUID) error { return nil }
func (r *stubAdvanceRepo) CountUndelivered(_ context.Context) (int64, error) {
	return r.undelivered, nil
}

// ─── dispatcher ──────────────────────────────────────────────────────────────

type recordedJob struct {
	queue   string
	payload any
}

type recordingDispatcher struct {
	jobs []recordedJob
	err  error
}

var _ Dispatcher = (*recordingDispatcher)(nil)

func (d *recordingDispatcher) Enqueue(_ context.Context, queue string, payload any) error {
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, recordedJob{queue: queue, payload: payload})
	return nil
}

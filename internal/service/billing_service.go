package service

import (
	"context"
	"errors"
	"time"

	"pharmapos/internal/dto"
	"pharmapos/internal/model"
	"pharmapos/internal/pricing"
	"pharmapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillingService commits sales. A bill either lands completely — every stock
// decrement, every line snapshot, every reminder — or not at all.
type BillingService struct {
	invoices  repository.InvoiceRepository
	reminders repository.ReminderRepository
	receipts  repository.ReceiptRepository
	inventory *InventoryService
	jobs      Dispatcher
	log       zerolog.Logger
	now       func() time.Time
	tx        func(ctx context.Context, fn func(tx *gorm.DB) error) error
}

func NewBillingService(
	invoices repository.InvoiceRepository,
	reminders repository.ReminderRepository,
	receipts repository.ReceiptRepository,
	inventory *InventoryService,
	jobs Dispatcher,
	log zerolog.Logger,
) *BillingService {
	return &BillingService{
		invoices:  invoices,
		reminders: reminders,
		receipts:  receipts,
		inventory: inventory,
		jobs:      jobs,
		log:       log,
		now:       time.Now,
		tx: func(ctx context.Context, fn func(tx *gorm.DB) error) error {
			return runTx(ctx, invoices.DB(), fn)
		},
	}
}

// pricedLine is a cart line that survived pre-flight validation.
type pricedLine struct {
	req        dto.BillItemRequest
	medicineID *uuid.UUID
	total      decimal.Decimal
}

// CreateBill validates and prices the whole cart before touching the
// database, then commits stock reservations, the invoice with its line-item
// snapshots and any refill reminders in a single transaction. The receipt
// email, when the customer left an address, is enqueued only after commit.
func (s *BillingService) CreateBill(ctx context.Context, req dto.CreateBillRequest) (*dto.InvoiceResponse, error) {
	if req.Customer == nil || len(req.Items) == 0 {
		return nil, ErrMissingInput
	}

	billDate := s.now()

	lines := make([]pricedLine, 0, len(req.Items))
	grand := decimal.Zero
	for _, item := range req.Items {
		line := pricedLine{req: item}

		// A non-positive quantity must never reach the stock decrement;
		// a negative value there would add stock instead of reserving it.
		if item.Quantity <= 0 {
			return nil, ErrInvalidNumeric
		}

		if !item.Manual {
			if item.MedicineID == nil {
				return nil, ErrMissingInput
			}
			id, err := uuid.Parse(*item.MedicineID)
			if err != nil {
				return nil, ErrMissingInput
			}
			line.medicineID = &id
		}

		total, err := pricing.LineTotal(item.MRP, item.Quantity, item.DiscountPercent)
		if err != nil {
			return nil, err
		}
		line.total = total
		grand = grand.Add(total)
		lines = append(lines, line)
	}

	invoiceID := uuid.New()
	paymentMode := req.PaymentMode
	if paymentMode == "" {
		paymentMode = "Cash"
	}

	var invoice *model.Invoice
	err := s.tx(ctx, func(tx *gorm.DB) error {
		items := make([]model.InvoiceItem, 0, len(lines))
		for _, line := range lines {
			item := model.InvoiceItem{
				ID:              uuid.New(),
				InvoiceID:       invoiceID,
				MedicineName:    line.req.Name,
				Quantity:        line.req.Quantity,
				MRP:             line.req.MRP,
				DiscountPercent: line.req.DiscountPercent,
				TotalPrice:      line.total,
			}

			if line.medicineID != nil {
				med, err := s.inventory.ReserveTx(tx, *line.medicineID, line.req.Quantity, &invoiceID)
				if err != nil {
					return err
				}
				item.MedicineName = med.Name
				item.UnitCost = med.PTR
				item.GstPercent = med.GstPercent
			} else if line.req.SaveToInventory {
				if _, err := s.inventory.RegisterAdHocItemTx(tx, line.req.Name, line.req.MRP); err != nil {
					return err
				}
			}

			items = append(items, item)

			if line.req.LeadDays > 0 {
				reminder := &model.Reminder{
					ID:            uuid.New(),
					CustomerName:  req.Customer.Name,
					CustomerPhone: req.Customer.Phone,
					MedicineName:  item.MedicineName,
					DueDate:       billDate.AddDate(0, 0, line.req.LeadDays).Truncate(24 * time.Hour),
					Status:        model.ReminderPending,
					InvoiceID:     &invoiceID,
				}
				if err := s.reminders.CreateTx(tx, reminder); err != nil {
					return err
				}
			}
		}

		invoice = &model.Invoice{
			ID:            invoiceID,
			CustomerName:  req.Customer.Name,
			CustomerPhone: req.Customer.Phone,
			BillDate:      billDate,
			GrandTotal:    grand,
			PaymentMode:   paymentMode,
			Items:         items,
		}
		return s.invoices.CreateTx(tx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("invoice_id", invoiceID.String()).
		Str("customer_phone", req.Customer.Phone).
		Str("grand_total", grand.String()).
		Int("items", len(invoice.Items)).
		Msg("bill committed")

	if req.Customer.Email != nil && *req.Customer.Email != "" {
		s.enqueueReceipt(ctx, invoiceID, *req.Customer.Email)
	}

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// enqueueReceipt records a pending receipt and hands it to the worker pool.
// Failures here never fail the bill; the sale is already committed.
func (s *BillingService) enqueueReceipt(ctx context.Context, invoiceID uuid.UUID, email string) {
	receipt := &model.Receipt{ID: uuid.New(), InvoiceID: invoiceID, Email: email, Status: "pending"}
	if err := s.receipts.Create(ctx, receipt); err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoiceID.String()).Msg("recording receipt")
		return
	}
	job := ReceiptJob{ReceiptID: receipt.ID.String(), InvoiceID: invoiceID.String(), Email: email}
	if err := s.jobs.Enqueue(ctx, QueueReceipts, job); err != nil {
		s.log.Error().Err(err).Str("receipt_id", receipt.ID.String()).Msg("enqueueing receipt job")
	}
}

// GetInvoice returns a committed invoice with its line items.
func (s *BillingService) GetInvoice(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// DeleteInvoice removes a committed invoice with its line items. Stock is not
// restored; returned goods go through a stock adjustment.
func (s *BillingService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	if err := s.invoices.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ToInvoiceResponse maps a loaded invoice (items included) to its API shape.
func ToInvoiceResponse(inv *model.Invoice) dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			MedicineName:    it.MedicineName,
			Quantity:        it.Quantity,
			MRP:             it.MRP,
			DiscountPercent: it.DiscountPercent,
			TotalPrice:      it.TotalPrice,
		})
	}
	return dto.InvoiceResponse{
		ID:            inv.ID.String(),
		CustomerName:  inv.CustomerName,
		CustomerPhone: inv.CustomerPhone,
		BillDate:      inv.BillDate.Format(time.RFC3339),
		GrandTotal:    inv.GrandTotal,
		PaymentMode:   inv.PaymentMode,
		Items:         items,
	}
}

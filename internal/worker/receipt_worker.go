package worker

// receipt_worker.go
// Processes receipt jobs from service.QueueReceipts.
// Renders the invoice to PDF, emails it to the customer with inline retries,
// and records delivery state on the Receipt row. Jobs that keep failing are
// rescheduled by the retry cron; past the retry cap they land in the DLQ.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pharmapos/internal/infra"
	"pharmapos/internal/model"
	"pharmapos/internal/repository"
	"pharmapos/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MaxReceiptRetries caps cron-driven redelivery attempts before a receipt is
// marked error and parked in the DLQ.
const MaxReceiptRetries = 5

// ReceiptWorker renders and emails invoice receipts.
type ReceiptWorker struct {
	invoices       repository.InvoiceRepository
	receipts       repository.ReceiptRepository
	mailer         *infra.Mailer
	rdb            *redis.Client
	pdfStoragePath string
	pharmacyName   string
}

func NewReceiptWorker(
	invoices repository.InvoiceRepository,
	receipts repository.ReceiptRepository,
	mailer *infra.Mailer,
	rdb *redis.Client,
	pdfStoragePath string,
	pharmacyName string,
) *ReceiptWorker {
	return &ReceiptWorker{
		invoices:       invoices,
		receipts:       receipts,
		mailer:         mailer,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
		pharmacyName:   pharmacyName,
	}
}

// Process handles a single receipt job:
//  1. Parse the payload and load the invoice with its items
//  2. Generate the PDF (idempotent — same path per invoice)
//  3. Email it with short inline retries
//  4. On failure, schedule the next cron attempt or park in the DLQ
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload service.ReceiptJob
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	receiptID, err := uuid.Parse(payload.ReceiptID)
	if err != nil {
		log.Error().Str("receipt_id", payload.ReceiptID).Msg("receipt_worker: invalid receipt_id")
		return
	}
	invoiceID, err := uuid.Parse(payload.InvoiceID)
	if err != nil {
		log.Error().Str("invoice_id", payload.InvoiceID).Msg("receipt_worker: invalid invoice_id")
		return
	}

	invoice, err := w.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", payload.InvoiceID).Msg("receipt_worker: invoice not found")
		return
	}

	receipt, err := w.findReceipt(ctx, receiptID, invoiceID, payload.Email)
	if err != nil {
		log.Error().Err(err).Str("receipt_id", payload.ReceiptID).Msg("receipt_worker: receipt lookup failed")
		return
	}

	pdfPath, pdfErr := infra.GenerateReceiptPDF(invoice, w.pharmacyName, w.pdfStoragePath)
	if pdfErr != nil {
		log.Warn().Err(pdfErr).Str("invoice_id", payload.InvoiceID).Msg("receipt_worker: PDF generation failed")
	} else {
		receipt.PDFPath = &pdfPath
		_ = w.receipts.Update(ctx, receipt)
	}

	subject := fmt.Sprintf("%s — your receipt", w.pharmacyName)
	body := fmt.Sprintf("Thank you for your purchase.\nGrand total: %s", invoice.GrandTotal.StringFixed(2))

	sendErr := withRetry(ctx, 3, func(attempt int) error {
		if err := w.mailer.SendReceipt(payload.Email, subject, body, pdfPath); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("receipt_id", payload.ReceiptID).
				Msg("receipt_worker: send attempt failed, retrying")
			return err
		}
		return nil
	})

	if sendErr == nil {
		receipt.Status = "sent"
		receipt.NextRetryAt = nil
		receipt.LastError = nil
		_ = w.receipts.Update(ctx, receipt)
		log.Info().Str("to", payload.Email).Str("invoice_id", payload.InvoiceID).Msg("receipt_worker: receipt sent")
		return
	}

	receipt.RetryCount++
	errMsg := sendErr.Error()
	receipt.LastError = &errMsg

	if receipt.RetryCount >= MaxReceiptRetries {
		receipt.Status = "error"
		receipt.NextRetryAt = nil
		_ = w.receipts.Update(ctx, receipt)

		SendToDLQ(ctx, w.rdb, service.QueueReceipts, "receipts", raw,
			fmt.Sprintf("max retries (%d) exceeded: %s", MaxReceiptRetries, errMsg),
			receipt.RetryCount)
		return
	}

	nextRetry := time.Now().Add(computeRetryBackoff(receipt.RetryCount))
	receipt.NextRetryAt = &nextRetry
	_ = w.receipts.Update(ctx, receipt)
	log.Warn().
		Str("receipt_id", payload.ReceiptID).
		Int("retry_count", receipt.RetryCount).
		Time("next_retry_at", nextRetry).
		Msg("receipt_worker: send failed, scheduled next attempt")
}

// findReceipt loads the receipt row; a missing row (e.g. a replayed DLQ entry
// after manual cleanup) is recreated so delivery state is never lost.
func (w *ReceiptWorker) findReceipt(ctx context.Context, id, invoiceID uuid.UUID, email string) (*model.Receipt, error) {
	receipt, err := w.receipts.FindByID(ctx, id)
	if err == nil {
		return receipt, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	receipt = &model.Receipt{ID: id, InvoiceID: invoiceID, Email: email, Status: "pending"}
	if err := w.receipts.Create(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// computeRetryBackoff returns the cron re-delivery delay: 1m, 2m, 4m, 8m…
func computeRetryBackoff(retryCount int) time.Duration {
	return time.Duration(1<<uint(retryCount-1)) * time.Minute
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			// 1s, 2s … (exponential backoff)
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues receipt jobs for rows
// stuck in status='pending' with a next_retry_at in the past. Skips ticks
// while the SMTP circuit breaker is open to avoid hammering a dead relay.

import (
	"context"
	"time"

	"pharmapos/internal/infra"
	"pharmapos/internal/repository"
	"pharmapos/internal/service"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	Receipts   repository.ReceiptRepository
	Mailer     *infra.Mailer
	Dispatcher *Dispatcher
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// re-enqueues overdue receipt deliveries. It respects the context for
// graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If the breaker is open, skip entirely — don't hammer a downed relay
	if cfg.Mailer.BreakerState() == infra.CBOpen.String() {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	receipts, err := cfg.Receipts.ListPendingRetries(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(receipts) == 0 {
		return
	}

	log.Info().Int("count", len(receipts)).Msg("retry_cron: re-enqueueing pending receipts")

	for i := range receipts {
		r := &receipts[i]
		job := service.ReceiptJob{
			ReceiptID: r.ID.String(),
			InvoiceID: r.InvoiceID.String(),
			Email:     r.Email,
		}
		if err := cfg.Dispatcher.Enqueue(ctx, service.QueueReceipts, job); err != nil {
			log.Error().Err(err).Str("receipt_id", r.ID.String()).Msg("retry_cron: enqueue failed")
			continue
		}
		// Push the schedule forward so the next tick doesn't double-enqueue
		// while the job sits in the queue.
		next := time.Now().Add(retryTickInterval * 4)
		r.NextRetryAt = &next
		if err := cfg.Receipts.Update(ctx, r); err != nil {
			log.Error().Err(err).Str("receipt_id", r.ID.String()).Msg("retry_cron: reschedule failed")
		}
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmapos/internal/config"
	"pharmapos/internal/infra"
	"pharmapos/internal/router"
	"pharmapos/internal/service"
	"pharmapos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := router.New(cfg, db, rdb)

	// Start goroutine worker pool for async tasks (receipts, notifications).
	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	receiptWorker := worker.NewReceiptWorker(deps.InvoiceRepo, deps.ReceiptRepo,
		deps.Mailer, rdb, cfg.PDFStoragePath, cfg.PharmacyName)
	notificationWorker := worker.NewNotificationWorker(rdb)
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, map[string]worker.Handler{
		service.QueueReceipts:      receiptWorker.Process,
		service.QueueNotifications: notificationWorker.Process,
	})

	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		Receipts:   deps.ReceiptRepo,
		Mailer:     deps.Mailer,
		Dispatcher: deps.Dispatcher,
	})
	worker.StartReminderCron(ctx, deps.ReminderService, cfg.ReminderHour)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      deps.Engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("PharmaPOS backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

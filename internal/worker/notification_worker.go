package worker

// notification_worker.go
// Processes reminder notification jobs from service.QueueNotifications.
// Delivery is a structured log line plus a Redis pub/sub publish the till
// frontend subscribes to; there is no SMS gateway in this deployment.

import (
	"context"
	"encoding/json"

	"pharmapos/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NotificationChannel is the pub/sub channel the till UI listens on.
const NotificationChannel = "notifications:reminders"

type NotificationWorker struct {
	rdb *redis.Client
}

func NewNotificationWorker(rdb *redis.Client) *NotificationWorker {
	return &NotificationWorker{rdb: rdb}
}

// Process publishes the due reminder to the till notification channel.
func (w *NotificationWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload service.NotificationJob
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return
	}

	if err := w.rdb.Publish(ctx, NotificationChannel, []byte(raw)).Err(); err != nil {
		log.Error().Err(err).Str("reminder_id", payload.ReminderID).Msg("notification_worker: publish failed")
		return
	}

	log.Info().
		Str("reminder_id", payload.ReminderID).
		Str("customer_phone", payload.CustomerPhone).
		Str("medicine", payload.MedicineName).
		Str("due_date", payload.DueDate).
		Msg("notification_worker: refill reminder dispatched")
}

package worker

// reminder_cron.go
// Daily sweep for refill reminders. Runs once at startup to catch anything
// that came due while the server was down, then once per day at the
// configured local hour.

import (
	"context"
	"time"

	"pharmapos/internal/service"

	"github.com/rs/zerolog/log"
)

// StartReminderCron launches the daily reminder sweep goroutine.
// sweepHour is the local hour of day (0-23) at which the sweep runs.
func StartReminderCron(ctx context.Context, reminders *service.ReminderService, sweepHour int) {
	go func() {
		log.Info().Int("hour", sweepHour).Msg("reminder_cron: started")

		runSweep(ctx, reminders)

		for {
			wait := untilNextRun(time.Now(), sweepHour)
			select {
			case <-ctx.Done():
				log.Info().Msg("reminder_cron: shutting down")
				return
			case <-time.After(wait):
				runSweep(ctx, reminders)
			}
		}
	}()
}

func runSweep(ctx context.Context, reminders *service.ReminderService) {
	sent, err := reminders.DispatchDue(ctx, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("reminder_cron: sweep failed")
		return
	}
	if sent > 0 {
		log.Info().Int("sent", sent).Msg("reminder_cron: sweep dispatched reminders")
	}
}

// untilNextRun returns the duration until the next occurrence of hour,
// always in the future.
func untilNextRun(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

package service

import (
	"context"
	"errors"
	"time"

	"pharmapos/internal/dto"
	"pharmapos/internal/model"
	"pharmapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ReminderService drives the refill reminder lifecycle. Reminders are created
// by billing; this service lists them, dismisses them and runs the daily
// due-date sweep.
type ReminderService struct {
	reminders repository.ReminderRepository
	jobs      Dispatcher
	log       zerolog.Logger
}

func NewReminderService(reminders repository.ReminderRepository, jobs Dispatcher, log zerolog.Logger) *ReminderService {
	return &ReminderService{reminders: reminders, jobs: jobs, log: log}
}

// List returns all reminders that have not been dismissed, soonest first.
func (s *ReminderService) List(ctx context.Context) ([]dto.ReminderResponse, error) {
	reminders, err := s.reminders.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReminderResponse, 0, len(reminders))
	for i := range reminders {
		out = append(out, toReminderResponse(&reminders[i]))
	}
	return out, nil
}

// Dismiss is terminal: a dismissed reminder never reappears in the sweep.
func (s *ReminderService) Dismiss(ctx context.Context, id uuid.UUID) error {
	if _, err := s.reminders.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.reminders.UpdateStatus(ctx, id, model.ReminderDismissed)
}

// DispatchDue finds every pending reminder due on or before asOf, enqueues a
// customer notification for each and marks it Sent. A reminder whose enqueue
// fails stays Pending and is retried on the next sweep.
func (s *ReminderService) DispatchDue(ctx context.Context, asOf time.Time) (int, error) {
	due, err := s.reminders.FindDue(ctx, asOf)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		r := &due[i]
		job := NotificationJob{
			ReminderID:    r.ID.String(),
			CustomerName:  r.CustomerName,
			CustomerPhone: r.CustomerPhone,
			MedicineName:  r.MedicineName,
			DueDate:       r.DueDate.Format("2006-01-02"),
		}
		if err := s.jobs.Enqueue(ctx, QueueNotifications, job); err != nil {
			s.log.Error().Err(err).Str("reminder_id", r.ID.String()).Msg("enqueueing reminder notification")
			continue
		}
		if err := s.reminders.UpdateStatus(ctx, r.ID, model.ReminderSent); err != nil {
			s.log.Error().Err(err).Str("reminder_id", r.ID.String()).Msg("marking reminder sent")
			continue
		}
		sent++
	}

	if sent > 0 {
		s.log.Info().Int("dispatched", sent).Time("as_of", asOf).Msg("reminder sweep complete")
	}
	return sent, nil
}

func toReminderResponse(r *model.Reminder) dto.ReminderResponse {
	return dto.ReminderResponse{
		ID:            r.ID.String(),
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		MedicineName:  r.MedicineName,
		DueDate:       r.DueDate.Format("2006-01-02"),
		Status:        r.Status,
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pharmapos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingReminder(name string, due time.Time) model.Reminder {
	return model.Reminder{
		ID:            uuid.New(),
		CustomerName:  "Sita Devi",
		CustomerPhone: "9812345678",
		MedicineName:  name,
		DueDate:       due,
		Status:        model.ReminderPending,
	}
}

func TestDispatchDueMarksSent(t *testing.T) {
	asOf := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	repo := &stubReminderRepo{reminders: []model.Reminder{
		pendingReminder("Thyronorm 50mcg", asOf.AddDate(0, 0, -1).Truncate(24*time.Hour)),
		pendingReminder("Ecosprin 75", asOf.Truncate(24*time.Hour)),
		pendingReminder("Dolo 650", asOf.AddDate(0, 0, 3).Truncate(24*time.Hour)),
	}}
	jobs := &recordingDispatcher{}
	svc := NewReminderService(repo, jobs, zerolog.Nop())

	sent, err := svc.DispatchDue(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	require.Len(t, jobs.jobs, 2)
	for _, j := range jobs.jobs {
		assert.Equal(t, QueueNotifications, j.queue)
	}
	job, ok := jobs.jobs[0].payload.(NotificationJob)
	require.True(t, ok)
	assert.Equal(t, "Thyronorm 50mcg", job.MedicineName)
	assert.Equal(t, "9812345678", job.CustomerPhone)

	assert.Equal(t, model.ReminderSent, repo.reminders[0].Status)
	assert.Equal(t, model.ReminderSent, repo.reminders[1].Status)
	assert.Equal(t, model.ReminderPending, repo.reminders[2].Status)
}

func TestDispatchDueEnqueueFailureLeavesPending(t *testing.T) {
	asOf := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	repo := &stubReminderRepo{reminders: []model.Reminder{
		pendingReminder("Thyronorm 50mcg", asOf.AddDate(0, 0, -1)),
	}}
	jobs := &recordingDispatcher{err: errors.New("redis down")}
	svc := NewReminderService(repo, jobs, zerolog.Nop())

	sent, err := svc.DispatchDue(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	// Still pending, so the next sweep picks it up again.
	assert.Equal(t, model.ReminderPending, repo.reminders[0].Status)
}

func TestDismissIsTerminal(t *testing.T) {
	rem := pendingReminder("Dolo 650", time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC))
	repo := &stubReminderRepo{reminders: []model.Reminder{rem}}
	svc := NewReminderService(repo, &recordingDispatcher{}, zerolog.Nop())

	require.NoError(t, svc.Dismiss(context.Background(), rem.ID))
	assert.Equal(t, model.ReminderDismissed, repo.reminders[0].Status)

	// Dismissed reminders disappear from the active list and the sweep.
	active, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)

	sent, err := svc.DispatchDue(context.Background(), time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestDismissUnknownReminder(t *testing.T) {
	svc := NewReminderService(&stubReminderRepo{}, &recordingDispatcher{}, zerolog.Nop())
	err := svc.Dismiss(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

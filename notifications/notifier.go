// Package notifications delivers due reminders to their owners.
package notifications

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/linesmerrill/pet-health-api/models"
)

// Notifier is called once for every reminder the scanner finds due
type Notifier interface {
	Notify(ctx context.Context, reminder models.Reminder) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, reminder models.Reminder) error

// Notify calls f
func (f NotifierFunc) Notify(ctx context.Context, reminder models.Reminder) error {
	return f(ctx, reminder)
}

// LogNotifier only logs due reminders. It is used when no email provider is
// configured.
type LogNotifier struct{}

// Notify logs the reminder
func (LogNotifier) Notify(_ context.Context, r models.Reminder) error {
	zap.S().Infow("reminder due",
		"reminderId", r.ID.Hex(),
		"userId", r.UserID,
		"petId", r.PetID,
		"title", r.Title,
		"reminderDate", r.ReminderDate,
		"priority", r.Priority)
	return nil
}

// Multi sends every reminder through each notifier in turn. A failing
// notifier does not stop the ones after it; all failures are returned joined.
type Multi []Notifier

// Notify calls every notifier
func (m Multi) Notify(ctx context.Context, r models.Reminder) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/pet-health-api/databases"
	"github.com/linesmerrill/pet-health-api/models"
	"github.com/linesmerrill/pet-health-api/notifications"
)

const (
	// ScanWindow is how far ahead each scheduled scan looks
	ScanWindow = time.Hour
	// DueNowWindow is the lookahead of the on-demand DueNow query
	DueNowWindow = 5 * time.Minute

	scanLockName = "due_reminder_scan"
	scanLockTTL  = 10 * time.Minute
	scanTimeout  = 5 * time.Minute

	// ReleaseLock runs on its own deadline, independent of scanTimeout
	lockReleaseTimeout = 10 * time.Second
)

// DueFinder queries incomplete reminders due in a time range
type DueFinder interface {
	FindDue(ctx context.Context, from, to time.Time) ([]models.Reminder, error)
}

// Scheduler periodically scans for reminders that are about to be due and
// hands each one to the notifier
type Scheduler struct {
	cron       *cron.Cron
	schedule   string
	Reminders  DueFinder
	LockDB     databases.SchedulerLockDatabase
	Notifier   notifications.Notifier
	Now        func() time.Time
	instanceID string
}

// NewScheduler creates a new scheduler instance. A nil lockDB runs every scan
// without coordinating with other instances.
func NewScheduler(
	schedule string,
	instanceID string,
	reminders DueFinder,
	lockDB databases.SchedulerLockDatabase,
	notifier notifications.Notifier,
) *Scheduler {
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		schedule:   schedule,
		Reminders:  reminders,
		LockDB:     lockDB,
		Notifier:   notifier,
		Now:        time.Now,
		instanceID: instanceID,
	}
}

// Start registers the scan job and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.scan); err != nil {
		return fmt.Errorf("failed to register due reminder scan %q: %w", s.schedule, err)
	}
	s.cron.Start()
	zap.S().Infow("reminder scheduler started",
		"schedule", s.schedule,
		"instance", s.instanceID)
	return nil
}

// Stop waits for a running scan to finish and stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("reminder scheduler stopped")
}

func (s *Scheduler) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	if s.LockDB != nil {
		acquired, err := s.LockDB.TryAcquireLock(ctx, scanLockName, s.instanceID, scanLockTTL)
		if err != nil {
			zap.S().Errorw("failed to acquire lock for due reminder scan", "error", err)
			return
		}
		if !acquired {
			zap.S().Debug("due reminder scan already running on another instance, skipping")
			return
		}
		defer func() {
			releaseCtx, releaseCancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
			defer releaseCancel()
			if err := s.LockDB.ReleaseLock(releaseCtx, scanLockName, s.instanceID); err != nil {
				zap.S().Warnw("failed to release due reminder scan lock", "error", err)
			}
		}()
	}

	if _, _, err := s.ScanOnce(ctx); err != nil {
		zap.S().Errorw("due reminder scan failed", "error", err)
	}
}

// ScanOnce runs one cycle: every reminder due within ScanWindow is sent to
// the notifier. A failed notification is logged and the rest of the batch
// still goes out.
func (s *Scheduler) ScanOnce(ctx context.Context) (notified, failed int, err error) {
	due, err := s.DueReminders(ctx, ScanWindow)
	if err != nil {
		return 0, 0, err
	}

	for _, r := range due {
		if err := s.notify(ctx, r); err != nil {
			failed++
			zap.S().Errorw("failed to notify due reminder",
				"reminderId", r.ID.Hex(),
				"userId", r.UserID,
				"error", err)
			continue
		}
		notified++
	}

	zap.S().Infow("due reminder scan finished",
		"instance", s.instanceID,
		"due", len(due),
		"notified", notified,
		"failed", failed)
	return notified, failed, nil
}

// DueReminders returns the incomplete reminders due between now and now+lookahead
func (s *Scheduler) DueReminders(ctx context.Context, lookahead time.Duration) ([]models.Reminder, error) {
	now := s.Now()
	due, err := s.Reminders.FindDue(ctx, now, now.Add(lookahead))
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	return due, nil
}

// DueNow returns the reminders due in the next five minutes
func (s *Scheduler) DueNow(ctx context.Context) ([]models.Reminder, error) {
	return s.DueReminders(ctx, DueNowWindow)
}

func (s *Scheduler) notify(ctx context.Context, r models.Reminder) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("notifier panicked: %v", p)
		}
	}()
	return s.Notifier.Notify(ctx, r)
}

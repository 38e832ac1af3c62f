package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/notification"
)

const purgeInterval = 6 * time.Hour

// NotificationJobs keeps the notifications table bounded. Unread rows are
// kept regardless of age.
type NotificationJobs struct {
	repo      notification.Repository
	retention time.Duration
	now       func() time.Time
}

func NewNotificationJobs(repo notification.Repository, retention time.Duration, now func() time.Time) *NotificationJobs {
	if now == nil {
		now = time.Now
	}
	return &NotificationJobs{
		repo:      repo,
		retention: retention,
		now:       now,
	}
}

// RegisterJobs adds the purge job unless retention is disabled (zero or negative).
func (j *NotificationJobs) RegisterJobs(scheduler *Scheduler) {
	if j.retention <= 0 {
		slog.Info("Notification retention disabled")
		return
	}
	scheduler.AddJob(Job{
		Name:       "purge_read_notifications",
		Interval:   purgeInterval,
		RunOnStart: true,
		Fn:         j.PurgeReadNotifications,
	})
}

// PurgeReadNotifications deletes read notifications older than the retention.
func (j *NotificationJobs) PurgeReadNotifications(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)
	deleted, err := j.repo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Purged read notifications", "deleted", deleted, "cutoff", cutoff)
	}
	return nil
}

package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionPurge drops login-session records past their expiry.
	// Activity logs are append-only and are never purged.
	TaskSessionPurge = "maintenance:purge_sessions"
)

// SessionPurger removes expired login-session rows.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewSessionPurgeTask constructs the purge task. It carries no payload;
// the cutoff is always the handler's current time.
func NewSessionPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskSessionPurge, nil)
}

// SessionPurgeHandler returns the asynq handler for TaskSessionPurge.
// metrics may be nil.
func SessionPurgeHandler(purger SessionPurger, logger *slog.Logger, metrics *Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		tracker := metrics.Track(TaskSessionPurge)
		removed, err := purger.PurgeExpiredSessions(ctx, time.Now())
		if err != nil {
			return tracker.End(err)
		}
		if logger != nil && removed > 0 {
			logger.Info("purged expired login sessions", slog.Int64("removed", removed))
		}
		return tracker.End(nil)
	}
}

package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionSweeper evicts stale live sessions.
type SessionSweeper interface {
	CleanupOldSessions(ctx context.Context) int
}

// ArchivePruner deletes archived games finished before the cutoff.
type ArchivePruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Worker struct {
	Sessions      SessionSweeper
	Archive       ArchivePruner
	Interval      time.Duration
	RetentionDays int

	logger *zap.Logger
	now    func() time.Time
}

// NewWorker builds a worker. A nil archive or a non-positive retention
// leaves the archive untouched.
func NewWorker(sessions SessionSweeper, archive ArchivePruner, interval time.Duration, retentionDays int, logger *zap.Logger) *Worker {
	return &Worker{
		Sessions:      sessions,
		Archive:       archive,
		Interval:      interval,
		RetentionDays: retentionDays,
		logger:        logger.Named("cleanup"),
		now:           time.Now,
	}
}

// Start runs one pass immediately, then every Interval until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("background worker started", zap.Duration("interval", w.Interval))
	w.RunOnce(ctx)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("background worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce executes the actual cleanup logic
func (w *Worker) RunOnce(ctx context.Context) {
	if removed := w.Sessions.CleanupOldSessions(ctx); removed > 0 {
		w.logger.Info("evicted stale sessions", zap.Int("count", removed))
	}

	if w.Archive == nil || w.RetentionDays <= 0 {
		return
	}
	cutoff := w.now().AddDate(0, 0, -w.RetentionDays)
	deleted, err := w.Archive.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		w.logger.Error("pruning archive", zap.Error(err))
		return
	}
	if deleted > 0 {
		w.logger.Info("pruned archived games", zap.Int64("count", deleted), zap.Time("cutoff", cutoff))
	}
}

package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/liker/internal/engagement"
	"github.com/five82/liker/internal/state"
)

const maxBackoff = 5 * time.Minute

// Source is the part of the widget the poller drives.
type Source interface {
	Sync(ctx context.Context) error
	Snapshot() engagement.State
}

// StartPoller launches a background goroutine that re-syncs the widget every
// interval, backing off while syncs keep failing. It returns immediately and
// does nothing when interval is not positive.
func StartPoller(ctx context.Context, store *state.Store, src Source, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, src, logger)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func refresh(ctx context.Context, store *state.Store, src Source, logger *zap.Logger) {
	err := src.Sync(ctx)
	if ctx.Err() != nil {
		return
	}
	st := src.Snapshot()
	store.Update(&st, err)
	if err != nil && logger != nil {
		logger.Warn("resync failed",
			zap.String("creator", st.Profile.ID),
			zap.Int("consecutive_failures", store.Snapshot().ConsecutiveFailures),
			zap.Error(err))
	}
}

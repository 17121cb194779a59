package engagement

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type likeMachine struct {
	mu    sync.Mutex
	state LikeState
	flush deferred
}

func (m *likeMachine) snapshot() LikeState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// reset records a server-side count as already sent, so a reload does not
// send the same likes twice.
func (m *likeMachine) reset(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Count = clampLike(count)
	m.state.Sent = m.state.Count
}

func (m *likeMachine) setTotal(total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Total = total
}

// take marks the unsent delta as sent and adds it to the total.
func (m *likeMachine) take() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	delta := m.state.Unsent()
	m.state.Sent += delta
	m.state.Total += delta
	return delta
}

// Like adds one like, capped at MaxLike, and restarts the quiet period after
// which the accumulated likes are sent in a single request.
func (w *Widget) Like() LikeState {
	w.like.mu.Lock()
	w.like.state.Count = clampLike(w.like.state.Count + 1)
	s := w.like.state
	w.like.mu.Unlock()

	w.like.flush.schedule(w.debounce, func() {
		w.flushLikes(w.ctx)
	})
	return s
}

// Flush sends any unsent likes now instead of waiting for the quiet period.
func (w *Widget) Flush(ctx context.Context) {
	w.like.flush.cancel()
	w.flushLikes(ctx)
}

// HasPendingLikes reports whether a delayed flush is armed.
func (w *Widget) HasPendingLikes() bool {
	return w.like.flush.pending()
}

// flushLikes posts the unsent delta. The total already includes the delta
// and is kept even when the request fails.
func (w *Widget) flushLikes(ctx context.Context) {
	delta := w.like.take()
	if delta <= 0 {
		return
	}
	if err := w.svc.PostLike(ctx, w.profile.ID, delta, w.metadata()); err != nil {
		w.logger.Warn("like flush failed",
			zap.String("op", "like"),
			zap.Int("delta", delta),
			zap.Error(err))
		return
	}
	w.logger.Debug("likes flushed", zap.Int("delta", delta))
}

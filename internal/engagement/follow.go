package engagement

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type followMachine struct {
	mu       sync.Mutex
	state    FollowState
	inFlight bool
}

func (m *followMachine) snapshot() FollowState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *followMachine) apply(followed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inFlight {
		m.state.Followed = followed
	}
}

func (m *followMachine) loaded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inFlight {
		m.state.Loading = false
	}
}

// ToggleFollow follows the creator. Followed is only set once the backend
// accepts. Calling it after a successful follow does nothing.
func (w *Widget) ToggleFollow(ctx context.Context) error {
	m := &w.follow
	m.mu.Lock()
	if m.state.Loading {
		m.mu.Unlock()
		return ErrBusy
	}
	if m.state.Followed {
		m.mu.Unlock()
		return nil
	}
	m.state.Loading = true
	m.inFlight = true
	m.mu.Unlock()

	err := w.svc.AddMyFollower(ctx, w.profile.ID, w.metadata())

	m.mu.Lock()
	m.state.Followed = err == nil
	m.state.Loading = false
	m.inFlight = false
	m.mu.Unlock()
	if err != nil {
		w.logger.Warn("follow failed", zap.String("op", "follow"), zap.Error(err))
	}
	return err
}

package engagement

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/liker/internal/likeco"
)

type bookmarkMachine struct {
	mu    sync.Mutex
	state BookmarkState
	// inFlight is set while a toggle owns the Loading guard; resyncs leave
	// the state alone until it settles.
	inFlight bool
}

func (m *bookmarkMachine) snapshot() BookmarkState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *bookmarkMachine) apply(b likeco.Bookmark) {
	if b.ID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return
	}
	m.state.ID = b.ID
	m.state.Bookmarked = true
}

func (m *bookmarkMachine) loaded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inFlight {
		m.state.Loading = false
	}
}

func (m *bookmarkMachine) settle() {
	m.state.Loading = false
	m.inFlight = false
}

// ToggleBookmark removes the bookmark when one is known and creates it
// otherwise. The flag flips before the request and flips back if it fails.
// It returns ErrBusy while another toggle or the first sync is pending.
func (w *Widget) ToggleBookmark(ctx context.Context) error {
	m := &w.bookmark
	m.mu.Lock()
	if m.state.Loading {
		m.mu.Unlock()
		return ErrBusy
	}
	m.state.Loading = true
	m.inFlight = true
	id := m.state.ID
	m.state.Bookmarked = id == ""
	m.mu.Unlock()

	meta := w.metadata()
	if id != "" {
		err := w.svc.DeleteMyBookmark(ctx, id, meta)
		m.mu.Lock()
		if err != nil {
			m.state.Bookmarked = true
		} else {
			m.state.ID = ""
		}
		m.settle()
		m.mu.Unlock()
		if err != nil {
			w.logger.Warn("bookmark delete failed", zap.String("op", "bookmark"), zap.Error(err))
		}
		return err
	}

	b, err := w.svc.AddMyBookmark(ctx, w.target.Referrer, meta)
	m.mu.Lock()
	if err != nil {
		m.state.Bookmarked = false
	} else {
		m.state.ID = b.ID
	}
	m.settle()
	m.mu.Unlock()
	if err != nil {
		w.logger.Warn("bookmark add failed", zap.String("op", "bookmark"), zap.Error(err))
	}
	return err
}

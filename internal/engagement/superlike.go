package engagement

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/liker/internal/likeco"
)

type superLikeMachine struct {
	mu    sync.Mutex
	state SuperLikeState
}

func (m *superLikeMachine) snapshot() SuperLikeState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *superLikeMachine) setParent(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.ParentSuperLikeID = id
}

// apply merges a status read. An empty history does not clear HasSuperLiked
// because the backend may lag behind a super like that already succeeded.
func (m *superLikeMachine) apply(st likeco.SuperLikeStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.IsSuperLiker = st.IsSuperLiker
	m.state.CanSuperLike = st.CanSuperLike
	if !m.state.HasSuperLiked {
		m.state.HasSuperLiked = len(st.LastSuperLikeInfos) > 0
	}
	m.state.NextSuperLikeAt = time.Time{}
	if st.NextSuperLikeTs > 0 {
		m.state.NextSuperLikeAt = time.UnixMilli(st.NextSuperLikeTs)
	}
	m.state.CooldownProgress = st.Cooldown
}

// SuperLike marks the super like as done right away and then asks the
// backend. On failure HasSuperLiked and CooldownProgress go back to their
// previous values; JustSuperLiked stays set.
func (w *Widget) SuperLike(ctx context.Context) error {
	w.superLike.mu.Lock()
	prevHas := w.superLike.state.HasSuperLiked
	prevCooldown := w.superLike.state.CooldownProgress
	w.superLike.state.HasSuperLiked = true
	w.superLike.state.JustSuperLiked = true
	w.superLike.state.CooldownProgress = 1
	parent := w.superLike.state.ParentSuperLikeID
	w.superLike.mu.Unlock()

	err := w.svc.PostSuperLike(ctx, w.profile.ID, likeco.SuperLikeRequest{
		Metadata:          w.metadata(),
		TZ:                w.timezone(),
		ParentSuperLikeID: parent,
	})
	if err != nil {
		w.superLike.mu.Lock()
		w.superLike.state.HasSuperLiked = prevHas
		w.superLike.state.CooldownProgress = prevCooldown
		w.superLike.mu.Unlock()
		w.logger.Warn("super like failed", zap.String("op", "superlike"), zap.Error(err))
		return err
	}
	return nil
}

// MarkCooldownClicked records that the viewer pressed the button during the
// cooldown, which switches the hint to "try again later".
func (w *Widget) MarkCooldownClicked() {
	w.superLike.mu.Lock()
	defer w.superLike.mu.Unlock()
	w.superLike.state.HasClickCooldown = true
}

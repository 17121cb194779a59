package engagement

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/liker/internal/likeco"
)

// Sync refreshes the viewer session and counters. The viewer status, the
// viewer's own like count and the total like count are fetched concurrently
// and all three are waited for. A failure is logged and returned; the state
// keeps whatever the successful reads applied. Synced is set either way.
func (w *Widget) Sync(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		w.synced = true
		w.mu.Unlock()
	}()

	meta := w.metadata()
	var g errgroup.Group
	g.Go(func() error { return w.syncViewer(ctx, meta) })
	g.Go(func() error { return w.syncSelfCount(ctx) })
	g.Go(func() error { return w.syncTotal(ctx) })
	if err := g.Wait(); err != nil {
		w.logger.Warn("status sync failed", zap.String("op", "sync"), zap.Error(err))
		return err
	}
	return nil
}

func (w *Widget) syncViewer(ctx context.Context, meta likeco.Metadata) error {
	st, err := w.svc.GetLikeButtonMyStatus(ctx, w.profile.ID, meta)
	if err != nil {
		return fmt.Errorf("viewer status: %w", err)
	}

	session := ViewerSession{
		Liker:             st.Liker,
		IsLoggedIn:        st.Liker != "",
		IsCreator:         st.Liker != "" && st.Liker == w.profile.ID,
		IsSubscribed:      st.IsSubscribed,
		IsTrialSubscriber: st.IsTrialSubscriber,
		CivicLikerVersion: st.CivicLikerVersion,
	}
	w.mu.Lock()
	w.session = session
	if w.cookieSupported && st.ServerCookieSupported != nil {
		w.cookieSupported = *st.ServerCookieSupported
	}
	w.mu.Unlock()

	if session.IsLoggedIn {
		w.syncViewerDetails(ctx, session)
	}
	w.bookmark.loaded()
	w.follow.loaded()
	return nil
}

// syncViewerDetails runs the lookups that need a signed-in viewer. None of
// them can fail the sync: a failed lookup leaves its slice at the default.
func (w *Widget) syncViewerDetails(ctx context.Context, session ViewerSession) {
	var (
		g         errgroup.Group
		superLike bestEffort[likeco.SuperLikeStatus]
		bookmark  bestEffort[likeco.Bookmark]
		follow    bestEffort[likeco.FollowStatus]
		support   bestEffort[likeco.SupportingUser]
		identity  error
	)
	g.Go(func() error {
		superLike = attempt(func() (likeco.SuperLikeStatus, error) {
			return w.svc.GetSuperLikeMyStatus(ctx, w.timezone(), w.target.Referrer)
		})
		return nil
	})
	g.Go(func() error {
		identity = w.tracker.SetUser(ctx, session.Liker)
		return nil
	})
	g.Go(func() error {
		bookmark = attempt(func() (likeco.Bookmark, error) {
			return w.svc.GetMyBookmark(ctx, w.target.Referrer)
		})
		return nil
	})
	g.Go(func() error {
		follow = attempt(func() (likeco.FollowStatus, error) {
			return w.svc.GetMyFollower(ctx, w.profile.ID)
		})
		return nil
	})
	if session.CivicLikerVersion == SupportTierV2 {
		g.Go(func() error {
			support = attempt(func() (likeco.SupportingUser, error) {
				return w.svc.GetSupportingUserByID(ctx, w.profile.ID)
			})
			return nil
		})
	}
	_ = g.Wait()

	if superLike.ok() {
		w.superLike.apply(superLike.value)
	} else {
		w.logger.Debug("super like status unavailable", zap.Error(superLike.err))
	}
	if identity != nil {
		w.logger.Debug("tracker identity failed", zap.Error(identity))
	}
	if bookmark.ok() {
		w.bookmark.apply(bookmark.value)
	}
	if follow.ok() {
		w.follow.apply(follow.value.IsFollowed)
	}
	if session.CivicLikerVersion == SupportTierV2 {
		w.mu.Lock()
		w.support.Quantity = support.orDefault(likeco.SupportingUser{Quantity: w.support.Quantity}).Quantity
		w.mu.Unlock()
	}
}

func (w *Widget) syncSelfCount(ctx context.Context) error {
	sc, err := w.svc.GetLikeButtonSelfCount(ctx, w.profile.ID, w.target.Referrer)
	if err != nil {
		return fmt.Errorf("self count: %w", err)
	}
	w.mu.Lock()
	if w.session.Liker == "" {
		w.session.Liker = sc.Liker
		w.session.IsLoggedIn = sc.Liker != ""
	}
	w.mu.Unlock()
	w.like.reset(sc.Count)
	return nil
}

func (w *Widget) syncTotal(ctx context.Context) error {
	tc, err := w.svc.GetLikeButtonTotalCount(ctx, w.profile.ID, w.target.Referrer)
	if err != nil {
		return fmt.Errorf("total count: %w", err)
	}
	w.like.setTotal(tc.Total)
	return nil
}

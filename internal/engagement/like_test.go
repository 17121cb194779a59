package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/liker/internal/likeco"
)

func TestLike_NeverExceedsMax(t *testing.T) {
	w := newTestWidget(t, &fakeService{})

	for i := 0; i < 12; i++ {
		s := w.Like()
		assert.LessOrEqual(t, s.Count, MaxLike)
	}
	assert.Equal(t, MaxLike, w.Snapshot().Like.Count)
	assert.True(t, w.Snapshot().IsMaxLike())
}

func TestLike_RapidClicksCoalesceIntoOneFlush(t *testing.T) {
	svc := &fakeService{}
	w := newTestWidget(t, svc, func(o *Options) { o.LikeDebounce = 100 * time.Millisecond })
	w.like.setTotal(10)

	for i := 0; i < 3; i++ {
		w.Like()
		time.Sleep(20 * time.Millisecond)
	}
	assert.Zero(t, svc.count("PostLike"), "flush must wait for the quiet period")

	require.Eventually(t, func() bool { return svc.count("PostLike") == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)

	calls := svc.likeCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 3, calls[0].Count)
	assert.Equal(t, "alice", calls[0].ID)
	assert.Equal(t, "session-1", calls[0].Meta.SessionID)

	s := w.Snapshot().Like
	assert.Equal(t, 3, s.Sent)
	assert.Equal(t, 13, s.Total)
	assert.Zero(t, s.Unsent())
}

func TestLike_FailedFlushKeepsOptimisticTotal(t *testing.T) {
	svc := &fakeService{postLike: func() error { return errBackend }}
	w := newTestWidget(t, svc)

	w.Like()
	w.Like()
	w.Flush(context.Background())

	s := w.Snapshot().Like
	assert.Equal(t, 1, svc.count("PostLike"))
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 2, s.Sent)
}

func TestFlush_CancelsPendingAndSkipsEmptyDelta(t *testing.T) {
	svc := &fakeService{}
	w := newTestWidget(t, svc, func(o *Options) { o.LikeDebounce = time.Hour })

	w.Like()
	assert.True(t, w.HasPendingLikes())
	w.Flush(context.Background())
	assert.False(t, w.HasPendingLikes())
	assert.Equal(t, 1, svc.count("PostLike"))

	w.Flush(context.Background())
	assert.Equal(t, 1, svc.count("PostLike"), "nothing unsent means no request")
}

func TestClose_DropsPendingFlush(t *testing.T) {
	svc := &fakeService{}
	w := newTestWidget(t, svc, func(o *Options) { o.LikeDebounce = 30 * time.Millisecond })

	w.Like()
	w.Close()
	time.Sleep(80 * time.Millisecond)

	assert.Zero(t, svc.count("PostLike"))
	w.Like()
	assert.False(t, w.HasPendingLikes(), "closed widget does not arm new flushes")
}

func TestLike_FlushAfterSyncOnlySendsNewLikes(t *testing.T) {
	svc := &fakeService{}
	svc.selfCount = func() (likeco.SelfCount, error) { return likeco.SelfCount{Count: 2}, nil }
	w := newTestWidget(t, svc)
	require.NoError(t, w.Sync(context.Background()))

	w.Like()
	w.Flush(context.Background())

	calls := svc.likeCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 1, calls[0].Count)
}

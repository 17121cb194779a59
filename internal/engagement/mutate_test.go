package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/liker/internal/likeco"
)

// syncedWidget returns a widget whose bookmark and follow machines are unlocked.
func syncedWidget(t *testing.T, svc *fakeService) *Widget {
	t.Helper()
	if svc.myStatus == nil {
		svc.myStatus = signedIn("bob", 1)
	}
	w := newTestWidget(t, svc, func(o *Options) { o.Cookies = fakeCookies{parent: "chain-1"} })
	require.NoError(t, w.Mount(context.Background()))
	return w
}

func TestSuperLike_Success(t *testing.T) {
	svc := &fakeService{}
	w := syncedWidget(t, svc)

	require.NoError(t, w.SuperLike(context.Background()))

	s := w.Snapshot().SuperLike
	assert.True(t, s.HasSuperLiked)
	assert.True(t, s.JustSuperLiked)
	assert.Equal(t, 1.0, s.CooldownProgress)

	require.Len(t, svc.super, 1)
	assert.Equal(t, "chain-1", svc.super[0].ParentSuperLikeID)
	assert.Equal(t, w.timezone(), svc.super[0].TZ)
	assert.Equal(t, "https://blog.example/post", svc.super[0].Referrer)
}

func TestSuperLike_RejectedRestoresPreviousValues(t *testing.T) {
	svc := &fakeService{
		superStat: func() (likeco.SuperLikeStatus, error) {
			return likeco.SuperLikeStatus{CanSuperLike: true, Cooldown: 0}, nil
		},
		postSuper: func() error { return errBackend },
	}
	w := syncedWidget(t, svc)
	before := w.Snapshot().SuperLike
	require.False(t, before.HasSuperLiked)

	err := w.SuperLike(context.Background())
	require.ErrorIs(t, err, errBackend)

	after := w.Snapshot().SuperLike
	assert.Equal(t, before.HasSuperLiked, after.HasSuperLiked)
	assert.Equal(t, before.CooldownProgress, after.CooldownProgress)
	assert.True(t, after.JustSuperLiked, "just super liked is not rolled back")
}

func TestMarkCooldownClicked(t *testing.T) {
	w := newTestWidget(t, &fakeService{})
	w.MarkCooldownClicked()
	assert.True(t, w.Snapshot().SuperLike.HasClickCooldown)
}

func TestToggleBookmark_AddThenDelete(t *testing.T) {
	svc := &fakeService{}
	w := syncedWidget(t, svc)

	require.NoError(t, w.ToggleBookmark(context.Background()))
	assert.Equal(t, BookmarkState{Bookmarked: true, ID: "bm-1"}, w.Snapshot().Bookmark)

	require.NoError(t, w.ToggleBookmark(context.Background()))
	assert.Equal(t, BookmarkState{}, w.Snapshot().Bookmark)
	assert.Equal(t, 1, svc.count("AddMyBookmark"))
	assert.Equal(t, 1, svc.count("DeleteMyBookmark"))
}

func TestToggleBookmark_AddFailureReverts(t *testing.T) {
	svc := &fakeService{addBook: func(context.Context) (likeco.Bookmark, error) {
		return likeco.Bookmark{}, errBackend
	}}
	w := syncedWidget(t, svc)

	require.ErrorIs(t, w.ToggleBookmark(context.Background()), errBackend)
	assert.Equal(t, BookmarkState{}, w.Snapshot().Bookmark)
}

func TestToggleBookmark_DeleteFailureKeepsBookmark(t *testing.T) {
	svc := &fakeService{
		getBook: func() (likeco.Bookmark, error) { return likeco.Bookmark{ID: "bm-3"}, nil },
		delBook: func() error { return errBackend },
	}
	w := syncedWidget(t, svc)

	require.ErrorIs(t, w.ToggleBookmark(context.Background()), errBackend)
	assert.Equal(t, BookmarkState{Bookmarked: true, ID: "bm-3"}, w.Snapshot().Bookmark)
}

func TestToggleBookmark_BusyWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	svc := &fakeService{addBook: func(context.Context) (likeco.Bookmark, error) {
		close(entered)
		<-release
		return likeco.Bookmark{ID: "bm-2"}, nil
	}}
	w := syncedWidget(t, svc)

	done := make(chan error, 1)
	go func() { done <- w.ToggleBookmark(context.Background()) }()
	<-entered

	during := w.Snapshot().Bookmark
	assert.True(t, during.Loading)
	assert.True(t, during.Bookmarked, "flag flips before the request settles")
	assert.ErrorIs(t, w.ToggleBookmark(context.Background()), ErrBusy)
	assert.Equal(t, during, w.Snapshot().Bookmark, "rejected toggle leaves state untouched")

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("toggle did not finish")
	}
	assert.Equal(t, 1, svc.count("AddMyBookmark"))
	assert.Equal(t, BookmarkState{Bookmarked: true, ID: "bm-2"}, w.Snapshot().Bookmark)
}

func TestToggleFollow_ConfirmThenCommit(t *testing.T) {
	svc := &fakeService{}
	w := syncedWidget(t, svc)

	require.NoError(t, w.ToggleFollow(context.Background()))
	assert.Equal(t, FollowState{Followed: true}, w.Snapshot().Follow)

	for i := 0; i < 3; i++ {
		require.NoError(t, w.ToggleFollow(context.Background()))
	}
	assert.Equal(t, 1, svc.count("AddMyFollower"), "following again is a no-op")
	assert.True(t, w.Snapshot().Follow.Followed)
}

func TestToggleFollow_FailureLeavesUnfollowed(t *testing.T) {
	svc := &fakeService{addFollow: func() error { return errBackend }}
	w := syncedWidget(t, svc)

	require.ErrorIs(t, w.ToggleFollow(context.Background()), errBackend)
	assert.Equal(t, FollowState{}, w.Snapshot().Follow)
}

func TestMachinesDoNotBlockEachOther(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	svc := &fakeService{addBook: func(context.Context) (likeco.Bookmark, error) {
		close(entered)
		<-release
		return likeco.Bookmark{ID: "bm-4"}, nil
	}}
	w := syncedWidget(t, svc)

	done := make(chan error, 1)
	go func() { done <- w.ToggleBookmark(context.Background()) }()
	<-entered

	require.NoError(t, w.ToggleFollow(context.Background()))
	require.NoError(t, w.SuperLike(context.Background()))
	w.Like()

	close(release)
	require.NoError(t, <-done)
	s := w.Snapshot()
	assert.True(t, s.Follow.Followed)
	assert.True(t, s.SuperLike.HasSuperLiked)
	assert.Equal(t, 1, s.Like.Count)
}

func TestResyncDuringBookmarkDeleteKeepsGuard(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	svc := &fakeService{
		getBook: func() (likeco.Bookmark, error) { return likeco.Bookmark{ID: "bm-5"}, nil },
		delBook: func() error {
			close(entered)
			<-release
			return nil
		},
	}
	w := syncedWidget(t, svc)

	done := make(chan error, 1)
	go func() { done <- w.ToggleBookmark(context.Background()) }()
	<-entered

	require.NoError(t, w.Sync(context.Background()))
	during := w.Snapshot().Bookmark
	assert.True(t, during.Loading, "resync must not release the in-flight guard")
	assert.False(t, during.Bookmarked, "resync must not overwrite the optimistic delete")
	assert.ErrorIs(t, w.ToggleBookmark(context.Background()), ErrBusy)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("toggle did not finish")
	}
	assert.Equal(t, 1, svc.count("DeleteMyBookmark"))
	assert.Equal(t, 0, svc.count("AddMyBookmark"))
	assert.Equal(t, BookmarkState{}, w.Snapshot().Bookmark)
}

func TestResyncDuringFollowKeepsGuard(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	svc := &fakeService{addFollow: func() error {
		close(entered)
		<-release
		return nil
	}}
	w := syncedWidget(t, svc)

	done := make(chan error, 1)
	go func() { done <- w.ToggleFollow(context.Background()) }()
	<-entered

	require.NoError(t, w.Sync(context.Background()))
	assert.True(t, w.Snapshot().Follow.Loading)
	assert.ErrorIs(t, w.ToggleFollow(context.Background()), ErrBusy)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("follow did not finish")
	}
	assert.Equal(t, 1, svc.count("AddMyFollower"))
	assert.Equal(t, FollowState{Followed: true}, w.Snapshot().Follow)
}

func TestResyncAfterToggleSettlesRefreshesState(t *testing.T) {
	svc := &fakeService{}
	w := syncedWidget(t, svc)
	require.NoError(t, w.ToggleBookmark(context.Background()))

	svc.getBook = func() (likeco.Bookmark, error) { return likeco.Bookmark{ID: "bm-9"}, nil }
	require.NoError(t, w.Sync(context.Background()))
	assert.Equal(t, BookmarkState{Bookmarked: true, ID: "bm-9"}, w.Snapshot().Bookmark)
}

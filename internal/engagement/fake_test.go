package engagement

import (
	"context"
	"errors"
	"sync"

	"github.com/five82/liker/internal/likeco"
)

var errBackend = errors.New("backend unavailable")

type likeCall struct {
	ID    string
	Count int
	Meta  likeco.Metadata
}

// fakeService serves canned responses and records the mutating calls.
// Any hook left nil returns the zero value.
type fakeService struct {
	mu    sync.Mutex
	calls map[string]int
	likes []likeCall
	super []likeco.SuperLikeRequest

	user      func(id string) (likeco.UserMin, error)
	myStatus  func() (likeco.MyStatus, error)
	selfCount func() (likeco.SelfCount, error)
	total     func() (likeco.TotalCount, error)
	postLike  func() error
	superStat func() (likeco.SuperLikeStatus, error)
	postSuper func() error
	getBook   func() (likeco.Bookmark, error)
	addBook   func(ctx context.Context) (likeco.Bookmark, error)
	delBook   func() error
	getFollow func() (likeco.FollowStatus, error)
	addFollow func() error
	support   func() (likeco.SupportingUser, error)
}

var _ likeco.Service = (*fakeService)(nil)

func (f *fakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeService) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeService) likeCalls() []likeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]likeCall(nil), f.likes...)
}

func (f *fakeService) GetUserMinByID(_ context.Context, id string) (likeco.UserMin, error) {
	f.record("GetUserMinByID")
	if f.user == nil {
		return likeco.UserMin{User: id}, nil
	}
	return f.user(id)
}

func (f *fakeService) GetLikeButtonMyStatus(context.Context, string, likeco.Metadata) (likeco.MyStatus, error) {
	f.record("GetLikeButtonMyStatus")
	if f.myStatus == nil {
		return likeco.MyStatus{}, nil
	}
	return f.myStatus()
}

func (f *fakeService) GetLikeButtonSelfCount(context.Context, string, string) (likeco.SelfCount, error) {
	f.record("GetLikeButtonSelfCount")
	if f.selfCount == nil {
		return likeco.SelfCount{}, nil
	}
	return f.selfCount()
}

func (f *fakeService) GetLikeButtonTotalCount(context.Context, string, string) (likeco.TotalCount, error) {
	f.record("GetLikeButtonTotalCount")
	if f.total == nil {
		return likeco.TotalCount{}, nil
	}
	return f.total()
}

func (f *fakeService) PostLike(_ context.Context, id string, count int, meta likeco.Metadata) error {
	f.record("PostLike")
	f.mu.Lock()
	f.likes = append(f.likes, likeCall{ID: id, Count: count, Meta: meta})
	f.mu.Unlock()
	if f.postLike == nil {
		return nil
	}
	return f.postLike()
}

func (f *fakeService) GetSuperLikeMyStatus(context.Context, string, string) (likeco.SuperLikeStatus, error) {
	f.record("GetSuperLikeMyStatus")
	if f.superStat == nil {
		return likeco.SuperLikeStatus{}, nil
	}
	return f.superStat()
}

func (f *fakeService) PostSuperLike(_ context.Context, _ string, req likeco.SuperLikeRequest) error {
	f.record("PostSuperLike")
	f.mu.Lock()
	f.super = append(f.super, req)
	f.mu.Unlock()
	if f.postSuper == nil {
		return nil
	}
	return f.postSuper()
}

func (f *fakeService) GetMyBookmark(context.Context, string) (likeco.Bookmark, error) {
	f.record("GetMyBookmark")
	if f.getBook == nil {
		return likeco.Bookmark{}, nil
	}
	return f.getBook()
}

func (f *fakeService) AddMyBookmark(ctx context.Context, _ string, _ likeco.Metadata) (likeco.Bookmark, error) {
	f.record("AddMyBookmark")
	if f.addBook == nil {
		return likeco.Bookmark{ID: "bm-1"}, nil
	}
	return f.addBook(ctx)
}

func (f *fakeService) DeleteMyBookmark(context.Context, string, likeco.Metadata) error {
	f.record("DeleteMyBookmark")
	if f.delBook == nil {
		return nil
	}
	return f.delBook()
}

func (f *fakeService) GetMyFollower(context.Context, string) (likeco.FollowStatus, error) {
	f.record("GetMyFollower")
	if f.getFollow == nil {
		return likeco.FollowStatus{}, nil
	}
	return f.getFollow()
}

func (f *fakeService) AddMyFollower(context.Context, string, likeco.Metadata) error {
	f.record("AddMyFollower")
	if f.addFollow == nil {
		return nil
	}
	return f.addFollow()
}

func (f *fakeService) GetSupportingUserByID(context.Context, string) (likeco.SupportingUser, error) {
	f.record("GetSupportingUserByID")
	if f.support == nil {
		return likeco.SupportingUser{}, nil
	}
	return f.support()
}

type fakeCookies struct {
	supported bool
	parent    string
}

func (c fakeCookies) Supported(context.Context) bool { return c.supported }
func (c fakeCookies) ParentSuperLikeID() string      { return c.parent }

type recordingTracker struct {
	mu     sync.Mutex
	users  []string
	events []string
}

func (t *recordingTracker) SetUser(_ context.Context, liker string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.users = append(t.users, liker)
	return nil
}

func (t *recordingTracker) Event(_ context.Context, _, action, _ string, _ int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, action)
}

package engagement

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/liker/internal/likeco"
)

const defaultLikeDebounce = 500 * time.Millisecond

// ErrBusy is returned when a toggle is rejected because the previous request
// for the same state machine has not settled yet. State is left untouched.
var ErrBusy = errors.New("engagement: request already in flight")

// CookieSource answers the cookie capability questions.
type CookieSource interface {
	Supported(ctx context.Context) bool
	ParentSuperLikeID() string
}

// Options configure a Widget.
type Options struct {
	Service likeco.Service
	Target  Target
	Cookies CookieSource // nil means cookies are unsupported
	Tracker Tracker      // nil disables analytics
	Logger  *zap.Logger

	LikeDebounce time.Duration // zero uses 500ms
	SessionID    string        // empty generates a random id
	Clock        func() time.Time
}

// Widget owns the engagement state for one creator and one viewer. Each of
// the like, super like, bookmark and follow machines guards only its own
// slice, so their requests may be in flight at the same time.
type Widget struct {
	svc       likeco.Service
	target    Target
	profile   Profile
	sessionID string
	cookies   CookieSource
	tracker   Tracker
	logger    *zap.Logger
	clock     func() time.Time
	debounce  time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu              sync.Mutex
	session         ViewerSession
	support         SupportState
	cookieSupported bool
	synced          bool

	like      likeMachine
	superLike superLikeMachine
	bookmark  bookmarkMachine
	follow    followMachine
}

// New creates a Widget for an already loaded profile.
func New(profile Profile, opts Options) (*Widget, error) {
	if opts.Service == nil {
		return nil, errors.New("engagement: service is required")
	}
	target := NormalizeTarget(opts.Target)
	if target.CreatorID == "" {
		target.CreatorID = profile.ID
	}
	if target.Amount == 0 {
		target.Amount = profile.Amount
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracker := opts.Tracker
	if tracker == nil {
		tracker = nopTracker{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	debounce := opts.LikeDebounce
	if debounce <= 0 {
		debounce = defaultLikeDebounce
	}
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Widget{
		svc:       opts.Service,
		target:    target,
		profile:   profile,
		sessionID: sessionID,
		cookies:   opts.Cookies,
		tracker:   tracker,
		logger:    logger.With(zap.String("creator", profile.ID), zap.String("session", sessionID)),
		clock:     clock,
		debounce:  debounce,
		ctx:       ctx,
		cancel:    cancel,
	}
	w.bookmark.state.Loading = true
	return w, nil
}

// Mount probes cookie support, picks up the super like chain id and runs the
// first status sync.
func (w *Widget) Mount(ctx context.Context) error {
	if w.cookies != nil {
		supported := w.cookies.Supported(ctx)
		w.mu.Lock()
		w.cookieSupported = supported
		w.mu.Unlock()
		w.superLike.setParent(w.cookies.ParentSuperLikeID())
	}
	return w.Sync(ctx)
}

// Target returns the normalized target.
func (w *Widget) Target() Target { return w.target }

// Profile returns the creator profile.
func (w *Widget) Profile() Profile { return w.profile }

// SessionID returns the per-instance session id sent with every request.
func (w *Widget) SessionID() string { return w.sessionID }

// Snapshot returns a copy of the current state.
func (w *Widget) Snapshot() State {
	w.mu.Lock()
	s := State{
		Profile:         w.profile,
		Session:         w.session,
		Support:         w.support,
		SessionID:       w.sessionID,
		CookieSupported: w.cookieSupported,
		Synced:          w.synced,
	}
	w.mu.Unlock()

	s.Like = w.like.snapshot()
	s.SuperLike = w.superLike.snapshot()
	s.Bookmark = w.bookmark.snapshot()
	s.Follow = w.follow.snapshot()
	return s
}

// Close drops a pending like flush, aborts in-flight background requests and
// waits for them to return. Call Flush first to keep unsent likes.
func (w *Widget) Close() {
	w.cancel()
	w.like.flush.close()
}

// metadata builds the attribution payload attached to mutating calls.
func (w *Widget) metadata() likeco.Metadata {
	w.mu.Lock()
	cookie := w.cookieSupported
	w.mu.Unlock()
	return likeco.Metadata{
		DocumentReferrer: w.target.DocumentReferrer,
		SessionID:        w.sessionID,
		Type:             w.target.ButtonType,
		Integration:      w.target.Integration,
		Referrer:         w.target.Referrer,
		IsCookieSupport:  cookie,
	}
}

// timezone is the local UTC offset in hours, e.g. "8", "-5" or "5.5".
func (w *Widget) timezone() string {
	return timezoneOffset(w.clock())
}

func timezoneOffset(t time.Time) string {
	_, offset := t.Zone()
	return strconv.FormatFloat(float64(offset)/3600, 'f', -1, 64)
}

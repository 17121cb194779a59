// Package cookieprobe decides whether cookies can carry like attribution in the
// current environment.
package cookieprobe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

const (
	// MarkerCookie is set after every probe so later runs can skip the work.
	MarkerCookie = "likebutton_cookie"
	// SuperLikeIDCookie holds the referral chain id set by the super like flow.
	SuperLikeIDCookie = "likebutton_superlike_id"
)

// Store is the cookie storage the probe inspects.
type Store interface {
	CheckAccess(ctx context.Context) error
	Get(u *url.URL, name string) (string, bool)
	Set(u *url.URL, c *http.Cookie)
}

// Probe checks storage access, tracking protection and the cookie switch.
type Probe struct {
	Store Store
	// Host is the origin the button's cookies belong to.
	Host *url.URL
	// Enabled mirrors navigator.cookieEnabled.
	Enabled bool
	// StrictTracking reports a tracking-protection mode known to drop
	// cross-site cookies at random.
	StrictTracking func() bool
	Logger         *zap.Logger
}

// Supported reports whether cookies are usable. Any failure while probing is
// treated as "not supported".
func (p *Probe) Supported(ctx context.Context) (ok bool) {
	logger := p.logger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("cookie probe panicked", zap.Any("panic", r))
			ok = false
		}
	}()

	if p.Store == nil || p.Host == nil {
		return false
	}
	access, err := p.hasStorageAccess(ctx)
	if err != nil {
		logger.Warn("storage access check failed", zap.Error(err))
		return false
	}
	strict := p.StrictTracking != nil && p.StrictTracking()
	ok = p.Enabled && access && !strict

	p.Store.Set(p.Host, &http.Cookie{Name: MarkerCookie, Value: "1", Path: "/"})
	logger.Debug("cookie probe finished",
		zap.Bool("storage_access", access),
		zap.Bool("strict_tracking", strict),
		zap.Bool("enabled", p.Enabled),
		zap.Bool("supported", ok))
	return ok
}

// ParentSuperLikeID returns the super like chain id, or "" when cookies are
// off or the cookie was never set. It never writes the cookie.
func (p *Probe) ParentSuperLikeID() string {
	if p == nil || !p.Enabled || p.Store == nil || p.Host == nil {
		return ""
	}
	v, _ := p.Store.Get(p.Host, SuperLikeIDCookie)
	return v
}

func (p *Probe) hasStorageAccess(ctx context.Context) (bool, error) {
	if err := p.Store.CheckAccess(ctx); err != nil {
		return false, fmt.Errorf("cookie store: %w", err)
	}
	return true, nil
}

func (p *Probe) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

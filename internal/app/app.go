package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/five82/liker/internal/config"
	"github.com/five82/liker/internal/cookieprobe"
	"github.com/five82/liker/internal/cookiestore"
	"github.com/five82/liker/internal/engagement"
	"github.com/five82/liker/internal/likeco"
	"github.com/five82/liker/internal/logging"
	"github.com/five82/liker/internal/opener"
	"github.com/five82/liker/internal/prefs"
	"github.com/five82/liker/internal/state"
	"github.com/five82/liker/internal/ui"
)

// Options configure a liker session.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/liker/prefs.toml
	Target     engagement.Target
	Verbose    bool
	// Stderr mirrors logs to stderr. Leave it off for the terminal UI.
	Stderr bool
	// Opener overrides the system browser.
	Opener opener.Opener
}

// Session is one mounted button with everything it depends on.
type Session struct {
	Config  config.Config
	Prefs   prefs.Prefs
	Logger  *zap.Logger
	Cookies *cookiestore.Jar
	Client  *likeco.Client
	Probe   *cookieprobe.Probe
	Widget  *engagement.Widget
	Store   *state.Store
	Links   engagement.Links
	Opener  opener.Opener
}

// Open loads configuration, resolves the creator profile and mounts the
// widget. A missing creator is returned as *engagement.NotFoundError. A failed
// first sync is logged and recorded in the store, not returned.
func Open(ctx context.Context, opts Options) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load liker config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Dir:     cfg.LogDir,
		Stderr:  opts.Stderr,
		Verbose: opts.Verbose,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		Config: cfg,
		Prefs:  prefs.Load(opts.PrefsPath),
		Logger: logger,
		Store:  &state.Store{},
		Opener: opts.Opener,
	}
	if s.Opener == nil {
		s.Opener = opener.Browser{Logger: logger}
	}
	if err := s.mount(ctx, opts.Target); err != nil {
		s.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Session) mount(ctx context.Context, target engagement.Target) error {
	cfg := s.Config

	jar, err := cookiestore.Open(cfg.CookieDBPath(), s.Logger.Named("cookies"))
	if err != nil {
		return fmt.Errorf("open cookie store: %w", err)
	}
	s.Cookies = jar

	client, err := likeco.NewClient(cfg.APIBase, likeco.Options{
		AuthToken: cfg.AuthToken,
		Jar:       jar,
		Timeout:   cfg.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("init likeco client: %w", err)
	}
	s.Client = client

	s.Probe = &cookieprobe.Probe{
		Store:          jar,
		Host:           &url.URL{Scheme: "https", Host: cfg.LikeCoHost, Path: "/"},
		Enabled:        cfg.CookiesEnabled,
		StrictTracking: func() bool { return cfg.StrictTrackingProtection },
		Logger:         s.Logger.Named("cookieprobe"),
	}

	profile, err := engagement.LoadProfile(ctx, client, target)
	if err != nil {
		s.Logger.Warn("creator profile unavailable",
			zap.String("creator", target.CreatorID),
			zap.Error(err))
		return err
	}

	widget, err := engagement.New(profile, engagement.Options{
		Service:      client,
		Target:       target,
		Cookies:      s.Probe,
		Tracker:      engagement.LogTracker{Logger: s.Logger.Named("analytics")},
		Logger:       s.Logger.Named("widget"),
		LikeDebounce: cfg.LikeDebounce,
	})
	if err != nil {
		return fmt.Errorf("create widget: %w", err)
	}
	s.Widget = widget
	s.Links = widget.Links(engagement.Hosts{
		LikeCo:    cfg.LikeCoHost,
		LikerLand: cfg.LikerLandURL,
		Button:    cfg.ButtonBase,
	})

	syncErr := widget.Mount(ctx)
	st := widget.Snapshot()
	s.Store.Update(&st, syncErr)
	s.Logger.Info("button mounted",
		zap.String("creator", profile.ID),
		zap.String("viewer", st.Session.Liker),
		zap.Bool("cookies", st.CookieSupported),
		zap.Bool("synced_ok", syncErr == nil))
	return nil
}

// Close sends any pending likes, stops background work and releases the
// cookie database.
func (s *Session) Close(ctx context.Context) {
	if s == nil {
		return
	}
	if s.Widget != nil {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.Config.RequestTimeout)
		s.Widget.Flush(flushCtx)
		cancel()
		s.Widget.Close()
	}
	if s.Cookies != nil {
		if err := s.Cookies.Close(); err != nil {
			s.Logger.Warn("close cookie store", zap.Error(err))
		}
	}
	if s.Logger != nil {
		_ = s.Logger.Sync()
	}
}

// Run boots the liker TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	s, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	pollCtx, stop := context.WithCancel(ctx)
	defer stop()
	StartPoller(pollCtx, s.Store, s.Widget, s.Config.ResyncInterval, s.Logger.Named("poller"))

	if s.Prefs.LastCreator != s.Widget.Profile().ID {
		s.Prefs.LastCreator = s.Widget.Profile().ID
		if err := prefs.Save(opts.PrefsPath, s.Prefs); err != nil {
			s.Logger.Warn("save prefs", zap.Error(err))
		}
	}

	err = ui.Run(ui.Options{
		Context:   ctx,
		Widget:    s.Widget,
		Store:     s.Store,
		Links:     s.Links,
		Opener:    s.Opener,
		Prefs:     s.Prefs,
		PrefsPath: opts.PrefsPath,
		LogPath:   s.Config.LogPath(),
		Logger:    s.Logger.Named("ui"),
		PollTick:  time.Second,
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Package opener sends the button's outbound links to the system browser.
package opener

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/browser"
	"go.uber.org/zap"
)

// Popup describes the window a link would open in on the web.
type Popup struct {
	Name   string
	Width  int
	Height int
	// Chrome is true when the menubar and location bar are shown.
	Chrome bool
}

// Features renders the window.open feature string.
func (p Popup) Features() string {
	var parts []string
	if !p.Chrome {
		parts = append(parts, "menubar=no", "location=no")
	}
	if p.Width > 0 {
		parts = append(parts, "width="+strconv.Itoa(p.Width))
	}
	if p.Height > 0 {
		parts = append(parts, "height="+strconv.Itoa(p.Height))
	}
	return strings.Join(parts, ",")
}

// Presets for each flow.
var (
	SignUp    = Popup{Name: "signup", Width: 540, Height: 600}
	SuperLike = Popup{Name: "SUPER_LIKE_WINDOW", Width: 600, Height: 768}
	LikeStats = Popup{Name: "LIKER_LIST_STATS_WINDOW", Width: 576, Height: 768}
	CTA       = Popup{Name: "_blank", Width: 527, Height: 700}
	Portfolio = Popup{Name: "_blank", Chrome: true}
	// Redirect replaces the current page instead of opening a window.
	Redirect = Popup{Name: "_self", Chrome: true}
)

// Opener navigates to a URL.
type Opener interface {
	Open(url string, p Popup) error
}

// Browser opens URLs with the platform's default browser. A terminal cannot
// size windows, so the popup geometry is only logged.
type Browser struct {
	Logger *zap.Logger
	// Output receives the browser launcher's stdout and stderr. Nil discards it,
	// which keeps the terminal UI intact.
	Output io.Writer
}

var browserMu sync.Mutex

func (b Browser) Open(url string, p Popup) error {
	if url == "" {
		return fmt.Errorf("open %s: empty url", p.Name)
	}
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := b.Output
	if out == nil {
		out = io.Discard
	}

	// browser.Stdout and browser.Stderr are package globals.
	browserMu.Lock()
	defer browserMu.Unlock()
	browser.Stdout, browser.Stderr = out, out
	logger.Info("opening link", zap.String("url", url), zap.String("window", p.Name), zap.String("features", p.Features()))
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open %s: %w", p.Name, err)
	}
	return nil
}

// Call is one recorded navigation.
type Call struct {
	URL   string
	Popup Popup
}

// Recorder keeps navigations instead of performing them.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	Err   error
}

func (r *Recorder) Open(url string, p Popup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{URL: url, Popup: p})
	return r.Err
}

// Calls returns a copy of the recorded navigations.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

var (
	_ Opener = Browser{}
	_ Opener = (*Recorder)(nil)
)

package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/liker/internal/engagement"
	"github.com/five82/liker/internal/logtail"
	"github.com/five82/liker/internal/opener"
	"github.com/five82/liker/internal/prefs"
	"github.com/five82/liker/internal/state"
)

// Button is the widget surface the UI drives. *engagement.Widget implements it.
type Button interface {
	Snapshot() engagement.State
	Like() engagement.LikeState
	Flush(ctx context.Context)
	SuperLike(ctx context.Context) error
	MarkCooldownClicked()
	ToggleBookmark(ctx context.Context) error
	ToggleFollow(ctx context.Context) error
	Sync(ctx context.Context) error
	SignUpTriggered(ctx context.Context)
}

// Options configure the UI runtime.
type Options struct {
	Context   context.Context
	Widget    Button
	Store     *state.Store
	Links     engagement.Links
	Opener    opener.Opener
	Prefs     prefs.Prefs
	PrefsPath string
	LogPath   string
	Logger    *zap.Logger
	PollTick  time.Duration
}

const (
	defaultPollTick = time.Second
	flushTimeout    = 5 * time.Second
	logPaneHeight   = 8
	logTailLines    = 200
)

// Model is the bubbletea model hosting one like button.
type Model struct {
	ctx       context.Context
	button    Button
	store     *state.Store
	links     engagement.Links
	opener    opener.Opener
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	logger    *zap.Logger
	pollTick  time.Duration

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	theme   Theme

	width  int
	height int

	state       engagement.State
	health      state.Snapshot
	lastUpdated time.Time

	showHelp bool
	showLogs bool
	logView  viewport.Model
	logs     []logtail.Entry

	// flash is a one-line notice about the last navigation.
	flash    string
	quitting bool
}

// NewModel builds the model. Run calls it; tests drive it directly.
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tick := opts.PollTick
	if tick <= 0 {
		tick = defaultPollTick
	}
	op := opts.Opener
	if op == nil {
		op = opener.Browser{Logger: logger}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		button:    opts.Widget,
		store:     opts.Store,
		links:     opts.Links,
		opener:    op,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		logPath:   opts.LogPath,
		logger:    logger,
		pollTick:  tick,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		theme:     GetTheme(opts.Prefs.Theme),
		logView:   viewport.New(80, logPaneHeight),
	}
	if m.button != nil {
		m.state = m.button.Snapshot()
	}
	if m.store != nil {
		m.health = m.store.Snapshot()
	}
	return m
}

// Run starts the terminal UI and blocks until the user quits or the context
// is cancelled.
func Run(opts Options) error {
	if opts.Widget == nil {
		return errors.New("ui requires a widget")
	}
	m := NewModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return m.ctx.Err()
	}
	return err
}

// Init starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchSnapshotCmd(), tickCmd(m.pollTick), m.spinner.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeLogView()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		cmds := []tea.Cmd{m.fetchSnapshotCmd(), tickCmd(m.pollTick)}
		if m.showLogs {
			cmds = append(cmds, m.readLogsCmd())
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.state = msg.state
		m.health = msg.health
		m.lastUpdated = time.Now()
		return m, nil

	case actionMsg:
		if msg.err != nil {
			// The widget already rolled back and logged; the button just
			// looks like the action did not register.
			m.logger.Debug("action failed", zap.String("action", msg.action), zap.Error(msg.err))
		}
		return m, m.fetchSnapshotCmd()

	case openedMsg:
		if msg.err != nil {
			m.flash = "could not open " + msg.what
			m.logger.Warn("open link failed", zap.String("target", msg.what), zap.Error(msg.err))
		} else {
			m.flash = "opened " + msg.what
		}
		return m, nil

	case logBatchMsg:
		m.handleLogBatch(msg)
		return m, nil

	case flushedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		if m.state.Synced {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, m.flushCmd()
	}
	if m.showHelp {
		// Any other key closes the overlay.
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.prefs.Theme = NextTheme(m.theme.Name)
		m.theme = GetTheme(m.prefs.Theme)
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.ToggleLogs):
		m.showLogs = !m.showLogs
		m.resizeLogView()
		if m.showLogs {
			return m, m.readLogsCmd()
		}
		return m, nil
	case m.showLogs && key.Matches(msg, m.keys.Up):
		m.logView.LineUp(1)
		return m, nil
	case m.showLogs && key.Matches(msg, m.keys.Down):
		m.logView.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.Resync):
		return m, m.resyncCmd()
	}

	if m.button == nil {
		return m, nil
	}
	m.flash = ""
	return m.handleButtonKey(msg)
}

func (m Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs", zap.Error(err))
	}
}

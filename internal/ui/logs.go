package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/liker/internal/logtail"
)

type logBatchMsg struct {
	entries []logtail.Entry
	err     error
}

// readLogsCmd tails liker's own log file for the log pane.
func (m Model) readLogsCmd() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.ReadEntries(path, logTailLines)
		return logBatchMsg{entries: entries, err: err}
	}
}

func (m *Model) handleLogBatch(msg logBatchMsg) {
	if msg.err != nil {
		m.logs = []logtail.Entry{{Level: "error", Message: "read log: " + msg.err.Error()}}
	} else {
		m.logs = msg.entries
	}
	atBottom := m.logView.AtBottom()
	m.logView.SetContent(m.renderLogLines())
	if atBottom {
		m.logView.GotoBottom()
	}
}

func (m *Model) resizeLogView() {
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	m.logView.Width = width
	m.logView.Height = logPaneHeight
}

func (m Model) renderLogLines() string {
	if len(m.logs) == 0 {
		return m.theme.Styles().FaintText.Render("No log entries yet")
	}
	styles := m.theme.Styles()
	var b strings.Builder
	for i, e := range m.logs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.levelStyle(e.Level, styles).Render(truncate(e.String(), m.logView.Width)))
	}
	return b.String()
}

func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "error", "dpanic", "panic", "fatal":
		return styles.DangerText
	case "warn":
		return styles.WarningText
	case "debug":
		return styles.FaintText
	default:
		return styles.Text
	}
}

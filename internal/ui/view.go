package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/liker/internal/engagement"
)

// View renders the whole screen.
func (m Model) View() string {
	if m.quitting {
		return m.theme.Styles().MutedText.Render("Sending likes...") + "\n"
	}
	if m.showHelp {
		return m.renderHelp()
	}
	sections := []string{m.renderHeader(), m.renderButton()}
	if m.showLogs {
		sections = append(sections, m.renderLogPane())
	}
	sections = append(sections, m.renderCommandBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("liker", styles.Logo)}
	if name := m.state.Profile.DisplayName; name != "" {
		parts = append(parts, bg.Render(name, styles.Text.Bold(true)))
	}

	switch {
	case !m.state.Synced:
		parts = append(parts, bg.Render(m.spinner.View()+" Syncing...", styles.WarningText.Bold(true)))
	case m.health.IsOffline():
		parts = append(parts,
			bg.Render(classifyConnectionError(m.health.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)))
	case m.health.LastError != nil:
		parts = append(parts, bg.Render("● SYNC "+classifyConnectionError(m.health.LastError), styles.WarningText))
	default:
		parts = append(parts, bg.Render("● LIVE", styles.SuccessText))
	}

	if viewer := m.state.Session.Liker; viewer != "" {
		parts = append(parts, bg.Render("as", styles.FaintText)+bg.Space()+bg.Render(viewer, styles.AccentText))
	}
	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}
	return styles.Header.Width(m.viewWidth()).Render(bg.Join(parts, "  "))
}

// formatTimestamp formats the last sync time with a relative indicator.
func (m Model) formatTimestamp() string {
	last := m.health.LastSynced
	if last.IsZero() {
		return ""
	}
	since := time.Since(last)
	s := last.Format("15:04:05")
	switch {
	case since < time.Minute:
		s += " (now)"
	case since < time.Hour:
		s += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	default:
		s += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return s
}

// renderButton renders the like button card.
func (m Model) renderButton() string {
	st := m.state
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	lines := []string{
		m.renderLikeRow(st, styles, bg),
		m.renderCreatorRow(st, styles, bg),
	}
	if hint := st.Hint(); hint != engagement.HintNone {
		lines = append(lines, bg.Render(hint.String(), styles.MutedText))
	}
	if row := m.renderChips(st); row != "" {
		lines = append(lines, row)
	}
	if m.flash != "" {
		lines = append(lines, bg.Render(m.flash, styles.FaintText))
	}

	box := styles.Box
	if st.SuperLike.JustSuperLiked {
		box = box.BorderForeground(lipgloss.Color(m.theme.Like))
	}
	return box.Width(m.viewWidth() - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderLikeRow(st engagement.State, styles Styles, bg BgStyle) string {
	pips := likePips(st.Like.Count)
	parts := []string{
		bg.Render("♥", styles.LikeText),
		bg.Render(pips, styles.LikeText),
		bg.Render(st.LikeButtonLabel(), styles.Text.Bold(true)),
	}
	if st.Like.Unsent() > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("+%d sending", st.Like.Unsent()), styles.FaintText))
	}
	if sl := superLikeStatus(st); sl != "" {
		style := styles.InfoText
		if st.SuperLike.HasSuperLiked {
			style = styles.LikeText
		}
		parts = append(parts, bg.Render(sl, style))
	}
	return bg.Join(parts, "  ")
}

// likePips draws one filled pip per like, out of MaxLike.
func likePips(count int) string {
	if count < 0 {
		count = 0
	}
	if count > engagement.MaxLike {
		count = engagement.MaxLike
	}
	return strings.Repeat("●", count) + strings.Repeat("○", engagement.MaxLike-count)
}

// superLikeStatus describes the super like state in a few words.
func superLikeStatus(st engagement.State) string {
	sl := st.SuperLike
	switch {
	case sl.CooldownProgress > 0:
		s := fmt.Sprintf("cooldown %d%%", int(sl.CooldownProgress*100+0.5))
		if !sl.NextSuperLikeAt.IsZero() {
			s += " until " + sl.NextSuperLikeAt.Local().Format("15:04")
		}
		if sl.HasSuperLiked {
			s = "super liked, " + s
		}
		return s
	case st.CanSuperLikeNow():
		return "super like ready"
	case sl.HasSuperLiked:
		return "super liked"
	}
	return ""
}

func (m Model) renderCreatorRow(st engagement.State, styles Styles, bg BgStyle) string {
	name := st.Profile.DisplayName
	if name == "" {
		name = st.Profile.ID
	}
	parts := []string{bg.Render(name, styles.Text)}
	if st.Profile.ID != "" && st.Profile.ID != name {
		parts = append(parts, bg.Render("@"+st.Profile.ID, styles.FaintText))
	}
	switch {
	case st.Profile.IsSubscribedCivicLiker:
		parts = append(parts, bg.Render("✦ Civic Liker", styles.CivicText))
	case st.Profile.IsCivicLikerTrial:
		parts = append(parts, bg.Render("✦ Civic Liker (trial)", styles.CivicText))
	case st.Profile.IsPreRegCivicLiker:
		parts = append(parts, bg.Render("Civic Liker soon", styles.MutedText))
	}
	if st.Session.IsCreator {
		parts = append(parts, bg.Render("(your button)", styles.FaintText))
	}
	return bg.Join(parts, " ")
}

func (m Model) renderChips(st engagement.State) string {
	if !st.Session.IsLoggedIn {
		return ""
	}
	styles := m.theme.Styles()
	var chips []string

	switch {
	case st.Bookmark.Loading:
		chips = append(chips, styles.Chip(m.theme.Muted, false).Render("Bookmark …"))
	case st.Bookmark.Bookmarked:
		chips = append(chips, styles.Chip(m.theme.Accent, true).Render("★ Bookmarked"))
	default:
		chips = append(chips, styles.Chip(m.theme.Accent, false).Render("☆ Bookmark"))
	}

	if !st.Session.IsCreator {
		switch {
		case st.Follow.Loading:
			chips = append(chips, styles.Chip(m.theme.Muted, false).Render("Follow …"))
		case st.Follow.Followed:
			chips = append(chips, styles.Chip(m.theme.Info, true).Render("✓ Following"))
		default:
			chips = append(chips, styles.Chip(m.theme.Info, false).Render("+ Follow"))
		}
	}

	if st.IsCreatorCivicLiker() {
		chips = append(chips, styles.Chip(m.theme.Civic, st.CTAPreset() == "special").Render(st.CTALabel()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(chips)...)
}

func joinWithGap(chips []string) []string {
	out := make([]string, 0, len(chips)*2)
	for i, c := range chips {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, c)
	}
	return out
}

func (m Model) renderLogPane() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Logs")
	if m.logPath != "" {
		title += " " + styles.FaintText.Render(truncate(m.logPath, 60))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		Width(m.viewWidth() - 2)
	return box.Render(title + "\n" + m.logView.View())
}

// renderCommandBar renders the key hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	h := m.help
	h.Styles.ShortKey = styles.AccentText
	h.Styles.ShortDesc = styles.MutedText
	h.Styles.ShortSeparator = styles.FaintText

	bar := h.ShortHelpView(m.keys.ShortHelp())
	bar += bg.Render("  T:", styles.AccentText) + bg.Render(m.theme.Name, styles.FaintText)
	return styles.Header.Width(m.viewWidth()).Render(bar)
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	h := m.help
	h.ShowAll = true
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	h.Styles.FullDesc = styles.Text
	h.Styles.FullSeparator = styles.FaintText

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(h.FullHelpView(m.keys.FullHelp()))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2)

	height := m.height
	if height <= 0 {
		height = 24
	}
	return lipgloss.Place(
		m.viewWidth(),
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

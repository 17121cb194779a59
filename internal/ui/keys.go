package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the button.
type keyMap struct {
	// Engagement
	Like          key.Binding
	SuperLike     key.Binding
	SuperLikePage key.Binding
	Bookmark      key.Binding
	Follow        key.Binding

	// Navigation out to the browser
	CTA       key.Binding
	Portfolio key.Binding
	Stats     key.Binding
	SignUp    key.Binding

	// Global
	Resync     key.Binding
	ToggleLogs key.Binding
	CycleTheme key.Binding
	Help       key.Binding
	Quit       key.Binding

	// Log pane
	Up   key.Binding
	Down key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Like: key.NewBinding(
			key.WithKeys(" ", "l"),
			key.WithHelp("space/l", "Like"),
		),
		SuperLike: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Super like"),
		),
		SuperLikePage: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Super like page"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Bookmark"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Follow"),
		),

		CTA: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Civic Liker"),
		),
		Portfolio: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Creator portfolio"),
		),
		Stats: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Like stats"),
		),
		SignUp: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Sign up / in"),
		),

		Resync: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Resync"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Toggle log pane"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll logs up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll logs down"),
		),
	}
}

// ShortHelp returns key bindings for the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Like, k.SuperLike, k.Bookmark, k.Follow, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one group per column.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Like, k.SuperLike, k.SuperLikePage, k.Bookmark, k.Follow},
		{k.CTA, k.Portfolio, k.Stats, k.SignUp},
		{k.Resync, k.ToggleLogs, k.Up, k.Down},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

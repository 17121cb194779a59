package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/liker/internal/engagement"
	"github.com/five82/liker/internal/opener"
	"github.com/five82/liker/internal/state"
)

type tickMsg time.Time

type snapshotMsg struct {
	state  engagement.State
	health state.Snapshot
}

type actionMsg struct {
	action string
	err    error
}

type openedMsg struct {
	what string
	err  error
}

type flushedMsg struct{}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) fetchSnapshotCmd() tea.Cmd {
	button, store := m.button, m.store
	return func() tea.Msg {
		var msg snapshotMsg
		if button != nil {
			msg.state = button.Snapshot()
		}
		if store != nil {
			msg.health = store.Snapshot()
		}
		return msg
	}
}

// runAction runs a blocking widget call off the render loop.
func (m Model) runAction(name string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionMsg{action: name, err: fn(ctx)}
	}
}

func (m Model) resyncCmd() tea.Cmd {
	if m.button == nil {
		return nil
	}
	button, store := m.button, m.store
	return m.runAction("resync", func(ctx context.Context) error {
		err := button.Sync(ctx)
		if store != nil && ctx.Err() == nil {
			st := button.Snapshot()
			store.Update(&st, err)
		}
		return err
	})
}

// flushCmd sends unsent likes before the program quits.
func (m Model) flushCmd() tea.Cmd {
	button := m.button
	parent := m.ctx
	return func() tea.Msg {
		if button != nil {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), flushTimeout)
			defer cancel()
			button.Flush(ctx)
		}
		return flushedMsg{}
	}
}

func (m Model) openCmd(what, url string, p opener.Popup) tea.Cmd {
	op := m.opener
	return func() tea.Msg {
		return openedMsg{what: what, err: op.Open(url, p)}
	}
}

// buttonAction is what a key press on the button resolves to for a given
// state.
type buttonAction int

const (
	actNone buttonAction = iota
	actSignUp
	actLike
	actSuperLike
	actCooldownClick
	actSuperLikePage
	actBookmark
	actFollow
)

// likeAction resolves the like key. Once the likes are used up the button
// turns into the super like, and a press during the cooldown is recorded.
func likeAction(st engagement.State) buttonAction {
	switch {
	case !st.Session.IsLoggedIn:
		return actSignUp
	case !st.IsMaxLike():
		return actLike
	case st.CanSuperLikeNow():
		return actSuperLike
	case st.SuperLike.CooldownProgress > 0:
		return actCooldownClick
	default:
		return actLike
	}
}

// superLikeAction resolves the super like key.
func superLikeAction(st engagement.State) buttonAction {
	switch {
	case !st.Session.IsLoggedIn:
		return actSignUp
	case st.SuperLike.CooldownProgress > 0:
		return actCooldownClick
	case st.CanSuperLikeNow():
		return actSuperLike
	default:
		return actSuperLikePage
	}
}

func guarded(st engagement.State, act buttonAction) buttonAction {
	if !st.Session.IsLoggedIn {
		return actSignUp
	}
	return act
}

func (m Model) handleButtonKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var act buttonAction
	switch {
	case key.Matches(msg, m.keys.Like):
		act = likeAction(m.state)
	case key.Matches(msg, m.keys.SuperLike):
		act = superLikeAction(m.state)
	case key.Matches(msg, m.keys.SuperLikePage):
		act = actSuperLikePage
	case key.Matches(msg, m.keys.Bookmark):
		act = guarded(m.state, actBookmark)
	case key.Matches(msg, m.keys.Follow):
		act = guarded(m.state, actFollow)
	case key.Matches(msg, m.keys.SignUp):
		act = actSignUp
	case key.Matches(msg, m.keys.CTA):
		return m, m.openCmd("Civic Liker page", m.links.CTA(m.state.IsSupportingCreator()), opener.CTA)
	case key.Matches(msg, m.keys.Portfolio):
		p := opener.Portfolio
		if !m.prefs.OpenInNewWindow {
			p = opener.Redirect
		}
		return m, m.openCmd("portfolio", m.links.Portfolio(), p)
	case key.Matches(msg, m.keys.Stats):
		return m, m.openCmd("like stats", m.links.LikeStats(), opener.LikeStats)
	}
	return m.perform(act)
}

func (m Model) perform(act buttonAction) (tea.Model, tea.Cmd) {
	button := m.button
	switch act {
	case actLike:
		m.state.Like = button.Like()
		return m, nil
	case actCooldownClick:
		button.MarkCooldownClicked()
		return m, m.fetchSnapshotCmd()
	case actSuperLike:
		return m, m.runAction("superlike", button.SuperLike)
	case actSuperLikePage:
		return m, m.openCmd("super like page", m.links.SuperLike(), opener.SuperLike)
	case actBookmark:
		return m, m.runAction("bookmark", button.ToggleBookmark)
	case actFollow:
		return m, m.runAction("follow", button.ToggleFollow)
	case actSignUp:
		button.SignUpTriggered(m.ctx)
		if m.prefs.OpenInNewWindow {
			return m, m.openCmd("sign up", m.links.SignUp(), opener.SignUp)
		}
		return m, m.openCmd("sign up", m.links.SignUpRedirect(m.links.Portfolio()), opener.Redirect)
	}
	return m, nil
}

package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/liker/internal/engagement"
	"github.com/five82/liker/internal/opener"
	"github.com/five82/liker/internal/prefs"
	"github.com/five82/liker/internal/state"
)

type fakeButton struct {
	mu     sync.Mutex
	st     engagement.State
	calls  []string
	synced int
}

func (f *fakeButton) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeButton) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeButton) Snapshot() engagement.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st
}

func (f *fakeButton) Like() engagement.LikeState {
	f.record("like")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.st.Like.Count < engagement.MaxLike {
		f.st.Like.Count++
		f.st.Like.Total++
	}
	return f.st.Like
}

func (f *fakeButton) Flush(context.Context) { f.record("flush") }

func (f *fakeButton) SuperLike(context.Context) error {
	f.record("superlike")
	return nil
}

func (f *fakeButton) MarkCooldownClicked() { f.record("cooldown") }

func (f *fakeButton) ToggleBookmark(context.Context) error {
	f.record("bookmark")
	return nil
}

func (f *fakeButton) ToggleFollow(context.Context) error {
	f.record("follow")
	return engagement.ErrBusy
}

func (f *fakeButton) Sync(context.Context) error {
	f.record("sync")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synced++
	f.st.Synced = true
	return nil
}

func (f *fakeButton) SignUpTriggered(context.Context) { f.record("signup") }

func signedInState() engagement.State {
	return engagement.State{
		Profile: engagement.Profile{ID: "alice", DisplayName: "Alice", IsCivicLikerTrial: true},
		Session: engagement.ViewerSession{Liker: "carol", IsLoggedIn: true},
		Like:    engagement.LikeState{Count: 2, Sent: 2, Total: 3},
		Synced:  true,
	}
}

func newTestModel(t *testing.T, st engagement.State) (Model, *fakeButton, *opener.Recorder) {
	t.Helper()
	button := &fakeButton{st: st}
	rec := &opener.Recorder{}
	m := NewModel(Options{
		Widget:    button,
		Store:     &state.Store{},
		Links:     engagement.NewLinks(engagement.DefaultHosts, engagement.Target{CreatorID: st.Profile.ID}),
		Opener:    rec,
		Prefs:     prefs.Default(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	return m, button, rec
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want ui.Model", next)
	}
	return model, cmd
}

func TestLikeAction(t *testing.T) {
	maxed := signedInState()
	maxed.Like.Count = engagement.MaxLike

	ready := maxed
	ready.SuperLike.CanSuperLike = true

	cooling := maxed
	cooling.SuperLike.CooldownProgress = 0.4

	tests := []struct {
		name string
		st   engagement.State
		want buttonAction
	}{
		{"signed out", engagement.State{}, actSignUp},
		{"under the cap", signedInState(), actLike},
		{"cap with super like ready", ready, actSuperLike},
		{"cap during cooldown", cooling, actCooldownClick},
		{"cap without super like", maxed, actLike},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := likeAction(tt.st); got != tt.want {
				t.Fatalf("likeAction = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuperLikeAction(t *testing.T) {
	ready := signedInState()
	ready.SuperLike.CanSuperLike = true

	cooling := ready
	cooling.SuperLike.CooldownProgress = 1

	tests := []struct {
		name string
		st   engagement.State
		want buttonAction
	}{
		{"signed out", engagement.State{}, actSignUp},
		{"ready", ready, actSuperLike},
		{"cooldown", cooling, actCooldownClick},
		{"not a super liker", signedInState(), actSuperLikePage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := superLikeAction(tt.st); got != tt.want {
				t.Fatalf("superLikeAction = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdate_SpaceLikesImmediately(t *testing.T) {
	m, button, _ := newTestModel(t, signedInState())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd != nil {
		t.Fatalf("like returned a command, want the render to update in place")
	}
	if m.state.Like.Count != 3 || m.state.Like.Total != 4 {
		t.Fatalf("like state = %+v, want count 3 total 4", m.state.Like)
	}
	if got := button.Calls(); len(got) != 1 || got[0] != "like" {
		t.Fatalf("calls = %v, want [like]", got)
	}
	if !strings.Contains(m.View(), "4 Likes") {
		t.Fatalf("view does not show the new total:\n%s", m.View())
	}
}

func TestUpdate_SignedOutLikeOpensSignUp(t *testing.T) {
	m, button, rec := newTestModel(t, engagement.State{Profile: engagement.Profile{ID: "alice"}, Synced: true})

	m, cmd := press(t, m, runeKey('l'))
	if cmd == nil {
		t.Fatal("signed out like returned no command")
	}
	m, _ = press(t, m, cmd())

	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Popup != opener.SignUp {
		t.Fatalf("opener calls = %+v, want one sign up popup", calls)
	}
	if !strings.Contains(calls[0].URL, "/in/register?from=alice") {
		t.Fatalf("sign up url = %q", calls[0].URL)
	}
	if got := button.Calls(); len(got) != 1 || got[0] != "signup" {
		t.Fatalf("calls = %v, want [signup]", got)
	}
	if m.flash != "opened sign up" {
		t.Fatalf("flash = %q", m.flash)
	}
}

func TestUpdate_PortfolioHonoursRedirectPreference(t *testing.T) {
	m, _, rec := newTestModel(t, signedInState())
	m.prefs.OpenInNewWindow = false

	_, cmd := press(t, m, runeKey('o'))
	cmd()

	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Popup != opener.Redirect {
		t.Fatalf("opener calls = %+v, want a redirect", calls)
	}
	if !strings.HasPrefix(calls[0].URL, "https://liker.land/alice/civic") {
		t.Fatalf("portfolio url = %q", calls[0].URL)
	}
}

func TestUpdate_MutationsRunAsCommands(t *testing.T) {
	m, button, _ := newTestModel(t, signedInState())

	m, cmd := press(t, m, runeKey('b'))
	if len(button.Calls()) != 0 {
		t.Fatal("bookmark ran inside Update")
	}
	msg := cmd()
	if am, ok := msg.(actionMsg); !ok || am.action != "bookmark" || am.err != nil {
		t.Fatalf("bookmark msg = %#v", msg)
	}

	_, cmd = press(t, m, runeKey('f'))
	msg = cmd()
	am, ok := msg.(actionMsg)
	if !ok || am.err != engagement.ErrBusy {
		t.Fatalf("follow msg = %#v, want ErrBusy", msg)
	}
	if _, refresh := press(t, m, am); refresh == nil {
		t.Fatal("a finished action should refresh the snapshot")
	}
}

func TestUpdate_ResyncRecordsHealth(t *testing.T) {
	st := signedInState()
	st.Synced = false
	m, button, _ := newTestModel(t, st)

	_, cmd := press(t, m, runeKey('r'))
	cmd()

	if button.synced != 1 {
		t.Fatalf("sync calls = %d, want 1", button.synced)
	}
	if snap := m.store.Snapshot(); !snap.HasState || !snap.Engagement.Synced {
		t.Fatalf("store = %+v, want the resynced state", snap)
	}
}

func TestUpdate_QuitFlushesFirst(t *testing.T) {
	m, button, _ := newTestModel(t, signedInState())

	m, cmd := press(t, m, runeKey('e'))
	if !m.quitting {
		t.Fatal("quit key did not mark the model as quitting")
	}
	msg := cmd()
	if _, ok := msg.(flushedMsg); !ok {
		t.Fatalf("quit command returned %T, want flushedMsg", msg)
	}
	if got := button.Calls(); len(got) != 1 || got[0] != "flush" {
		t.Fatalf("calls = %v, want [flush]", got)
	}
	_, cmd = press(t, m, msg)
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("flushed message should quit the program")
	}
}

func TestUpdate_ThemeCycleSavesPrefs(t *testing.T) {
	m, _, _ := newTestModel(t, signedInState())

	m, _ = press(t, m, runeKey('T'))
	if m.theme.Name != "Slate" {
		t.Fatalf("theme = %q, want Slate", m.theme.Name)
	}
	if got := prefs.Load(m.prefsPath); got.Theme != "Slate" {
		t.Fatalf("saved theme = %q, want Slate", got.Theme)
	}
}

func TestUpdate_HelpOverlay(t *testing.T) {
	m, button, _ := newTestModel(t, signedInState())

	m, _ = press(t, m, runeKey('?'))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("help overlay not shown")
	}
	m, _ = press(t, m, runeKey('l'))
	if m.showHelp {
		t.Fatal("a key press should close the help overlay")
	}
	if len(button.Calls()) != 0 {
		t.Fatal("the key that closed help also reached the button")
	}
}

func TestView_ShowsHintAndChips(t *testing.T) {
	m, _, _ := newTestModel(t, signedInState())
	view := m.View()

	for _, want := range []string{"Alice", "●●○○○", engagement.HintPleaseLike.String(), "Bookmark", "Follow", "Become a Civic Liker"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestLogPane_ReadsLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liker.log")
	line := `{"level":"warn","ts":"2026-01-02T03:04:05.000Z","msg":"like flush failed","creator":"alice"}` + "\n"
	if err := os.WriteFile(path, []byte(line), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, _, _ := newTestModel(t, signedInState())
	m.logPath = path
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})

	m, cmd := press(t, m, runeKey('L'))
	if !m.showLogs || cmd == nil {
		t.Fatal("log pane did not open")
	}
	m, _ = press(t, m, cmd())
	if len(m.logs) != 1 || m.logs[0].Message != "like flush failed" {
		t.Fatalf("logs = %+v", m.logs)
	}
	if !strings.Contains(m.renderLogLines(), "creator=alice") {
		t.Fatalf("log pane = %q", m.renderLogLines())
	}
}

func TestLikePipsAndSuperLikeStatus(t *testing.T) {
	if got := likePips(7); got != "●●●●●" {
		t.Fatalf("likePips(7) = %q", got)
	}
	if got := likePips(-1); got != "○○○○○" {
		t.Fatalf("likePips(-1) = %q", got)
	}

	st := signedInState()
	st.SuperLike = engagement.SuperLikeState{HasSuperLiked: true, CooldownProgress: 0.25}
	if got := superLikeStatus(st); got != "super liked, cooldown 25%" {
		t.Fatalf("superLikeStatus = %q", got)
	}
	st.SuperLike = engagement.SuperLikeState{CanSuperLike: true}
	if got := superLikeStatus(st); got != "super like ready" {
		t.Fatalf("superLikeStatus = %q", got)
	}
}

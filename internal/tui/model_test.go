package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pomo/internal/model"
	"github.com/verte-zerg/pomo/internal/pomodoro"
)

func newTestModel(stats model.SessionStats) *Model {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := pomodoro.NewSession(model.Focus, stats, pomodoro.Deps{Logger: logger})
	return NewModel(session, model.Config{StartMode: model.Focus}, logger)
}

func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func runUntilComplete(t *testing.T, m *Model) {
	t.Helper()
	for i := 0; i < model.LongBreak.Duration()+1 && m.session.State().Running; i++ {
		m.Update(tickMsg{id: m.tickID})
	}
	if m.session.State().SecondsRemaining != 0 {
		t.Fatalf("countdown did not complete: %+v", m.session.State())
	}
}

func TestSpaceStartsTickChain(t *testing.T) {
	m := newTestModel(model.DefaultSessionStats())
	if cmd := press(m, " "); cmd == nil {
		t.Fatalf("expected a tick command after start")
	}
	if !m.session.State().Running || !m.ticking {
		t.Fatalf("expected running countdown with a live tick chain")
	}
	m.Update(tickMsg{id: m.tickID})
	if got := m.session.State().SecondsRemaining; got != 1499 {
		t.Fatalf("expected 1499 seconds, got %d", got)
	}
}

func TestPauseResumeDropsOldTicks(t *testing.T) {
	m := newTestModel(model.DefaultSessionStats())
	press(m, " ")
	oldID := m.tickID
	press(m, " ")
	press(m, " ")
	if m.tickID == oldID {
		t.Fatalf("expected a new tick chain after resume")
	}
	m.Update(tickMsg{id: oldID})
	if got := m.session.State().SecondsRemaining; got != 1500 {
		t.Fatalf("stale tick advanced the countdown to %d", got)
	}
}

func TestStaleAutoStartIgnored(t *testing.T) {
	stats := model.DefaultSessionStats()
	stats.AutoStart = true
	m := newTestModel(stats)
	press(m, "2")
	press(m, " ")
	gen := m.session.Generation()
	runUntilComplete(t, m)
	if _, ok := m.session.PendingAutoStart(); !ok {
		t.Fatalf("expected a pending auto-start")
	}

	press(m, "3")
	m.Update(autoStartMsg{gen: gen})
	st := m.session.State()
	if st.Running || st.Mode != model.LongBreak {
		t.Fatalf("stale auto-start changed the timer: %+v", st)
	}
}

func TestAutoStartFires(t *testing.T) {
	stats := model.DefaultSessionStats()
	stats.AutoStart = true
	m := newTestModel(stats)
	press(m, "2")
	press(m, " ")
	runUntilComplete(t, m)

	_, cmd := m.Update(autoStartMsg{gen: m.session.Generation()})
	if cmd == nil {
		t.Fatalf("expected a tick command after auto-start")
	}
	st := m.session.State()
	if !st.Running || st.Mode != model.Focus || st.SecondsRemaining != 1500 {
		t.Fatalf("unexpected state after auto-start: %+v", st)
	}
}

func TestTaskEditing(t *testing.T) {
	m := newTestModel(model.DefaultSessionStats())
	press(m, "t")
	if !m.editing {
		t.Fatalf("expected task editing mode")
	}
	press(m, "write")
	press(m, "q")
	if m.session.State().Running {
		t.Fatalf("keys should go to the task input while editing")
	}
	press(m, "enter")
	if m.editing {
		t.Fatalf("expected editing to stop on enter")
	}
	if got := m.session.Stats().CurrentTask; got != "writeq" {
		t.Fatalf("unexpected task %q", got)
	}

	press(m, "t")
	press(m, "!")
	press(m, "esc")
	if got := m.session.Stats().CurrentTask; got != "writeq" {
		t.Fatalf("escape should discard edits, got %q", got)
	}
}

func TestSettingsKeys(t *testing.T) {
	m := newTestModel(model.DefaultSessionStats())
	press(m, "a")
	press(m, "m")
	press(m, "+")
	press(m, "-")
	press(m, "-")
	got := m.session.Stats()
	if !got.AutoStart || got.SoundEnabled || got.DailyGoal != 7 {
		t.Fatalf("unexpected settings: %+v", got)
	}
	press(m, "tab")
	if m.session.State().Mode != model.ShortBreak {
		t.Fatalf("tab should advance the mode")
	}
	press(m, "s")
	if !strings.Contains(m.View(), "Auto-start") {
		t.Fatalf("expected settings panel in view")
	}
}

func TestViewShowsTimerAndGoal(t *testing.T) {
	stats := model.DefaultSessionStats()
	stats.CompletedSessions = 3
	stats.CurrentTask = "review"
	m := newTestModel(stats)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	view := m.View()
	for _, want := range []string{"25:00", "Focus", "Today's Sessions 3/8", "Task: review", "Ready"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if got := strings.Count(view, filledBean); got != 3 {
		t.Fatalf("expected 3 filled beans, got %d", got)
	}
}

func TestBellRingsForOneFrame(t *testing.T) {
	m := newTestModel(model.DefaultSessionStats())
	if strings.Contains(m.View(), "\a") {
		t.Fatalf("unexpected bell before any request")
	}
	_, cmd := m.Update(BellMsg{})
	if cmd == nil {
		t.Fatalf("expected a command to end the bell")
	}
	if !strings.HasSuffix(m.View(), "\a") {
		t.Fatalf("expected view to end with BEL")
	}
	m.Update(bellDoneMsg{})
	if strings.Contains(m.View(), "\a") {
		t.Fatalf("expected bell to be cleared")
	}
}

func TestCycleMode(t *testing.T) {
	if cycleMode(model.LongBreak, 1) != model.Focus {
		t.Fatalf("expected wrap to focus")
	}
	if cycleMode(model.Focus, -1) != model.LongBreak {
		t.Fatalf("expected wrap to long break")
	}
}

package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pomo/internal/model"
	"github.com/verte-zerg/pomo/internal/stats"
	"github.com/verte-zerg/pomo/internal/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "pomo.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	now := time.Now()
	for i := 0; i < 3; i++ {
		end := now.AddDate(0, 0, -i)
		c := model.Completion{Mode: model.Focus, StartedAt: end.Add(-25 * time.Minute), EndedAt: end, DurationSec: 1500, DailyGoal: 2}
		if _, err := st.InsertCompletion(context.Background(), c); err != nil {
			t.Fatalf("insert completion: %v", err)
		}
	}
	return st
}

func TestViewRendersOverview(t *testing.T) {
	m := NewModel(seededStore(t), model.StatsConfig{Window: 3})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	view := m.View()
	for _, want := range []string{"Overview", "Days", "Focus sessions", "window=3", "Top days"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if len(m.report.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(m.report.Days))
	}
}

func TestOverviewShowsFocusTrend(t *testing.T) {
	now := time.Date(2026, 4, 10, 18, 0, 0, 0, time.UTC)
	completions := []model.Completion{
		{Mode: model.Focus, EndedAt: now.AddDate(0, 0, -1), DurationSec: 1500, DailyGoal: 2},
		{Mode: model.Focus, EndedAt: now, DurationSec: 1500, DailyGoal: 2},
		{Mode: model.Focus, EndedAt: now, DurationSec: 1500, DailyGoal: 2},
	}
	days := stats.DailyAggregates(completions, time.UTC)
	report := stats.Report{Completions: completions, Days: days, Summary: stats.Summarize(days, now), Window: 3, Now: now}

	out := renderOverview(report, 100)
	for _, want := range []string{"Last 14 days", "▄█"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in overview:\n%s", want, out)
		}
	}
}

func TestDaysTabListsRows(t *testing.T) {
	m := NewModel(seededStore(t), model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabDays {
		t.Fatalf("expected days tab, got %d", m.activeTab)
	}
	if got := len(m.dayTable.Rows()); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}
	today := time.Now().Format("2006-01-02")
	if m.dayTable.Rows()[0][0][:10] != today {
		t.Fatalf("expected newest day first, got %v", m.dayTable.Rows()[0])
	}
}

func TestFilterFormAppliesLastDays(t *testing.T) {
	m := NewModel(seededStore(t), model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter mode to close: %s", m.filterError)
	}
	if m.cfg.Last != 1 {
		t.Fatalf("expected last=1, got %d", m.cfg.Last)
	}
	if len(m.report.Days) != 1 {
		t.Fatalf("expected 1 day after filter, got %d", len(m.report.Days))
	}
}

func TestParseFilterErrors(t *testing.T) {
	if _, err := parseFilter("2026/01/01", "", ""); err == nil {
		t.Fatalf("expected since error")
	}
	if _, err := parseFilter("", "-2", ""); err == nil {
		t.Fatalf("expected last error")
	}
	if _, err := parseFilter("", "", "0"); err == nil {
		t.Fatalf("expected window error")
	}
	cfg, err := parseFilter("2026-01-01", "7", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Since == nil || cfg.Last != 7 || cfg.Window != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestWindowSteps(t *testing.T) {
	if nextWindow(1) != 7 || nextWindow(7) != 14 || nextWindow(9) != 14 {
		t.Fatalf("unexpected next window steps")
	}
	if prevWindow(7) != 1 || prevWindow(14) != 7 || prevWindow(9) != 7 {
		t.Fatalf("unexpected prev window steps")
	}
}

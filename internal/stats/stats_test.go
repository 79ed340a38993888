package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/pomo/internal/model"
)

func focusAt(end time.Time, goal int) model.Completion {
	return model.Completion{Mode: model.Focus, StartedAt: end.Add(-25 * time.Minute), EndedAt: end, DurationSec: 1500, DailyGoal: goal}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestFocusTrendScalesToBusiestDay(t *testing.T) {
	now := time.Date(2026, 4, 10, 18, 0, 0, 0, time.UTC)
	days := []model.DayAggregate{
		{Day: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), Focus: 9},
		{Day: time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC), Focus: 4},
		{Day: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), Focus: 2},
	}
	if got := FocusTrend(days, now, 3); got != "·█▄" {
		t.Fatalf("unexpected trend: %q", got)
	}
	if got := FocusTrend(nil, now, 3); got != "···" {
		t.Fatalf("unexpected empty trend: %q", got)
	}
	if got := FocusTrend(days, now, 0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestRenderSummaryIncludesTrend(t *testing.T) {
	now := time.Date(2026, 4, 10, 18, 0, 0, 0, time.UTC)
	days := DailyAggregates([]model.Completion{focusAt(now.Add(-time.Hour), 4)}, time.UTC)
	var buf bytes.Buffer
	if err := RenderSummary(&buf, days, now); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	want := "Last 14 days: " + strings.Repeat("·", 13) + "█"
	if !strings.Contains(buf.String(), want) {
		t.Fatalf("expected %q in output:\n%s", want, buf.String())
	}
}

func TestDailyAggregatesGroupsByLocalDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	completions := []model.Completion{
		focusAt(time.Date(2026, 4, 1, 22, 30, 0, 0, time.UTC), 4), // 01:30 on Apr 2 local
		focusAt(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC), 6),
		{Mode: model.LongBreak, EndedAt: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC), DurationSec: 900, DailyGoal: 6},
	}
	days := DailyAggregates(completions, loc)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	first := days[0]
	if first.Day.Day() != 1 || first.Focus != 1 || first.LongBreaks != 1 || first.Goal != 6 {
		t.Fatalf("unexpected first day: %+v", first)
	}
	if days[1].Day.Day() != 2 || days[1].FocusSeconds != 1500 {
		t.Fatalf("unexpected second day: %+v", days[1])
	}
}

func TestSummarizeStreakFromYesterday(t *testing.T) {
	now := time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)
	var completions []model.Completion
	for _, offset := range []int{1, 2, 3, 5} {
		for i := 0; i < offset; i++ {
			completions = append(completions, focusAt(now.AddDate(0, 0, -offset), 2))
		}
	}
	s := Summarize(DailyAggregates(completions, time.UTC), now)
	if s.Streak != 3 {
		t.Fatalf("expected streak 3, got %d", s.Streak)
	}
	if s.FocusSessions != 11 || s.ActiveDays != 4 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.BestDay.Focus != 5 {
		t.Fatalf("unexpected best day: %+v", s.BestDay)
	}
	if s.GoalDays != 3 {
		t.Fatalf("expected 3 goal days, got %d", s.GoalDays)
	}
	if rate := s.GoalRate(); rate != 0.75 {
		t.Fatalf("unexpected goal rate %v", rate)
	}
}

func TestSummarizeStreakBrokenByGap(t *testing.T) {
	now := time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)
	completions := []model.Completion{focusAt(now.AddDate(0, 0, -2), 8)}
	if s := Summarize(DailyAggregates(completions, time.UTC), now); s.Streak != 0 {
		t.Fatalf("expected no streak, got %d", s.Streak)
	}
}

func TestGoalCups(t *testing.T) {
	if got := GoalCups(2, 4); got != "☕☕··" {
		t.Fatalf("unexpected cups: %q", got)
	}
	if got := GoalCups(6, 3); got != "☕☕☕" {
		t.Fatalf("unexpected cups: %q", got)
	}
	if got := GoalCups(2, 0); got != "2/-" {
		t.Fatalf("unexpected cups: %q", got)
	}
}

func TestRenderDayTableNewestFirst(t *testing.T) {
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	days := DailyAggregates([]model.Completion{focusAt(base, 2), focusAt(base.AddDate(0, 0, 1), 2)}, time.UTC)
	var buf bytes.Buffer
	if err := RenderDayTable(&buf, days); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[0], "Day") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2026-04-02") || !strings.HasPrefix(lines[2], "2026-04-01") {
		t.Fatalf("unexpected row order: %q", buf.String())
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil, time.Now()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No sessions found.\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

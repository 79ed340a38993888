// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/pomo/internal/model"
)

// TrendDays is the span of the focus trend line.
const TrendDays = 14

const trendEmpty = '·'

var trendBars = []rune("▁▂▃▄▅▆▇█")

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// FocusTrend renders focus counts for the n days ending on now's day as one
// line of bars scaled to the busiest day. Days without focus render as a dot.
func FocusTrend(days []model.DayAggregate, now time.Time, n int) string {
	if n <= 0 {
		return ""
	}
	byDay := make(map[string]int, len(days))
	for _, d := range days {
		byDay[d.Day.Format(time.DateOnly)] = d.Focus
	}
	first := DayOf(now, now.Location()).AddDate(0, 0, -(n - 1))
	counts := make([]int, n)
	maxFocus := 0
	for i := range counts {
		counts[i] = byDay[first.AddDate(0, 0, i).Format(time.DateOnly)]
		maxFocus = max(maxFocus, counts[i])
	}
	var b strings.Builder
	for _, c := range counts {
		if c <= 0 {
			b.WriteRune(trendEmpty)
			continue
		}
		idx := int(math.Ceil(float64(c)*float64(len(trendBars))/float64(maxFocus))) - 1
		b.WriteRune(trendBars[max(0, min(idx, len(trendBars)-1))])
	}
	return b.String()
}

// DayOf truncates t to midnight in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DailyAggregates groups completions by the local day they ended on.
// Days without completions are omitted; the result is oldest first.
func DailyAggregates(completions []model.Completion, loc *time.Location) []model.DayAggregate {
	if loc == nil {
		loc = time.Local
	}
	var days []model.DayAggregate
	index := map[time.Time]int{}
	for _, c := range completions {
		day := DayOf(c.EndedAt, loc)
		i, ok := index[day]
		if !ok {
			days = append(days, model.DayAggregate{Day: day})
			i = len(days) - 1
			index[day] = i
		}
		agg := &days[i]
		switch c.Mode {
		case model.Focus:
			agg.Focus++
			agg.FocusSeconds += c.DurationSec
		case model.ShortBreak:
			agg.ShortBreaks++
		case model.LongBreak:
			agg.LongBreaks++
		}
		agg.Goal = max(agg.Goal, c.DailyGoal)
	}
	sortDays(days)
	return days
}

// Summary holds headline numbers for a set of days.
type Summary struct {
	FocusSessions int
	FocusSeconds  int
	ActiveDays    int
	BestDay       model.DayAggregate
	Streak        int
	GoalDays      int
}

// GoalRate returns the share of active days where the goal was met.
func (s Summary) GoalRate() float64 {
	if s.ActiveDays == 0 {
		return 0
	}
	return float64(s.GoalDays) / float64(s.ActiveDays)
}

// Summarize computes totals and the focus streak ending today or yesterday.
func Summarize(days []model.DayAggregate, now time.Time) Summary {
	var s Summary
	focusDays := map[time.Time]bool{}
	for _, d := range days {
		s.FocusSessions += d.Focus
		s.FocusSeconds += d.FocusSeconds
		if d.Focus == 0 {
			continue
		}
		s.ActiveDays++
		focusDays[d.Day] = true
		if d.Goal > 0 && d.Focus >= d.Goal {
			s.GoalDays++
		}
		if d.Focus > s.BestDay.Focus {
			s.BestDay = d
		}
	}
	day := DayOf(now, now.Location())
	if !focusDays[day] {
		day = day.AddDate(0, 0, -1)
	}
	for focusDays[day] {
		s.Streak++
		day = day.AddDate(0, 0, -1)
	}
	return s
}

// FormatHours renders seconds as hours with one decimal.
func FormatHours(seconds int) string {
	return fmt.Sprintf("%.1fh", float64(seconds)/3600)
}

// RenderSummary prints a summary block for days.
func RenderSummary(w io.Writer, days []model.DayAggregate, now time.Time) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(days, now)
	lines := []string{
		"Summary",
		fmt.Sprintf("Focus sessions: %d", s.FocusSessions),
		fmt.Sprintf("Focus time: %s", FormatHours(s.FocusSeconds)),
		fmt.Sprintf("Active days: %d", s.ActiveDays),
		fmt.Sprintf("Best day: %s", formatBestDay(s.BestDay)),
		fmt.Sprintf("Current streak: %d days", s.Streak),
		fmt.Sprintf("Goal met: %.0f%%", s.GoalRate()*100),
		fmt.Sprintf("Last %d days: %s", TrendDays, FocusTrend(days, now, TrendDays)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatBestDay(d model.DayAggregate) string {
	if d.Focus == 0 {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", d.Day.Format("2006-01-02"), d.Focus)
}

// RenderDayTable prints one row per day, newest first.
func RenderDayTable(w io.Writer, days []model.DayAggregate) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	headers := []string{"Day", "Focus", "Short", "Long", "Focus time", "Goal"}
	rows := make([][]string, 0, len(days))
	for i := len(days) - 1; i >= 0; i-- {
		rows = append(rows, DayRow(days[i]))
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// DayRow formats a day for tabular output.
func DayRow(d model.DayAggregate) []string {
	return []string{
		d.Day.Format("2006-01-02 Mon"),
		fmt.Sprintf("%d", d.Focus),
		fmt.Sprintf("%d", d.ShortBreaks),
		fmt.Sprintf("%d", d.LongBreaks),
		FormatHours(d.FocusSeconds),
		GoalCups(d.Focus, d.Goal),
	}
}

// GoalCups renders focus progress against goal as filled and empty cups.
func GoalCups(focus, goal int) string {
	if goal <= 0 {
		return fmt.Sprintf("%d/-", focus)
	}
	filled := min(focus, goal)
	return strings.Repeat("☕", filled) + strings.Repeat("·", goal-filled)
}

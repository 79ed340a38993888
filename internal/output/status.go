package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/pomo/internal/model"
)

// Status is the snapshot printed by `pomo status`.
type Status struct {
	CompletedSessions int        `yaml:"completedSessions"`
	DailyGoal         int        `yaml:"dailyGoal"`
	CurrentTask       string     `yaml:"currentTask"`
	AutoStart         bool       `yaml:"autoStart"`
	SoundEnabled      bool       `yaml:"soundEnabled"`
	FocusToday        int        `yaml:"focusToday"`
	FocusTotal        int        `yaml:"focusTotal"`
	LastFocusAt       *time.Time `yaml:"lastFocusAt,omitempty"`
}

// NewStatus builds a Status from the stats record and history numbers.
func NewStatus(stats model.SessionStats, focusToday, focusTotal int, last *model.Completion) Status {
	s := Status{
		CompletedSessions: stats.CompletedSessions,
		DailyGoal:         stats.DailyGoal,
		CurrentTask:       stats.CurrentTask,
		AutoStart:         stats.AutoStart,
		SoundEnabled:      stats.SoundEnabled,
		FocusToday:        focusToday,
		FocusTotal:        focusTotal,
	}
	if last != nil {
		ended := last.EndedAt
		s.LastFocusAt = &ended
	}
	return s
}

// WriteYAML encodes s as a YAML document.
func (s Status) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	return enc.Close()
}

// PrintStatus writes a human-readable status block relative to now.
func (u *UI) PrintStatus(s Status, now time.Time) {
	task := s.CurrentTask
	if task == "" {
		task = "-"
	}
	last := "never"
	if s.LastFocusAt != nil {
		last = humanize.RelTime(*s.LastFocusAt, now, "ago", "from now")
	}
	fmt.Fprintf(u.Out, "Sessions:   %s\n", GoalColor(s.CompletedSessions, s.DailyGoal))
	fmt.Fprintf(u.Out, "Task:       %s\n", Cyan(task))
	fmt.Fprintf(u.Out, "Auto-start: %s\n", OnOff(s.AutoStart))
	fmt.Fprintf(u.Out, "Sound:      %s\n", OnOff(s.SoundEnabled))
	fmt.Fprintf(u.Out, "Today:      %s focus sessions recorded\n", humanize.Comma(int64(s.FocusToday)))
	fmt.Fprintf(u.Out, "All time:   %s focus sessions\n", humanize.Comma(int64(s.FocusTotal)))
	fmt.Fprintf(u.Out, "Last focus: %s\n", last)
}

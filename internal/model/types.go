// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Mode is one of the three countdown kinds.
type Mode int

const (
	Focus Mode = iota
	ShortBreak
	LongBreak
)

// Modes lists every mode in selector order.
var Modes = []Mode{Focus, ShortBreak, LongBreak}

var modeDurations = [...]int{
	Focus:      25 * 60,
	ShortBreak: 5 * 60,
	LongBreak:  15 * 60,
}

var modeLabels = [...]string{
	Focus:      "Focus",
	ShortBreak: "Short Break",
	LongBreak:  "Long Break",
}

var modeKeys = [...]string{
	Focus:      "focus",
	ShortBreak: "shortBreak",
	LongBreak:  "longBreak",
}

// Duration returns the full countdown length of the mode in seconds.
func (m Mode) Duration() int {
	if !m.Valid() {
		return modeDurations[Focus]
	}
	return modeDurations[m]
}

// Label returns the human-readable mode name.
func (m Mode) Label() string {
	if !m.Valid() {
		return modeLabels[Focus]
	}
	return modeLabels[m]
}

// String returns the stable key used in config files and storage.
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeKeys[m]
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= Focus && m <= LongBreak
}

// IsBreak reports whether m is a short or long break.
func (m Mode) IsBreak() bool {
	return m == ShortBreak || m == LongBreak
}

// ParseMode accepts a mode key or a short alias ("short", "long").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "focus", "work", "pomodoro":
		return Focus, nil
	case "shortbreak", "short", "short-break":
		return ShortBreak, nil
	case "longbreak", "long", "long-break":
		return LongBreak, nil
	}
	return Focus, fmt.Errorf("unknown mode %q (use focus, short or long)", s)
}

// TimerState is the live countdown.
type TimerState struct {
	Mode             Mode
	SecondsRemaining int
	Running          bool
}

// NewTimerState returns a stopped, full countdown for the mode.
func NewTimerState(mode Mode) TimerState {
	return TimerState{Mode: mode, SecondsRemaining: mode.Duration()}
}

const (
	DefaultDailyGoal = 8
	MinDailyGoal     = 1
)

// SessionStats is the persisted user record.
type SessionStats struct {
	CompletedSessions int
	DailyGoal         int
	CurrentTask       string
	AutoStart         bool
	SoundEnabled      bool
}

// DefaultSessionStats returns the record used when nothing is stored.
func DefaultSessionStats() SessionStats {
	return SessionStats{
		DailyGoal:    DefaultDailyGoal,
		SoundEnabled: true,
	}
}

// Config defines timer runtime settings.
type Config struct {
	StartMode    Mode
	Steam        bool
	SoundCommand string
	Bell         bool
	DBPath       string
}

// StatsConfig defines filters and options for history output.
type StatsConfig struct {
	Since  *time.Time
	Last   int
	Window int
}

// Completion records a countdown that reached zero.
type Completion struct {
	ID          int64
	Mode        Mode
	StartedAt   time.Time
	EndedAt     time.Time
	DurationSec int
	Task        string
	DailyGoal   int
}

// DayAggregate rolls completions up per calendar day.
type DayAggregate struct {
	Day          time.Time
	Focus        int
	ShortBreaks  int
	LongBreaks   int
	FocusSeconds int
	Goal         int
}

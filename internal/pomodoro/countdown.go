// Package pomodoro implements the countdown, completion handling and the
// persisted session record of the timer.
package pomodoro

import (
	"fmt"

	"github.com/verte-zerg/pomo/internal/model"
)

// Countdown owns a TimerState. It performs no timing of its own; Tick is
// driven by an external once-per-second signal.
type Countdown struct {
	state model.TimerState
}

// NewCountdown returns a stopped countdown at the full duration of mode.
func NewCountdown(mode model.Mode) Countdown {
	return Countdown{state: model.NewTimerState(mode)}
}

// State returns a copy of the current timer state.
func (c *Countdown) State() model.TimerState {
	return c.state
}

// Tick advances a running countdown by one second and reports whether it
// reached zero on this tick.
func (c *Countdown) Tick() bool {
	if !c.state.Running {
		return false
	}
	if c.state.SecondsRemaining <= 1 {
		c.state.SecondsRemaining = 0
		c.state.Running = false
		return true
	}
	c.state.SecondsRemaining--
	return false
}

// Start resumes the countdown. A finished countdown restarts from its full
// duration so it cannot complete twice.
func (c *Countdown) Start() {
	if c.state.SecondsRemaining <= 0 {
		c.state.SecondsRemaining = c.state.Mode.Duration()
	}
	c.state.Running = true
}

// Pause stops the countdown without changing the remaining time.
func (c *Countdown) Pause() {
	c.state.Running = false
}

// Toggle flips between running and paused.
func (c *Countdown) Toggle() {
	if c.state.Running {
		c.Pause()
		return
	}
	c.Start()
}

// Reset restores the full duration of the current mode and stops.
func (c *Countdown) Reset() {
	c.state.SecondsRemaining = c.state.Mode.Duration()
	c.state.Running = false
}

// SetMode switches mode, restores its full duration and stops.
func (c *Countdown) SetMode(mode model.Mode) {
	if !mode.Valid() {
		mode = model.Focus
	}
	c.state.Mode = mode
	c.Reset()
}

// Progress returns remaining/duration in [0, 1].
func Progress(state model.TimerState) float64 {
	total := state.Mode.Duration()
	if total <= 0 {
		return 0
	}
	p := float64(state.SecondsRemaining) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Clock formats seconds as zero-padded MM:SS.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// NextMode returns the mode auto-start advances to after mode completes.
// completedBefore is the focus count before the completion was recorded;
// every fourth focus session is followed by a long break.
func NextMode(mode model.Mode, completedBefore int) model.Mode {
	if mode != model.Focus {
		return model.Focus
	}
	if completedBefore%4 == 3 {
		return model.LongBreak
	}
	return model.ShortBreak
}

// Beans returns one entry per daily-goal slot, true for completed slots.
func Beans(stats model.SessionStats) []bool {
	goal := stats.DailyGoal
	if goal < model.MinDailyGoal {
		goal = model.MinDailyGoal
	}
	beans := make([]bool, goal)
	for i := 0; i < goal && i < stats.CompletedSessions; i++ {
		beans[i] = true
	}
	return beans
}

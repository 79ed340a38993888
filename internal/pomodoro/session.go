package pomodoro

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/verte-zerg/pomo/internal/model"
)

const (
	// AutoStartDelay is the pause between a completion and the next countdown.
	AutoStartDelay = 2 * time.Second
	// CelebrationWindow is how long the completion cue stays visible.
	CelebrationWindow = 2 * time.Second
)

// Saver persists the session record.
type Saver interface {
	Save(ctx context.Context, stats model.SessionStats) error
}

// Recorder stores completed countdowns.
type Recorder interface {
	InsertCompletion(ctx context.Context, c model.Completion) (int64, error)
}

// Player plays the completion tone. Calls must not block.
type Player interface {
	PlayTone()
}

// Deps groups the collaborators of a Session. Any of them may be nil.
type Deps struct {
	Saver    Saver
	Recorder Recorder
	Player   Player
	Logger   *slog.Logger
	Now      func() time.Time
}

// Completion describes the side effects of a countdown reaching zero.
// Deferred effects carry the generation they were raised under.
type Completion struct {
	Mode           model.Mode
	Celebrate      bool
	CelebrationGen uint64
	AutoStart      bool
	Next           model.Mode
	Generation     uint64
}

// Session combines the countdown with the persisted stats record.
type Session struct {
	countdown Countdown
	stats     model.SessionStats
	deps      Deps
	log       *slog.Logger

	// generation invalidates pending auto-starts on any user interaction.
	generation  uint64
	pending     *model.Mode
	celebration uint64
	celebrating bool
	startedAt   time.Time
}

// NewSession returns a stopped session in mode with the given stats.
func NewSession(mode model.Mode, stats model.SessionStats, deps Deps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if stats.DailyGoal < model.MinDailyGoal {
		stats.DailyGoal = model.MinDailyGoal
	}
	return &Session{
		countdown: NewCountdown(mode),
		stats:     stats,
		deps:      deps,
		log:       logger,
	}
}

// State returns the current timer state.
func (s *Session) State() model.TimerState {
	return s.countdown.State()
}

// Stats returns the current stats record.
func (s *Session) Stats() model.SessionStats {
	return s.stats
}

// Generation returns the current interaction generation.
func (s *Session) Generation() uint64 {
	return s.generation
}

// Celebrating reports whether the completion cue is showing.
func (s *Session) Celebrating() bool {
	return s.celebrating
}

// PendingAutoStart returns the mode a pending auto-start will switch to.
func (s *Session) PendingAutoStart() (model.Mode, bool) {
	if s.pending == nil {
		return model.Focus, false
	}
	return *s.pending, true
}

// Start resumes the countdown.
func (s *Session) Start() {
	s.interact()
	s.start()
}

// Pause stops the countdown.
func (s *Session) Pause() {
	s.interact()
	s.countdown.Pause()
}

// Toggle flips between running and paused.
func (s *Session) Toggle() {
	if s.countdown.State().Running {
		s.Pause()
		return
	}
	s.Start()
}

// Reset restores the full duration of the current mode.
func (s *Session) Reset() {
	s.interact()
	s.countdown.Reset()
	s.startedAt = time.Time{}
}

// SetMode switches to mode and stops the countdown.
func (s *Session) SetMode(mode model.Mode) {
	s.interact()
	s.setMode(mode)
}

// Tick advances the countdown by one second. It returns a Completion when
// the countdown reached zero on this tick.
func (s *Session) Tick() *Completion {
	if !s.countdown.Tick() {
		return nil
	}
	return s.complete()
}

// FireAutoStart switches to the pending mode and starts it, unless gen is
// stale or nothing is pending.
func (s *Session) FireAutoStart(gen uint64) bool {
	if gen != s.generation || s.pending == nil {
		return false
	}
	next := *s.pending
	s.pending = nil
	s.setMode(next)
	s.start()
	s.log.Debug("auto-start fired", "mode", next.String())
	return true
}

// ClearCelebration hides the completion cue raised under gen.
func (s *Session) ClearCelebration(gen uint64) bool {
	if gen != s.celebration || !s.celebrating {
		return false
	}
	s.celebrating = false
	return true
}

// ResetDailyCount zeroes the completed session counter. The returned error
// is the persistence failure, if any; the in-memory change is kept.
func (s *Session) ResetDailyCount() error {
	s.stats.CompletedSessions = 0
	return s.save()
}

// AdjustGoal changes the daily goal by delta, never below one.
func (s *Session) AdjustGoal(delta int) error {
	goal := s.stats.DailyGoal + delta
	if goal < model.MinDailyGoal {
		goal = model.MinDailyGoal
	}
	s.stats.DailyGoal = goal
	return s.save()
}

// ToggleAutoStart flips the auto-start setting.
func (s *Session) ToggleAutoStart() error {
	s.stats.AutoStart = !s.stats.AutoStart
	return s.save()
}

// ToggleSound flips the sound setting.
func (s *Session) ToggleSound() error {
	s.stats.SoundEnabled = !s.stats.SoundEnabled
	return s.save()
}

// SetTask updates the current task label.
func (s *Session) SetTask(label string) error {
	label = strings.TrimSpace(label)
	if label == s.stats.CurrentTask {
		return nil
	}
	s.stats.CurrentTask = label
	return s.save()
}

func (s *Session) interact() {
	s.generation++
	s.pending = nil
}

func (s *Session) start() {
	if s.startedAt.IsZero() || s.countdown.State().SecondsRemaining <= 0 {
		s.startedAt = s.deps.Now()
	}
	s.countdown.Start()
}

func (s *Session) setMode(mode model.Mode) {
	s.countdown.SetMode(mode)
	s.startedAt = time.Time{}
}

func (s *Session) complete() *Completion {
	mode := s.countdown.State().Mode
	before := s.stats.CompletedSessions
	c := &Completion{Mode: mode}

	if mode == model.Focus {
		s.stats.CompletedSessions++
		// Failures are logged by save; the countdown carries on.
		_ = s.save()
		s.celebration++
		s.celebrating = true
		c.Celebrate = true
		c.CelebrationGen = s.celebration
	}
	if s.stats.SoundEnabled && s.deps.Player != nil {
		s.deps.Player.PlayTone()
	}
	s.record(mode)

	if s.stats.AutoStart {
		next := NextMode(mode, before)
		s.pending = &next
		c.AutoStart = true
		c.Next = next
		c.Generation = s.generation
	}
	s.startedAt = time.Time{}
	return c
}

func (s *Session) record(mode model.Mode) {
	if s.deps.Recorder == nil {
		return
	}
	now := s.deps.Now()
	startedAt := s.startedAt
	if startedAt.IsZero() {
		startedAt = now.Add(-time.Duration(mode.Duration()) * time.Second)
	}
	entry := model.Completion{
		Mode:        mode,
		StartedAt:   startedAt,
		EndedAt:     now,
		DurationSec: mode.Duration(),
		Task:        s.stats.CurrentTask,
		DailyGoal:   s.stats.DailyGoal,
	}
	if _, err := s.deps.Recorder.InsertCompletion(context.Background(), entry); err != nil {
		s.log.Warn("failed to record completion", "mode", mode.String(), "error", err)
	}
}

func (s *Session) save() error {
	if s.deps.Saver == nil {
		return nil
	}
	if err := s.deps.Saver.Save(context.Background(), s.stats); err != nil {
		s.log.Warn("failed to save stats", "error", err)
		return err
	}
	return nil
}

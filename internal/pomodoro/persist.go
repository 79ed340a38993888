package pomodoro

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/pomo/internal/model"
)

// StatsKey is the key-value slot holding the serialized SessionStats.
const StatsKey = "pomodoroStats"

// ErrMalformedStats marks a stored record that could not be decoded.
var ErrMalformedStats = errors.New("malformed stats record")

// KV is the key-value collaborator the adapter reads and writes.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

type statsRecord struct {
	CompletedSessions int    `json:"completedSessions"`
	DailyGoal         int    `json:"dailyGoal"`
	CurrentTask       string `json:"currentTask"`
	AutoStart         bool   `json:"autoStart"`
	SoundEnabled      bool   `json:"soundEnabled"`
}

func recordFrom(stats model.SessionStats) statsRecord {
	return statsRecord{
		CompletedSessions: stats.CompletedSessions,
		DailyGoal:         stats.DailyGoal,
		CurrentTask:       stats.CurrentTask,
		AutoStart:         stats.AutoStart,
		SoundEnabled:      stats.SoundEnabled,
	}
}

func (r statsRecord) stats() model.SessionStats {
	return model.SessionStats{
		CompletedSessions: r.CompletedSessions,
		DailyGoal:         r.DailyGoal,
		CurrentTask:       r.CurrentTask,
		AutoStart:         r.AutoStart,
		SoundEnabled:      r.SoundEnabled,
	}
}

// DecodeStats parses a stored record. Fields absent from the record keep
// their defaults. On any error the full default record is returned.
func DecodeStats(data []byte) (model.SessionStats, error) {
	defaults := model.DefaultSessionStats()
	if len(strings.TrimSpace(string(data))) == 0 {
		return defaults, fmt.Errorf("%w: empty", ErrMalformedStats)
	}
	rec := recordFrom(defaults)
	ptr := &rec
	// A JSON null sets ptr to nil rather than leaving rec untouched.
	if err := json.Unmarshal(data, &ptr); err != nil {
		return defaults, fmt.Errorf("%w: %v", ErrMalformedStats, err)
	}
	if ptr == nil {
		return defaults, fmt.Errorf("%w: null record", ErrMalformedStats)
	}
	if rec.CompletedSessions < 0 {
		return defaults, fmt.Errorf("%w: negative session count %d", ErrMalformedStats, rec.CompletedSessions)
	}
	if rec.DailyGoal < model.MinDailyGoal {
		rec.DailyGoal = model.MinDailyGoal
	}
	return rec.stats(), nil
}

// EncodeStats serializes stats into the stored record format.
func EncodeStats(stats model.SessionStats) ([]byte, error) {
	return json.Marshal(recordFrom(stats))
}

// StatsAdapter loads and saves SessionStats through a KV store.
type StatsAdapter struct {
	kv  KV
	key string
}

// NewStatsAdapter returns an adapter bound to StatsKey.
func NewStatsAdapter(kv KV) *StatsAdapter {
	return &StatsAdapter{kv: kv, key: StatsKey}
}

// Load returns the stored stats. A missing record yields defaults and no
// error; unreadable or malformed content yields defaults and an error that
// callers are expected to log and otherwise ignore.
func (a *StatsAdapter) Load(ctx context.Context) (model.SessionStats, error) {
	data, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return model.DefaultSessionStats(), fmt.Errorf("read stats: %w", err)
	}
	if !ok {
		return model.DefaultSessionStats(), nil
	}
	return DecodeStats(data)
}

// Save writes stats back synchronously.
func (a *StatsAdapter) Save(ctx context.Context, stats model.SessionStats) error {
	data, err := EncodeStats(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := a.kv.Put(ctx, a.key, data); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/pomo/internal/model"
	"github.com/verte-zerg/pomo/internal/pomodoro"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "pomo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "nested", "pomo.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = os.Stat(filepath.Join(dir, "nested"))
	assert.NoError(t, err)
}

func TestMigrateIdempotent(t *testing.T) {
	st := newTestStore(t)
	assert.NoError(t, st.migrate())
}

func TestKVRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, ok, err := st.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Put(ctx, "k", []byte("one")))
	require.NoError(t, st.Put(ctx, "k", []byte("two")))
	v, ok, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", string(v))
}

func TestStatsAdapterOverStore(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	adapter := pomodoro.NewStatsAdapter(st)

	got, err := adapter.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSessionStats(), got)

	want := model.SessionStats{CompletedSessions: 2, DailyGoal: 4, AutoStart: true, SoundEnabled: true}
	require.NoError(t, adapter.Save(ctx, want))
	got, err = adapter.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, st.Put(ctx, pomodoro.StatsKey, []byte("{broken")))
	got, err = adapter.Load(ctx)
	assert.ErrorIs(t, err, pomodoro.ErrMalformedStats)
	assert.Equal(t, model.DefaultSessionStats(), got)
}

func TestCompletionsListAndLast(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	entries := []model.Completion{
		{Mode: model.Focus, StartedAt: base, EndedAt: base.Add(25 * time.Minute), DurationSec: 1500, Task: "a", DailyGoal: 8},
		{Mode: model.ShortBreak, StartedAt: base.Add(25 * time.Minute), EndedAt: base.Add(30 * time.Minute), DurationSec: 300, DailyGoal: 8},
		{Mode: model.Focus, StartedAt: base.Add(24 * time.Hour), EndedAt: base.Add(24*time.Hour + 25*time.Minute), DurationSec: 1500, Task: "b", DailyGoal: 6},
	}
	for _, e := range entries {
		id, err := st.InsertCompletion(ctx, e)
		require.NoError(t, err)
		assert.NotZero(t, id)
	}

	all, err := st.ListCompletions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.ShortBreak, all[1].Mode)
	assert.True(t, all[0].EndedAt.Equal(entries[0].EndedAt))

	since := base.Add(12 * time.Hour)
	recent, err := st.ListCompletions(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "b", recent[0].Task)

	last, ok, err := st.LastCompletion(ctx, model.Focus)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", last.Task)

	_, ok, err = st.LastCompletion(ctx, model.LongBreak)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecentCompletions(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	modes := []model.Mode{model.Focus, model.ShortBreak, model.Focus, model.LongBreak}
	for i, mode := range modes {
		end := base.Add(time.Duration(i) * time.Hour)
		_, err := st.InsertCompletion(ctx, model.Completion{Mode: mode, StartedAt: end.Add(-time.Minute), EndedAt: end, DurationSec: mode.Duration()})
		require.NoError(t, err)
	}

	recent, err := st.RecentCompletions(ctx, 2, nil)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, model.LongBreak, recent[0].Mode)
	assert.Equal(t, model.Focus, recent[1].Mode)

	focus := model.Focus
	onlyFocus, err := st.RecentCompletions(ctx, 10, &focus)
	require.NoError(t, err)
	assert.Len(t, onlyFocus, 2)

	none, err := st.RecentCompletions(ctx, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

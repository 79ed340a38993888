// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/pomo/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Timestamps are stored in UTC with fixed precision so they sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for the stats record and completion history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS completions (
			id INTEGER PRIMARY KEY,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_sec INTEGER NOT NULL,
			task TEXT NOT NULL,
			daily_goal INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_ended_at ON completions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_completions_mode ON completions(mode);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the raw value stored under key. The boolean is false when the
// key has never been written.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

// Put stores value under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), formatTime(s.now()))
	return err
}

// InsertCompletion stores a finished countdown.
func (s *Store) InsertCompletion(ctx context.Context, c model.Completion) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO completions (mode, started_at, ended_at, duration_sec, task, daily_goal)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.Mode.String(),
		formatTime(c.StartedAt),
		formatTime(c.EndedAt),
		c.DurationSec,
		c.Task,
		c.DailyGoal,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListCompletions returns completions filtered by stats config, oldest first.
func (s *Store) ListCompletions(ctx context.Context, cfg model.StatsConfig) ([]model.Completion, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT id, mode, started_at, ended_at, duration_sec, task, daily_goal
		FROM completions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	return s.queryCompletions(ctx, query, args...)
}

// LastCompletion returns the most recent completion of mode.
func (s *Store) LastCompletion(ctx context.Context, mode model.Mode) (model.Completion, bool, error) {
	list, err := s.queryCompletions(ctx, `SELECT id, mode, started_at, ended_at, duration_sec, task, daily_goal
		FROM completions
		WHERE mode = ?
		ORDER BY ended_at DESC
		LIMIT 1`, mode.String())
	if err != nil {
		return model.Completion{}, false, err
	}
	if len(list) == 0 {
		return model.Completion{}, false, nil
	}
	return list[0], true, nil
}

// RecentCompletions returns up to limit completions, newest first. A nil mode
// matches every mode.
func (s *Store) RecentCompletions(ctx context.Context, limit int, mode *model.Mode) ([]model.Completion, error) {
	if limit <= 0 {
		return nil, nil
	}
	clauses := []string{"1=1"}
	args := []any{}
	if mode != nil {
		clauses = append(clauses, "mode = ?")
		args = append(args, mode.String())
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT id, mode, started_at, ended_at, duration_sec, task, daily_goal
		FROM completions
		WHERE %s
		ORDER BY ended_at DESC
		LIMIT ?`, strings.Join(clauses, " AND "))
	return s.queryCompletions(ctx, query, args...)
}

func (s *Store) queryCompletions(ctx context.Context, query string, args ...any) ([]model.Completion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Completion
	for rows.Next() {
		var c model.Completion
		var mode, startedAt, endedAt string
		if err := rows.Scan(&c.ID, &mode, &startedAt, &endedAt, &c.DurationSec, &c.Task, &c.DailyGoal); err != nil {
			return nil, err
		}
		c.Mode, err = model.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		if c.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if c.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

package stats

import (
	"context"
	"time"

	"github.com/verte-zerg/pomo/internal/model"
	"github.com/verte-zerg/pomo/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Completions []model.Completion
	Days        []model.DayAggregate
	Summary     Summary
	Window      int
	Now         time.Time
}

// BuildReport loads completions and groups them into days in now's location.
// cfg.Last keeps only the last N calendar days ending today.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig, now time.Time) (Report, error) {
	if cfg.Last > 0 {
		cutoff := DayOf(now, now.Location()).AddDate(0, 0, -(cfg.Last - 1))
		if cfg.Since == nil || cfg.Since.Before(cutoff) {
			cfg.Since = &cutoff
		}
	}
	completions, err := st.ListCompletions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	days := DailyAggregates(completions, now.Location())
	return Report{
		Completions: completions,
		Days:        days,
		Summary:     Summarize(days, now),
		Window:      max(cfg.Window, 1),
		Now:         now,
	}, nil
}

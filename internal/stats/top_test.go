package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/pomo/internal/model"
)

func TestTopDaysByFocus(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	days := []model.DayAggregate{
		{Day: base, Focus: 3},
		{Day: base.AddDate(0, 0, 1), Focus: 6},
		{Day: base.AddDate(0, 0, 2), Focus: 3},
	}
	top := TopDays(days, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 days, got %d", len(top))
	}
	if top[0].Focus != 6 {
		t.Fatalf("unexpected first day: %+v", top[0])
	}
	if !top[1].Day.Equal(base.AddDate(0, 0, 2)) {
		t.Fatalf("ties should prefer the newer day: %+v", top[1])
	}
	if got := TopDays(days, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}

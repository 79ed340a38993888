// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"

	"github.com/verte-zerg/pomo/internal/model"
)

// TopDays returns the n days with the most focus sessions.
func TopDays(days []model.DayAggregate, n int) []model.DayAggregate {
	if n <= 0 || len(days) == 0 {
		return nil
	}
	items := append([]model.DayAggregate(nil), days...)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Focus == items[j].Focus {
			return items[i].Day.After(items[j].Day)
		}
		return items[i].Focus > items[j].Focus
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

func sortDays(days []model.DayAggregate) {
	sort.Slice(days, func(i, j int) bool {
		return days[i].Day.Before(days[j].Day)
	})
}

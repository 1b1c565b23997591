package insights

import (
	"sort"
	"time"

	"feedback-insights-go/internal/types"
)

// WeekBucket truncates a timestamp to the start of its ISO week (Monday)
// and formats it as a fixed, sortable YYYY-MM-DD label.
func WeekBucket(t time.Time) string {
	offset := (int(t.Weekday()) + 6) % 7
	start := t.AddDate(0, 0, -offset)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, t.Location()).Format("2006-01-02")
}

// Trend counts records per (week, theme). Records without a date are
// skipped; (week, theme) pairs with no records get no row, so consumers
// must not expect a dense grid. Output is sorted by week, then theme.
func Trend(records []types.FeedbackRecord) []types.TrendPoint {
	type key struct{ week, theme string }
	counts := make(map[key]int)
	for _, r := range records {
		if r.Date == nil {
			continue
		}
		counts[key{WeekBucket(*r.Date), r.Theme}]++
	}

	out := make([]types.TrendPoint, 0, len(counts))
	for k, c := range counts {
		out = append(out, types.TrendPoint{Week: k.week, Theme: k.theme, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].Theme < out[j].Theme
	})
	return out
}

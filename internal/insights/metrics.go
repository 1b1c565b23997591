// Package insights computes per-theme metrics, the priority ranking,
// week-bucketed trends and the generated executive summary.
package insights

import (
	"sort"

	"feedback-insights-go/internal/types"
)

// ratingCeiling is one above the max plausible rating of 5, so the
// (ceiling - avg_rating) factor rewards low-rated themes.
const ratingCeiling = 6

// ThemeMetrics groups records by theme, in first-appearance order, and
// computes volume, rating and priority aggregates. Absent ratings are
// excluded from both avg_rating and negative_rate (numerator and
// denominator); a theme with no rated feedback has nil for all three
// derived values and sorts after every scored theme.
func ThemeMetrics(records []types.FeedbackRecord) []types.ThemeMetrics {
	type acc struct {
		count    int
		rated    int
		sum      float64
		negative int
	}
	order := make([]string, 0)
	byTheme := make(map[string]*acc)
	for _, r := range records {
		a, ok := byTheme[r.Theme]
		if !ok {
			a = &acc{}
			byTheme[r.Theme] = a
			order = append(order, r.Theme)
		}
		a.count++
		if r.Rating != nil {
			a.rated++
			a.sum += *r.Rating
			if *r.Rating <= 2 {
				a.negative++
			}
		}
	}

	out := make([]types.ThemeMetrics, 0, len(order))
	for _, theme := range order {
		a := byTheme[theme]
		m := types.ThemeMetrics{Theme: theme, FeedbackCount: a.count}
		if a.rated > 0 {
			avg := a.sum / float64(a.rated)
			neg := float64(a.negative) / float64(a.rated)
			score := float64(a.count) * (1 + neg) * (ratingCeiling - avg)
			m.AvgRating = &avg
			m.NegativeRate = &neg
			m.PriorityScore = &score
		}
		out = append(out, m)
	}

	// Priority descending; unscored themes last; ties keep group-by order.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PriorityScore, out[j].PriorityScore
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
	return out
}

// SentimentCounts tallies records per sentiment label.
func SentimentCounts(records []types.FeedbackRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Sentiment]++
	}
	return counts
}

// ThemeExamples collects up to perTheme example texts for each listed
// theme, in table order.
func ThemeExamples(records []types.FeedbackRecord, themes []string, perTheme int) map[string][]string {
	out := make(map[string][]string, len(themes))
	for _, theme := range themes {
		for _, r := range records {
			if r.Theme != theme || len(out[theme]) == perTheme {
				continue
			}
			out[theme] = append(out[theme], r.Text)
		}
	}
	return out
}

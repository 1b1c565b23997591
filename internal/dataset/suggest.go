package dataset

import (
	"strings"

	"feedback-insights-go/internal/types"
)

// SuggestMapping guesses a column mapping from header names. The guess is
// advisory only: the caller's explicit mapping always wins at the ingest
// boundary. First match per role wins, in header order.
func SuggestMapping(header []string) types.ColumnMapping {
	var m types.ColumnMapping
	for _, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case m.Text == "" && (strings.Contains(l, "text") || strings.Contains(l, "comment") ||
			strings.Contains(l, "feedback") || strings.Contains(l, "review") || strings.Contains(l, "message")):
			m.Text = h
		case m.Date == "" && (strings.Contains(l, "date") || strings.Contains(l, "time") || strings.Contains(l, "created")):
			m.Date = h
		case m.Rating == "" && (strings.Contains(l, "rating") || strings.Contains(l, "score") || strings.Contains(l, "stars")):
			m.Rating = h
		case m.Source == "" && (strings.Contains(l, "source") || strings.Contains(l, "channel") || strings.Contains(l, "platform")):
			m.Source = h
		}
	}
	return m
}

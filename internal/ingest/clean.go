package ingest

import (
	"strings"

	"feedback-insights-go/internal/logger"
	"feedback-insights-go/internal/types"
)

// Clean drops rows whose trimmed text is empty and finalizes the remaining
// ones: missing sources become "unknown" and the sentiment label is derived
// from the rating. Rating, date and source problems never remove a row.
// IDs are not reassigned, so gaps mark where rows were dropped.
func Clean(records []types.FeedbackRecord) []types.FeedbackRecord {
	out := make([]types.FeedbackRecord, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if strings.TrimSpace(r.Source) == "" {
			r.Source = "unknown"
		}
		r.Sentiment = types.SentimentFromRating(r.Rating)
		out = append(out, r)
	}
	if dropped := len(records) - len(out); dropped > 0 {
		logger.Component("ingest").WithField("dropped", dropped).Info("empty-text rows removed")
	}
	return out
}

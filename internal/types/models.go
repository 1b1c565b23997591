package types

import "time"

// ColumnMapping binds the caller's column choices to the standard schema.
// Text is required; the rest are optional and empty means "no column".
type ColumnMapping struct {
	Text   string `json:"text_column"`
	Date   string `json:"date_column,omitempty"`
	Rating string `json:"rating_column,omitempty"`
	Source string `json:"source_column,omitempty"`
}

// FeedbackRecord is one row in the standard schema. Rating and Date are
// pointers because absence is meaningful: a missing rating must stay
// missing through aggregation, never coerce to zero.
type FeedbackRecord struct {
	ID        int        `json:"id"`
	Text      string     `json:"text"`
	Date      *time.Time `json:"date,omitempty"`
	Source    string     `json:"source"`
	Rating    *float64   `json:"rating,omitempty"`
	Sentiment string     `json:"sentiment,omitempty"`
	ClusterID int        `json:"cluster_id"`
	Theme     string     `json:"theme,omitempty"`
}

// SentimentFromRating maps a rating to a sentiment label. Absent ratings
// are "unknown", never a numeric default.
func SentimentFromRating(rating *float64) string {
	switch {
	case rating == nil:
		return "unknown"
	case *rating <= 2:
		return "negative"
	case *rating == 3:
		return "neutral"
	default:
		return "positive"
	}
}

// ThemeMetrics holds per-theme aggregates. AvgRating, NegativeRate and
// PriorityScore are nil for themes with no rated feedback.
type ThemeMetrics struct {
	Theme         string   `json:"theme"`
	FeedbackCount int      `json:"feedback_count"`
	AvgRating     *float64 `json:"avg_rating"`
	NegativeRate  *float64 `json:"negative_rate"`
	PriorityScore *float64 `json:"priority_score"`
}

// TrendPoint is one (week, theme) count for the trend line chart. Weeks
// with no feedback for a theme have no point.
type TrendPoint struct {
	Week  string `json:"week"`
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// AnalysisResult is everything the presentation layer renders for one run.
type AnalysisResult struct {
	RunID           string              `json:"run_id"`
	Records         []FeedbackRecord    `json:"records"`
	ThemesAvailable bool                `json:"themes_available"`
	Metrics         []ThemeMetrics      `json:"theme_metrics,omitempty"`
	Trend           []TrendPoint        `json:"trend,omitempty"`
	SentimentCounts map[string]int      `json:"sentiment_counts"`
	ThemeExamples   map[string][]string `json:"theme_examples,omitempty"`
	Summary         string              `json:"executive_summary,omitempty"`
	DurationMs      int64               `json:"duration_ms"`
}

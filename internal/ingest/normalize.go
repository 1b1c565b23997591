// Package ingest maps arbitrary tables into the standard feedback schema
// and enforces its validity rules. Malformed cells degrade to absent values
// here; only empty text ever costs a row, and that happens in Clean.
package ingest

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"feedback-insights-go/internal/dataset"
	"feedback-insights-go/internal/logger"
	"feedback-insights-go/internal/types"
)

// ErrTextColumnRequired is returned when the mapping has no text column.
var ErrTextColumnRequired = errors.New("text column is required")

// leading number in values like "5 stars" or "4/5"
var ratingRe = regexp.MustCompile(`\d+\.?\d*`)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Normalize converts a raw table into the standard schema {id, date, source,
// rating, text}. IDs are the 1-based row positions. When no date column is
// mapped every row gets ingestedAt, a single fixed timestamp for the batch.
// Optional mapping entries naming a column the table lacks are treated as
// unmapped, matching how a caller deselects a column.
func Normalize(t dataset.Table, m types.ColumnMapping, ingestedAt time.Time) ([]types.FeedbackRecord, error) {
	if strings.TrimSpace(m.Text) == "" {
		return nil, ErrTextColumnRequired
	}
	textIdx := t.ColumnIndex(m.Text)
	if textIdx < 0 {
		return nil, fmt.Errorf("%w: column %q not in header", ErrTextColumnRequired, m.Text)
	}

	dateIdx, ratingIdx, sourceIdx := -1, -1, -1
	if m.Date != "" {
		dateIdx = t.ColumnIndex(m.Date)
	}
	if m.Rating != "" {
		ratingIdx = t.ColumnIndex(m.Rating)
	}
	if m.Source != "" {
		sourceIdx = t.ColumnIndex(m.Source)
	}

	log := logger.Component("ingest")
	records := make([]types.FeedbackRecord, 0, len(t.Rows))
	for i := range t.Rows {
		rec := types.FeedbackRecord{
			ID:     i + 1,
			Text:   t.Cell(i, textIdx),
			Source: "unknown",
		}
		if dateIdx >= 0 {
			rec.Date = parseDate(t.Cell(i, dateIdx))
		} else {
			d := ingestedAt
			rec.Date = &d
		}
		if ratingIdx >= 0 {
			rec.Rating = parseRating(t.Cell(i, ratingIdx))
		}
		if sourceIdx >= 0 {
			if s := strings.TrimSpace(t.Cell(i, sourceIdx)); s != "" {
				rec.Source = s
			}
		}
		records = append(records, rec)
	}
	log.WithField("rows", len(records)).Info("table normalized")
	return records, nil
}

func parseDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return &d
		}
	}
	return nil
}

func parseRating(v string) *float64 {
	match := ratingRe.FindString(v)
	if match == "" {
		return nil
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &f
}

package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedback-insights-go/internal/dataset"
	"feedback-insights-go/internal/types"
)

var ingestedAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

func TestNormalizeStandardSchema(t *testing.T) {
	table := dataset.Table{
		Header: []string{"comment", "when", "stars", "channel"},
		Rows: [][]string{
			{"great app", "2026-01-05", "5 stars", "appstore"},
			{"broken login", "not a date", "oops", ""},
			{"meh", "2026-01-07", "4/5"}, // ragged row: channel cell missing
		},
	}
	mapping := types.ColumnMapping{Text: "comment", Date: "when", Rating: "stars", Source: "channel"}

	recs, err := Normalize(table, mapping, ingestedAt)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	for i, r := range recs {
		assert.Equal(t, i+1, r.ID, "ids are the 1-based row positions")
	}

	assert.Equal(t, "great app", recs[0].Text)
	require.NotNil(t, recs[0].Date)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), *recs[0].Date)
	require.NotNil(t, recs[0].Rating)
	assert.Equal(t, 5.0, *recs[0].Rating)
	assert.Equal(t, "appstore", recs[0].Source)

	// malformed cells degrade to absent, never an error
	assert.Nil(t, recs[1].Date)
	assert.Nil(t, recs[1].Rating)
	assert.Equal(t, "unknown", recs[1].Source)

	// "4/5" style rating takes the leading number
	require.NotNil(t, recs[2].Rating)
	assert.Equal(t, 4.0, *recs[2].Rating)
	assert.Equal(t, "unknown", recs[2].Source)
}

func TestNormalizeWithoutOptionalColumns(t *testing.T) {
	table := dataset.Table{
		Header: []string{"comment"},
		Rows:   [][]string{{"one"}, {"two"}, {"three"}},
	}

	recs, err := Normalize(table, types.ColumnMapping{Text: "comment"}, ingestedAt)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	for _, r := range recs {
		require.NotNil(t, r.Date)
		assert.Equal(t, ingestedAt, *r.Date, "one fixed timestamp for the whole batch")
		assert.Nil(t, r.Rating)
		assert.Equal(t, "unknown", r.Source)
	}
}

func TestNormalizeRequiresTextColumn(t *testing.T) {
	table := dataset.Table{Header: []string{"comment"}, Rows: [][]string{{"x"}}}

	_, err := Normalize(table, types.ColumnMapping{}, ingestedAt)
	assert.ErrorIs(t, err, ErrTextColumnRequired)

	_, err = Normalize(table, types.ColumnMapping{Text: "no_such_column"}, ingestedAt)
	assert.ErrorIs(t, err, ErrTextColumnRequired)
}

func TestNormalizeIgnoresMissingOptionalColumns(t *testing.T) {
	table := dataset.Table{Header: []string{"comment"}, Rows: [][]string{{"x"}}}
	mapping := types.ColumnMapping{Text: "comment", Date: "gone", Rating: "gone", Source: "gone"}

	recs, err := Normalize(table, mapping, ingestedAt)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].Date)
	assert.Equal(t, ingestedAt, *recs[0].Date)
	assert.Nil(t, recs[0].Rating)
	assert.Equal(t, "unknown", recs[0].Source)
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{"5 stars", f(5)},
		{"4/5", f(4)},
		{"3.5", f(3.5)},
		{"rated 2 out of 5", f(2)},
		{"terrible", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got := parseRating(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		require.NotNil(t, got, "input %q", tt.in)
		assert.Equal(t, *tt.want, *got, "input %q", tt.in)
	}
}

func f(v float64) *float64 { return &v }

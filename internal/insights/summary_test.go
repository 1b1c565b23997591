package insights

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedback-insights-go/internal/llm"
	"feedback-insights-go/internal/types"
)

type fakeCompleter struct {
	system string
	user   string
	resp   string
	err    error
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string, _ float64) (string, error) {
	f.system = system
	f.user = user
	return f.resp, f.err
}

func summaryFixture() ([]types.FeedbackRecord, []types.ThemeMetrics) {
	records := []types.FeedbackRecord{
		{Text: "refund took weeks", Theme: "Refund delays"},
		{Text: "no refund yet", Theme: "Refund delays"},
		{Text: "love the app", Theme: "Praise"},
	}
	metrics := []types.ThemeMetrics{
		{Theme: "Refund delays", FeedbackCount: 2, AvgRating: f(1.5), NegativeRate: f(1), PriorityScore: f(18)},
		{Theme: "Praise", FeedbackCount: 1, AvgRating: f(5), NegativeRate: f(0), PriorityScore: f(1)},
	}
	return records, metrics
}

func TestExecutiveSummaryPromptAndResponse(t *testing.T) {
	records, metrics := summaryFixture()
	fake := &fakeCompleter{resp: "  All good.\n"}

	out, err := NewSummaryGenerator(fake).ExecutiveSummary(context.Background(), records, metrics, 5)
	require.NoError(t, err)
	assert.Equal(t, "All good.", out, "response returned verbatim after trimming")

	assert.Equal(t, summarySystemPrompt, fake.system)
	assert.Contains(t, fake.user, "- Theme: Refund delays | count=2 | avg_rating=1.50 | negative_rate=100%")
	assert.Contains(t, fake.user, "- Theme: Praise | count=1 | avg_rating=5.00 | negative_rate=0%")
	assert.Contains(t, fake.user, "refund took weeks")
	assert.Contains(t, fake.user, "no refund yet")
	assert.Contains(t, fake.user, "Recommended actions")
}

func TestExecutiveSummaryTopNLimitsThemes(t *testing.T) {
	records, metrics := summaryFixture()
	fake := &fakeCompleter{resp: "ok"}

	_, err := NewSummaryGenerator(fake).ExecutiveSummary(context.Background(), records, metrics, 1)
	require.NoError(t, err)
	assert.Contains(t, fake.user, "Refund delays")
	assert.NotContains(t, fake.user, "Praise")
}

func TestExecutiveSummaryUnratedThemeFormatsNA(t *testing.T) {
	records := []types.FeedbackRecord{{Text: "hm", Theme: "misc"}}
	metrics := []types.ThemeMetrics{{Theme: "misc", FeedbackCount: 1}}
	fake := &fakeCompleter{resp: "ok"}

	_, err := NewSummaryGenerator(fake).ExecutiveSummary(context.Background(), records, metrics, 5)
	require.NoError(t, err)
	assert.Contains(t, fake.user, "avg_rating=n/a")
	assert.Contains(t, fake.user, "negative_rate=n/a")
}

func TestExecutiveSummaryFailureIsFatal(t *testing.T) {
	records, metrics := summaryFixture()
	fake := &fakeCompleter{err: errors.New("timeout")}

	out, err := NewSummaryGenerator(fake).ExecutiveSummary(context.Background(), records, metrics, 5)
	assert.Error(t, err)
	assert.Empty(t, out, "no placeholder substitute for a failed call")
}

func TestExecutiveSummaryWithoutCompleter(t *testing.T) {
	records, metrics := summaryFixture()

	_, err := NewSummaryGenerator(nil).ExecutiveSummary(context.Background(), records, metrics, 5)
	assert.ErrorIs(t, err, llm.ErrNoAPIKey)
}

package insights

import (
	"context"
	"fmt"
	"strings"

	"feedback-insights-go/internal/llm"
	"feedback-insights-go/internal/types"
)

const (
	// DefaultTopN is how many top-priority themes feed the summary.
	DefaultTopN = 5

	examplesPerTheme   = 3
	summaryTemperature = 0.3

	summarySystemPrompt = "You write concise executive summaries for product teams."
)

// SummaryGenerator produces a natural-language executive brief from the
// top-ranked themes and representative evidence. The response text is
// returned verbatim after trimming; its structure is not validated.
type SummaryGenerator struct {
	completer llm.Completer
}

func NewSummaryGenerator(completer llm.Completer) *SummaryGenerator {
	return &SummaryGenerator{completer: completer}
}

// ExecutiveSummary issues one chat request built from the topN metrics rows
// and up to three example comments per theme. A failed request is fatal to
// the summary; no placeholder text is substituted.
func (g *SummaryGenerator) ExecutiveSummary(ctx context.Context, records []types.FeedbackRecord, metrics []types.ThemeMetrics, topN int) (string, error) {
	if g == nil || g.completer == nil {
		return "", llm.ErrNoAPIKey
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	if topN > len(metrics) {
		topN = len(metrics)
	}
	top := metrics[:topN]

	bullets := make([]string, 0, len(top))
	themes := make([]string, 0, len(top))
	for _, m := range top {
		bullets = append(bullets, fmt.Sprintf("- Theme: %s | count=%d | avg_rating=%s | negative_rate=%s",
			m.Theme, m.FeedbackCount, formatRating(m.AvgRating), formatPercent(m.NegativeRate)))
		themes = append(themes, m.Theme)
	}

	examples := ThemeExamples(records, themes, examplesPerTheme)
	evidence := make([]string, 0, len(themes))
	for _, theme := range themes {
		var b strings.Builder
		fmt.Fprintf(&b, "\nTheme: %s", theme)
		for _, s := range examples[theme] {
			fmt.Fprintf(&b, "\n  - %s", s)
		}
		evidence = append(evidence, b.String())
	}

	prompt := "Create an executive-ready weekly summary of customer feedback.\n" +
		"Include:\n" +
		"1) Key insights (3-5 bullets)\n" +
		"2) Top risks/issues (2-4 bullets)\n" +
		"3) Recommended actions (3-6 bullets) with clear owners (Product, Eng, Support)\n" +
		"Keep it concise and business-friendly.\n\n" +
		"Theme metrics:\n" + strings.Join(bullets, "\n") + "\n\n" +
		"Evidence:\n" + strings.Join(evidence, "\n")

	resp, err := g.completer.Complete(ctx, summarySystemPrompt, prompt, summaryTemperature)
	if err != nil {
		return "", fmt.Errorf("executive summary: %w", err)
	}
	return strings.TrimSpace(resp), nil
}

func formatRating(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", *v*100)
}

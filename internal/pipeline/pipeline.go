// Package pipeline runs the full batch transformation: normalize → clean →
// embed → cluster → label → aggregate → summarize. Every run recomputes
// everything from scratch; nothing persists between runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"feedback-insights-go/internal/cluster"
	"feedback-insights-go/internal/dataset"
	"feedback-insights-go/internal/embed"
	"feedback-insights-go/internal/ingest"
	"feedback-insights-go/internal/insights"
	"feedback-insights-go/internal/label"
	"feedback-insights-go/internal/llm"
	"feedback-insights-go/internal/logger"
	"feedback-insights-go/internal/types"
)

// ErrNoUsableRows means cleaning removed every row; no downstream stage runs.
var ErrNoUsableRows = errors.New("no usable rows after cleaning")

const defaultThemes = 8

// Options controls one analysis run.
type Options struct {
	Mapping         types.ColumnMapping `json:"mapping"`
	Themes          int                 `json:"themes"`
	LabelThemes     bool                `json:"label_themes"`
	GenerateSummary bool                `json:"generate_summary"`
	TopN            int                 `json:"top_n"`
}

// Pipeline wires the stages together. A nil embedder degrades the run to
// normalization and cleaning only; a nil completer limits labeling to the
// default placeholders and disables the summary.
type Pipeline struct {
	embedder   *embed.Service
	labeler    *label.Labeler
	summarizer *insights.SummaryGenerator
}

func New(embedClient llm.Embedder, completer llm.Completer) *Pipeline {
	p := &Pipeline{}
	if embedClient != nil {
		p.embedder = embed.New(embedClient)
	}
	if completer != nil {
		p.labeler = label.New(completer)
		p.summarizer = insights.NewSummaryGenerator(completer)
	}
	return p
}

// Run executes the pipeline over one raw table. External-call failures
// abort the run (except per-cluster label fallback); data-quality problems
// never do.
func (p *Pipeline) Run(ctx context.Context, table dataset.Table, opts Options) (*types.AnalysisResult, error) {
	runID := uuid.New().String()
	log := logger.Component("pipeline").WithField("run_id", runID)
	start := time.Now()

	if opts.Themes < 2 {
		opts.Themes = defaultThemes
	}
	if opts.TopN <= 0 {
		opts.TopN = insights.DefaultTopN
	}

	records, err := ingest.Normalize(table, opts.Mapping, time.Now())
	if err != nil {
		return nil, err
	}
	records = ingest.Clean(records)
	if len(records) == 0 {
		return nil, ErrNoUsableRows
	}
	log.WithField("rows", len(records)).Info("table normalized and cleaned")

	res := &types.AnalysisResult{
		RunID:           runID,
		SentimentCounts: insights.SentimentCounts(records),
	}

	if p.embedder == nil {
		log.Warn("embedding service unavailable, returning normalized table only")
		res.Records = records
		res.DurationMs = time.Since(start).Milliseconds()
		return res, nil
	}

	texts := make([]string, len(records))
	for i, r := range records {
		texts[i] = r.Text
	}
	embedStart := time.Now()
	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding stage: %w", err)
	}
	log.WithField("duration_ms", time.Since(embedStart).Milliseconds()).Info("embedding complete")

	labels := cluster.Assign(vectors, opts.Themes)
	for i := range records {
		records[i].ClusterID = labels[i]
	}

	themes := label.Default(records)
	if opts.LabelThemes && p.labeler != nil {
		themes = p.labeler.LabelClusters(ctx, records)
	}
	for i := range records {
		records[i].Theme = themes[records[i].ClusterID]
	}
	log.WithField("themes", len(themes)).Info("clusters labeled")

	res.Records = records
	res.ThemesAvailable = true
	res.Metrics = insights.ThemeMetrics(records)
	res.Trend = insights.Trend(records)
	res.ThemeExamples = insights.ThemeExamples(records, themeNames(res.Metrics), 3)

	if opts.GenerateSummary && p.summarizer != nil {
		s, err := p.summarizer.ExecutiveSummary(ctx, records, res.Metrics, opts.TopN)
		if err != nil {
			return nil, err
		}
		res.Summary = s
	}

	res.DurationMs = time.Since(start).Milliseconds()
	log.WithField("duration_ms", res.DurationMs).Info("analysis complete")
	return res, nil
}

func themeNames(metrics []types.ThemeMetrics) []string {
	names := make([]string, len(metrics))
	for i, m := range metrics {
		names[i] = m.Theme
	}
	return names
}

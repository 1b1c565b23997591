// Package label names clusters. Without a generative client every cluster
// gets a deterministic placeholder; with one, each cluster is named from
// representative feedback, falling back per cluster on failure.
package label

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"feedback-insights-go/internal/llm"
	"feedback-insights-go/internal/logger"
	"feedback-insights-go/internal/types"
)

const (
	maxExamplesPerCluster = 10
	maxLabelTokens        = 5
	labelTemperature      = 0.2

	systemPrompt = "Return only the theme label."
)

// Default maps every cluster id present in records to "Theme {id}".
func Default(records []types.FeedbackRecord) map[int]string {
	themes := make(map[int]string)
	for _, r := range records {
		if _, ok := themes[r.ClusterID]; !ok {
			themes[r.ClusterID] = fmt.Sprintf("Theme %d", r.ClusterID)
		}
	}
	return themes
}

// Labeler assigns display names to clusters via a chat completion per
// cluster. Requests are independent: no cross-cluster context is shared.
type Labeler struct {
	completer llm.Completer
}

func New(completer llm.Completer) *Labeler {
	return &Labeler{completer: completer}
}

// LabelClusters returns a complete cluster-id → label map for the records.
// A failed request names only its own cluster with the default placeholder;
// the remaining clusters still get generated labels.
func (l *Labeler) LabelClusters(ctx context.Context, records []types.FeedbackRecord) map[int]string {
	log := logger.Component("label")
	themes := Default(records)
	if l == nil || l.completer == nil {
		return themes
	}

	for _, cid := range sortedClusterIDs(themes) {
		examples := representativeTexts(records, cid, maxExamplesPerCluster)
		name, err := l.labelOne(ctx, examples)
		if err != nil {
			log.WithField("cluster_id", cid).WithError(err).Warn("label request failed, keeping default")
			continue
		}
		if name != "" {
			themes[cid] = name
		}
	}
	return themes
}

func (l *Labeler) labelOne(ctx context.Context, examples []string) (string, error) {
	var b strings.Builder
	b.WriteString("You are labeling customer feedback themes.\n")
	b.WriteString("Given these user comments, return a SHORT theme label (2-4 words). No quotes, no extra text.\n\nComments:\n")
	for _, e := range examples {
		fmt.Fprintf(&b, "- %s\n", e)
	}

	resp, err := l.completer.Complete(ctx, systemPrompt, b.String(), labelTemperature)
	if err != nil {
		return "", err
	}
	return truncateLabel(resp), nil
}

// representativeTexts returns up to limit texts for a cluster, in table
// order, not sampled.
func representativeTexts(records []types.FeedbackRecord, clusterID, limit int) []string {
	var out []string
	for _, r := range records {
		if r.ClusterID != clusterID {
			continue
		}
		out = append(out, r.Text)
		if len(out) == limit {
			break
		}
	}
	return out
}

func truncateLabel(s string) string {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) > maxLabelTokens {
		fields = fields[:maxLabelTokens]
	}
	return strings.Join(fields, " ")
}

func sortedClusterIDs(themes map[int]string) []int {
	ids := make([]int, 0, len(themes))
	for id := range themes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Package embed turns feedback texts into fixed-length vectors for
// clustering, batching requests to bound payload size.
package embed

import (
	"context"
	"fmt"

	"feedback-insights-go/internal/llm"
	"feedback-insights-go/internal/logger"
)

// BatchSize caps how many texts go into one embedding request.
const BatchSize = 100

// Service batches texts through an Embedder, preserving input order: the
// concatenation of chunk outputs equals what one unchunked call would
// return. A failed chunk aborts the whole run, no partial output.
type Service struct {
	client llm.Embedder
}

func New(client llm.Embedder) *Service {
	return &Service{client: client}
}

// EmbedTexts returns one vector per input text, row i matching text i.
func (s *Service) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	log := logger.Component("embed").WithField("texts", len(texts))
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += BatchSize {
		end := start + BatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := s.client.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embed batch %d-%d: got %d vectors, want %d", start, end, len(batch), end-start)
		}
		vectors = append(vectors, batch...)
	}
	log.WithField("vectors", len(vectors)).Info("embeddings generated")
	return vectors, nil
}

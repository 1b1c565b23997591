package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryEmbedder wraps an Embedder with exponential-backoff retries. This is
// the caller-side resilience layer; the pipeline core stays retry-free.
type RetryEmbedder struct {
	Inner      Embedder
	MaxElapsed time.Duration
}

func (r RetryEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	operation := func() error {
		v, err := r.Inner.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		out = v
		return nil
	}
	if err := backoff.Retry(operation, r.policy(ctx)); err != nil {
		return nil, err
	}
	return out, nil
}

func (r RetryEmbedder) policy(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = r.MaxElapsed
	return backoff.WithContext(bo, ctx)
}

// RetryCompleter is the Completer counterpart of RetryEmbedder.
type RetryCompleter struct {
	Inner      Completer
	MaxElapsed time.Duration
}

func (r RetryCompleter) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	var out string
	operation := func() error {
		v, err := r.Inner.Complete(ctx, system, user, temperature)
		if err != nil {
			return err
		}
		out = v
		return nil
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = r.MaxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return out, nil
}

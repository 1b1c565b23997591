// Package llm is the external service boundary: hosted text embeddings and
// chat completions. The client never retries on its own; callers that want
// resilience wrap it with the decorators in retry.go.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// ErrNoAPIKey is returned by NewClient when no credential is configured.
// Callers treat it as "embedding-dependent stages unavailable", not fatal.
var ErrNoAPIKey = errors.New("llm: api key not configured")

// Embedder turns a batch of texts into one vector per text, in input order.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer issues a single chat completion and returns the trimmed text.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

// Client calls the OpenAI embeddings and chat APIs via the official SDK.
type Client struct {
	sdk        openai.Client
	embedModel openai.EmbeddingModel
	chatModel  openai.ChatModel
}

// NewClient builds a client for the given credential and models. SDK-level
// retries are disabled so the abort-on-failure policy holds per call.
func NewClient(apiKey, embedModel, chatModel string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return &Client{
		sdk:        openai.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0)),
		embedModel: openai.EmbeddingModel(embedModel),
		chatModel:  openai.ChatModel(chatModel),
	}, nil
}

// EmbedBatch embeds all texts in one request. Row i of the result is the
// vector for texts[i]; the response index field is honored rather than
// trusting response order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.sdk.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: c.embedModel,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		out[d.Index] = vec
	}
	return out, nil
}

// Complete sends one system+user message pair and returns the completion.
func (c *Client) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	resp, err := c.sdk.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: param.NewOpt(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Package gemini produces text embeddings with the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/heartmarshall/jpkr-backend/internal/config"
)

// Embedder generates semantic-similarity embeddings.
type Embedder struct {
	client *genai.Client
	model  string
	dims   int
	log    *slog.Logger
}

// NewEmbedder creates an Embedder for cfg. baseURL overrides the API
// endpoint when non-empty.
func NewEmbedder(ctx context.Context, cfg config.EmbeddingConfig, baseURL string, logger *slog.Logger) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Embedder{
		client: client,
		model:  cfg.Model,
		dims:   cfg.Dimensions,
		log:    logger.With("adapter", "gemini"),
	}, nil
}

// Dimensions returns the requested embedding width.
func (e *Embedder) Dimensions() int {
	return e.dims
}

// EmbedBatch returns one vector per text, in order. Vectors are returned as
// produced by the API; callers normalize.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	dims := int32(e.dims)
	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType:             "SEMANTIC_SIMILARITY",
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: embed %d texts: %w", len(texts), err)
	}

	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini: got %d embeddings for %d texts", len(result.Embeddings), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) != e.dims {
			got := 0
			if emb != nil {
				got = len(emb.Values)
			}
			return nil, fmt.Errorf("gemini: embedding %d has %d dims, want %d", i, got, e.dims)
		}
		out[i] = emb.Values
	}

	e.log.DebugContext(ctx, "embedded batch", slog.Int("texts", len(texts)), slog.String("model", e.model))
	return out, nil
}

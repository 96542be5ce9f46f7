// Package embedding fills in missing word and example embeddings.
package embedding

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

type wordStore interface {
	ListMissingEmbedding(ctx context.Context, afterID int64, limit int) ([]domain.Word, error)
	UpdateEmbedding(ctx context.Context, wordID int64, vec []float32) error
}

type exampleStore interface {
	ListMissingEmbedding(ctx context.Context, afterID int64, limit int) ([]domain.Example, error)
	UpdateEmbedding(ctx context.Context, exampleID int64, vec []float32) error
}

type embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service backfills stored embeddings.
type Service struct {
	log      *slog.Logger
	words    wordStore
	examples exampleStore
	embedder embedder
	tx       txManager
}

// NewService creates a new embedding service.
func NewService(log *slog.Logger, words wordStore, examples exampleStore, embedder embedder, tx txManager) *Service {
	return &Service{
		log:      log.With("service", "embedding"),
		words:    words,
		examples: examples,
		embedder: embedder,
		tx:       tx,
	}
}

package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

const (
	MaxWordsK          = 100
	MaxExamplesPerWord = 20
)

type wordRepo interface {
	ListForScoring(ctx context.Context, userID uuid.UUID, filter domain.FeedFilter) ([]domain.WordStats, error)
	ScoreInDB(ctx context.Context, userID uuid.UUID, filter domain.FeedFilter, params domain.ScoreParams, now time.Time) ([]domain.WordStats, error)
	GetByLemmaIDs(ctx context.Context, userID uuid.UUID, lemmaIDs []int64) ([]domain.OwnedWord, error)
}

type exampleRepo interface {
	ListByWordID(ctx context.Context, wordID int64, filter domain.FeedFilter, limit int) ([]domain.Example, error)
}

type skillRepo interface {
	ListByUserAndWordIDs(ctx context.Context, userID uuid.UUID, wordIDs []int64) ([]domain.UserWordSkill, error)
}

type tokenizer interface {
	Tokenize(text string) []domain.Line
}

type urlResolver interface {
	Resolve(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
}

// Service assembles example feeds.
type Service struct {
	words    wordRepo
	examples exampleRepo
	skills   skillRepo
	tok      tokenizer
	urls     urlResolver
	metrics  *Metrics
	cfg      domain.FeedConfig
	log      *slog.Logger

	now     func() time.Time
	newRand func() Rand
}

// NewService creates a new feed service. The tokenizer is expected to be
// fully initialized; building the kagome dictionary takes a few hundred
// milliseconds and should happen once per process. metrics may be nil.
func NewService(
	log *slog.Logger,
	cfg domain.FeedConfig,
	words wordRepo,
	examples exampleRepo,
	skills skillRepo,
	tok tokenizer,
	urls urlResolver,
	metrics *Metrics,
) *Service {
	return &Service{
		words:    words,
		examples: examples,
		skills:   skills,
		tok:      tok,
		urls:     urls,
		metrics:  metrics,
		cfg:      cfg,
		log:      log.With("service", "feed"),
		now:      time.Now,
		newRand:  randomRand,
	}
}

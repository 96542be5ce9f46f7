// Package link implements the word-example association repository.
package link

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/jpkr-backend/internal/adapter/postgres"
)

// Repo manages rows of word_examples.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new link repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Link associates the word with each example. Existing pairs are left as
// they are. Returns the number of new pairs.
func (r *Repo) Link(ctx context.Context, wordID int64, exampleIDs []int64) (int64, error) {
	if len(exampleIDs) == 0 {
		return 0, nil
	}

	ins := postgres.Builder().
		Insert("word_examples").
		Columns("word_id", "example_id")
	for _, exampleID := range exampleIDs {
		ins = ins.Values(wordID, exampleID)
	}
	ins = ins.Suffix("ON CONFLICT (word_id, example_id) DO NOTHING")

	sql, args, err := ins.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build link: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "word", wordID)
	}
	return tag.RowsAffected(), nil
}

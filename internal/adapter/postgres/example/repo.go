// Package example implements the Example repository using PostgreSQL.
package example

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	postgres "github.com/heartmarshall/jpkr-backend/internal/adapter/postgres"
	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

// Repo provides example persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new example repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var exampleColumns = []string{
	"e.id", "e.user_id", "e.tags", "e.jp_text", "e.kr_mean", "e.en_prompt",
	"e.audio_object_key", "e.image_object_key", "e.embedding", "e.created_at", "e.updated_at",
}

const listMissingEmbeddingSQL = `
SELECT e.id, e.user_id, e.tags, e.jp_text, e.kr_mean, e.en_prompt,
       e.audio_object_key, e.image_object_key, e.embedding, e.created_at, e.updated_at
FROM examples e
WHERE e.embedding IS NULL AND e.id > $1
ORDER BY e.id
LIMIT $2`

const updateEmbeddingSQL = `
UPDATE examples SET embedding = $2, updated_at = now()
WHERE id = $1`

// ListByWordID returns up to limit examples linked to the word, in random
// order, restricted to examples whose tags match filter.Tags when given.
func (r *Repo) ListByWordID(ctx context.Context, wordID int64, filter domain.FeedFilter, limit int) ([]domain.Example, error) {
	q := postgres.Builder().
		Select(exampleColumns...).
		From("examples e").
		Join("word_examples we ON we.example_id = e.id").
		Where(sq.Eq{"we.word_id": wordID}).
		OrderBy("random()")
	if cond := postgres.TagsMatch("e.tags", filter.Tags); cond != nil {
		q = q.Where(cond)
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list examples by word: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list examples by word %d: %w", wordID, err)
	}
	defer rows.Close()

	examples, err := scanExamples(rows)
	if err != nil {
		return nil, fmt.Errorf("list examples by word %d: %w", wordID, err)
	}
	return examples, nil
}

// ListMissingEmbedding returns up to limit examples without an embedding
// whose id is greater than afterID, ordered by id.
func (r *Repo) ListMissingEmbedding(ctx context.Context, afterID int64, limit int) ([]domain.Example, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, listMissingEmbeddingSQL, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list examples missing embedding: %w", err)
	}
	defer rows.Close()

	examples, err := scanExamples(rows)
	if err != nil {
		return nil, fmt.Errorf("list examples missing embedding: %w", err)
	}
	return examples, nil
}

// UpdateEmbedding stores vec as the example's embedding.
func (r *Repo) UpdateEmbedding(ctx context.Context, exampleID int64, vec []float32) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, updateEmbeddingSQL, exampleID, pgvector.NewVector(vec))
	if err != nil {
		return postgres.MapError(err, "example", exampleID)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "example", exampleID)
	}
	return nil
}

func scanExamples(rows pgx.Rows) ([]domain.Example, error) {
	examples := []domain.Example{}
	for rows.Next() {
		var (
			e   domain.Example
			emb *pgvector.Vector
		)
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Tags, &e.JPText, &e.KRMean, &e.ENPrompt,
			&e.AudioObjectKey, &e.ImageObjectKey, &emb, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if emb != nil {
			e.Embedding = emb.Slice()
		}
		examples = append(examples, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return examples, nil
}

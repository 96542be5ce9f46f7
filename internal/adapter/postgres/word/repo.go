// Package word implements the Word repository using PostgreSQL. Feed queries
// are composed with squirrel because the tag and level filters are optional.
package word

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	postgres "github.com/heartmarshall/jpkr-backend/internal/adapter/postgres"
	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

// Repo provides word persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// skillAggSQL aggregates one user's skill rows per word. The single "?" is
// the user id.
const skillAggSQL = `
    SELECT word_id,
           AVG((reading + listening + speaking) / 3.0)::float8 AS skill_mean,
           MAX(updated_at) AS skill_updated_at
    FROM user_word_skills
    WHERE user_id = ?
    GROUP BY word_id`

const degreeSQL = `
    SELECT word_id, COUNT(*) AS deg
    FROM word_examples
    GROUP BY word_id`

const getByLemmaIDsSQL = `
SELECT w.id, w.user_id, w.lemma_id, w.lemma, w.jp_pron, w.kr_pron, w.kr_mean,
       w.level, w.created_at, w.updated_at, u.display_name
FROM words w
LEFT JOIN users u ON u.id = w.user_id
WHERE w.lemma_id = ANY($2::bigint[])
ORDER BY CASE WHEN w.user_id = $1 THEN 0 ELSE 1 END, w.id`

const listMissingEmbeddingSQL = `
SELECT id, user_id, lemma_id, lemma, jp_pron, kr_pron, kr_mean, level, created_at, updated_at
FROM words
WHERE embedding IS NULL AND id > $1
ORDER BY id
LIMIT $2`

const updateEmbeddingSQL = `
UPDATE words SET embedding = $2, updated_at = now()
WHERE id = $1`

// ---------------------------------------------------------------------------
// Feed queries
// ---------------------------------------------------------------------------

// statsQuery selects one row per word visible through filter:
// id, embedding, skill mean, skill updated_at, degree.
func statsQuery(userID uuid.UUID, filter domain.FeedFilter) (sq.SelectBuilder, error) {
	q := sq.Select(
		"w.id AS word_id",
		"w.embedding",
		"s.skill_mean",
		"s.skill_updated_at",
		"COALESCE(d.deg, 0) AS deg",
	).
		From("words w").
		JoinClause("LEFT JOIN ("+skillAggSQL+") s ON s.word_id = w.id", userID).
		JoinClause("LEFT JOIN (" + degreeSQL + ") d ON d.word_id = w.id")

	if cond := postgres.LevelIn("w.level", filter.Levels); cond != nil {
		q = q.Where(cond)
	}
	tagged, err := postgres.HasTaggedExample("w", filter.Tags)
	if err != nil {
		return q, fmt.Errorf("build tag filter: %w", err)
	}
	if tagged != nil {
		q = q.Where(tagged)
	}

	return q, nil
}

// ListForScoring returns the scoring projection of every word visible
// through filter, for the given user. Words without a skill row have nil
// SkillMean and SkillUpdatedAt.
func (r *Repo) ListForScoring(ctx context.Context, userID uuid.UUID, filter domain.FeedFilter) ([]domain.WordStats, error) {
	base, err := statsQuery(userID, filter)
	if err != nil {
		return nil, err
	}

	sql, args, err := base.OrderBy("w.id").PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list for scoring: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list words for scoring: %w", err)
	}
	defer rows.Close()

	stats, err := scanStats(rows, false)
	if err != nil {
		return nil, fmt.Errorf("list words for scoring: %w", err)
	}
	return stats, nil
}

// ScoreInDB computes the word priority inside PostgreSQL as of now and
// returns it with the same projection as ListForScoring. Params must have
// a positive ExpCap and SkillMax.
func (r *Repo) ScoreInDB(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.FeedFilter,
	params domain.ScoreParams,
	now time.Time,
) ([]domain.WordStats, error) {
	base, err := statsQuery(userID, filter)
	if err != nil {
		return nil, err
	}

	parts := sq.Select("b.*").
		Column("LEAST(GREATEST(COALESCE(b.skill_mean, 0) / ?::float8, 0), 1) AS skill_val", params.SkillMax).
		Column("GREATEST(EXTRACT(EPOCH FROM (?::timestamptz - COALESCE(b.skill_updated_at, 'epoch'::timestamptz)))::float8, 0) AS dt", now).
		FromSelect(base, "b")

	terms := sq.Select("p.*").
		Column("?::float8 * (1 + ?::float8 * p.skill_val) AS tau", params.Tau0.Seconds(), params.Alpha).
		FromSelect(parts, "p")

	sql, args, err := postgres.Builder().
		Select("t.word_id", "t.embedding", "t.skill_mean", "t.skill_updated_at", "t.deg").
		Column(`(
        ?::float8 * CASE WHEN t.tau > 0 THEN 1 - EXP(-LEAST(t.dt / t.tau, ?::float8)) ELSE 1 END
      + ?::float8 * (0.7 / (1 + LN(1 + t.deg::float8)) + CASE WHEN t.skill_mean IS NULL THEN ?::float8 ELSE 0 END)
      + ?::float8 * (1 - t.skill_val)
    )::float8 AS score`,
			params.LambdaR, params.ExpCap, params.LambdaC, params.UnseenBonus, params.LambdaD).
		FromSelect(terms, "t").
		OrderBy("t.word_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build score in db: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("score words in db: %w", err)
	}
	defer rows.Close()

	stats, err := scanStats(rows, true)
	if err != nil {
		return nil, fmt.Errorf("score words in db: %w", err)
	}
	return stats, nil
}

// GetByLemmaIDs returns every word whose lemma id is in lemmaIDs, joined
// with the owner's display name. For each lemma the caller's own words come
// before anyone else's.
func (r *Repo) GetByLemmaIDs(ctx context.Context, userID uuid.UUID, lemmaIDs []int64) ([]domain.OwnedWord, error) {
	if len(lemmaIDs) == 0 {
		return []domain.OwnedWord{}, nil
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, getByLemmaIDsSQL, userID, lemmaIDs)
	if err != nil {
		return nil, fmt.Errorf("get words by lemma ids: %w", err)
	}
	defer rows.Close()

	words := []domain.OwnedWord{}
	for rows.Next() {
		var (
			w     domain.OwnedWord
			level *string
		)
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.LemmaID, &w.Lemma, &w.JPPron, &w.KRPron, &w.KRMean,
			&level, &w.CreatedAt, &w.UpdatedAt, &w.OwnerDisplayName,
		); err != nil {
			return nil, fmt.Errorf("get words by lemma ids: %w", err)
		}
		w.Level = levelOrEmpty(level)
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get words by lemma ids: %w", err)
	}

	return words, nil
}

// ---------------------------------------------------------------------------
// Embedding backfill
// ---------------------------------------------------------------------------

// ListMissingEmbedding returns up to limit words without an embedding whose
// id is greater than afterID, ordered by id.
func (r *Repo) ListMissingEmbedding(ctx context.Context, afterID int64, limit int) ([]domain.Word, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, listMissingEmbeddingSQL, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list words missing embedding: %w", err)
	}
	defer rows.Close()

	words := []domain.Word{}
	for rows.Next() {
		var (
			w     domain.Word
			level *string
		)
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.LemmaID, &w.Lemma, &w.JPPron, &w.KRPron, &w.KRMean,
			&level, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("list words missing embedding: %w", err)
		}
		w.Level = levelOrEmpty(level)
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list words missing embedding: %w", err)
	}

	return words, nil
}

// UpdateEmbedding stores vec as the word's embedding.
func (r *Repo) UpdateEmbedding(ctx context.Context, wordID int64, vec []float32) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, updateEmbeddingSQL, wordID, pgvector.NewVector(vec))
	if err != nil {
		return postgres.MapError(err, "word", wordID)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "word", wordID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanStats(rows pgx.Rows, withScore bool) ([]domain.WordStats, error) {
	stats := []domain.WordStats{}
	for rows.Next() {
		var (
			st  domain.WordStats
			emb *pgvector.Vector
			deg int64
		)
		dest := []any{&st.WordID, &emb, &st.SkillMean, &st.SkillUpdatedAt, &deg}
		if withScore {
			dest = append(dest, &st.Score)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if emb != nil {
			st.Embedding = emb.Slice()
		}
		st.Degree = int(deg)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

func levelOrEmpty(level *string) domain.JLPTLevel {
	if level == nil {
		return ""
	}
	return domain.JLPTLevel(*level)
}

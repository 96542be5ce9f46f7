// Package skill implements the UserWordSkill repository using PostgreSQL.
package skill

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/jpkr-backend/internal/adapter/postgres"
	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

// Repo provides per-user word skill persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new skill repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const listByUserAndWordIDsSQL = `
SELECT id, user_id, word_id, reading, listening, speaking, created_at, updated_at
FROM user_word_skills
WHERE user_id = $1 AND word_id = ANY($2::bigint[])
ORDER BY word_id, id`

const upsertSQL = `
INSERT INTO user_word_skills (user_id, word_id, reading, listening, speaking, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (user_id, word_id) DO UPDATE
SET reading = EXCLUDED.reading,
    listening = EXCLUDED.listening,
    speaking = EXCLUDED.speaking,
    updated_at = now()
RETURNING id, user_id, word_id, reading, listening, speaking, created_at, updated_at`

// ListByUserAndWordIDs returns the user's skill rows for the given words.
func (r *Repo) ListByUserAndWordIDs(ctx context.Context, userID uuid.UUID, wordIDs []int64) ([]domain.UserWordSkill, error) {
	if len(wordIDs) == 0 {
		return []domain.UserWordSkill{}, nil
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, listByUserAndWordIDsSQL, userID, wordIDs)
	if err != nil {
		return nil, fmt.Errorf("list word skills: %w", err)
	}
	defer rows.Close()

	skills := []domain.UserWordSkill{}
	for rows.Next() {
		var s domain.UserWordSkill
		if err := rows.Scan(&s.ID, &s.UserID, &s.WordID, &s.Reading, &s.Listening, &s.Speaking, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list word skills: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list word skills: %w", err)
	}

	return skills, nil
}

// Upsert creates or replaces the skill row for (UserID, WordID) and
// refreshes its updated_at.
func (r *Repo) Upsert(ctx context.Context, s domain.UserWordSkill) (*domain.UserWordSkill, error) {
	var out domain.UserWordSkill
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, upsertSQL,
		s.UserID, s.WordID, s.Reading, s.Listening, s.Speaking,
	).Scan(&out.ID, &out.UserID, &out.WordID, &out.Reading, &out.Listening, &out.Speaking, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user_word_skill", s.WordID)
	}
	return &out, nil
}

package testhelper

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/heartmarshall/jpkr-backend/internal/adapter/postgres/link"
	"github.com/heartmarshall/jpkr-backend/internal/domain"
	"github.com/heartmarshall/jpkr-backend/pkg/vecmath"
)

// User is a seeded users row.
type User struct {
	ID          uuid.UUID
	DisplayName string
}

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser inserts a user with a unique display name.
func SeedUser(t *testing.T, pool *pgxpool.Pool) User {
	t.Helper()

	u := User{ID: uuid.New(), DisplayName: "learner-" + uniqueSuffix()}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, display_name) VALUES ($1, $2)`,
		u.ID, u.DisplayName,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return u
}

// SeedWord inserts w and returns it with ID and timestamps set. A zero
// LemmaID is replaced by a random one so parallel tests do not collide.
func SeedWord(t *testing.T, pool *pgxpool.Pool, w domain.Word) domain.Word {
	t.Helper()

	if w.LemmaID == 0 {
		w.LemmaID = rand.Int64N(1<<62) + 1
	}
	if w.Lemma == "" {
		w.Lemma = "語-" + uniqueSuffix()
	}
	var level *string
	if w.Level != "" {
		l := string(w.Level)
		level = &l
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO words (user_id, lemma_id, lemma, jp_pron, kr_pron, kr_mean, level, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		w.UserID, w.LemmaID, w.Lemma, w.JPPron, w.KRPron, w.KRMean, level, vectorOrNil(w.Embedding),
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedWord: %v", err)
	}
	return w
}

// SeedExample inserts e and returns it with ID and timestamps set.
func SeedExample(t *testing.T, pool *pgxpool.Pool, e domain.Example) domain.Example {
	t.Helper()

	if e.JPText == "" {
		e.JPText = "例文" + uniqueSuffix()
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO examples (user_id, tags, jp_text, kr_mean, en_prompt, audio_object_key, image_object_key, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		e.UserID, e.Tags, e.JPText, e.KRMean, e.ENPrompt, e.AudioObjectKey, e.ImageObjectKey, vectorOrNil(e.Embedding),
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedExample: %v", err)
	}
	return e
}

// SeedLink links the word to each example.
func SeedLink(t *testing.T, pool *pgxpool.Pool, wordID int64, exampleIDs ...int64) {
	t.Helper()

	if _, err := link.New(pool).Link(context.Background(), wordID, exampleIDs); err != nil {
		t.Fatalf("testhelper: SeedLink: %v", err)
	}
}

// SeedSkill inserts a skill row with an explicit updated_at.
func SeedSkill(t *testing.T, pool *pgxpool.Pool, s domain.UserWordSkill, updatedAt time.Time) domain.UserWordSkill {
	t.Helper()

	err := pool.QueryRow(context.Background(),
		`INSERT INTO user_word_skills (user_id, word_id, reading, listening, speaking, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)
		 RETURNING id, created_at, updated_at`,
		s.UserID, s.WordID, s.Reading, s.Listening, s.Speaking, updatedAt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedSkill: %v", err)
	}
	return s
}

// RandomUnitVector returns a unit vector of EmbeddingDim components.
func RandomUnitVector(r *rand.Rand) []float32 {
	v := make([]float32, EmbeddingDim)
	for i := range v {
		v[i] = float32(r.NormFloat64())
	}
	return vecmath.Normalize(v)
}

func vectorOrNil(v []float32) *pgvector.Vector {
	if len(v) == 0 {
		return nil
	}
	vec := pgvector.NewVector(v)
	return &vec
}

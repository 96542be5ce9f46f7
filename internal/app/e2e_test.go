//go:build e2e

package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/jpkr-backend/internal/adapter/postgres/example"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/postgres/skill"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/postgres/word"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/storage"
	"github.com/heartmarshall/jpkr-backend/internal/adapter/tokenizer"
	"github.com/heartmarshall/jpkr-backend/internal/auth"
	"github.com/heartmarshall/jpkr-backend/internal/config"
	"github.com/heartmarshall/jpkr-backend/internal/domain"
	"github.com/heartmarshall/jpkr-backend/internal/service/feed"
	"github.com/heartmarshall/jpkr-backend/internal/transport/rest"
)

const (
	e2eSecret = "e2e-secret-at-least-32-characters-long"
	e2eIssuer = "jpkr-e2e"
)

type feedFixture struct {
	tag        string
	user       testhelper.User
	catWordID  int64
	exampleIDs map[int64]struct{}
}

// seedFeedFixture creates five words with three exclusive examples each,
// all under a fresh tag. The first word is 猫 with its real lemma id.
func seedFeedFixture(t *testing.T, pool *pgxpool.Pool) feedFixture {
	t.Helper()

	fx := feedFixture{
		tag:        "e2e-" + uuid.New().String()[:8],
		user:       testhelper.SeedUser(t, pool),
		exampleIDs: make(map[int64]struct{}),
	}

	cat := testhelper.SeedWord(t, pool, domain.Word{
		LemmaID: tokenizer.LemmaID("猫", "名詞"),
		Lemma:   "猫",
		JPPron:  "ネコ",
		KRPron:  "네코",
		KRMean:  "고양이",
		Level:   domain.JLPTLevelN5,
	})
	fx.catWordID = cat.ID

	wordIDs := []int64{cat.ID}
	for i := 0; i < 4; i++ {
		wordIDs = append(wordIDs, testhelper.SeedWord(t, pool, domain.Word{Level: domain.JLPTLevelN4}).ID)
	}

	catTexts := []string{"猫が好きです。", "猫が寝ている。", "黒い猫\n白い猫"}
	for i, wid := range wordIDs {
		var ids []int64
		for j := 0; j < 3; j++ {
			text := "例文です。"
			if i == 0 {
				text = catTexts[j]
			}
			ex := testhelper.SeedExample(t, pool, domain.Example{Tags: fx.tag + ",daily", JPText: text, KRMean: "예문"})
			ids = append(ids, ex.ID)
			fx.exampleIDs[ex.ID] = struct{}{}
		}
		testhelper.SeedLink(t, pool, wid, ids...)
	}

	testhelper.SeedSkill(t, pool, domain.UserWordSkill{
		UserID: fx.user.ID, WordID: wordIDs[1], Reading: 20, Listening: 30, Speaking: 10,
	}, time.Now().Add(-48*time.Hour))

	return fx
}

func newE2ERouter(t *testing.T, pool *pgxpool.Pool, strategy domain.FeedStrategy) http.Handler {
	t.Helper()

	tok, err := tokenizer.New()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := domain.DefaultFeedConfig()
	cfg.Strategy = strategy

	reg := prometheus.NewRegistry()
	svc := feed.NewService(logger, cfg,
		word.New(pool), example.New(pool), skill.New(pool),
		tok, storage.Noop{}, feed.NewMetrics(reg))

	return newRouter(routerDeps{
		log:       logger,
		cors:      config.CORSConfig{AllowedOrigins: "*"},
		validator: auth.NewValidator(e2eSecret, e2eIssuer),
		health:    rest.NewHealthHandler("e2e", rest.Check{Name: "database", Target: pool, Required: true}),
		feed:      rest.NewFeedHandler(svc, logger),
		registry:  reg,
	})
}

func mintToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    e2eIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte(e2eSecret))
	require.NoError(t, err)
	return token
}

func postFeed(t *testing.T, h http.Handler, token string, body map[string]any) (int, []byte) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/examples/feed", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

// ---------------------------------------------------------------------------
// Feed over HTTP against a real database, for both scoring strategies.
// ---------------------------------------------------------------------------

func TestE2E_Feed(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	fx := seedFeedFixture(t, pool)
	token := mintToken(t, fx.user.ID)

	for _, strategy := range []domain.FeedStrategy{domain.FeedStrategyInProcess, domain.FeedStrategySQL} {
		t.Run(string(strategy), func(t *testing.T) {
			router := newE2ERouter(t, pool, strategy)

			status, body := postFeed(t, router, token, map[string]any{
				"tags":              []string{fx.tag},
				"words_k":           5,
				"examples_per_word": 2,
			})
			require.Equal(t, http.StatusOK, status, string(body))

			var items []domain.FeedItem
			require.NoError(t, json.Unmarshal(body, &items))
			assert.Len(t, items, 10, "five words times two examples each")

			seen := make(map[int64]bool)
			catItems := 0
			for _, it := range items {
				assert.Contains(t, fx.exampleIDs, it.ID, "example outside the tag filter")
				assert.False(t, seen[it.ID], "example %d repeated", it.ID)
				seen[it.ID] = true
				assert.Nil(t, it.AudioURL)

				for _, ann := range it.Words[0] {
					if ann.Surface != "猫" {
						continue
					}
					catItems++
					require.NotNil(t, ann.WordID)
					assert.Equal(t, fx.catWordID, *ann.WordID)
					assert.Equal(t, "고양이", ann.KRMean)
				}
			}
			assert.Equal(t, 2, catItems, "both 猫 examples should annotate the word")
		})
	}
}

func TestE2E_Feed_TagMatchingNothing(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	user := testhelper.SeedUser(t, pool)
	router := newE2ERouter(t, pool, domain.FeedStrategyInProcess)

	status, body := postFeed(t, router, mintToken(t, user.ID), map[string]any{
		"tags": []string{"no-such-tag-" + uuid.New().String()},
	})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(body))
}

func TestE2E_Feed_RequiresAuth(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	router := newE2ERouter(t, pool, domain.FeedStrategyInProcess)

	status, _ := postFeed(t, router, "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = postFeed(t, router, "forged.token.value", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestE2E_Feed_ValidationError(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	user := testhelper.SeedUser(t, pool)
	router := newE2ERouter(t, pool, domain.FeedStrategyInProcess)

	status, body := postFeed(t, router, mintToken(t, user.ID), map[string]any{"words_k": 1000})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "words_k")
}

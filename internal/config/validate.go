package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

// Presigned URLs must expire within this window.
const (
	minURLTTL = time.Second
	maxURLTTL = 7 * 24 * time.Hour
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if err := c.Feed.validate(); err != nil {
		return fmt.Errorf("feed: %w", err)
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if err := c.Embedding.validate(); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}

	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	return nil
}

func (f *FeedConfig) validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(f.Tau0 >= 0, "tau0 must be >= 0 (got %v)", f.Tau0)
	check(f.Alpha >= 0, "alpha must be >= 0 (got %v)", f.Alpha)
	check(f.LambdaR >= 0, "lambda_r must be >= 0 (got %v)", f.LambdaR)
	check(f.LambdaC >= 0, "lambda_c must be >= 0 (got %v)", f.LambdaC)
	check(f.LambdaD >= 0, "lambda_d must be >= 0 (got %v)", f.LambdaD)
	check(f.UnseenBonus >= 0, "unseen_bonus must be >= 0 (got %v)", f.UnseenBonus)
	check(f.ExpCap > 0, "exp_cap must be > 0 (got %v)", f.ExpCap)
	check(f.SkillMax > 0, "skill_max must be > 0 (got %v)", f.SkillMax)

	check(f.Temperature > 0, "temperature must be > 0 (got %v)", f.Temperature)
	check(inUnit(f.WordMMRLambda), "word_mmr_lambda must be in [0,1] (got %v)", f.WordMMRLambda)
	check(inUnit(f.SentMMRLambda), "sent_mmr_lambda must be in [0,1] (got %v)", f.SentMMRLambda)
	check(f.MMRJitter >= 0, "mmr_jitter must be >= 0 (got %v)", f.MMRJitter)
	check(f.MMRScanLimit > 0, "mmr_scan_limit must be > 0 (got %d)", f.MMRScanLimit)
	check(f.Gamma >= -1 && f.Gamma <= 1, "gamma must be in [-1,1] (got %v)", f.Gamma)

	check(inUnit(f.RemindProb), "remind_prob must be in [0,1] (got %v)", f.RemindProb)
	check(inUnit(f.HiSkillThreshold), "hi_skill_threshold must be in [0,1] (got %v)", f.HiSkillThreshold)
	check(f.RemindGap >= 0, "remind_gap must be >= 0 (got %v)", f.RemindGap)
	check(f.RemindMax >= 0, "remind_max must be >= 0 (got %d)", f.RemindMax)

	check(f.PerWordCandidateCap > 0, "per_word_candidate_cap must be > 0 (got %d)", f.PerWordCandidateCap)
	check(f.WordsK >= 0 && f.WordsK <= 100, "words_k must be in [0,100] (got %d)", f.WordsK)
	check(f.ExamplesPerWord >= 0 && f.ExamplesPerWord <= 20, "examples_per_word must be in [0,20] (got %d)", f.ExamplesPerWord)
	check(f.URLTTL >= minURLTTL && f.URLTTL <= maxURLTTL, "url_ttl must be in [%v,%v] (got %v)", minURLTTL, maxURLTTL, f.URLTTL)
	check(domain.FeedStrategy(f.Strategy).IsValid(), "strategy must be in_process or sql (got %q)", f.Strategy)

	return errors.Join(errs...)
}

func (s *StorageConfig) validate() error {
	if !s.Enabled {
		return nil
	}
	if s.Endpoint == "" {
		return errors.New("endpoint is required when storage is enabled")
	}
	if s.Bucket == "" {
		return errors.New("bucket is required when storage is enabled")
	}
	return nil
}

func (e *EmbeddingConfig) validate() error {
	if e.Dimensions <= 0 {
		return fmt.Errorf("dimensions must be > 0 (got %d)", e.Dimensions)
	}
	if e.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", e.BatchSize)
	}
	if e.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be > 0 (got %d)", e.Concurrency)
	}
	return nil
}

func inUnit(x float64) bool {
	return x >= 0 && x <= 1
}

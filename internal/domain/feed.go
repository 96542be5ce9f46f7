package domain

import (
	"time"

	"github.com/google/uuid"
)

// FeedStrategy selects where the per-word score is computed.
type FeedStrategy string

const (
	FeedStrategyInProcess FeedStrategy = "in_process"
	FeedStrategySQL       FeedStrategy = "sql"
)

func (s FeedStrategy) IsValid() bool {
	switch s {
	case FeedStrategyInProcess, FeedStrategySQL:
		return true
	}
	return false
}

// ScoreParams are the tunables of the per-word priority score
// P = LambdaR*R + LambdaC*C + LambdaD*D.
type ScoreParams struct {
	Tau0        time.Duration
	Alpha       float64
	LambdaR     float64
	LambdaC     float64
	LambdaD     float64
	UnseenBonus float64
	// ExpCap bounds dt/tau before exponentiation.
	ExpCap float64
	// SkillMax is the top of the integer skill scale; skill means are
	// divided by it to land in [0,1].
	SkillMax float64
}

// FeedConfig holds every tunable of the example feed.
type FeedConfig struct {
	Score ScoreParams

	Temperature   float64
	WordMMRLambda float64
	SentMMRLambda float64
	MMRJitter     float64
	MMRScanLimit  int
	Gamma         float64

	RemindProb       float64
	HiSkillThreshold float64
	RemindGap        time.Duration
	RemindMax        int

	PerWordCandidateCap int
	WordsK              int
	ExamplesPerWord     int
	URLTTL              time.Duration
	Strategy            FeedStrategy
}

// DefaultFeedConfig returns the documented defaults.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		Score: ScoreParams{
			Tau0:        7 * 24 * time.Hour,
			Alpha:       1.5,
			LambdaR:     0.6,
			LambdaC:     0.25,
			LambdaD:     0.15,
			UnseenBonus: 0.3,
			ExpCap:      60,
			SkillMax:    100,
		},
		Temperature:         0.8,
		WordMMRLambda:       0.7,
		SentMMRLambda:       0.7,
		MMRJitter:           0.05,
		MMRScanLimit:        200,
		Gamma:               0.35,
		RemindProb:          0.08,
		HiSkillThreshold:    0.8,
		RemindGap:           14 * 24 * time.Hour,
		RemindMax:           2,
		PerWordCandidateCap: 80,
		WordsK:              10,
		ExamplesPerWord:     3,
		URLTTL:              10 * time.Minute,
		Strategy:            FeedStrategyInProcess,
	}
}

// FeedFilter narrows the word and example populations of a feed request.
// Tags match case-insensitively as substrings of Example.Tags; any tag
// matching is enough.
type FeedFilter struct {
	Tags   []string
	Levels []JLPTLevel
}

// IsEmpty reports whether the filter restricts nothing.
func (f FeedFilter) IsEmpty() bool {
	return len(f.Tags) == 0 && len(f.Levels) == 0
}

// FeedItem is one example returned to the client, annotated per line.
type FeedItem struct {
	ID       int64                     `json:"id"`
	Tags     string                    `json:"tags"`
	JPText   string                    `json:"jp_text"`
	KRMean   string                    `json:"kr_mean"`
	ENPrompt *string                   `json:"en_prompt,omitempty"`
	AudioURL *string                   `json:"audio_url"`
	ImageURL *string                   `json:"image_url"`
	Words    map[int][]TokenAnnotation `json:"words"`
}

// TokenAnnotation describes one token of a feed line. Word-level fields
// are nil when the lemma is not in the dictionary.
type TokenAnnotation struct {
	WordID          *int64          `json:"word_id"`
	LemmaID         int64           `json:"lemma_id"`
	Lemma           string          `json:"lemma"`
	Surface         string          `json:"surface"`
	UserID          *uuid.UUID      `json:"user_id"`
	UserDisplayName *string         `json:"user_display_name"`
	JPPron          string          `json:"jp_pron"`
	KRPron          string          `json:"kr_pron"`
	KRMean          string          `json:"kr_mean"`
	POS             string          `json:"pos,omitempty"`
	Level           *JLPTLevel      `json:"level"`
	UserWordSkills  []UserWordSkill `json:"user_word_skills"`
	NumSkills       int             `json:"num_user_word_skills"`
}

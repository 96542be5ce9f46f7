package feed

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

const (
	maxTags   = 20
	maxTagLen = 100
)

// FeedInput holds the parameters of a feed request. Nil counts fall back
// to the configured defaults; an explicit zero yields an empty feed.
type FeedInput struct {
	Tags            []string
	Levels          []domain.JLPTLevel
	WordsK          *int
	ExamplesPerWord *int
	TotalExamples   *int
}

// Validate checks all fields and collects all errors.
func (i FeedInput) Validate() error {
	var errs []domain.FieldError

	if i.WordsK != nil {
		if *i.WordsK < 0 {
			errs = append(errs, domain.FieldError{Field: "words_k", Message: "must be non-negative"})
		}
		if *i.WordsK > MaxWordsK {
			errs = append(errs, domain.FieldError{Field: "words_k", Message: fmt.Sprintf("max %d", MaxWordsK)})
		}
	}
	if i.ExamplesPerWord != nil {
		if *i.ExamplesPerWord < 0 {
			errs = append(errs, domain.FieldError{Field: "examples_per_word", Message: "must be non-negative"})
		}
		if *i.ExamplesPerWord > MaxExamplesPerWord {
			errs = append(errs, domain.FieldError{Field: "examples_per_word", Message: fmt.Sprintf("max %d", MaxExamplesPerWord)})
		}
	}
	if i.TotalExamples != nil && *i.TotalExamples < 0 {
		errs = append(errs, domain.FieldError{Field: "total_examples", Message: "must be non-negative"})
	}

	if len(i.Tags) > maxTags {
		errs = append(errs, domain.FieldError{Field: "tags", Message: fmt.Sprintf("max %d tags", maxTags)})
	}
	for _, tag := range i.Tags {
		if len(strings.TrimSpace(tag)) > maxTagLen {
			errs = append(errs, domain.FieldError{Field: "tags", Message: fmt.Sprintf("tag max %d characters", maxTagLen)})
			break
		}
	}
	for _, lvl := range i.Levels {
		if !lvl.IsValid() {
			errs = append(errs, domain.FieldError{Field: "levels", Message: "invalid level " + string(lvl)})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// counts resolves the request counts against the configured defaults.
// total defaults to wordsK * perWord.
func (i FeedInput) counts(cfg domain.FeedConfig) (wordsK, perWord, total int) {
	wordsK, perWord = cfg.WordsK, cfg.ExamplesPerWord
	if i.WordsK != nil {
		wordsK = *i.WordsK
	}
	if i.ExamplesPerWord != nil {
		perWord = *i.ExamplesPerWord
	}
	total = wordsK * perWord
	if i.TotalExamples != nil {
		total = *i.TotalExamples
	}
	return wordsK, perWord, total
}

// filter builds the repository filter, dropping blank tags.
func (i FeedInput) filter() domain.FeedFilter {
	var f domain.FeedFilter
	for _, tag := range i.Tags {
		if t := strings.TrimSpace(tag); t != "" {
			f.Tags = append(f.Tags, t)
		}
	}
	f.Levels = i.Levels
	return f
}

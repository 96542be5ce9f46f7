package embedding

import (
	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

// Target selects which table a backfill covers.
type Target string

const (
	TargetWords    Target = "words"
	TargetExamples Target = "examples"
	TargetAll      Target = "all"
)

func (t Target) IsValid() bool {
	switch t {
	case TargetWords, TargetExamples, TargetAll:
		return true
	}
	return false
}

const (
	MaxBatchSize   = 250
	MaxConcurrency = 32
)

// BackfillInput configures one backfill run.
type BackfillInput struct {
	Target      Target
	BatchSize   int
	Concurrency int
}

func (i BackfillInput) Validate() error {
	var errs []domain.FieldError

	if !i.Target.IsValid() {
		errs = append(errs, domain.FieldError{Field: "target", Message: "must be words, examples or all"})
	}
	if i.BatchSize < 1 || i.BatchSize > MaxBatchSize {
		errs = append(errs, domain.FieldError{Field: "batch_size", Message: "must be between 1 and 250"})
	}
	if i.Concurrency < 1 || i.Concurrency > MaxConcurrency {
		errs = append(errs, domain.FieldError{Field: "concurrency", Message: "must be between 1 and 32"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// BackfillResult counts rows written per table.
type BackfillResult struct {
	Words    int
	Examples int
	Skipped  int
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Example is a source-language sentence with its meaning and optional media.
type Example struct {
	ID             int64
	UserID         *uuid.UUID
	Tags           string
	JPText         string
	KRMean         string
	ENPrompt       *string
	AudioObjectKey *string
	ImageObjectKey *string
	Embedding      []float32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasEmbedding reports whether the example carries a stored vector.
func (e *Example) HasEmbedding() bool {
	return len(e.Embedding) > 0
}

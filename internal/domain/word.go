package domain

import (
	"time"

	"github.com/google/uuid"
)

// JLPTLevel is the proficiency tag attached to a word.
type JLPTLevel string

const (
	JLPTLevelN5 JLPTLevel = "N5"
	JLPTLevelN4 JLPTLevel = "N4"
	JLPTLevelN3 JLPTLevel = "N3"
	JLPTLevelN2 JLPTLevel = "N2"
	JLPTLevelN1 JLPTLevel = "N1"
)

func (l JLPTLevel) String() string { return string(l) }

func (l JLPTLevel) IsValid() bool {
	switch l {
	case JLPTLevelN5, JLPTLevelN4, JLPTLevelN3, JLPTLevelN2, JLPTLevelN1:
		return true
	}
	return false
}

// Word is a vocabulary item. UserID is nil for system words.
type Word struct {
	ID        int64
	UserID    *uuid.UUID
	LemmaID   int64
	Lemma     string
	JPPron    string
	KRPron    string
	KRMean    string
	Level     JLPTLevel
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasEmbedding reports whether the word carries a stored vector.
func (w *Word) HasEmbedding() bool {
	return len(w.Embedding) > 0
}

// OwnedWord is a word joined with its owner's display name, as returned
// by lemma lookups.
type OwnedWord struct {
	Word
	OwnerDisplayName *string
}

// WordExample links a word to an example sentence.
type WordExample struct {
	WordID    int64
	ExampleID int64
}

// WordStats is the per-(user, word) projection the feed scorer consumes.
// SkillMean and SkillUpdatedAt are nil when the user has never practiced
// the word. Score is populated only when scoring ran inside the database.
type WordStats struct {
	WordID         int64
	Embedding      []float32
	SkillMean      *float64
	SkillUpdatedAt *time.Time
	Degree         int
	Score          *float64
}

// HasSkill reports whether a skill row exists for the word.
func (s *WordStats) HasSkill() bool {
	return s.SkillMean != nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserWordSkill holds a user's mastery of one word. Scalars are on the
// integer scale configured by feed.skill_max (0..100 by default).
type UserWordSkill struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	WordID    int64     `json:"word_id"`
	Reading   int       `json:"reading"`
	Listening int       `json:"listening"`
	Speaking  int       `json:"speaking"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Mean returns the average of the three proficiency scalars.
func (s UserWordSkill) Mean() float64 {
	return float64(s.Reading+s.Listening+s.Speaking) / 3.0
}

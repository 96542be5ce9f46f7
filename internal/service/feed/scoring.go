package feed

import (
	"math"
	"time"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

// connectivityBase is the numerator of the connectivity term; a word with
// no linked examples contributes exactly this much before the unseen bonus.
const connectivityBase = 0.7

// neverPracticed is the last-practice time assumed for words without a
// skill row, which makes dt effectively unbounded.
var neverPracticed = time.Unix(0, 0).UTC()

// ScoreInput holds the per-(user, word) data a score is computed from.
type ScoreInput struct {
	// SkillVal is the mean proficiency normalized to [0,1].
	SkillVal float64
	// HasSkill is false when the user has no skill row for the word.
	HasSkill bool
	// Elapsed is the number of seconds since the last skill update.
	Elapsed float64
	// Degree is the number of examples linked to the word.
	Degree int
}

// Score computes the priority P of a word. Pure function: higher means
// "show this word sooner". For non-negative params the result lies in
// [0, LambdaR + LambdaC*(0.7+UnseenBonus) + LambdaD].
func Score(in ScoreInput, p domain.ScoreParams) float64 {
	skill := clamp01(in.SkillVal)
	dt := in.Elapsed
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	r := 1.0
	tau := p.Tau0.Seconds() * (1 + p.Alpha*skill)
	if tau > 0 {
		x := dt / tau
		if p.ExpCap > 0 && x > p.ExpCap {
			x = p.ExpCap
		}
		r = 1 - math.Exp(-x)
	}

	deg := max(in.Degree, 0)
	c := connectivityBase / (1 + math.Log1p(float64(deg)))
	if !in.HasSkill {
		c += p.UnseenBonus
	}

	d := 1 - skill

	return p.LambdaR*r + p.LambdaC*c + p.LambdaD*d
}

// MaxScore returns the upper bound of Score for the given params.
func MaxScore(p domain.ScoreParams) float64 {
	return p.LambdaR + p.LambdaC*(connectivityBase+p.UnseenBonus) + p.LambdaD
}

// SkillValue normalizes a raw skill mean onto [0,1]. A nil mean (no skill
// row) is 0.
func SkillValue(mean *float64, skillMax float64) float64 {
	if mean == nil || skillMax <= 0 {
		return 0
	}
	return clamp01(*mean / skillMax)
}

// scoreInputFor converts a stored projection into a ScoreInput as of now.
func scoreInputFor(st domain.WordStats, p domain.ScoreParams, now time.Time) ScoreInput {
	return ScoreInput{
		SkillVal: SkillValue(st.SkillMean, p.SkillMax),
		HasSkill: st.HasSkill(),
		Elapsed:  now.Sub(lastPracticed(st)).Seconds(),
		Degree:   st.Degree,
	}
}

func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

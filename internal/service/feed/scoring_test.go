package feed

import (
	"math"
	"testing"
	"time"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

func defaultParams() domain.ScoreParams {
	return domain.DefaultFeedConfig().Score
}

func TestScore_Bounded(t *testing.T) {
	t.Parallel()

	params := []domain.ScoreParams{
		defaultParams(),
		func() domain.ScoreParams { p := defaultParams(); p.Tau0 = 0; return p }(),
		func() domain.ScoreParams { p := defaultParams(); p.ExpCap = 0; return p }(),
		func() domain.ScoreParams { p := defaultParams(); p.Alpha = 0; p.UnseenBonus = 0; return p }(),
	}
	skills := []float64{0, 0.25, 0.5, 1, -1, 2, math.NaN()}
	elapsed := []float64{0, 1, 3600, 1e9, 1e15, -5, math.Inf(1), math.NaN()}
	degrees := []int{-1, 0, 1, 2, 100, 1 << 20}

	for _, p := range params {
		upper := MaxScore(p)
		for _, sv := range skills {
			for _, dt := range elapsed {
				for _, deg := range degrees {
					for _, has := range []bool{true, false} {
						in := ScoreInput{SkillVal: sv, HasSkill: has, Elapsed: dt, Degree: deg}
						got := Score(in, p)
						if math.IsNaN(got) || math.IsInf(got, 0) {
							t.Fatalf("Score(%+v) = %v, want finite", in, got)
						}
						if got < 0 || got > upper+1e-12 {
							t.Fatalf("Score(%+v) = %v, want in [0, %v]", in, got, upper)
						}
					}
				}
			}
		}
	}
}

func TestScore_NewUserIsNonDegenerate(t *testing.T) {
	t.Parallel()

	p := defaultParams()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for deg := range 10 {
		in := scoreInputFor(domain.WordStats{WordID: int64(deg), Degree: deg}, p, now)
		if in.HasSkill {
			t.Fatal("HasSkill: got true, want false")
		}
		got := Score(in, p)
		if math.IsNaN(got) || math.IsInf(got, 0) || got <= 0 {
			t.Errorf("deg=%d: got %v, want positive finite", deg, got)
		}
	}
}

func TestScore_UnseenBoost(t *testing.T) {
	t.Parallel()

	p := defaultParams()
	for _, sv := range []float64{0, 0.3, 1} {
		for _, deg := range []int{0, 3, 50} {
			for _, dt := range []float64{0, 60, 1e6, 1e10} {
				seen := Score(ScoreInput{SkillVal: sv, HasSkill: true, Elapsed: dt, Degree: deg}, p)
				unseen := Score(ScoreInput{SkillVal: sv, HasSkill: false, Elapsed: dt, Degree: deg}, p)
				if unseen < seen {
					t.Errorf("sv=%v deg=%d dt=%v: unseen %v < seen %v", sv, deg, dt, unseen, seen)
				}
			}
		}
	}
}

func TestScore_FreshMasteredBelowNeverPracticed(t *testing.T) {
	t.Parallel()

	p := defaultParams()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	justNow := now.Add(-time.Second)
	full := p.SkillMax

	w := scoreInputFor(domain.WordStats{WordID: 1, SkillMean: &full, SkillUpdatedAt: &justNow, Degree: 2}, p, now)
	x := scoreInputFor(domain.WordStats{WordID: 2, Degree: 2}, p, now)

	if w.SkillVal != 1 {
		t.Fatalf("W skill: got %v, want 1", w.SkillVal)
	}
	scoreW, scoreX := Score(w, p), Score(x, p)
	if !(scoreX > scoreW) {
		t.Errorf("score(X)=%v, score(W)=%v, want X > W", scoreX, scoreW)
	}
	// R is nearly zero for W and nearly one for X.
	if scoreW > p.LambdaC*connectivityBase+1e-3 {
		t.Errorf("score(W)=%v larger than connectivity alone", scoreW)
	}
}

func TestScore_Terms(t *testing.T) {
	t.Parallel()

	p := domain.ScoreParams{
		Tau0:        time.Second,
		Alpha:       1,
		LambdaR:     1,
		LambdaC:     0,
		LambdaD:     0,
		UnseenBonus: 0,
		ExpCap:      60,
		SkillMax:    100,
	}

	tests := []struct {
		name string
		in   ScoreInput
		want float64
	}{
		{"zero elapsed", ScoreInput{Elapsed: 0, HasSkill: true}, 0},
		{"one tau", ScoreInput{Elapsed: 1, HasSkill: true}, 1 - math.Exp(-1)},
		{"skill stretches tau", ScoreInput{SkillVal: 1, Elapsed: 2, HasSkill: true}, 1 - math.Exp(-1)},
		{"capped exponent", ScoreInput{Elapsed: 1e300, HasSkill: true}, 1 - math.Exp(-60)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Score(tt.in, p); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("non-positive tau means R=1", func(t *testing.T) {
		t.Parallel()
		q := p
		q.Tau0 = 0
		if got := Score(ScoreInput{Elapsed: 0, HasSkill: true}, q); got != 1 {
			t.Errorf("got %v, want 1", got)
		}
	})

	t.Run("connectivity and difficulty", func(t *testing.T) {
		t.Parallel()
		q := domain.ScoreParams{LambdaC: 1, LambdaD: 1, UnseenBonus: 0.3}
		got := Score(ScoreInput{SkillVal: 0.25, Degree: 0, HasSkill: false}, q)
		want := 0.7 + 0.3 + 0.75
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

func TestSkillValue(t *testing.T) {
	t.Parallel()

	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		mean *float64
		max  float64
		want float64
	}{
		{"nil", nil, 100, 0},
		{"half", f(50), 100, 0.5},
		{"over", f(150), 100, 1},
		{"negative", f(-3), 100, 0},
		{"zero scale", f(50), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SkillValue(tt.mean, tt.max); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

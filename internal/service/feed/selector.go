package feed

import (
	"math"
	"slices"
	"time"
)

const (
	minTemperature = 1e-6
	minWeight      = 1e-12
	normEpsilon    = 1e-9
)

// WordCandidate is one scored word offered to the selector.
type WordCandidate struct {
	WordID    int64
	Score     float64
	Embedding []float32
	SkillVal  float64
	HasSkill  bool
	// Elapsed is the time since the word was last practiced.
	Elapsed time.Duration
}

// SelectParams controls SelectWords.
type SelectParams struct {
	WordsK      int
	Temperature float64
	MMRLambda   float64
	MMRJitter   float64
	ScanLimit   int

	RemindProb       float64
	HiSkillThreshold float64
	RemindGap        time.Duration
	RemindMax        int
}

// Selection is the outcome of one word-selection round.
type Selection struct {
	// WordIDs holds the selected words in pick order, recall words last.
	WordIDs []int64
	// Recalled is the subset of WordIDs injected from the recall pool.
	Recalled []int64
}

// SelectWords picks up to p.WordsK words from cands, plus at most
// p.RemindMax recall words. Scores are min-max normalized, turned into
// softmax weights, ranked with Gumbel-Top-k and diversified with MMR over
// word embeddings. The result never contains duplicates.
func SelectWords(cands []WordCandidate, p SelectParams, rng Rand) Selection {
	if p.WordsK <= 0 || len(cands) == 0 {
		return Selection{}
	}
	cands = uniqueCandidates(cands)

	norm := normalizeScores(cands)
	weights := softmax(norm, p.Temperature)

	keys := make([]float64, len(cands))
	for i, w := range weights {
		keys[i] = math.Log(max(w, minWeight)) + gumbel(rng)
	}
	order := make([]int, len(cands))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case keys[a] > keys[b]:
			return -1
		case keys[a] < keys[b]:
			return 1
		}
		return 0
	})

	items := make([]mmrItem, len(order))
	for pos, i := range order {
		items[pos] = mmrItem{relevance: norm[i], vec: cands[i].Embedding}
	}
	picked := mmrSelect(items, mmrParams{
		k:      p.WordsK,
		lambda: p.MMRLambda,
		scan:   p.ScanLimit,
		jitter: p.MMRJitter,
	}, rng)

	sel := Selection{WordIDs: make([]int64, 0, len(picked)+max(p.RemindMax, 0))}
	chosen := make(map[int64]struct{}, len(picked))
	for _, pos := range picked {
		id := cands[order[pos]].WordID
		sel.WordIDs = append(sel.WordIDs, id)
		chosen[id] = struct{}{}
	}

	sel.Recalled = injectRecall(cands, chosen, p, rng)
	sel.WordIDs = append(sel.WordIDs, sel.Recalled...)

	return sel
}

// injectRecall draws up to p.RemindMax well-known but stale words that are
// not already chosen, with probability p.RemindProb.
func injectRecall(cands []WordCandidate, chosen map[int64]struct{}, p SelectParams, rng Rand) []int64 {
	if p.RemindMax <= 0 || p.RemindProb <= 0 {
		return nil
	}

	var pool []int64
	for _, c := range cands {
		if _, ok := chosen[c.WordID]; ok {
			continue
		}
		if c.HasSkill && c.SkillVal >= p.HiSkillThreshold && c.Elapsed >= p.RemindGap {
			pool = append(pool, c.WordID)
		}
	}
	if len(pool) == 0 || rng.Float64() >= p.RemindProb {
		return nil
	}

	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:min(p.RemindMax, len(pool))]
}

// normalizeScores maps scores onto [0,1] by min-max. A zero range maps
// everything to 0.
func normalizeScores(cands []WordCandidate) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range cands {
		lo = min(lo, sanitize(c.Score))
		hi = max(hi, sanitize(c.Score))
	}
	out := make([]float64, len(cands))
	for i, c := range cands {
		out[i] = (sanitize(c.Score) - lo) / (hi - lo + normEpsilon)
	}
	return out
}

// softmax returns exp(x/T) weights normalized to sum to 1.
func softmax(xs []float64, temperature float64) []float64 {
	t := max(temperature, minTemperature)
	top := math.Inf(-1)
	for _, x := range xs {
		top = max(top, x/t)
	}
	out := make([]float64, len(xs))
	var sum float64
	for i, x := range xs {
		out[i] = math.Exp(x/t - top)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func uniqueCandidates(cands []WordCandidate) []WordCandidate {
	seen := make(map[int64]struct{}, len(cands))
	out := make([]WordCandidate, 0, len(cands))
	for _, c := range cands {
		if _, ok := seen[c.WordID]; ok {
			continue
		}
		seen[c.WordID] = struct{}{}
		out = append(out, c)
	}
	return out
}

func sanitize(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

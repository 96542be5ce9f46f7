package feed

import "github.com/heartmarshall/jpkr-backend/pkg/vecmath"

// ExampleCandidate is an example linked to a selected word.
type ExampleCandidate struct {
	ExampleID int64
	Embedding []float32
}

// PickParams controls PickExamples.
type PickParams struct {
	ExamplesPerWord int
	Gamma           float64
	MMRLambda       float64
}

// PickExamples chooses up to p.ExamplesPerWord example ids for one word.
// Candidates in seen are skipped. A candidate passes the relevance filter
// when its cosine similarity to wordVec is at least p.Gamma or when either
// vector is missing. Survivors are diversified with MMR using the word as
// the query. Candidate order is shuffled first so ties break randomly.
func PickExamples(wordVec []float32, cands []ExampleCandidate, p PickParams, seen map[int64]struct{}, rng Rand) []int64 {
	if p.ExamplesPerWord <= 0 || len(cands) == 0 {
		return nil
	}

	pool := make([]ExampleCandidate, len(cands))
	copy(pool, cands)
	if rng != nil {
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	}

	local := make(map[int64]struct{}, len(pool))
	ids := make([]int64, 0, len(pool))
	items := make([]mmrItem, 0, len(pool))
	for _, c := range pool {
		if _, ok := seen[c.ExampleID]; ok {
			continue
		}
		if _, ok := local[c.ExampleID]; ok {
			continue
		}
		local[c.ExampleID] = struct{}{}

		sim := vecmath.Cosine(wordVec, c.Embedding)
		if len(wordVec) > 0 && len(c.Embedding) > 0 && sim < p.Gamma {
			continue
		}
		ids = append(ids, c.ExampleID)
		items = append(items, mmrItem{relevance: sim, vec: c.Embedding})
	}

	picked := mmrSelect(items, mmrParams{k: p.ExamplesPerWord, lambda: p.MMRLambda}, nil)
	out := make([]int64, len(picked))
	for i, idx := range picked {
		out[i] = ids[idx]
	}
	return out
}

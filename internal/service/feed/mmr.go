package feed

import (
	"math"
	"slices"

	"github.com/heartmarshall/jpkr-backend/pkg/vecmath"
)

// mmrItem is a candidate for maximal-marginal-relevance selection.
type mmrItem struct {
	relevance float64
	vec       []float32
}

// mmrParams controls one MMR pass.
type mmrParams struct {
	k      int
	lambda float64
	// scan bounds how many of the remaining candidates are examined per
	// step, in input order. Zero means all.
	scan int
	// jitter scales a Gumbel perturbation added to every step score.
	jitter float64
}

// mmrSelect greedily picks up to k indices of items. The first pick
// maximizes relevance alone; later picks maximize
// lambda*relevance - (1-lambda)*maxSim, where maxSim is the largest cosine
// similarity to anything already picked. Items without a vector have
// similarity 0 to everything. Ties go to the earlier item.
func mmrSelect(items []mmrItem, p mmrParams, rng Rand) []int {
	if p.k <= 0 || len(items) == 0 {
		return nil
	}

	remaining := make([]int, len(items))
	for i := range remaining {
		remaining[i] = i
	}
	maxSim := make([]float64, len(items))
	picked := make([]int, 0, min(p.k, len(items)))

	for len(remaining) > 0 && len(picked) < p.k {
		limit := len(remaining)
		if p.scan > 0 && p.scan < limit {
			limit = p.scan
		}

		bestPos, bestScore := -1, math.Inf(-1)
		for pos, i := range remaining[:limit] {
			score := items[i].relevance
			if len(picked) > 0 {
				score = p.lambda*items[i].relevance - (1-p.lambda)*maxSim[i]
			}
			if p.jitter != 0 && rng != nil {
				score += p.jitter * gumbel(rng)
			}
			if score > bestScore {
				bestPos, bestScore = pos, score
			}
		}
		if bestPos < 0 {
			break
		}

		chosen := remaining[bestPos]
		picked = append(picked, chosen)
		remaining = slices.Delete(remaining, bestPos, bestPos+1)

		if len(items[chosen].vec) == 0 {
			continue
		}
		for _, i := range remaining {
			if len(items[i].vec) == 0 {
				continue
			}
			if sim := vecmath.Cosine(items[i].vec, items[chosen].vec); sim > maxSim[i] {
				maxSim[i] = sim
			}
		}
	}

	return picked
}

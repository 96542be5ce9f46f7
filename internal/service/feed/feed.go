package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/jpkr-backend/internal/domain"
	"github.com/heartmarshall/jpkr-backend/pkg/ctxutil"
)

// selection is the unannotated outcome of one feed round.
type selection struct {
	examples []domain.Example
	words    int
	recalled int
}

// GetFeed selects the next examples for the current user and annotates
// them for display. An empty vocabulary or a filter matching nothing
// yields an empty slice, not an error.
func (s *Service) GetFeed(ctx context.Context, input FeedInput) (items []domain.FeedItem, err error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	var sel selection
	defer func() {
		s.metrics.observe(s.cfg.Strategy, err, time.Since(start), len(items), sel.recalled)
	}()

	sel, err = s.selectExamples(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	items, err = s.assemble(ctx, userID, sel.examples)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "feed assembled",
		slog.String("user_id", userID.String()),
		"strategy", s.cfg.Strategy,
		"words_selected", sel.words,
		"recall_injected", sel.recalled,
		"examples_returned", len(items),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return items, nil
}

func (s *Service) selectExamples(ctx context.Context, userID uuid.UUID, input FeedInput) (selection, error) {
	wordsK, perWord, total := input.counts(s.cfg)
	if wordsK == 0 || perWord == 0 || total == 0 {
		return selection{}, nil
	}

	filter := input.filter()
	now := s.now()

	stats, err := s.loadStats(ctx, userID, filter, now)
	if err != nil {
		return selection{}, err
	}
	if len(stats) == 0 {
		return selection{}, nil
	}

	cands := make([]WordCandidate, len(stats))
	vecs := make(map[int64][]float32, len(stats))
	for i, st := range stats {
		in := scoreInputFor(st, s.cfg.Score, now)
		score := Score(in, s.cfg.Score)
		if st.Score != nil {
			score = *st.Score
		}
		cands[i] = WordCandidate{
			WordID:    st.WordID,
			Score:     score,
			Embedding: st.Embedding,
			SkillVal:  in.SkillVal,
			HasSkill:  in.HasSkill,
			Elapsed:   now.Sub(lastPracticed(st)),
		}
		vecs[st.WordID] = st.Embedding
	}

	rng := s.newRand()
	chosen := SelectWords(cands, SelectParams{
		WordsK:           wordsK,
		Temperature:      s.cfg.Temperature,
		MMRLambda:        s.cfg.WordMMRLambda,
		MMRJitter:        s.cfg.MMRJitter,
		ScanLimit:        s.cfg.MMRScanLimit,
		RemindProb:       s.cfg.RemindProb,
		HiSkillThreshold: s.cfg.HiSkillThreshold,
		RemindGap:        s.cfg.RemindGap,
		RemindMax:        s.cfg.RemindMax,
	}, rng)

	pick := PickParams{
		ExamplesPerWord: perWord,
		Gamma:           s.cfg.Gamma,
		MMRLambda:       s.cfg.SentMMRLambda,
	}
	seen := make(map[int64]struct{})
	picked := make([]domain.Example, 0, total)

	for _, wordID := range visitOrder(chosen) {
		if len(picked) >= total {
			break
		}

		examples, err := s.examples.ListByWordID(ctx, wordID, filter, s.cfg.PerWordCandidateCap)
		if err != nil {
			return selection{}, fmt.Errorf("list examples for word %d: %w", wordID, err)
		}
		if len(examples) == 0 {
			s.log.DebugContext(ctx, "word has no examples", "word_id", wordID)
			continue
		}

		byID := make(map[int64]domain.Example, len(examples))
		exCands := make([]ExampleCandidate, len(examples))
		for i, ex := range examples {
			byID[ex.ID] = ex
			exCands[i] = ExampleCandidate{ExampleID: ex.ID, Embedding: ex.Embedding}
		}

		ids := PickExamples(vecs[wordID], exCands, pick, seen, rng)
		if len(ids) == 0 {
			s.log.DebugContext(ctx, "no example passed relevance filter", "word_id", wordID)
		}
		for _, id := range ids {
			seen[id] = struct{}{}
			picked = append(picked, byID[id])
		}
	}

	if len(picked) > total {
		picked = picked[:total]
	}

	return selection{
		examples: picked,
		words:    len(chosen.WordIDs),
		recalled: len(chosen.Recalled),
	}, nil
}

// visitOrder spreads recall words evenly through the regular picks so the
// total cap does not cut them off first.
func visitOrder(sel Selection) []int64 {
	if len(sel.Recalled) == 0 {
		return sel.WordIDs
	}
	recalled := make(map[int64]struct{}, len(sel.Recalled))
	for _, id := range sel.Recalled {
		recalled[id] = struct{}{}
	}
	regular := make([]int64, 0, len(sel.WordIDs))
	for _, id := range sel.WordIDs {
		if _, ok := recalled[id]; !ok {
			regular = append(regular, id)
		}
	}

	out := make([]int64, 0, len(sel.WordIDs))
	step := len(sel.Recalled) + 1
	next := 0
	for j, id := range sel.Recalled {
		at := (j + 1) * len(regular) / step
		out = append(out, regular[next:at]...)
		out = append(out, id)
		next = at
	}
	return append(out, regular[next:]...)
}

// loadStats fetches the scoring projection using the configured strategy.
func (s *Service) loadStats(ctx context.Context, userID uuid.UUID, filter domain.FeedFilter, now time.Time) ([]domain.WordStats, error) {
	if s.cfg.Strategy == domain.FeedStrategySQL {
		stats, err := s.words.ScoreInDB(ctx, userID, filter, s.cfg.Score, now)
		if err != nil {
			return nil, fmt.Errorf("score words in db: %w", err)
		}
		return stats, nil
	}

	stats, err := s.words.ListForScoring(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list words for scoring: %w", err)
	}
	return stats, nil
}

func lastPracticed(st domain.WordStats) time.Time {
	if st.SkillUpdatedAt != nil {
		return *st.SkillUpdatedAt
	}
	return neverPracticed
}

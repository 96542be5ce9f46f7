package feed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

// assemble tokenizes every example, resolves lemmas against the word
// table in one batch and attaches media URLs.
func (s *Service) assemble(ctx context.Context, userID uuid.UUID, examples []domain.Example) ([]domain.FeedItem, error) {
	items := make([]domain.FeedItem, 0, len(examples))
	if len(examples) == 0 {
		return items, nil
	}

	lines := make([][]domain.Line, len(examples))
	lemmaSet := make(map[int64]struct{})
	var lemmaIDs []int64
	for i, ex := range examples {
		lines[i] = s.tok.Tokenize(ex.JPText)
		for _, line := range lines[i] {
			for _, tok := range line {
				if tok.Lemma == "" || tok.LemmaID == 0 {
					continue
				}
				if _, ok := lemmaSet[tok.LemmaID]; ok {
					continue
				}
				lemmaSet[tok.LemmaID] = struct{}{}
				lemmaIDs = append(lemmaIDs, tok.LemmaID)
			}
		}
	}

	byLemma, skills, err := s.resolveLemmas(ctx, userID, lemmaIDs)
	if err != nil {
		return nil, err
	}

	for i, ex := range examples {
		items = append(items, domain.FeedItem{
			ID:       ex.ID,
			Tags:     ex.Tags,
			JPText:   ex.JPText,
			KRMean:   ex.KRMean,
			ENPrompt: ex.ENPrompt,
			AudioURL: s.resolveURL(ctx, ex.AudioObjectKey),
			ImageURL: s.resolveURL(ctx, ex.ImageObjectKey),
			Words:    annotateLines(lines[i], byLemma, skills),
		})
	}

	return items, nil
}

// resolveLemmas maps each lemma id to its preferred word (the caller's own
// word wins over others') and loads the caller's skill rows for them.
func (s *Service) resolveLemmas(
	ctx context.Context,
	userID uuid.UUID,
	lemmaIDs []int64,
) (map[int64]domain.OwnedWord, map[int64][]domain.UserWordSkill, error) {
	byLemma := make(map[int64]domain.OwnedWord)
	skills := make(map[int64][]domain.UserWordSkill)
	if len(lemmaIDs) == 0 {
		return byLemma, skills, nil
	}

	words, err := s.words.GetByLemmaIDs(ctx, userID, lemmaIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("get words by lemma ids: %w", err)
	}

	wordIDs := make([]int64, 0, len(words))
	for _, w := range words {
		if _, ok := byLemma[w.LemmaID]; ok {
			continue
		}
		byLemma[w.LemmaID] = w
		wordIDs = append(wordIDs, w.ID)
	}
	if len(wordIDs) == 0 {
		return byLemma, skills, nil
	}

	rows, err := s.skills.ListByUserAndWordIDs(ctx, userID, wordIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("list word skills: %w", err)
	}
	for _, r := range rows {
		skills[r.WordID] = append(skills[r.WordID], r)
	}

	return byLemma, skills, nil
}

// annotateLines builds the line-indexed token map. Every line index is
// present even when the line has no annotatable tokens.
func annotateLines(
	lines []domain.Line,
	byLemma map[int64]domain.OwnedWord,
	skills map[int64][]domain.UserWordSkill,
) map[int][]domain.TokenAnnotation {
	out := make(map[int][]domain.TokenAnnotation, len(lines))
	for i, line := range lines {
		anns := make([]domain.TokenAnnotation, 0, len(line))
		for _, tok := range line {
			if tok.Lemma == "" {
				continue
			}
			anns = append(anns, annotate(tok, byLemma, skills))
		}
		out[i] = anns
	}
	return out
}

func annotate(
	tok domain.Token,
	byLemma map[int64]domain.OwnedWord,
	skills map[int64][]domain.UserWordSkill,
) domain.TokenAnnotation {
	w, ok := byLemma[tok.LemmaID]
	if !ok || tok.LemmaID == 0 {
		return domain.TokenAnnotation{
			LemmaID:        tok.LemmaID,
			Lemma:          tok.Lemma,
			Surface:        tok.Surface,
			JPPron:         tok.Reading,
			POS:            tok.PrimaryPOS(),
			UserWordSkills: []domain.UserWordSkill{},
		}
	}

	wordID := w.ID
	ws := skills[w.ID]
	if ws == nil {
		ws = []domain.UserWordSkill{}
	}
	var level *domain.JLPTLevel
	if w.Level.IsValid() {
		lvl := w.Level
		level = &lvl
	}

	return domain.TokenAnnotation{
		WordID:          &wordID,
		LemmaID:         w.LemmaID,
		Lemma:           w.Lemma,
		Surface:         tok.Surface,
		UserID:          w.UserID,
		UserDisplayName: w.OwnerDisplayName,
		JPPron:          w.JPPron,
		KRPron:          w.KRPron,
		KRMean:          w.KRMean,
		POS:             tok.PrimaryPOS(),
		Level:           level,
		UserWordSkills:  ws,
		NumSkills:       len(ws),
	}
}

// resolveURL presigns an object key. Failures degrade to a missing URL.
func (s *Service) resolveURL(ctx context.Context, key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	url, err := s.urls.Resolve(ctx, *key, s.cfg.URLTTL)
	if err != nil {
		s.log.WarnContext(ctx, "resolve object url", "key", *key, "error", err)
		return nil
	}
	if url == "" {
		return nil
	}
	return &url
}

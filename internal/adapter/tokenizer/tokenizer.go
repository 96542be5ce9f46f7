// Package tokenizer splits Japanese text into morphemes with the kagome
// IPA dictionary.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/heartmarshall/jpkr-backend/internal/domain"
)

// IPA feature positions.
const (
	featBaseForm = 6
	featReading  = 7
)

// Tokenizer wraps a kagome tokenizer. It is safe for concurrent use.
type Tokenizer struct {
	t *tokenizer.Tokenizer
}

// New builds the tokenizer. Loading the dictionary is slow; call once per
// process and share the result.
func New() (*Tokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("init kagome tokenizer: %w", err)
	}
	return &Tokenizer{t: t}, nil
}

// Tokenize splits text on newlines and tokenizes each line independently.
// The result has one Line per input line, empty lines included, so line
// indexes match the source text.
func (tk *Tokenizer) Tokenize(text string) []domain.Line {
	raw := strings.Split(text, "\n")
	lines := make([]domain.Line, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, tk.tokenizeLine(strings.TrimSuffix(line, "\r")))
	}
	return lines
}

func (tk *Tokenizer) tokenizeLine(line string) domain.Line {
	out := domain.Line{}
	if line == "" {
		return out
	}

	for _, tok := range tk.t.Tokenize(line) {
		if tok.Class == tokenizer.DUMMY {
			continue
		}

		// Whitespace keeps its position but carries no lemma.
		if strings.TrimSpace(tok.Surface) == "" {
			out = append(out, domain.Token{Surface: tok.Surface})
			continue
		}

		features := tok.Features()
		base := tok.Surface
		if len(features) > featBaseForm && features[featBaseForm] != "*" {
			base = features[featBaseForm]
		}
		reading := ""
		if len(features) > featReading && features[featReading] != "*" {
			reading = features[featReading]
		}
		var pos []string
		if len(features) > 0 {
			pos = posTags(features)
		}

		primary := ""
		if len(pos) > 0 {
			primary = pos[0]
		}

		out = append(out, domain.Token{
			Surface: tok.Surface,
			Lemma:   base,
			LemmaID: LemmaID(base, primary),
			Reading: reading,
			POS:     pos,
		})
	}

	return out
}

// posTags returns the non-empty part-of-speech levels (first four IPA
// features).
func posTags(features []string) []string {
	n := min(len(features), 4)
	pos := make([]string, 0, n)
	for _, f := range features[:n] {
		if f == "*" || f == "" {
			continue
		}
		pos = append(pos, f)
	}
	return pos
}

// LemmaID derives the stable dictionary key of a lemma. Words are stored
// with the same key, so both sides must agree on (lemma, primary POS).
// Returns 0 for an empty lemma.
func LemmaID(lemma, primaryPOS string) int64 {
	if lemma == "" {
		return 0
	}
	id := int64(xxhash.Sum64String(lemma + "\x00" + primaryPOS))
	if id == 0 {
		// 0 is reserved for "no lemma".
		return 1
	}
	return id
}

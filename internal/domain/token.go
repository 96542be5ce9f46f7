package domain

// Token is one morpheme produced by the tagger.
type Token struct {
	Surface string
	Lemma   string
	LemmaID int64
	Reading string
	POS     []string
}

// PrimaryPOS returns the top-level part-of-speech label, or "".
func (t Token) PrimaryPOS() string {
	if len(t.POS) == 0 {
		return ""
	}
	return t.POS[0]
}

// Line is the token sequence of a single input line.
type Line []Token

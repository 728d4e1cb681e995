// Package morph provides the morphological analyzer the agreement engine
// inflects words with.
package morph

import (
	"github.com/RussianNLP/RuBLiMP/feats"
)

type Analyzer interface {
	// Parse returns the analyses of a word form, most probable first.
	Parse(word string) []*Analysis
}

// Analysis is one reading of a word form: a cell of a lexeme's paradigm.
type Analysis struct {
	Word  string
	Lemma string
	Tag   Tag

	lexeme *lexeme
	cell   int
}

func (a *Analysis) POS() string {
	return a.Tag.POS()
}

func (a *Analysis) Has(grammemes ...string) bool {
	return a.Tag.Has(grammemes...)
}

func (a *Analysis) Value(f feats.Feature) feats.Value {
	return a.Tag.Value(f)
}

// Lexeme returns every cell of the paradigm the analysis belongs to.
func (a *Analysis) Lexeme() []*Analysis {
	if a.lexeme == nil {
		return []*Analysis{a}
	}
	out := make([]*Analysis, len(a.lexeme.forms))
	for i := range a.lexeme.forms {
		out[i] = a.lexeme.analysis(i)
	}
	return out
}

// Inflect returns the paradigm cell that carries all required grammemes and
// is closest to the current one. It returns nil if no cell qualifies.
func (a *Analysis) Inflect(required ...string) *Analysis {
	if a.lexeme == nil {
		return nil
	}
	target := a.Tag.updated(required)

	best := -1
	bestScore := 0.0
	for i, f := range a.lexeme.forms {
		if !f.tag.Has(required...) {
			continue
		}
		score := f.tag.similarity(target)
		if best == -1 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best == -1 {
		return nil
	}
	return a.lexeme.analysis(best)
}

type form struct {
	word string
	tag  Tag
}

type lexeme struct {
	lemma string
	forms []form
}

func (l *lexeme) analysis(i int) *Analysis {
	return &Analysis{
		Word:   l.forms[i].word,
		Lemma:  l.lemma,
		Tag:    l.forms[i].tag,
		lexeme: l,
		cell:   i,
	}
}

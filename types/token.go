package types

import (
	"github.com/RussianNLP/RuBLiMP/feats"
)

// Token is one syntactic word of a dependency-parsed sentence.
type Token struct {
	ID     int
	Form   string
	Lemma  string
	UPOS   string
	XPOS   string
	Feats  feats.Bundle
	Head   int
	Deprel string
	Deps   string
	Misc   string

	// Features outside the canonical bundle, e.g. Aspect or Mood, in UD spelling.
	Extra map[string]string
}

func (token *Token) Feat(f feats.Feature) feats.Value {
	return token.Feats.Get(f)
}

// HasFeats reports whether the token carries any morphological feature.
func (token *Token) HasFeats() bool {
	return !token.Feats.IsEmpty() || len(token.Extra) > 0
}

// AllFeats renders both canonical and extra features in UD spelling.
func (token *Token) AllFeats() map[string]string {
	out := token.Feats.UD()
	for k, v := range token.Extra {
		out[k] = v
	}
	return out
}

func (token Token) Clone() *Token {
	if token.Extra != nil {
		extra := make(map[string]string, len(token.Extra))
		for k, v := range token.Extra {
			extra[k] = v
		}
		token.Extra = extra
	}
	return &token
}

package agreement

import (
	"regexp"
	"sort"

	"github.com/RussianNLP/RuBLiMP/feats"
	"github.com/RussianNLP/RuBLiMP/morph"
	"github.com/RussianNLP/RuBLiMP/types"
	"github.com/RussianNLP/RuBLiMP/utils"
)

func stringSet(items ...string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, i := range items {
		out[i] = true
	}
	return out
}

var (
	numberPOS = stringSet(morph.NOUN, morph.ADJF, morph.ADJS, morph.VERB, morph.PRTF, morph.PRTS)
	genderPOS = stringSet(morph.ADJF, morph.ADJS, morph.PRTF, morph.PRTS)
	casePOS   = stringSet(morph.NOUN, morph.ADJF, morph.ADJS, morph.PRTF, morph.PRTS)

	numberUPOS     = stringSet("NOUN", "ADJ", "VERB", "AUX", "PRON")
	genderUPOS     = stringSet("ADJ", "VERB", "AUX", "PRON")
	adjectivalPron = stringSet("какой", "который")

	uposToPOS = map[string]map[string]bool{
		"VERB":  stringSet(morph.VERB, morph.PRTF, morph.PRTS, morph.ADJF, morph.ADJS),
		"AUX":   stringSet(morph.VERB, morph.PRTF, morph.PRTS, morph.ADJF, morph.ADJS),
		"ADJ":   stringSet(morph.NUMR, morph.ADJF, morph.ADJS, morph.PRTF, morph.PRTS),
		"NUM":   stringSet(morph.NUMR, morph.ADJF, morph.ADJS),
		"DET":   stringSet(morph.ADJF, morph.ADJS),
		"PRON":  stringSet(morph.NPRO, morph.ADJF, morph.ADJS),
		"NOUN":  stringSet(morph.NOUN, morph.NPRO),
		"PROPN": stringSet(morph.NOUN),
	}
)

// parseChecker accepts or rejects an analyzer reading.
type parseChecker func(*morph.Analysis) bool

func anyParse(*morph.Analysis) bool { return true }

// inflectableParse reports whether the reading can change f.
func inflectableParse(f feats.Feature, a *morph.Analysis) bool {
	pos := a.POS()
	switch f {
	case feats.Number:
		return numberPOS[pos]
	case feats.Gender:
		return genderPOS[pos] || a.Has(morph.VERB, "past")
	case feats.Person:
		return a.Has(morph.VERB) && (a.Has("pres") || a.Has("futr"))
	case feats.Case:
		return casePOS[pos]
	}
	return false
}

func inflectableChecker(f feats.Feature, variant feats.Value) parseChecker {
	return func(a *morph.Analysis) bool {
		if variant == feats.Short && a.Has("Qual") {
			return false
		}
		return inflectableParse(f, a)
	}
}

// inflectableToken reports whether a treebank token inflects for f.
func inflectableToken(f feats.Feature, tok *types.Token) bool {
	verbForm := tok.Feat(feats.VerbForm)
	tense := tok.Feat(feats.Tense)
	switch f {
	case feats.Number:
		if !numberUPOS[tok.UPOS] {
			return false
		}
		switch tok.UPOS {
		case "PRON":
			return adjectivalPron[tok.Lemma]
		case "VERB":
			return verbForm == feats.Fin || verbForm == feats.Part
		}
		return true
	case feats.Gender:
		if !genderUPOS[tok.UPOS] {
			return false
		}
		switch tok.UPOS {
		case "PRON":
			return adjectivalPron[tok.Lemma]
		case "VERB", "AUX":
			return (verbForm == feats.Fin && tense == feats.Past) || verbForm == feats.Part
		}
		return true
	case feats.Person:
		return verbForm == feats.Fin && (tense == feats.Pres || tense == feats.Fut)
	}
	return false
}

// suitableParse picks the analyzer reading that best matches the treebank
// features of a token. Readings are ranked by the number of matching
// features plus one if check accepts them; the best one whose POS fits upos
// wins, provided check accepts it.
func suitableParse(parses []*morph.Analysis, ref feats.Bundle, upos string, check parseChecker) *morph.Analysis {
	ref = ref.Without(feats.VerbForm, feats.Variant, feats.Animacy)
	if ref.IsEmpty() {
		return nil
	}
	expected, ok := uposToPOS[upos]
	if !ok {
		return nil
	}

	type scored struct {
		parse       *morph.Analysis
		score       int
		inflectable bool
	}
	ranked := make([]scored, 0, len(parses))
	for _, p := range parses {
		s := scored{parse: p, inflectable: check(p)}
		for _, f := range feats.All {
			if ref.Has(f) && p.Value(f) == ref.Get(f) {
				s.score++
			}
		}
		if s.inflectable {
			s.score++
		}
		ranked = append(ranked, s)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	for _, s := range ranked {
		if !expected[s.parse.POS()] {
			continue
		}
		if !s.inflectable {
			return nil
		}
		return s.parse
	}
	return nil
}

// paradigmHomonyms returns the tags of other paradigm cells spelled like a.
func paradigmHomonyms(analyzer morph.Analyzer, a *morph.Analysis) []morph.Tag {
	word := utils.UnifyAlphabet(a.Word)
	var out []morph.Tag
	for _, p := range analyzer.Parse(word) {
		if p.Lemma != a.Lemma || utils.UnifyAlphabet(p.Word) != word {
			continue
		}
		if p.Tag.Equal(a.Tag) {
			continue
		}
		out = append(out, p.Tag)
	}
	return out
}

// potentialAgree returns the homonyms that carry value and every necessary
// grammeme.
func potentialAgree(value string, homonyms []morph.Tag, necessary ...string) []morph.Tag {
	var out []morph.Tag
	for _, h := range homonyms {
		if h.Has(value) && h.Has(necessary...) {
			out = append(out, h)
		}
	}
	return out
}

var numericLiteral = regexp.MustCompile(`^(?:\d+[.,]\d+|(\d+-[ыои]?й)$|\d+)`)

// isNumericLiteral matches digit lemmas except ordinals like "14-й".
func isNumericLiteral(lemma string) bool {
	m := numericLiteral.FindStringSubmatchIndex(lemma)
	return m != nil && m[2] < 0
}

// bannedCandidate rejects tokens never inflected: proper nouns and numbers
// written in digits.
func bannedCandidate(tok *types.Token) bool {
	return tok.UPOS == "PROPN" || isNumericLiteral(tok.Lemma)
}

func grammeme(f feats.Feature, v feats.Value) string {
	g, _ := feats.ToGrammeme(f, v)
	return g
}

// grammemesOf lists the grammemes of a for fs, skipping except and missing
// values.
func grammemesOf(a *morph.Analysis, except feats.Feature, fs ...feats.Feature) []string {
	var out []string
	for _, f := range fs {
		if f == except {
			continue
		}
		if g := grammeme(f, a.Value(f)); g != "" {
			out = append(out, g)
		}
	}
	return out
}

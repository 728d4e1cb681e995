package agreement

import (
	"github.com/RussianNLP/RuBLiMP/feats"
	"github.com/RussianNLP/RuBLiMP/types"
)

const intensifierLemma = "сам"

var modifierDeprels = []string{"amod", "det", "nummod"}

func isModifier(tok *types.Token) bool {
	for _, d := range modifierDeprels {
		if tok.Deprel == d {
			return true
		}
	}
	return false
}

func isNominal(tok *types.Token) bool {
	return tok.UPOS == "NOUN" || tok.UPOS == "PRON" || tok.UPOS == "PROPN"
}

// matchModifiers groups the adjectival, determiner and numeral modifiers of
// each nominal head.
func (g *Generator) matchModifiers(sent *types.Sentence) []*Group {
	var groups []*Group
	seen := map[int]bool{}
	for _, modif := range sent.Filter(isModifier) {
		if !modif.HasFeats() {
			continue
		}
		head := sent.Token(modif.Head)
		if head == nil || !isNominal(head) || seen[head.ID] {
			continue
		}
		seen[head.ID] = true

		controller := newMember(head)
		controller.IsSubject = head.Deprel == "nsubj"
		controller.setConstituent(sent.Constituent(head, nil))
		group := &Group{Controller: controller}

		governed := len(sent.Dependents(head.ID, "nummod:gov")) > 0
		for _, dep := range sent.Dependents(head.ID, modifierDeprels...) {
			m := newMember(dep)
			m.Subtype = SubtypeAdjectival
			if dep.Lemma == intensifierLemma {
				m.Subtype = SubtypeFloatQNP
			}
			backfill(feats.Animacy, controller, m)
			backfill(feats.Gender, controller, m)

			cmp := compareFeats(controller.Small, m.Small)
			if len(cmp.diff) > 0 && !(cmp.diffIs(feats.Number) && m.Small.Get(feats.Number) == feats.Plur && governed) {
				continue
			}
			group.Agreers = append(group.Agreers, m)
		}
		groups = append(groups, group)
	}
	return groups
}

package agreement

import (
	"strings"

	"github.com/RussianNLP/RuBLiMP/feats"
	"github.com/RussianNLP/RuBLiMP/types"
)

// sameFeaturedBetween reports whether a word between head and pron matches
// every number and gender value of head, which makes the antecedent of the
// pronoun ambiguous.
func sameFeaturedBetween(sent *types.Sentence, head, pron *types.Token) bool {
	ref := head.Feats.Only(feats.Number, feats.Gender)
	want := 0
	for _, f := range feats.Comparison {
		if ref.Has(f) {
			want++
		}
	}
	for id := head.ID + 1; id < pron.ID; id++ {
		cand := sent.Token(id)
		if cand == nil || !cand.HasFeats() {
			continue
		}
		if len(compareFeats(ref, cand.Feats.Only(feats.Number, feats.Gender)).same) == want {
			return true
		}
	}
	return false
}

// matchRelativeClauses pairs the relative pronoun "который" with the noun
// its clause modifies.
func (g *Generator) matchRelativeClauses(sent *types.Sentence) []*Group {
	var groups []*Group
	seen := map[int]bool{}
	for _, clause := range sent.Filter(func(t *types.Token) bool { return t.Deprel == "acl:relcl" }) {
		head := sent.Token(clause.Head)
		if head == nil || !clause.HasFeats() {
			continue
		}

		headConst := sent.Constituent(head, nil)
		var pron *types.Token
		for _, t := range headConst {
			if isRelativeWord(t) {
				pron = t
				break
			}
		}
		if pron == nil || seen[pron.ID] {
			continue
		}
		if sameFeaturedBetween(sent, head, pron) {
			continue
		}

		controller := newMember(head)
		m := newMember(pron)
		m.Subtype = SubtypeRelative
		m.NoInflect = strings.HasPrefix(pron.Deprel, "nsubj")
		backfill(feats.Animacy, controller, m)
		backfill(feats.Gender, controller, m)

		cmp := compareFeats(controller.Small, m.Small)
		if len(cmp.diff) > 0 && !cmp.diffIs(feats.Case) && !cmp.diffIs(feats.Number, feats.Case) {
			continue
		}

		headID := head.ID
		constPart := sent.Constituent(head, func(t *types.Token) bool {
			return isRelativeWord(t) || (t.Deprel == "acl:relcl" && t.Head == headID)
		})
		writeBack(head, pron, cmp.same)
		m.Distractors = findDistractors(sent, head, pron)
		controller.setConstituent(constPart)
		m.setConstituent([]*types.Token{pron})

		seen[pron.ID] = true
		groups = append(groups, &Group{Controller: controller, Agreers: []*Member{m}})
	}
	return groups
}

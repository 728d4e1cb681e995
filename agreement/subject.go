package agreement

import (
	"strings"

	"github.com/RussianNLP/RuBLiMP/feats"
	"github.com/RussianNLP/RuBLiMP/types"
)

const (
	negationLemma   = "не"
	subjunctiveForm = "бы"
)

func isNominalSubject(tok *types.Token) bool {
	return tok.Deprel == "nsubj" || tok.Deprel == "nsubj:pass"
}

func isClausalSubject(tok *types.Token) bool {
	return strings.HasPrefix(tok.Deprel, "csubj")
}

// predicateAgreers collects the words of the predicate headed by head that
// agree with its subject: auxiliaries and copulas, a passive xcomp and the
// head itself. aux is the first auxiliary, if any. Nominal predicates without
// a copula are dropped when excludeNominal is set and flagged otherwise.
func predicateAgreers(sent *types.Sentence, head *types.Token, excludeNominal bool) (agreers []*types.Token, aux *types.Token, maybeNominal bool) {
	for _, dep := range sent.Dependents(head.ID) {
		if !strings.HasPrefix(dep.Deprel, "aux") && !strings.HasPrefix(dep.Deprel, "cop") {
			continue
		}
		if strings.ToLower(dep.Form) == subjunctiveForm {
			continue
		}
		agreers = append(agreers, dep)
	}
	if len(agreers) > 0 {
		aux = agreers[0]
	}

	for _, xcomp := range sent.Dependents(head.ID, "xcomp") {
		if len(sent.Dependents(xcomp.ID, "aux:pass")) == 0 {
			continue
		}
		if inflectableToken(feats.Number, xcomp) || inflectableToken(feats.Gender, xcomp) {
			agreers = append(agreers, xcomp)
		}
	}

	headInflects := inflectableToken(feats.Number, head) || inflectableToken(feats.Gender, head)
	hasADP := len(sent.Filter(func(t *types.Token) bool {
		return t.Head == head.ID && t.UPOS == "ADP"
	})) > 0
	headCase := head.Feat(feats.Case)
	if headInflects && (!hasADP || head.UPOS == "AUX" || head.UPOS == "VERB") &&
		(headCase == feats.None || headCase == feats.Nom) {
		agreers = append(agreers, head)
	}

	if aux == nil && head.UPOS != "AUX" && head.UPOS != "VERB" && head.UPOS != "ADJ" {
		if excludeNominal {
			kept := agreers[:0]
			for _, a := range agreers {
				if a.ID != head.ID {
					kept = append(kept, a)
				}
			}
			agreers = kept
		} else {
			maybeNominal = true
		}
	}
	return agreers, aux, maybeNominal
}

// negatedPredicate reports whether one of the agreers is preceded by a
// dependent "не".
func negatedPredicate(sent *types.Sentence, agreers []*types.Token) bool {
	for _, agr := range agreers {
		for _, dep := range sent.Dependents(agr.ID) {
			if dep.UPOS == "PART" && strings.ToLower(dep.Lemma) == negationLemma && dep.ID < agr.ID {
				return true
			}
		}
	}
	return false
}

func (g *Generator) isSingulariaTantum(lemma string) bool {
	parses := g.analyzer.Parse(lemma)
	return len(parses) > 0 && parses[0].Has("Sgtm")
}

// matchNominalSubjects finds subject-predicate agreement for nominal
// subjects, including genitive subjects of negated predicates.
func (g *Generator) matchNominalSubjects(sent *types.Sentence) []*Group {
	var groups []*Group
	for _, subject := range sent.Filter(isNominalSubject) {
		if !subject.HasFeats() {
			continue
		}
		if subject.UPOS == "ADJ" && subject.Feat(feats.Variant) == feats.Short {
			continue
		}
		if len(sent.Dependents(subject.ID, "nsubj")) > 0 {
			continue
		}
		head := sent.Token(subject.Head)
		if head == nil {
			continue
		}

		agreers, aux, maybeNominal := predicateAgreers(sent, head, g.params.ExcludeDashNominalSubj)
		if len(agreers) == 0 {
			continue
		}

		subtype := SubtypeNominalSubj
		negGen := false
		if subject.Feat(feats.Case) == feats.Gen {
			if !negatedPredicate(sent, agreers) {
				continue
			}
			negGen = true
			subtype = SubtypeNegationGenSubj
		}

		chosen := head.ID
		if aux != nil {
			chosen = aux.ID
		}

		controller := newMember(subject)
		controller.setConstituent(sent.Constituent(subject, nil))
		group := &Group{Controller: controller}

		ok := true
		for _, agr := range agreers {
			m := newMember(agr)
			if tense := m.Small.Get(feats.Tense); tense != feats.Pres && tense != feats.Fut {
				backfill(feats.Gender, controller, m)
			}

			cmp := compareFeats(controller.Small, m.Small)
			pluralTantum := cmp.diffIs(feats.Number) && m.Small.Get(feats.Number) == feats.Plur &&
				g.isSingulariaTantum(subject.Lemma)
			if len(cmp.diff) > 0 && !negGen && !pluralTantum {
				ok = false
				break
			}

			m.Subtype = subtype
			m.MaybeNominal = maybeNominal
			m.NoInflect = agr.ID != chosen
			if !negGen {
				m.Distractors = findDistractors(sent, subject, agr)
			}
			group.Agreers = append(group.Agreers, m)
		}
		if ok {
			groups = append(groups, group)
		}
	}
	return groups
}

// matchClausalSubjects finds predicates agreeing with a clausal subject. The
// clause itself is never inflected.
func (g *Generator) matchClausalSubjects(sent *types.Sentence) []*Group {
	var groups []*Group
	for _, subject := range sent.Filter(isClausalSubject) {
		head := sent.Token(subject.Head)
		if head == nil {
			continue
		}

		subtype := SubtypeClausalSubj
		if strings.HasSuffix(subject.Deprel, ":pass") {
			subtype = SubtypeClausalSubjPass
		}

		agreers, aux, maybeNominal := predicateAgreers(sent, head, false)
		if len(agreers) == 0 {
			continue
		}
		chosen := head.ID
		if aux != nil {
			chosen = aux.ID
		}

		controller := newMember(subject)
		controller.NoInflect = true
		controller.setConstituent(sent.Constituent(subject, nil))
		group := &Group{Controller: controller}
		for _, agr := range agreers {
			m := newMember(agr)
			m.Subtype = subtype
			m.MaybeNominal = maybeNominal
			m.NoInflect = agr.ID != chosen
			m.Distractors = findDistractors(sent, subject, agr)
			group.Agreers = append(group.Agreers, m)
		}
		groups = append(groups, group)
	}
	return groups
}

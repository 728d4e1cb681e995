package agreement

import (
	"sort"
	"strings"

	"github.com/RussianNLP/RuBLiMP/feats"
	"github.com/RussianNLP/RuBLiMP/types"
	"github.com/RussianNLP/RuBLiMP/utils"
)

const (
	clauseSame = "same_clause"
	clauseConj = "conj_clause"

	relativePrefix = "котор"
)

var argumentDeprels = []string{"nsubj", "obj", "iobj", "obl"}

func isArgument(tok *types.Token) bool {
	for _, d := range argumentDeprels {
		if tok.Deprel == d {
			return true
		}
	}
	return false
}

func isRelativeWord(tok *types.Token) bool {
	return strings.HasPrefix(strings.ToLower(tok.Form), relativePrefix)
}

func isFiniteVerb(tok *types.Token) bool {
	return tok.Feat(feats.VerbForm) == feats.Fin
}

func isParticiple(tok *types.Token) bool {
	return tok.UPOS == "VERB" && tok.Feat(feats.VerbForm) == feats.Part
}

type antecedent struct {
	tok     *types.Token
	numSame int
	kind    string
}

// findAntecedents looks for the argument a floating quantifier refers to:
// first among the arguments of relHead with the same case, then in the
// preceding conjoined clauses.
func (g *Generator) findAntecedents(sent *types.Sentence, expr, relHead *types.Token, depth int) []antecedent {
	if depth > g.params.FloatQMaxDepth {
		return nil
	}

	var options []antecedent
	for _, host := range sent.Dependents(relHead.ID, argumentDeprels...) {
		if host.Feat(feats.Case) != expr.Feat(feats.Case) {
			continue
		}
		numSame := 0
		if expr.Feat(feats.Number) == host.Feat(feats.Number) {
			numSame++
		}
		if (expr.Feat(feats.Gender) == feats.None && expr.Feat(feats.Number) == feats.Plur) ||
			expr.Feat(feats.Gender) == host.Feat(feats.Gender) {
			numSame++
		}
		if g.params.FloatQStrictNumGender && numSame != 2 {
			continue
		}
		options = append(options, antecedent{tok: host, numSame: numSame, kind: clauseSame})
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].numSame > options[j].numSame
	})

	if len(options) > 0 || (relHead.Deprel != "conj" && relHead.Deprel != "parataxis") {
		return options
	}
	first := sent.Token(relHead.Head)
	if first == nil {
		return options
	}
	conjuncts := append([]*types.Token{first}, sent.Filter(func(t *types.Token) bool {
		return t.Head == first.ID && (t.Deprel == "conj" || t.Deprel == "parataxis")
	})...)
	for i := len(conjuncts) - 1; i >= 0; i-- {
		c := conjuncts[i]
		if c.ID >= relHead.ID {
			continue
		}
		for _, o := range g.findAntecedents(sent, expr, c, depth+1) {
			o.kind = clauseConj
			options = append(options, o)
		}
	}
	sort.SliceStable(options, func(i, j int) bool {
		if options[i].numSame != options[j].numSame {
			return options[i].numSame > options[j].numSame
		}
		return options[i].tok.ID > options[j].tok.ID
	})
	return options
}

// clauseBounds returns the first and last ids of clause other than skip.
func clauseBounds(clause []*types.Token, skip int) (left, right int) {
	for _, t := range clause {
		if t.ID == skip {
			continue
		}
		if left == 0 {
			left = t.ID
		}
		right = t.ID
	}
	return left, right
}

// isFixedConjExpression rejects modifiers that are part of fixed
// conjunctional expressions or follow a comma or subordinator.
func isFixedConjExpression(sent *types.Sentence, modif, head *types.Token) bool {
	if !inflectableToken(feats.Gender, modif) {
		return true
	}
	for _, id := range []int{head.ID + 2, modif.ID - 1} {
		spot := sent.Token(id)
		if spot == nil {
			continue
		}
		if spot.UPOS == "SCONJ" {
			return true
		}
		if prev := sent.Token(id - 1); prev != nil && prev.UPOS == "PUNCT" {
			return true
		}
	}
	if prep := sent.Token(head.ID - 1); prep != nil && prep.UPOS == "ADP" && head.Lemma == "то" {
		return true
	}
	return false
}

func isContiguous(toks []*types.Token) bool {
	for i := 1; i < len(toks); i++ {
		if toks[i].ID != toks[i-1].ID+1 {
			return false
		}
	}
	return true
}

// constDistance measures the gap between the modifier's own constituent and
// the rest of the clause it attaches to.
func constDistance(modif, head *types.Token, adjConst, except []*types.Token) int {
	if len(adjConst) == 0 {
		return 0
	}
	minAdj, maxAdj := adjConst[0].ID, adjConst[len(adjConst)-1].ID
	dist := 0
	if modif.ID < head.ID {
		for _, t := range except {
			if t.ID > maxAdj {
				dist = t.ID - maxAdj
				break
			}
		}
	} else if len(except) > 0 {
		dist = except[len(except)-1].ID - minAdj
	}
	return utils.AbsInt(dist)
}

// matchAdjectivalClauses handles acl dependents: participles, detached
// appositive adjectives and floating quantifiers.
func (g *Generator) matchAdjectivalClauses(sent *types.Sentence) []*Group {
	var groups []*Group
	for _, modif := range sent.Filter(func(t *types.Token) bool { return t.Deprel == "acl" }) {
		head := sent.Token(modif.Head)
		if head == nil || !modif.HasFeats() {
			continue
		}
		clause := sent.Constituent(head, nil)

		participle := isParticiple(modif)
		subtype := SubtypeAppos
		if participle {
			subtype = SubtypeParticiple
		}

		floatQ, npLike := false, false
		if modif.Lemma == intensifierLemma {
			if len(sent.Dependents(modif.ID, "fixed")) > 0 || isArgument(head) {
				continue
			}
			options := g.findAntecedents(sent, modif, head, 0)
			if len(options) == 0 {
				continue
			}
			head = options[0].tok
			floatQ = true
			left, right := clauseBounds(clause, modif.ID)
			if modif.ID == left-1 || modif.ID == right+1 {
				subtype = SubtypeFloatQNP
				npLike = true
			} else {
				subtype = SubtypeFloatQInferred + "_" + Subtype(options[0].kind)
			}
		}

		if modif.UPOS == "VERB" && !participle {
			continue
		}
		if head.UPOS == "VERB" && !isParticiple(head) {
			continue
		}
		if isFixedConjExpression(sent, modif, head) {
			continue
		}

		controller := newMember(head)
		controller.setConstituent(clause)
		m := newMember(modif)
		backfill(feats.Animacy, controller, m)
		backfill(feats.Gender, controller, m)

		adjConst := sent.Constituent(modif, isFiniteVerb)
		inAdj := map[int]bool{}
		for _, t := range adjConst {
			inAdj[t.ID] = true
		}
		var except []*types.Token
		for _, t := range clause {
			if !inAdj[t.ID] {
				except = append(except, t)
			}
		}
		m.ConstDistance = constDistance(modif, head, adjConst, except)
		m.HeadDistance = utils.AbsInt(modif.ID - head.ID)

		remote := m.ConstDistance >= g.params.MinApposConstDist && m.HeadDistance >= g.params.MinApposHeadDist
		if isContiguous(clause) && !participle && !floatQ && !remote {
			npLike = true
			subtype = SubtypeAdjectival
		}
		m.Subtype = subtype

		cmp := compareFeats(controller.Small, m.Small)
		if len(cmp.diff) > 0 {
			continue
		}
		writeBack(head, modif, cmp.same)

		if participle && !npLike {
			headID := head.ID
			constPart := sent.Constituent(head, func(t *types.Token) bool {
				return isRelativeWord(t) || (t.Deprel == "acl" && t.Head == headID)
			})
			m.Distractors = findDistractors(sent, head, modif)
			controller.setConstituent(constPart)
		}
		m.setConstituent(adjConst)
		groups = append(groups, &Group{Controller: controller, Agreers: []*Member{m}})
	}
	return groups
}

package agreement

import (
	"strings"

	"github.com/RussianNLP/RuBLiMP/feats"
	"github.com/RussianNLP/RuBLiMP/morph"
	"github.com/RussianNLP/RuBLiMP/types"
	"github.com/RussianNLP/RuBLiMP/utils"
)

const (
	copulaLemma      = "быть"
	possessiveCopula = "есть"
)

var (
	keptFeats      = []feats.Feature{feats.Case, feats.Number, feats.Gender, feats.Person, feats.Animacy}
	ambiguityFeats = []feats.Feature{feats.Case, feats.Number, feats.Gender, feats.Person}
	neuterLike     = stringSet("masc", "neut")
)

// changeAmbiguity collects, per feature kept by the change, the values a
// homonym of the changed form could be read with instead.
func changeAmbiguity(changed *morph.Analysis, homonyms []morph.Tag, f feats.Feature) map[feats.Feature][]string {
	if len(homonyms) == 0 {
		return nil
	}
	origGender := ""
	if f != feats.Gender {
		origGender = grammeme(feats.Gender, changed.Value(feats.Gender))
	}

	out := map[feats.Feature][]string{}
	for _, kf := range ambiguityFeats {
		if kf == f {
			continue
		}
		kv := changed.Value(kf)
		if kv == feats.None {
			continue
		}
		var others []string
		for _, v := range feats.Values(kf) {
			if v != kv {
				others = append(others, grammeme(kf, v))
			}
		}

		for _, h := range homonyms {
			var diffVals []string
			for _, o := range others {
				if h.Has(o) {
					diffVals = append(diffVals, o)
				}
			}
			if len(diffVals) == 0 {
				continue
			}

			genderOnly := neuterLike[origGender]
			for _, g := range changed.Tag.Grammemes() {
				if !h.Has(g) && !neuterLike[g] {
					genderOnly = false
					break
				}
			}
			imperative := changed.Has("1per", "plur") && h.Has("impr")
			if genderOnly || imperative {
				continue
			}
			out[kf] = append(out[kf], diffVals...)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// onlyMascNeutAmbiguity reports an ambiguity limited to masculine versus
// neuter gender.
func onlyMascNeutAmbiguity(amb map[feats.Feature][]string) bool {
	vals, ok := amb[feats.Gender]
	if !ok || len(amb) != 1 {
		return false
	}
	for _, v := range vals {
		if !neuterLike[v] {
			return false
		}
	}
	return true
}

// banInflection rejects changes that leave the word unchanged, that a
// homonym already expresses, or that make another feature ambiguous.
func banInflection(tok *types.Token, m *Member, changed *morph.Analysis, homonyms []morph.Tag, f feats.Feature, subtype Subtype) bool {
	orig := utils.UnifyAlphabet(tok.Form)
	if orig == utils.CapitalizeLike(orig, utils.UnifyAlphabet(changed.Word)) {
		return true
	}

	origValue := grammeme(f, m.Small.Get(f))
	origAnim := grammeme(feats.Animacy, m.Small.Get(feats.Animacy))
	kept := grammemesOf(changed, f, keptFeats...)
	hasAnimacy := changed.Value(feats.Animacy) != feats.None

	for _, h := range homonyms {
		noDiff := h.Has(kept...) && (origValue == "" || h.Has(origValue))
		if noDiff && !hasAnimacy && (h.Has("anim") || h.Has("inan")) {
			if origAnim == "" || !h.Has(origAnim) {
				noDiff = false
			}
		}
		if noDiff {
			return true
		}
	}

	amb := changeAmbiguity(changed, homonyms, f)
	if len(amb) == 0 {
		return false
	}
	return !(subtype.Contains("relative_clause") && onlyMascNeutAmbiguity(amb))
}

// ambiguousNonSubjects finds words in [lo, hi] that could be read as a
// nominative with the new value and so as an alternative subject.
func (g *Generator) ambiguousNonSubjects(sent *types.Sentence, value string, relevant FeatureSet, lo, hi int) []*types.Token {
	if lo < 1 {
		lo = 1
	}
	var out []*types.Token
	for id := lo; id <= hi; id++ {
		cand := sent.Token(id)
		if cand == nil {
			continue
		}
		var ref feats.Bundle
		for _, f := range feats.Comparison {
			if relevant.Has(f) && cand.Feats.Has(f) {
				ref.Set(f, cand.Feat(f))
			}
		}
		if ref.IsEmpty() {
			continue
		}
		parse := suitableParse(g.analyzer.Parse(cand.Form), ref, cand.UPOS, anyParse)
		if parse == nil {
			continue
		}
		if len(potentialAgree(value, paradigmHomonyms(g.analyzer, parse), "nomn")) > 0 {
			out = append(out, cand)
		}
	}
	return out
}

// banAgreerChange applies the relation-specific rules that reject a change
// of an agreer.
func (g *Generator) banAgreerChange(sent *types.Sentence, idx Index, changed *morph.Analysis, m, controller *Member, f feats.Feature, value feats.Value) bool {
	if changed.Lemma == intensifierLemma && (value == feats.Nom || changed.Word == intensifierLemma) {
		return true
	}

	subtype := m.Subtype
	tok := sent.Token(m.ID)
	ctok := sent.Token(controller.ID)
	if subtype.IsSubject() {
		if value == feats.Plur && g.lexicon.IsSemPlural(ctok.Lemma) {
			return true
		}
		lo, hi := m.ID-g.params.NonSubjectWindow, m.ID-1
		if m.ControllerFirst {
			lo, hi = m.ID+1, m.ID+g.params.NonSubjectWindow
		}
		relevant := idx.roles(m.ID).Agrees[subtype]
		if len(g.ambiguousNonSubjects(sent, grammeme(f, value), relevant, lo, hi)) > 0 {
			return true
		}
	}
	if subtype.HasPrefix(SubtypeAppos) {
		return true
	}
	if subtype.IsSubject() && subtype.Contains("clausal") && tok.UPOS == "NOUN" {
		return true
	}
	if strings.ToLower(tok.Lemma) == copulaLemma && m.Small.Get(feats.Tense) == feats.Pres &&
		(f == feats.Person || f == feats.Number) {
		return true
	}
	if controller.IsConjunct && value == feats.Plur {
		return true
	}

	roles := idx.roles(m.ID)
	if len(roles.Controls) > 0 && !roles.agreesAll().Minus(roles.controlsAll()).Has(f) {
		return true
	}

	otherControlled := false
	for rel, fs := range idx.roles(controller.ID).Controls {
		if rel != subtype && fs.Has(f) {
			otherControlled = true
		}
	}
	genderOrNumber := f == feats.Number || f == feats.Gender
	if ctok.UPOS == "PROPN" && !otherControlled && genderOrNumber &&
		(f != feats.Gender || value == feats.Masc || value == feats.Fem) {
		return true
	}
	if controller.InBrackets && genderOrNumber {
		return true
	}
	if f == feats.Gender && (value == feats.Masc || value == feats.Fem) &&
		g.lexicon.IsDubiousGender(ctok.Lemma) && !otherControlled {
		return true
	}
	return false
}

func filterMembers(ms []*Member, keep func(*Member) bool) []*Member {
	out := []*Member{}
	for _, m := range ms {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// filterControllerChange decides which agreers a changed controller keeps.
// ok is false when the controller must not change at all.
func (g *Generator) filterControllerChange(sent *types.Sentence, idx Index, changed *morph.Analysis, c *Member, f feats.Feature, value feats.Value, agreers []*Member, homonyms map[int][]morph.Tag) (kept []*Member, ok bool) {
	if len(sent.Dependents(c.ID, "nummod:gov", "nummod")) > 0 {
		return nil, false
	}
	roles := idx.roles(c.ID)
	for rel := range roles.Agrees {
		if rel.HasPrefix(SubtypeRelative) {
			return nil, false
		}
	}

	adjs, nsubjs, appos, others := map[Subtype]bool{}, map[Subtype]bool{}, map[Subtype]bool{}, map[Subtype]bool{}
	hasNegGen := false
	for rel := range roles.Controls {
		switch {
		case rel.HasPrefix(SubtypeNPModif):
			adjs[rel] = true
		case rel.HasPrefix(SubtypeNominalSubj):
			nsubjs[rel] = true
		case rel.HasPrefix(SubtypeNegationGenSubj):
			hasNegGen = true
		default:
			if rel.HasPrefix(SubtypeAppos) {
				appos[rel] = true
			}
			others[rel] = true
		}
	}

	kept = filterMembers(agreers, func(a *Member) bool { return !a.Subtype.HasDistractors() })
	if len(nsubjs) > 0 {
		subj := filterMembers(agreers, func(a *Member) bool { return nsubjs[a.Subtype] })
		if len(subj) == 1 && strings.ToLower(sent.Token(subj[0].ID).Form) == possessiveCopula {
			if len(others) == 0 {
				return nil, false
			}
			kept = filterMembers(kept, func(a *Member) bool { return others[a.Subtype] })
		}
	}

	gram := grammeme(f, value)
	cfeats := grammemesOf(changed, f, feats.Case, feats.Gender, feats.Number, feats.Person)
	kept = filterMembers(kept, func(a *Member) bool {
		return len(potentialAgree(gram, homonyms[a.ID], cfeats...)) == 0
	})

	if c.IsConjunct {
		switch value {
		case feats.Plur:
			kept = filterMembers(kept, func(a *Member) bool { return a.Small.Get(feats.Number) == feats.Sing })
		case feats.Sing:
			return nil, false
		}
	}

	if len(roles.Agrees) > 0 {
		if !roles.controlsAll().Minus(roles.agreesAll()).Has(f) {
			return nil, false
		}
		kept = filterMembers(kept, func(a *Member) bool { return idx.roles(a.ID).agreesAll().Has(f) })
	}

	if len(nsubjs) > 0 {
		return filterMembers(kept, func(a *Member) bool { return nsubjs[a.Subtype] }), true
	}
	if hasNegGen {
		kept = filterMembers(kept, func(a *Member) bool { return adjs[a.Subtype] || others[a.Subtype] })
	}
	if len(adjs) > 0 && len(others) > 0 {
		return nil, false
	}
	kept = filterMembers(kept, func(a *Member) bool { return !appos[a.Subtype] && !a.Subtype.Contains("appos") })
	return kept, true
}

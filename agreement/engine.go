package agreement

import (
	"fmt"
	"strings"

	"github.com/RussianNLP/RuBLiMP/feats"
	"github.com/RussianNLP/RuBLiMP/morph"
	"github.com/RussianNLP/RuBLiMP/types"
	"github.com/RussianNLP/RuBLiMP/utils"
)

type slotKind string

const (
	kindController slotKind = "controller"
	kindAgreer     slotKind = "agreer"
)

// Alternation is one accepted change of a relation member. For an agreer
// change Agreers holds the changed agreer; for a controller change it holds
// the agreers that stay grammatical only with the old controller.
type Alternation struct {
	Key        string
	Kind       slotKind
	Changed    *Member
	Controller *Member
	Agreers    []*Member
	Feature    feats.Feature
	OldValue   feats.Value
	NewValue   feats.Value
	Analysis   *morph.Analysis
	NewForm    string
	Target     string
	Subtype    Subtype

	// AssumedDistractorID is the last distractor carrying the new value, or 0.
	AssumedDistractorID int
}

type slot struct {
	kind   slotKind
	member *Member
}

// inflect produces the form of parse with f set to value, keeping the other
// features of m. Animacy, and for controllers the added gender, are dropped
// on a second attempt.
func inflect(parse *morph.Analysis, kind slotKind, m *Member, f feats.Feature, value feats.Value) *morph.Analysis {
	required := []string{grammeme(f, value)}
	tense := m.Small.Get(feats.Tense)
	if tense != feats.None {
		required = append(required, grammeme(feats.Tense, tense))
	}
	if c := m.Small.Get(feats.Case); c != feats.None && f != feats.Case {
		required = append(required, grammeme(feats.Case, c))
	}

	addedGender := ""
	if gender := m.Small.Get(feats.Gender); gender != feats.None {
		switch {
		case kind == kindAgreer && value == feats.Sing && (tense == feats.None || tense == feats.Past):
			required = append(required, grammeme(feats.Gender, gender))
		case kind == kindController && value == feats.Plur:
			addedGender = grammeme(feats.Gender, gender)
			required = append(required, addedGender)
		}
	}
	if n := m.Small.Get(feats.Number); n != feats.None && f != feats.Number {
		required = append(required, grammeme(feats.Number, n))
	}
	animacy := ""
	if a := m.Small.Get(feats.Animacy); a != feats.None && kind == kindAgreer && (value == feats.Masc || f == feats.Number) {
		animacy = grammeme(feats.Animacy, a)
		required = append(required, animacy)
	}

	if changed := parse.Inflect(required...); changed != nil {
		return changed
	}
	if animacy == "" && addedGender == "" {
		return nil
	}
	retry := required[:0:0]
	for _, g := range required {
		if g == animacy || g == addedGender {
			continue
		}
		retry = append(retry, g)
	}
	return parse.Inflect(retry...)
}

func targetSentence(sent *types.Sentence, id int, form string) string {
	forms := sent.Forms()
	forms[id-1] = form
	return strings.Join(forms, " ")
}

func (g *Generator) partnerHomonyms(sent *types.Sentence, m *Member) []morph.Tag {
	tok := sent.Token(m.ID)
	parse := suitableParse(g.analyzer.Parse(tok.Form), m.Small, tok.UPOS, anyParse)
	if parse == nil {
		return nil
	}
	return paradigmHomonyms(g.analyzer, parse)
}

// alternate tries every altering feature value on every member of every
// group and keeps the changes the filters accept.
func (g *Generator) alternate(sent *types.Sentence, rel *Relations) []*Alternation {
	var out []*Alternation
	byKey := map[string]*Alternation{}

	for _, cid := range rel.Order {
		for _, grp := range rel.Groups[cid] {
			slots := []slot{{kind: kindController, member: grp.Controller}}
			for _, a := range grp.Agreers {
				slots = append(slots, slot{kind: kindAgreer, member: a})
			}
			for _, s := range slots {
				for _, f := range feats.Altering {
					for _, alt := range g.alternateSlot(sent, rel, grp, s, f) {
						if prev, ok := byKey[alt.Key]; ok {
							prev.merge(alt)
							continue
						}
						byKey[alt.Key] = alt
						out = append(out, alt)
					}
				}
			}
		}
	}
	return out
}

func (alt *Alternation) merge(other *Alternation) {
	have := map[int]bool{}
	for _, a := range alt.Agreers {
		have[a.ID] = true
	}
	for _, a := range other.Agreers {
		if !have[a.ID] {
			alt.Agreers = append(alt.Agreers, a)
			have[a.ID] = true
		}
	}
}

func (g *Generator) alternateSlot(sent *types.Sentence, rel *Relations, grp *Group, s slot, f feats.Feature) []*Alternation {
	m := s.member
	if f == feats.Case && !(s.kind == kindAgreer && m.Subtype.IsNPModif()) {
		return nil
	}
	if m.Small.IsEmpty() || m.NoInflect {
		return nil
	}
	tok := sent.Token(m.ID)
	if bannedCandidate(tok) {
		return nil
	}
	old := m.Small.Get(f)
	if old == feats.None {
		return nil
	}

	parse := suitableParse(g.analyzer.Parse(tok.Form), m.Small, tok.UPOS,
		inflectableChecker(f, m.Small.Get(feats.Variant)))
	if parse == nil {
		return nil
	}

	var controllerHomonyms []morph.Tag
	agreerHomonyms := map[int][]morph.Tag{}
	if s.kind == kindAgreer {
		controllerHomonyms = g.partnerHomonyms(sent, grp.Controller)
	} else {
		for _, a := range grp.Agreers {
			agreerHomonyms[a.ID] = g.partnerHomonyms(sent, a)
		}
	}

	var out []*Alternation
	for _, value := range feats.Values(f) {
		if value == old {
			continue
		}
		changed := inflect(parse, s.kind, m, f, value)
		if changed == nil {
			continue
		}
		if banInflection(tok, m, changed, paradigmHomonyms(g.analyzer, changed), f, m.Subtype) {
			continue
		}

		alt := &Alternation{
			Kind:     s.kind,
			Changed:  m,
			Feature:  f,
			OldValue: old,
			NewValue: value,
			Analysis: changed,
			NewForm:  utils.CapitalizeLike(tok.Form, changed.Word),
		}

		switch s.kind {
		case kindAgreer:
			if g.banAgreerChange(sent, rel.Index, changed, m, grp.Controller, f, value) {
				continue
			}
			var necessary []string
			if m.Subtype.IsSubject() && m.Subtype.Contains("nominal") && !m.Subtype.Contains("negation_gen") {
				necessary = []string{"nomn"}
			}
			if len(potentialAgree(grammeme(f, value), controllerHomonyms, necessary...)) > 0 {
				continue
			}
			alt.Controller = grp.Controller
			alt.Agreers = []*Member{m}
			alt.Subtype = m.Subtype.WithoutDistractors()
			for _, id := range m.Distractors.sortedIDs(f) {
				if m.Distractors[f][id] == value {
					alt.AssumedDistractorID = id
				}
			}
		case kindController:
			kept, ok := g.filterControllerChange(sent, rel.Index, changed, m, f, value, grp.Agreers, agreerHomonyms)
			if !ok {
				continue
			}
			kept = filterMembers(kept, func(a *Member) bool { return a.Small.Has(f) })
			if len(kept) == 0 {
				continue
			}
			alt.Controller = m
			alt.Agreers = kept
		}

		alt.Key = fmt.Sprintf("%d_%s_%d_%s_%s", grp.Controller.ID, s.kind, m.ID, f.Key(), value)
		alt.Target = targetSentence(sent, m.ID, alt.NewForm)
		out = append(out, alt)
	}
	return out
}

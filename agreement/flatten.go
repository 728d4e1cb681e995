package agreement

import (
	"strings"

	"github.com/RussianNLP/RuBLiMP/conllu"
	"github.com/RussianNLP/RuBLiMP/feats"
	"github.com/RussianNLP/RuBLiMP/types"
	"github.com/RussianNLP/RuBLiMP/utils"
)

func constituentText(sent *types.Sentence, ids []int) string {
	forms := make([]string, 0, len(ids))
	for _, id := range ids {
		if tok := sent.Token(id); tok != nil {
			forms = append(forms, tok.Form)
		}
	}
	return strings.Join(forms, " ")
}

func rolesDescription(idx Index, id int) map[string]interface{} {
	roles := idx.roles(id)
	describe := func(m map[Subtype]FeatureSet) map[string][]string {
		out := make(map[string][]string, len(m))
		for s, fs := range m {
			out[string(s)] = fs.Keys()
		}
		return out
	}
	var agrRel, contrRel []string
	for _, s := range roles.AgrRel() {
		agrRel = append(agrRel, string(s))
	}
	for _, s := range roles.ContrRel() {
		contrRel = append(contrRel, string(s))
	}
	return map[string]interface{}{
		"agrees":    describe(roles.Agrees),
		"controls":  describe(roles.Controls),
		"agr_rel":   agrRel,
		"contr_rel": contrRel,
	}
}

// describe renders a member and its token for the record's feature maps.
func describe(sent *types.Sentence, idx Index, m *Member, kind slotKind) map[string]interface{} {
	tok := sent.Token(m.ID)
	d := map[string]interface{}{
		"id":     tok.ID,
		"form":   tok.Form,
		"lemma":  tok.Lemma,
		"upos":   tok.UPOS,
		"head":   tok.Head,
		"deprel": tok.Deprel,
	}
	for k, v := range m.Small.UD() {
		d[k] = v
	}
	if len(m.Constituent) > 0 {
		d["constituent"] = constituentText(sent, m.Constituent)
		d["const_word_len"] = m.ConstWordLen
	}
	if m.NoInflect {
		d["not_inflect"] = true
	}
	for k, v := range rolesDescription(idx, m.ID) {
		d[k] = v
	}

	switch kind {
	case kindAgreer:
		d["phenomenon_subtype"] = string(m.Subtype)
		d["distance"] = m.Distance
		d["controller_first"] = m.ControllerFirst
		d["is_conjunct"] = m.IsConjunct
		d["maybe_nominal"] = m.MaybeNominal
		if m.HeadDistance > 0 {
			d["const_distance"] = m.ConstDistance
			d["head_distance"] = m.HeadDistance
		}
		if len(m.Distractors) > 0 {
			distractors := map[string]map[int]string{}
			for f, ids := range m.Distractors {
				distractors[f.Key()] = map[int]string{}
				for id, v := range ids {
					distractors[f.Key()][id] = feats.ToUD(f, v)
				}
			}
			d["distractors_ids"] = distractors
		}
	case kindController:
		d["is_subject"] = m.IsSubject
		d["is_conjunct"] = m.IsConjunct
		d["in_brackets"] = m.InBrackets
		d["has_multiple_agreers"] = m.HasMultipleAgreers
		d["agreers_ids"] = m.AgreerIDs
	}
	return d
}

// describeChanged overrides the source description with the new form.
func describeChanged(source map[string]interface{}, alt *Alternation) map[string]interface{} {
	out := make(map[string]interface{}, len(source))
	for k, v := range source {
		out[k] = v
	}
	for _, f := range feats.All {
		delete(out, f.String())
	}
	out["form"] = alt.NewForm
	out["lemma"] = alt.Analysis.Lemma
	for _, f := range []feats.Feature{feats.Case, feats.Gender, feats.Number, feats.Person, feats.Animacy, feats.Tense} {
		if v := alt.Analysis.Value(f); v != feats.None {
			out[f.String()] = feats.ToUD(f, v)
		}
	}
	return out
}

// flatten turns alternations into one record per affected agreer.
func (g *Generator) flatten(orig, work *types.Sentence, rel *Relations, alts []*Alternation) []types.Record {
	annotation := conllu.Serialize(orig)
	ipm := g.lexicon.IPM(orig)
	depth := orig.TreeDepth()
	source := utils.UnifyAlphabet(orig.Text)
	oldForm := func(alt *Alternation) string { return work.Token(alt.Changed.ID).Form }

	var records []types.Record
	for _, alt := range alts {
		changedDesc := describe(work, rel.Index, alt.Changed, alt.Kind)
		for _, agr := range alt.Agreers {
			subtype := alt.Subtype
			if alt.Kind == kindController {
				subtype = agr.Subtype.WithoutDistractors()
			}
			attractor := alt.AssumedDistractorID > 0
			if Excluded(subtype, alt.Feature, attractor) {
				continue
			}

			origSubtype := subtype
			if attractor {
				origSubtype = subtype.WithDistractors()
			}
			sentFeats := map[string]interface{}{
				"feature_old_value": feats.ToUD(alt.Feature, alt.OldValue),
				"feature_new_value": feats.ToUD(alt.Feature, alt.NewValue),
				"orig_subtype":      string(origSubtype) + "_" + alt.Feature.Key(),
			}
			if attractor {
				sentFeats["assumed_distractor_id"] = alt.AssumedDistractorID
			}
			if alt.Kind == kindController {
				sentFeats["agreer"] = describe(work, rel.Index, agr, kindAgreer)
			} else {
				sentFeats["controller"] = describe(work, rel.Index, alt.Controller, kindController)
			}

			records = append(records, types.Record{
				SentenceID:        orig.ID,
				SourceSentence:    source,
				TargetSentence:    utils.UnifyAlphabet(alt.Target),
				Annotation:        annotation,
				Phenomenon:        types.PhenomenonAgreement,
				PhenomenonSubtype: PublicName(subtype, alt.Feature, attractor, g.params.DistractorLabel),
				SourceWord:        utils.UnifyAlphabet(oldForm(alt)),
				TargetWord:        utils.UnifyAlphabet(alt.NewForm),
				SourceWordFeats:   changedDesc,
				TargetWordFeats:   describeChanged(changedDesc, alt),
				Feature:           alt.Feature.Key(),
				Length:            orig.Len(),
				IPM:               ipm,
				TreeDepth:         depth,
				SentenceFeats:     sentFeats,
			})
		}
	}
	return records
}

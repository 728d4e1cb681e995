package agreement

import (
	"strings"

	"github.com/RussianNLP/RuBLiMP/feats"
)

// Subtype is the raw relation label attached to an agreer.
type Subtype string

const (
	SubtypeNPModif         Subtype = "np-modif"
	SubtypeNominalSubj     Subtype = "subject-subj_nominal"
	SubtypeNegationGenSubj Subtype = "subject-subj_negation_gen"
	SubtypeClausalSubj     Subtype = "subject-subj_clausal"
	SubtypeClausalSubjPass Subtype = "subject-subj_clausal_pass"
	SubtypeAdjectival      Subtype = "np-modif_adjectival"
	SubtypeFloatQNP        Subtype = "floating_quantifier-np-modif"
	SubtypeFloatQInferred  Subtype = "floating_quantifier-inferred"
	SubtypeAppos           Subtype = "np-appos"
	SubtypeParticiple      Subtype = "np-modif_participle"
	SubtypeRelative        Subtype = "np-relative_clause"

	distractorsQualifier = "distractors"
	subtypeSep           = "-"
)

func (s Subtype) HasPrefix(p Subtype) bool {
	return strings.HasPrefix(string(s), string(p))
}

func (s Subtype) Contains(part string) bool {
	return strings.Contains(string(s), part)
}

func (s Subtype) HasDistractors() bool {
	return s.Contains(distractorsQualifier)
}

func (s Subtype) WithDistractors() Subtype {
	if s.HasDistractors() {
		return s
	}
	return s + subtypeSep + distractorsQualifier
}

// WithoutDistractors drops the distractor qualifier part.
func (s Subtype) WithoutDistractors() Subtype {
	parts := strings.Split(string(s), subtypeSep)
	kept := parts[:0]
	for _, p := range parts {
		if p != distractorsQualifier {
			kept = append(kept, p)
		}
	}
	return Subtype(strings.Join(kept, subtypeSep))
}

// IsNPModif reports the subtypes whose agreers may change case.
func (s Subtype) IsNPModif() bool {
	return s.Contains("np-modif")
}

func (s Subtype) IsSubject() bool {
	return s.Contains("subject")
}

func (s Subtype) IsRelative() bool {
	return s.Contains("relative")
}

const (
	finalNPModif      = "np_agreement_%s"
	finalParticiple   = "np_agreement_%s_participle"
	finalFloatQ       = "floating_quantifier_agreement_%s"
	finalAppos        = "np_agreement_%s_remote_modifier"
	finalNominalSubj  = "noun_subj_predicate_agreement_%s"
	finalClausalSubj  = "clause_subj_predicate_agreement_%s"
	finalGenSubj      = "genitive_subj_predicate_agreement_%s"
	finalSubjAttractor = "subj_predicate_agreement_%s"
	finalAnaphor      = "anaphor_agreement_%s"
)

// PublicName maps a raw subtype and the changed feature to the published
// subtype name. attractor marks pairs with an intervening distractor.
func PublicName(s Subtype, f feats.Feature, attractor bool, label string) string {
	var pattern string
	switch {
	case s.Contains("floating"):
		pattern = finalFloatQ
	case s.HasPrefix(SubtypeNPModif):
		if s.Contains("participle") {
			attractor = false
		}
		pattern = finalNPModif
	case s.Contains("appos"):
		pattern = finalAppos
	case s.HasPrefix("subject"):
		switch {
		case attractor:
			pattern = finalSubjAttractor
		case s.Contains("negation_gen"):
			pattern = finalGenSubj
		case s.Contains("clausal"):
			pattern = finalClausalSubj
		default:
			pattern = finalNominalSubj
		}
	case s.HasPrefix(SubtypeRelative):
		pattern = finalAnaphor
	default:
		pattern = string(s) + "_%s"
	}

	name := strings.Replace(pattern, "%s", f.Key(), 1)
	if attractor {
		name += "_" + label
	}
	return name
}

// Excluded reports subtype and feature combinations that are not published:
// person changes of relative pronouns, and attractor pairs over participles
// or person.
func Excluded(s Subtype, f feats.Feature, attractor bool) bool {
	if s.IsRelative() && f == feats.Person {
		return true
	}
	if attractor && (s.Contains("participle") || f == feats.Person) {
		return true
	}
	return false
}

package agreement

import (
	"sort"

	"github.com/RussianNLP/RuBLiMP/types"
	"github.com/RussianNLP/RuBLiMP/utils"
)

// Roles records, per subtype, which features a token shares with its partner
// when acting as agreer and as controller.
type Roles struct {
	Agrees   map[Subtype]FeatureSet
	Controls map[Subtype]FeatureSet
}

func (r *Roles) agreesAll() FeatureSet {
	var s FeatureSet
	for _, fs := range r.Agrees {
		s |= fs
	}
	return s
}

func (r *Roles) controlsAll() FeatureSet {
	var s FeatureSet
	for _, fs := range r.Controls {
		s |= fs
	}
	return s
}

func sortedSubtypes(m map[Subtype]FeatureSet) []Subtype {
	out := make([]Subtype, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AgrRel lists the relations the token takes part in as an agreer.
func (r *Roles) AgrRel() []Subtype {
	return sortedSubtypes(r.Agrees)
}

// ContrRel lists the relations the token takes part in as a controller.
func (r *Roles) ContrRel() []Subtype {
	return sortedSubtypes(r.Controls)
}

// Index maps token ids to their roles across all relations of a sentence.
type Index map[int]*Roles

var emptyRoles = &Roles{}

func (idx Index) roles(id int) *Roles {
	if r, ok := idx[id]; ok {
		return r
	}
	return emptyRoles
}

func (idx Index) ensure(id int) *Roles {
	r, ok := idx[id]
	if !ok {
		r = &Roles{Agrees: map[Subtype]FeatureSet{}, Controls: map[Subtype]FeatureSet{}}
		idx[id] = r
	}
	return r
}

// Relations is the aggregated view of every group found in a sentence.
type Relations struct {
	Groups map[int][]*Group
	Order  []int
	Index  Index
}

func isConjunct(sent *types.Sentence, tok *types.Token) bool {
	return tok.Deprel == "conj" || len(sent.Dependents(tok.ID, "conj")) > 0
}

var (
	openingBrackets = map[string]bool{`"`: true, "'": true, "«": true}
	closingBrackets = map[string]bool{`"`: true, "'": true, "»": true}
)

// inBrackets reports a token whose punctuation dependents open before it and
// close after it.
func inBrackets(sent *types.Sentence, tok *types.Token) bool {
	opened, closed := false, false
	for _, dep := range sent.Dependents(tok.ID) {
		if dep.UPOS != "PUNCT" {
			continue
		}
		if dep.ID < tok.ID && openingBrackets[dep.Form] {
			opened = true
		}
		if dep.ID > tok.ID && closingBrackets[dep.Form] {
			closed = true
		}
	}
	return opened && closed
}

// aggregate annotates groups with cross-relation information and builds the
// role index. Agreers spelled in digits are dropped, as are groups left
// without agreers.
func aggregate(sent *types.Sentence, groups []*Group) *Relations {
	rel := &Relations{Groups: map[int][]*Group{}, Index: Index{}}

	for _, grp := range groups {
		var agreers []*Member
		for _, a := range grp.Agreers {
			if !isNumericLiteral(sent.Token(a.ID).Lemma) {
				agreers = append(agreers, a)
			}
		}
		if len(agreers) == 0 {
			continue
		}
		grp.Agreers = agreers

		c := grp.Controller
		ctok := sent.Token(c.ID)
		c.IsConjunct = isConjunct(sent, ctok)
		c.InBrackets = inBrackets(sent, ctok)
		for _, a := range agreers {
			if len(a.Distractors) > 0 {
				a.Subtype = a.Subtype.WithDistractors()
			}
			a.Distance = utils.AbsInt(a.ID-c.ID) - 1
			a.ControllerFirst = c.ID < a.ID
			a.IsConjunct = isConjunct(sent, sent.Token(a.ID))
		}

		if _, ok := rel.Groups[c.ID]; !ok {
			rel.Order = append(rel.Order, c.ID)
		}
		rel.Groups[c.ID] = append(rel.Groups[c.ID], grp)
	}

	for _, cid := range rel.Order {
		grps := rel.Groups[cid]
		var ids []int
		for _, grp := range grps {
			for _, a := range grp.Agreers {
				same := newFeatureSet(compareFeats(grp.Controller.Small, a.Small).same...)
				rel.Index.ensure(cid).Controls[a.Subtype] |= same
				rel.Index.ensure(a.ID).Agrees[a.Subtype] |= same
				ids = append(ids, a.ID)
			}
		}
		sort.Ints(ids)
		for _, grp := range grps {
			grp.Controller.HasMultipleAgreers = len(grps) > 1
			grp.Controller.AgreerIDs = ids
		}
	}
	return rel
}

package agreement

import (
	"sort"

	"github.com/RussianNLP/RuBLiMP/feats"
	"github.com/RussianNLP/RuBLiMP/types"
)

// Distractors maps a feature to the ids of intervening tokens whose value of
// that feature conflicts with the controller.
type Distractors map[feats.Feature]map[int]feats.Value

// Member describes one side of an agreement relation. It refers to its
// token by id; Small is the feature projection used for comparison and may
// carry values inferred from the partner.
type Member struct {
	ID           int
	Small        feats.Bundle
	NoInflect    bool
	Constituent  []int
	ConstWordLen int

	// agreer side
	Subtype         Subtype
	Distractors     Distractors
	MaybeNominal    bool
	Distance        int
	ControllerFirst bool
	IsConjunct      bool
	ConstDistance   int
	HeadDistance    int

	// controller side
	IsSubject          bool
	InBrackets         bool
	HasMultipleAgreers bool
	AgreerIDs          []int
}

// Group is a controller with the agreers found by one matcher.
type Group struct {
	Controller *Member
	Agreers    []*Member
}

func newMember(tok *types.Token) *Member {
	return &Member{ID: tok.ID, Small: tok.Feats}
}

func (m *Member) setConstituent(toks []*types.Token) {
	m.Constituent = tokenIDs(toks)
	m.ConstWordLen = lenNoPunct(toks)
}

// backfill copies the controller's value of f to an agreer that lacks it.
func backfill(f feats.Feature, controller, agreer *Member) {
	if !agreer.Small.Has(f) && controller.Small.Has(f) {
		agreer.Small.Set(f, controller.Small.Get(f))
	}
}

// writeBack stores shared feature values in the agreer token when only the
// controller token spells them out.
func writeBack(controller, agreer *types.Token, same []feats.Feature) {
	for _, f := range same {
		if !agreer.Feats.Has(f) && controller.Feats.Has(f) {
			agreer.Feats.Set(f, controller.Feat(f))
		}
	}
}

func tokenIDs(toks []*types.Token) []int {
	out := make([]int, len(toks))
	for i, t := range toks {
		out[i] = t.ID
	}
	return out
}

func lenNoPunct(toks []*types.Token) int {
	n := 0
	for _, t := range toks {
		if t.UPOS != "PUNCT" {
			n++
		}
	}
	return n
}

func (d Distractors) sortedIDs(f feats.Feature) []int {
	ids := make([]int, 0, len(d[f]))
	for id := range d[f] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

package agreement

import (
	"github.com/RussianNLP/RuBLiMP/feats"
	"github.com/RussianNLP/RuBLiMP/types"
)

var distractorFeats = []feats.Feature{feats.Number, feats.Gender, feats.Person}

// findDistractors collects tokens between controller and agreer whose value
// of a feature the agreer inflects for conflicts with the controller's.
// Only the first conflicting feature of a token is recorded.
func findDistractors(sent *types.Sentence, controller, agreer *types.Token) Distractors {
	var inflects []feats.Feature
	for _, f := range distractorFeats {
		if inflectableToken(f, agreer) && agreer.Feats.Has(f) {
			inflects = append(inflects, f)
		}
	}
	if len(inflects) == 0 {
		return nil
	}

	lo, hi := controller.ID, agreer.ID
	if lo > hi {
		lo, hi = hi, lo
	}

	out := Distractors{}
	for id := lo; id < hi; id++ {
		tok := sent.Token(id)
		if tok == nil {
			continue
		}
		for _, f := range inflects {
			tv, cv := tok.Feat(f), controller.Feat(f)
			if tv == feats.None || cv == feats.None || tv == cv {
				continue
			}
			if out[f] == nil {
				out[f] = map[int]feats.Value{}
			}
			out[f][id] = tv
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

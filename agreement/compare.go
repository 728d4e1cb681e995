package agreement

import "github.com/RussianNLP/RuBLiMP/feats"

// comparison splits the agreement features by how controller and agreer
// values relate.
type comparison struct {
	same         []feats.Feature
	diff         []feats.Feature
	agrMissing   []feats.Feature
	contrMissing []feats.Feature
}

func compareFeats(controller, agreer feats.Bundle) comparison {
	var c comparison
	for _, f := range feats.Comparison {
		cv, av := controller.Get(f), agreer.Get(f)
		switch {
		case av != feats.None && cv != feats.None && av == cv:
			c.same = append(c.same, f)
		case av != feats.None && cv != feats.None:
			c.diff = append(c.diff, f)
		case av != feats.None:
			c.contrMissing = append(c.contrMissing, f)
		case cv != feats.None:
			c.agrMissing = append(c.agrMissing, f)
		}
	}
	return c
}

// diffIs reports whether the differing features are exactly fs.
func (c comparison) diffIs(fs ...feats.Feature) bool {
	return newFeatureSet(c.diff...) == newFeatureSet(fs...) && len(c.diff) == len(fs)
}

// FeatureSet is a small set of features.
type FeatureSet uint16

func newFeatureSet(fs ...feats.Feature) FeatureSet {
	var s FeatureSet
	for _, f := range fs {
		s |= 1 << uint(f)
	}
	return s
}

func (s FeatureSet) Has(f feats.Feature) bool {
	return s&(1<<uint(f)) != 0
}

func (s FeatureSet) Minus(o FeatureSet) FeatureSet {
	return s &^ o
}

// Keys lists the lowercased feature names in comparison order.
func (s FeatureSet) Keys() []string {
	var out []string
	for _, f := range feats.Comparison {
		if s.Has(f) {
			out = append(out, f.Key())
		}
	}
	return out
}

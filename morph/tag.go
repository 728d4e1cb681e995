package morph

import (
	"sort"
	"strings"

	"github.com/RussianNLP/RuBLiMP/feats"
	"github.com/RussianNLP/RuBLiMP/utils"
)

// Part-of-speech grammemes.
const (
	NOUN = "NOUN"
	ADJF = "ADJF"
	ADJS = "ADJS"
	COMP = "COMP"
	VERB = "VERB"
	INFN = "INFN"
	PRTF = "PRTF"
	PRTS = "PRTS"
	GRND = "GRND"
	NUMR = "NUMR"
	ADVB = "ADVB"
	NPRO = "NPRO"
	PRED = "PRED"
	PREP = "PREP"
	CONJ = "CONJ"
	PRCL = "PRCL"
	INTJ = "INTJ"
)

var categories = [][]string{
	{NOUN, ADJF, ADJS, COMP, VERB, INFN, PRTF, PRTS, GRND, NUMR, ADVB, NPRO, PRED, PREP, CONJ, PRCL, INTJ},
	{"anim", "inan"},
	{"masc", "femn", "neut", "ms-f"},
	{"sing", "plur"},
	{"nomn", "gent", "datv", "accs", "ablt", "loct", "voct", "gen1", "gen2", "acc2", "loc1", "loc2"},
	{"perf", "impf"},
	{"tran", "intr"},
	{"1per", "2per", "3per"},
	{"pres", "past", "futr"},
	{"indc", "impr"},
	{"incl", "excl"},
	{"actv", "pssv"},
}

var categoryOf = map[string]int{}

func init() {
	for i, c := range categories {
		for _, g := range c {
			categoryOf[g] = i
		}
	}
}

func isPOS(g string) bool {
	c, ok := categoryOf[g]
	return ok && c == 0
}

// Tag is the grammeme set of one paradigm cell, e.g. "NOUN,inan,femn sing,nomn".
type Tag struct {
	raw       string
	grammemes []string
}

func ParseTag(s string) Tag {
	store := utils.GlobalStringStore()
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	grammemes := store.InternAll(fields)
	sorted := append([]string(nil), grammemes...)
	sort.Strings(sorted)
	return Tag{raw: store.Intern(s), grammemes: sorted}
}

func (t Tag) String() string {
	return t.raw
}

func (t Tag) POS() string {
	for _, g := range t.grammemes {
		if isPOS(g) {
			return g
		}
	}
	return ""
}

func (t Tag) Has(grammemes ...string) bool {
	for _, g := range grammemes {
		i := sort.SearchStrings(t.grammemes, g)
		if i == len(t.grammemes) || t.grammemes[i] != g {
			return false
		}
	}
	return true
}

func (t Tag) Grammemes() []string {
	return t.grammemes
}

func (t Tag) Equal(o Tag) bool {
	if len(t.grammemes) != len(o.grammemes) {
		return false
	}
	for i := range t.grammemes {
		if t.grammemes[i] != o.grammemes[i] {
			return false
		}
	}
	return true
}

// Value projects the tag onto a canonical feature.
func (t Tag) Value(f feats.Feature) feats.Value {
	for _, g := range t.grammemes {
		if ff, v, ok := feats.FromGrammeme(g); ok && ff == f {
			return v
		}
	}
	return feats.None
}

// updated replaces the grammemes of t that share a category with one of
// required and adds the required ones.
func (t Tag) updated(required []string) map[string]bool {
	out := make(map[string]bool, len(t.grammemes)+len(required))
	for _, g := range t.grammemes {
		out[g] = true
	}
	for _, r := range required {
		if c, ok := categoryOf[r]; ok {
			for _, g := range categories[c] {
				delete(out, g)
			}
		}
		out[r] = true
	}
	return out
}

func (t Tag) similarity(target map[string]bool) float64 {
	common := 0
	for _, g := range t.grammemes {
		if target[g] {
			common++
		}
	}
	symDiff := len(t.grammemes) + len(target) - 2*common
	return float64(common) - 0.1*float64(symDiff)
}

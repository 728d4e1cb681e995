// Package feats holds the canonical morphological feature model shared by the
// treebank reader, the morphological analyzer and the agreement engine.
//
// Values are stored in one canonical namespace (lowercased UD). Two explicit
// tables translate them to and from treebank (UD) spelling and analyzer
// (OpenCorpora) grammemes.
package feats

import "strings"

type Feature int

const (
	Case Feature = iota
	Gender
	Number
	Person
	Animacy
	Tense
	VerbForm
	Variant

	numFeatures
)

var featureNames = [numFeatures]string{
	Case:     "Case",
	Gender:   "Gender",
	Number:   "Number",
	Person:   "Person",
	Animacy:  "Animacy",
	Tense:    "Tense",
	VerbForm: "VerbForm",
	Variant:  "Variant",
}

// All lists the features in the order they are projected from a token.
var All = []Feature{Case, Gender, Person, Number, Animacy, Tense, VerbForm, Variant}

// Altering lists the features an agreement alternation may change, in the
// order they are tried.
var Altering = []Feature{Number, Person, Gender, Case}

// Comparison is the order features are reported in by agreement checks.
var Comparison = []Feature{Number, Gender, Person, Case}

// String returns the UD name of the feature.
func (f Feature) String() string {
	if f < 0 || f >= numFeatures {
		return ""
	}
	return featureNames[f]
}

// Key returns the lowercased feature name used in record keys and subtypes.
func (f Feature) Key() string {
	return strings.ToLower(f.String())
}

// ParseFeature resolves a UD feature name, case-insensitively.
func ParseFeature(name string) (Feature, bool) {
	for i, n := range featureNames {
		if strings.EqualFold(n, name) {
			return Feature(i), true
		}
	}
	return 0, false
}

type Value string

const (
	None Value = ""

	Nom Value = "nom"
	Gen Value = "gen"
	Par Value = "par"
	Dat Value = "dat"
	Acc Value = "acc"
	Ins Value = "ins"
	Loc Value = "loc"
	Voc Value = "voc"

	Masc Value = "masc"
	Fem  Value = "fem"
	Neut Value = "neut"

	Sing Value = "sing"
	Plur Value = "plur"

	First  Value = "1"
	Second Value = "2"
	Third  Value = "3"

	Anim Value = "anim"
	Inan Value = "inan"

	Past Value = "past"
	Pres Value = "pres"
	Fut  Value = "fut"

	Fin  Value = "fin"
	Inf  Value = "inf"
	Part Value = "part"
	Conv Value = "conv"

	Short Value = "short"
	Long  Value = "long"
)

// Values returns the closed set of values an alternation may pick for f.
func Values(f Feature) []Value {
	switch f {
	case Case:
		return []Value{Nom, Gen, Dat, Acc, Ins, Loc}
	case Number:
		return []Value{Sing, Plur}
	case Gender:
		return []Value{Masc, Fem, Neut}
	case Person:
		return []Value{First, Second, Third}
	}
	return nil
}

// Bundle is a fixed-size projection of a token's features.
type Bundle [numFeatures]Value

func (b Bundle) Get(f Feature) Value {
	return b[f]
}

func (b *Bundle) Set(f Feature, v Value) {
	b[f] = v
}

func (b Bundle) Has(f Feature) bool {
	return b[f] != None
}

func (b Bundle) IsEmpty() bool {
	return b == Bundle{}
}

// Only returns a copy of b restricted to the given features.
func (b Bundle) Only(fs ...Feature) Bundle {
	var out Bundle
	for _, f := range fs {
		out[f] = b[f]
	}
	return out
}

// Without returns a copy of b with the given features cleared.
func (b Bundle) Without(fs ...Feature) Bundle {
	for _, f := range fs {
		b[f] = None
	}
	return b
}

// UD renders the non-empty values using UD names, e.g. {"Case": "Nom"}.
func (b Bundle) UD() map[string]string {
	out := make(map[string]string)
	for _, f := range All {
		if b[f] == None {
			continue
		}
		out[f.String()] = ToUD(f, b[f])
	}
	return out
}

package feats

// udValues spells every canonical value the way the treebank does.
var udValues = map[Feature]map[Value]string{
	Case: {
		Nom: "Nom", Gen: "Gen", Par: "Par", Dat: "Dat",
		Acc: "Acc", Ins: "Ins", Loc: "Loc", Voc: "Voc",
	},
	Gender:   {Masc: "Masc", Fem: "Fem", Neut: "Neut"},
	Number:   {Sing: "Sing", Plur: "Plur"},
	Person:   {First: "1", Second: "2", Third: "3"},
	Animacy:  {Anim: "Anim", Inan: "Inan"},
	Tense:    {Past: "Past", Pres: "Pres", Fut: "Fut"},
	VerbForm: {Fin: "Fin", Inf: "Inf", Part: "Part", Conv: "Conv"},
	Variant:  {Short: "Short", Long: "Long"},
}

// grammemeValues spells canonical values as analyzer grammemes. VerbForm and
// Variant are expressed by the analyzer's POS and have no grammeme.
var grammemeValues = map[Feature]map[Value]string{
	Case: {
		Nom: "nomn", Gen: "gent", Par: "gen2", Dat: "datv",
		Acc: "accs", Ins: "ablt", Loc: "loct", Voc: "voct",
	},
	Gender:  {Masc: "masc", Fem: "femn", Neut: "neut"},
	Number:  {Sing: "sing", Plur: "plur"},
	Person:  {First: "1per", Second: "2per", Third: "3per"},
	Animacy: {Anim: "anim", Inan: "inan"},
	Tense:   {Past: "past", Pres: "pres", Fut: "futr"},
}

type featureValue struct {
	feature Feature
	value   Value
}

var (
	fromUD       = map[Feature]map[string]Value{}
	fromGrammeme = map[string]featureValue{}
)

func init() {
	for f, values := range udValues {
		fromUD[f] = make(map[string]Value, len(values))
		for v, ud := range values {
			fromUD[f][ud] = v
		}
	}
	for f, values := range grammemeValues {
		for v, g := range values {
			fromGrammeme[g] = featureValue{feature: f, value: v}
		}
	}
}

// FromUD converts a treebank value of f into the canonical value.
func FromUD(f Feature, ud string) (Value, bool) {
	v, ok := fromUD[f][ud]
	return v, ok
}

func ToUD(f Feature, v Value) string {
	if ud, ok := udValues[f][v]; ok {
		return ud
	}
	return string(v)
}

// ToGrammeme converts a canonical value into an analyzer grammeme.
func ToGrammeme(f Feature, v Value) (string, bool) {
	g, ok := grammemeValues[f][v]
	return g, ok
}

// FromGrammeme resolves an analyzer grammeme into its feature and value.
func FromGrammeme(g string) (Feature, Value, bool) {
	fv, ok := fromGrammeme[g]
	return fv.feature, fv.value, ok
}

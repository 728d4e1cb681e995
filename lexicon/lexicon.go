// Package lexicon loads the lexical resources the agreement filters consult:
// lemma frequencies, semantically plural nouns and nouns of dubious gender.
package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RussianNLP/RuBLiMP/logger"
	"github.com/RussianNLP/RuBLiMP/types"
	"github.com/RussianNLP/RuBLiMP/utils"
)

const (
	lemmaColumn = "Lemma"
	freqColumn  = "Freq(ipm)"

	semPluralTag = "t:group"
)

var dubiousGenderTags = []string{"t:prof", "d:nag"}

type Resources struct {
	Frequency     map[string]float64
	SemPlural     map[string]bool
	DubiousGender map[string]bool
}

func NewResources() *Resources {
	return &Resources{
		Frequency:     map[string]float64{},
		SemPlural:     map[string]bool{},
		DubiousGender: map[string]bool{},
	}
}

// IsSemPlural reports nouns like `семья` whose singular may take a plural
// predicate.
func (r *Resources) IsSemPlural(lemma string) bool {
	return r.SemPlural[strings.ToLower(lemma)]
}

// IsDubiousGender reports profession and common-gender nouns.
func (r *Resources) IsDubiousGender(lemma string) bool {
	return r.DubiousGender[strings.ToLower(lemma)]
}

// IPM returns the share of non-punctuation lemmas more frequent than 1 ipm.
func (r *Resources) IPM(sent *types.Sentence) float64 {
	total, frequent := 0, 0
	for _, tok := range sent.Tokens {
		if tok.UPOS == "PUNCT" {
			continue
		}
		total++
		if r.Frequency[tok.Lemma] > 1 {
			frequent++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(frequent) / float64(total)
}

// LoadFrequency reads a tab-separated frequency list with a header row that
// has the Lemma and Freq(ipm) columns.
func LoadFrequency(path string) (map[string]float64, error) {
	rows, err := utils.NewDelimitedReader(path, "\t", nil)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	headerSeen := false
	lemmaIdx, freqIdx := -1, -1
	for columns := range rows {
		if !headerSeen {
			headerSeen = true
			for i, c := range columns {
				switch strings.TrimSpace(c) {
				case lemmaColumn:
					lemmaIdx = i
				case freqColumn:
					freqIdx = i
				}
			}
			continue
		}
		if lemmaIdx < 0 || freqIdx < 0 || lemmaIdx >= len(columns) || freqIdx >= len(columns) {
			continue
		}
		freq, err := strconv.ParseFloat(strings.TrimSpace(columns[freqIdx]), 64)
		if err != nil {
			continue
		}
		out[columns[lemmaIdx]] = freq
	}
	if lemmaIdx < 0 || freqIdx < 0 {
		return nil, fmt.Errorf("%s: header lacks %s or %s", path, lemmaColumn, freqColumn)
	}
	return out, nil
}

type vocabAnalysis struct {
	POS string `json:"pos"`
	Gr  string `json:"gr"`
	Sem string `json:"sem"`
}

func hasSemTag(sem string, tags ...string) bool {
	for _, s := range strings.Fields(sem) {
		for _, t := range tags {
			if s == t {
				return true
			}
		}
	}
	return false
}

// LoadVocab derives semantically plural and dubious gender nouns from a
// lemma -> analyses JSON vocabulary.
func LoadVocab(path string) (semPlural map[string]bool, dubiousGender map[string]bool, err error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var vocab map[string][]vocabAnalysis
	if err := json.Unmarshal(buf, &vocab); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	semPlural = make(map[string]bool)
	dubiousGender = make(map[string]bool)
	for lemma, analyses := range vocab {
		for _, ana := range analyses {
			if ana.POS == "S" && hasSemTag(ana.Sem, semPluralTag) {
				semPlural[lemma] = true
			}
			if hasSemTag(ana.Sem, dubiousGenderTags...) {
				dubiousGender[lemma] = true
			}
		}
	}
	return semPlural, dubiousGender, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Load reads every resource named in cfg. Missing entries leave the
// corresponding set empty.
func Load(dir string, cfg types.ResourcesConfig) (*Resources, error) {
	lexLogger := logger.NewLogger("Lexicon")
	res := NewResources()

	if p := resolve(dir, cfg.FrequencyDictionary); p != "" {
		freq, err := LoadFrequency(p)
		if err != nil {
			return nil, fmt.Errorf("frequency dictionary: %w", err)
		}
		res.Frequency = freq
	}

	if p := resolve(dir, cfg.Vocab); p != "" {
		semPlural, dubious, err := LoadVocab(p)
		if err != nil {
			return nil, fmt.Errorf("vocab: %w", err)
		}
		res.SemPlural = semPlural
		res.DubiousGender = dubious
	}

	for _, list := range []struct {
		path   string
		target map[string]bool
	}{
		{resolve(dir, cfg.SemPlural), res.SemPlural},
		{resolve(dir, cfg.CommonGender), res.DubiousGender},
	} {
		if list.path == "" {
			continue
		}
		set, err := utils.ReadSet(list.path)
		if err != nil {
			return nil, fmt.Errorf("lemma list: %w", err)
		}
		for lemma := range set {
			list.target[strings.ToLower(lemma)] = true
		}
	}

	lexLogger.Info().
		Int("frequency", len(res.Frequency)).
		Int("sem_plural", len(res.SemPlural)).
		Int("dubious_gender", len(res.DubiousGender)).
		Msg("Lexical resources loaded")
	return res, nil
}

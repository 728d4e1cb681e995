package morph

import (
	"fmt"
	"strings"
	"sync"

	"github.com/RussianNLP/RuBLiMP/logger"
	"github.com/RussianNLP/RuBLiMP/utils"
)

type formRef struct {
	lexeme *lexeme
	cell   int
}

// Dictionary is an in-memory paradigm dictionary. Lookups ignore letter case
// and the ё/е distinction.
type Dictionary struct {
	mu      sync.RWMutex
	lexemes map[string]*lexeme
	index   map[string][]formRef
}

func NewDictionary() *Dictionary {
	return &Dictionary{
		lexemes: make(map[string]*lexeme),
		index:   make(map[string][]formRef),
	}
}

func lookupKey(word string) string {
	return utils.UnifyAlphabet(strings.ToLower(word))
}

// AddForm appends a paradigm cell to the lexeme id, creating it if needed.
func (d *Dictionary) AddForm(id string, word string, lemma string, tag string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	store := utils.GlobalStringStore()
	lex, ok := d.lexemes[id]
	if !ok {
		lex = &lexeme{lemma: store.Intern(strings.ToLower(lemma))}
		d.lexemes[id] = lex
	}
	lex.forms = append(lex.forms, form{word: strings.ToLower(word), tag: ParseTag(tag)})

	key := lookupKey(word)
	d.index[key] = append(d.index[key], formRef{lexeme: lex, cell: len(lex.forms) - 1})
}

// AddLexeme adds a whole paradigm given as word -> tag pairs.
func (d *Dictionary) AddLexeme(id string, lemma string, cells ...[2]string) {
	for _, c := range cells {
		d.AddForm(id, c[0], lemma, c[1])
	}
}

func (d *Dictionary) Parse(word string) []*Analysis {
	d.mu.RLock()
	defer d.mu.RUnlock()

	refs := d.index[lookupKey(word)]
	out := make([]*Analysis, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.lexeme.analysis(ref.cell))
	}
	return out
}

func (d *Dictionary) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.lexemes)
}

// LoadDictionary reads a pipe-separated paradigm file with rows
// lexeme_id|word|lemma|tag.
func LoadDictionary(path string) (*Dictionary, error) {
	dictLogger := logger.NewLogger("MorphDictionary")

	rows, err := utils.NewBSVReader(path, func(columns []string) uint64 {
		return utils.HashStrings(columns...)
	})
	if err != nil {
		return nil, fmt.Errorf("open morph dictionary: %w", err)
	}

	d := NewDictionary()
	skipped := 0
	for columns := range rows {
		if len(columns) != 4 {
			skipped++
			continue
		}
		d.AddForm(columns[0], columns[1], columns[2], columns[3])
	}
	if skipped > 0 {
		dictLogger.Warn().Int("rows", skipped).Msg("Skipped malformed dictionary rows")
	}
	dictLogger.Info().Int("lexemes", d.Size()).Msg("Morph dictionary loaded")
	return d, nil
}

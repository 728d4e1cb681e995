package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/RussianNLP/RuBLiMP/agreement"
	"github.com/RussianNLP/RuBLiMP/lexicon"
	"github.com/RussianNLP/RuBLiMP/logger"
	"github.com/RussianNLP/RuBLiMP/morph"
	"github.com/RussianNLP/RuBLiMP/types"
)

var ErrUnknownPhenomenon = errors.New("unknown phenomenon")

// Generator produces minimal pairs of one phenomenon for a sentence.
type Generator interface {
	Name() string
	Generate(sent *types.Sentence) types.Result
}

// NewGenerator builds the generator registered for cfg.Phenomenon.
func NewGenerator(cfg types.Configuration, analyzer morph.Analyzer, resources *lexicon.Resources) (Generator, error) {
	switch cfg.Phenomenon {
	case types.PhenomenonAgreement:
		return agreement.New(analyzer, resources, cfg.Params.Agreement), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPhenomenon, cfg.Phenomenon)
}

// Loader builds generators from configurations. Dictionaries and lexical
// resources are loaded once and shared between generators.
type Loader struct {
	resourcesDir string

	mu           sync.Mutex
	dictionaries map[string]*morph.Dictionary
	lexicons     map[types.ResourcesConfig]*lexicon.Resources
	loadLogger   zerolog.Logger
}

func NewLoader(resourcesDir string) *Loader {
	return &Loader{
		resourcesDir: resourcesDir,
		dictionaries: make(map[string]*morph.Dictionary),
		lexicons:     make(map[types.ResourcesConfig]*lexicon.Resources),
		loadLogger:   logger.NewLogger("Generator loader"),
	}
}

// Load reads the resources named by cfg and builds its generator.
func (l *Loader) Load(cfg types.Configuration) (Generator, error) {
	errLogger := l.loadLogger.With().Caller().Logger()

	l.mu.Lock()
	defer l.mu.Unlock()

	if cfg.Resources.MorphDictionary == "" {
		return nil, fmt.Errorf("configuration %s: morph dictionary is not set", cfg.Name)
	}
	dictPath := cfg.Resources.MorphDictionary
	if l.resourcesDir != "" && !filepath.IsAbs(dictPath) {
		dictPath = filepath.Join(l.resourcesDir, dictPath)
	}
	dict, ok := l.dictionaries[dictPath]
	if !ok {
		var err error
		dict, err = morph.LoadDictionary(dictPath)
		if err != nil {
			errLogger.Err(err).Str("path", dictPath).Msg("Failed to load morph dictionary")
			return nil, err
		}
		l.dictionaries[dictPath] = dict
	}

	resources, ok := l.lexicons[cfg.Resources]
	if !ok {
		var err error
		resources, err = lexicon.Load(l.resourcesDir, cfg.Resources)
		if err != nil {
			errLogger.Err(err).Interface("resources", cfg.Resources).Msg("Failed to load lexical resources")
			return nil, err
		}
		l.lexicons[cfg.Resources] = resources
	}

	gen, err := NewGenerator(cfg, dict, resources)
	if err != nil {
		return nil, err
	}
	l.loadLogger.Debug().
		Str("configuration", cfg.Name).
		Str("phenomenon", gen.Name()).
		Msg("Generator loaded")
	return gen, nil
}

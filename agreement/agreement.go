// Package agreement generates agreement minimal pairs: it finds controller
// and agreer pairs in a parsed sentence, changes one morphological feature of
// one side and keeps the changes that are unambiguously ungrammatical.
package agreement

import (
	"github.com/rs/zerolog"

	"github.com/RussianNLP/RuBLiMP/lexicon"
	"github.com/RussianNLP/RuBLiMP/logger"
	"github.com/RussianNLP/RuBLiMP/morph"
	"github.com/RussianNLP/RuBLiMP/types"
	"github.com/RussianNLP/RuBLiMP/utils"
)

type Generator struct {
	analyzer morph.Analyzer
	lexicon  *lexicon.Resources
	params   types.AgreementParams
	logger   zerolog.Logger
}

func New(analyzer morph.Analyzer, lex *lexicon.Resources, params types.AgreementParams) *Generator {
	if lex == nil {
		lex = lexicon.NewResources()
	}
	if params.DistractorLabel == "" {
		params.DistractorLabel = types.DefaultDistractorLabel
	}
	return &Generator{
		analyzer: analyzer,
		lexicon:  lex,
		params:   params,
		logger:   logger.NewLogger("agreement"),
	}
}

func (g *Generator) Name() string {
	return types.PhenomenonAgreement
}

// Match runs every relation matcher over sent. Matchers may write inferred
// features back into the tokens, so sent should be a working copy.
func (g *Generator) Match(sent *types.Sentence) []*Group {
	var groups []*Group
	groups = append(groups, g.matchNominalSubjects(sent)...)
	groups = append(groups, g.matchClausalSubjects(sent)...)
	groups = append(groups, g.matchModifiers(sent)...)
	groups = append(groups, g.matchAdjectivalClauses(sent)...)
	groups = append(groups, g.matchRelativeClauses(sent)...)
	return groups
}

// Generate produces the minimal pairs of one sentence. A panic while
// processing is reported as a fault of that sentence only.
func (g *Generator) Generate(sent *types.Sentence) types.Result {
	res := types.Result{SentenceID: sent.ID}
	records, skip, err := g.generate(sent)
	if err != nil {
		g.logger.Debug().Str("sentence", sent.ID).Err(err).Msg("Sentence failed")
		res.Skip = types.SkipFault
		res.Err = err
		return res
	}
	res.Records = records
	res.Skip = skip
	return res
}

func (g *Generator) generate(sent *types.Sentence) (records []types.Record, skip types.SkipReason, err error) {
	defer utils.RecoverWithError(&err)

	work := sent.Clone()
	rel := aggregate(work, g.Match(work))
	if len(rel.Order) == 0 {
		return nil, types.SkipNoRelations, nil
	}
	records = g.flatten(sent, work, rel, g.alternate(work, rel))
	if len(records) == 0 {
		return nil, types.SkipNoAlternations, nil
	}
	return records, types.SkipNone, nil
}

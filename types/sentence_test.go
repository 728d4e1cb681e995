package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RussianNLP/RuBLiMP/feats"
)

// "Девушка , которая читала , ушла ."
func sampleSentence() *Sentence {
	return &Sentence{
		ID: "s1",
		Tokens: []*Token{
			{ID: 1, Form: "Девушка", Lemma: "девушка", UPOS: "NOUN", Head: 6, Deprel: "nsubj"},
			{ID: 2, Form: ",", Lemma: ",", UPOS: "PUNCT", Head: 4, Deprel: "punct"},
			{ID: 3, Form: "которая", Lemma: "который", UPOS: "PRON", Head: 4, Deprel: "nsubj"},
			{ID: 4, Form: "читала", Lemma: "читать", UPOS: "VERB", Head: 1, Deprel: "acl:relcl"},
			{ID: 5, Form: ",", Lemma: ",", UPOS: "PUNCT", Head: 4, Deprel: "punct"},
			{ID: 6, Form: "ушла", Lemma: "уйти", UPOS: "VERB", Head: 0, Deprel: "root"},
			{ID: 7, Form: ".", Lemma: ".", UPOS: "PUNCT", Head: 6, Deprel: "punct"},
		},
	}
}

func ids(toks []*Token) []int {
	out := make([]int, len(toks))
	for i, t := range toks {
		out[i] = t.ID
	}
	return out
}

func TestConstituent(t *testing.T) {
	sent := sampleSentence()

	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(sent.Constituent(sent.Token(1), nil)))
	assert.Equal(t, []int{1}, ids(sent.Constituent(sent.Token(1), func(tok *Token) bool {
		return tok.Deprel == "acl:relcl"
	})))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, ids(sent.Constituent(sent.Token(6), nil)))
}

func TestDependents(t *testing.T) {
	sent := sampleSentence()
	assert.Equal(t, []int{2, 3, 5}, ids(sent.Dependents(4)))
	assert.Equal(t, []int{3}, ids(sent.Dependents(4, "nsubj", "obj")))
	assert.Nil(t, sent.Token(0))
	assert.Nil(t, sent.Token(8))
}

func TestTreeDepth(t *testing.T) {
	sent := sampleSentence()
	// ушла, Девушка and читала have dependents
	assert.Equal(t, 3, sent.TreeDepth())

	assert.Equal(t, 0, (&Sentence{}).TreeDepth())
}

func TestCloneIsDeep(t *testing.T) {
	sent := sampleSentence()
	sent.Tokens[0].Extra = map[string]string{"Aspect": "Imp"}

	clone := sent.Clone()
	clone.Tokens[0].Feats.Set(feats.Number, feats.Sing)
	clone.Tokens[0].Extra["Aspect"] = "Perf"

	assert.False(t, sent.Tokens[0].Feats.Has(feats.Number))
	assert.Equal(t, "Imp", sent.Tokens[0].Extra["Aspect"])
	assert.Equal(t, sent.Forms(), clone.Forms())
}

func TestValidate(t *testing.T) {
	sent := sampleSentence()
	require.NoError(t, sent.Validate())

	sent.Tokens[2].Head = 42
	assert.Error(t, sent.Validate())

	sent = sampleSentence()
	sent.Tokens[1].ID = 5
	assert.Error(t, sent.Validate())
}

func TestTokenFeats(t *testing.T) {
	tok := &Token{ID: 1}
	assert.False(t, tok.HasFeats())

	tok.Feats.Set(feats.Case, feats.Nom)
	tok.Extra = map[string]string{"Aspect": "Imp"}
	assert.True(t, tok.HasFeats())
	assert.Equal(t, feats.Nom, tok.Feat(feats.Case))
	assert.Equal(t, map[string]string{"Case": "Nom", "Aspect": "Imp"}, tok.AllFeats())
}

package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RussianNLP/RuBLiMP/types"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "freq.tsv", "Lemma\tPoS\tFreq(ipm)\nдевушка\ts\t120.5\nкнига\ts\t0.7\nбитое\ts\tn/a\n")
	write(t, dir, "vocab.json", `{
		"семья": [{"pos": "S", "gr": "f,inan", "sem": "t:group r:concr"}],
		"директор": [{"pos": "S", "gr": "m,anim", "sem": "t:prof"}],
		"сирота": [{"pos": "S", "gr": "mf,anim", "sem": "d:nag"}],
		"групповой": [{"pos": "A", "gr": "", "sem": "t:group"}]
	}`)
	write(t, dir, "common.txt", "Судья\n")

	res, err := Load(dir, types.ResourcesConfig{
		FrequencyDictionary: "freq.tsv",
		Vocab:               "vocab.json",
		CommonGender:        "common.txt",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"девушка": 120.5, "книга": 0.7}, res.Frequency)
	assert.True(t, res.IsSemPlural("Семья"))
	assert.False(t, res.IsSemPlural("групповой"))
	assert.True(t, res.IsDubiousGender("директор"))
	assert.True(t, res.IsDubiousGender("сирота"))
	assert.True(t, res.IsDubiousGender("судья"))
	assert.False(t, res.IsDubiousGender("девушка"))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "bad.tsv", "Word\tCount\nа\t1\n")

	_, err := Load(dir, types.ResourcesConfig{FrequencyDictionary: "bad.tsv"})
	assert.Error(t, err)

	_, err = Load(dir, types.ResourcesConfig{Vocab: "missing.json"})
	assert.Error(t, err)

	res, err := Load(dir, types.ResourcesConfig{})
	require.NoError(t, err)
	assert.Empty(t, res.Frequency)
}

func TestIPM(t *testing.T) {
	res := NewResources()
	res.Frequency = map[string]float64{"девушка": 120, "книга": 1}

	sent := &types.Sentence{Tokens: []*types.Token{
		{ID: 1, Lemma: "девушка", UPOS: "NOUN"},
		{ID: 2, Lemma: "читать", UPOS: "VERB"},
		{ID: 3, Lemma: "книга", UPOS: "NOUN"},
		{ID: 4, Lemma: ".", UPOS: "PUNCT"},
	}}
	assert.InDelta(t, 1.0/3.0, res.IPM(sent), 1e-9)
	assert.Equal(t, 0.0, res.IPM(&types.Sentence{}))
}

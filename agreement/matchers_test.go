package agreement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RussianNLP/RuBLiMP/feats"
)

func TestMatchModifiers(t *testing.T) {
	gen := newTestGenerator()

	t.Run("agreeing adjective", func(t *testing.T) {
		sent := parseSentence(t, "amod",
			"1 Новая новый ADJ _ Case=Nom|Degree=Pos|Gender=Fem|Number=Sing 2 amod _ _",
			"2 книга книга NOUN _ Animacy=Inan|Case=Nom|Gender=Fem|Number=Sing 0 root _ _",
		)
		groups := gen.matchModifiers(sent)
		require.Len(t, groups, 1)
		assert.Equal(t, 2, groups[0].Controller.ID)
		assert.False(t, groups[0].Controller.IsSubject)
		require.Len(t, groups[0].Agreers, 1)
		agr := groups[0].Agreers[0]
		assert.Equal(t, SubtypeAdjectival, agr.Subtype)
		assert.Equal(t, feats.Inan, agr.Small.Get(feats.Animacy))
	})

	t.Run("number mismatch", func(t *testing.T) {
		sent := parseSentence(t, "mismatch",
			"1 новые новый ADJ _ Case=Nom|Degree=Pos|Number=Plur 2 amod _ _",
			"2 книга книга NOUN _ Animacy=Inan|Case=Nom|Gender=Fem|Number=Sing 0 root _ _",
		)
		groups := gen.matchModifiers(sent)
		require.Len(t, groups, 1)
		assert.Empty(t, groups[0].Agreers)
		assert.Empty(t, aggregate(sent, groups).Order)
	})

	t.Run("numeral governed plural", func(t *testing.T) {
		sent := parseSentence(t, "gov",
			"1 две два NUM _ Case=Nom|Gender=Fem 3 nummod:gov _ _",
			"2 новых новый ADJ _ Case=Gen|Degree=Pos|Number=Plur 3 amod _ _",
			"3 книги книга NOUN _ Animacy=Inan|Case=Gen|Gender=Fem|Number=Sing 0 root _ _",
		)
		groups := gen.matchModifiers(sent)
		require.Len(t, groups, 1)
		require.Len(t, groups[0].Agreers, 1)
		assert.Equal(t, 2, groups[0].Agreers[0].ID)
	})
}

func TestMatchRelativeClauses(t *testing.T) {
	gen := newTestGenerator()

	t.Run("relative pronoun", func(t *testing.T) {
		sent := parseSentence(t, "relcl",
			"1 Книга книга NOUN _ Animacy=Inan|Case=Nom|Gender=Fem|Number=Sing 0 root _ _",
			"2 , , PUNCT _ _ 4 punct _ _",
			"3 которую который PRON _ Case=Acc|Gender=Fem|Number=Sing 4 obj _ _",
			"4 читала читать VERB _ Gender=Fem|Number=Sing|Tense=Past|VerbForm=Fin 1 acl:relcl _ _",
			"5 девушка девушка NOUN _ Animacy=Anim|Case=Nom|Gender=Fem|Number=Sing 4 nsubj _ _",
			"6 . . PUNCT _ _ 1 punct _ _",
		)
		groups := gen.matchRelativeClauses(sent)
		require.Len(t, groups, 1)
		grp := groups[0]
		assert.Equal(t, 1, grp.Controller.ID)
		assert.Equal(t, []int{1, 6}, grp.Controller.Constituent)
		require.Len(t, grp.Agreers, 1)
		agr := grp.Agreers[0]
		assert.Equal(t, 3, agr.ID)
		assert.Equal(t, SubtypeRelative, agr.Subtype)
		assert.False(t, agr.NoInflect)
		assert.Equal(t, feats.Inan, agr.Small.Get(feats.Animacy))
	})

	t.Run("ambiguous antecedent", func(t *testing.T) {
		sent := parseSentence(t, "ambiguous",
			"1 Книга книга NOUN _ Animacy=Inan|Case=Nom|Gender=Fem|Number=Sing 0 root _ _",
			"2 подруги подруга NOUN _ Animacy=Anim|Case=Gen|Gender=Fem|Number=Sing 1 nmod _ _",
			"3 , , PUNCT _ _ 5 punct _ _",
			"4 которую который PRON _ Case=Acc|Gender=Fem|Number=Sing 5 obj _ _",
			"5 читала читать VERB _ Gender=Fem|Number=Sing|Tense=Past|VerbForm=Fin 1 acl:relcl _ _",
		)
		assert.Empty(t, gen.matchRelativeClauses(sent))
	})

	t.Run("subject pronoun is not inflected", func(t *testing.T) {
		sent := parseSentence(t, "subject",
			"1 Девушка девушка NOUN _ Animacy=Anim|Case=Nom|Gender=Fem|Number=Sing 0 root _ _",
			"2 , , PUNCT _ _ 4 punct _ _",
			"3 которая который PRON _ Case=Nom|Gender=Fem|Number=Sing 4 nsubj _ _",
			"4 читала читать VERB _ Gender=Fem|Number=Sing|Tense=Past|VerbForm=Fin 1 acl:relcl _ _",
		)
		groups := gen.matchRelativeClauses(sent)
		require.Len(t, groups, 1)
		assert.True(t, groups[0].Agreers[0].NoInflect)
	})
}

func TestMatchParticiple(t *testing.T) {
	gen := newTestGenerator()

	t.Run("adjacent participle", func(t *testing.T) {
		sent := parseSentence(t, "participle",
			"1 Девушка девушка NOUN _ Animacy=Anim|Case=Nom|Gender=Fem|Number=Sing 0 root _ _",
			"2 читавшая читать VERB _ Case=Nom|Number=Sing|Tense=Past|VerbForm=Part|Voice=Act 1 acl _ _",
			"3 книгу книга NOUN _ Animacy=Inan|Case=Acc|Gender=Fem|Number=Sing 2 obj _ _",
		)
		groups := gen.matchAdjectivalClauses(sent)
		require.Len(t, groups, 1)
		agr := groups[0].Agreers[0]
		assert.Equal(t, SubtypeParticiple, agr.Subtype)
		assert.Equal(t, []int{2, 3}, agr.Constituent)
		assert.Equal(t, []int{1}, groups[0].Controller.Constituent)

		// shared features are written back into the participle token
		assert.Equal(t, feats.Fem, sent.Token(2).Feat(feats.Gender))
	})

	t.Run("after a comma", func(t *testing.T) {
		sent := parseSentence(t, "comma",
			"1 Девушка девушка NOUN _ Animacy=Anim|Case=Nom|Gender=Fem|Number=Sing 0 root _ _",
			"2 , , PUNCT _ _ 3 punct _ _",
			"3 читавшая читать VERB _ Case=Nom|Number=Sing|Tense=Past|VerbForm=Part|Voice=Act 1 acl _ _",
			"4 книгу книга NOUN _ Animacy=Inan|Case=Acc|Gender=Fem|Number=Sing 3 obj _ _",
		)
		assert.Empty(t, gen.matchAdjectivalClauses(sent))
	})
}

func TestAggregate(t *testing.T) {
	gen := newTestGenerator()
	sent := parseSentence(t, "aggregate",
		"1 Новая новый ADJ _ Case=Nom|Degree=Pos|Gender=Fem|Number=Sing 2 amod _ _",
		"2 девушка девушка NOUN _ Animacy=Anim|Case=Nom|Gender=Fem|Number=Sing 3 nsubj _ _",
		"3 читала читать VERB _ Gender=Fem|Number=Sing|Tense=Past|VerbForm=Fin 0 root _ _",
	)
	rel := aggregate(sent, gen.Match(sent))
	require.Equal(t, []int{2}, rel.Order)
	require.Len(t, rel.Groups[2], 2)

	for _, grp := range rel.Groups[2] {
		assert.True(t, grp.Controller.HasMultipleAgreers)
		assert.Equal(t, []int{1, 3}, grp.Controller.AgreerIDs)
	}

	roles := rel.Index.roles(2)
	assert.Equal(t, []Subtype{SubtypeAdjectival, SubtypeNominalSubj}, roles.ContrRel())
	assert.Empty(t, roles.AgrRel())
	assert.True(t, roles.Controls[SubtypeAdjectival].Has(feats.Case))
	assert.False(t, roles.Controls[SubtypeNominalSubj].Has(feats.Case))
	assert.True(t, rel.Index.roles(3).Agrees[SubtypeNominalSubj].Has(feats.Number))

	subjectAgreer := rel.Groups[2][0].Agreers[0]
	assert.Equal(t, 0, subjectAgreer.Distance)
	assert.True(t, subjectAgreer.ControllerFirst)
}

func TestMatchClausalSubjects(t *testing.T) {
	gen := newTestGenerator()

	for _, tc := range []struct {
		deprel string
		want   Subtype
	}{
		{"csubj", SubtypeClausalSubj},
		{"csubj:pass", SubtypeClausalSubjPass},
	} {
		t.Run(tc.deprel, func(t *testing.T) {
			sent := parseSentence(t, "csubj",
				"1 Казалось казаться VERB _ Aspect=Imp|Gender=Neut|Mood=Ind|Number=Sing|Tense=Past|VerbForm=Fin 0 root _ _",
				"2 , , PUNCT _ _ 5 punct _ _",
				"3 что что SCONJ _ _ 5 mark _ _",
				"4 он он PRON _ Case=Nom|Gender=Masc|Number=Sing|Person=3 5 nsubj _ _",
				"5 спит спать VERB _ Aspect=Imp|Mood=Ind|Number=Sing|Person=3|Tense=Pres|VerbForm=Fin 1 "+tc.deprel+" _ _",
			)
			groups := gen.matchClausalSubjects(sent)
			require.Len(t, groups, 1)
			grp := groups[0]
			assert.Equal(t, 5, grp.Controller.ID)
			assert.True(t, grp.Controller.NoInflect)
			require.Len(t, grp.Agreers, 1)
			assert.Equal(t, 1, grp.Agreers[0].ID)
			assert.Equal(t, tc.want, grp.Agreers[0].Subtype)
			assert.False(t, grp.Agreers[0].NoInflect)
		})
	}
}

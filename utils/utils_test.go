package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyAlphabet(t *testing.T) {
	assert.Equal(t, "Еще елка", UnifyAlphabet("Ещё ёлка"))
	assert.Equal(t, "ЕЖ", UnifyAlphabet("ЁЖ"))
	// decomposed ё: е + combining diaeresis
	assert.Equal(t, "еще", UnifyAlphabet("ещ\u0435\u0308"))
}

func TestCapitalizeLike(t *testing.T) {
	cases := []struct {
		name     string
		original string
		word     string
		want     string
	}{
		{"lower", "читала", "ЧИТАЛИ", "читали"},
		{"upper", "ЧИТАЛА", "читали", "ЧИТАЛИ"},
		{"title", "Читала", "читали", "Читали"},
		{"mixed", "ВКонтакте", "вконтакта", "ВКонтакта"},
		{"shorter new word", "АбВгД", "аб", "Аб"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, CapitalizeLike(c.original, c.word))
		})
	}
}

func TestHashStrings(t *testing.T) {
	assert.Equal(t, HashStrings("ab", "c"), HashStrings("ab", "c"))
	assert.NotEqual(t, HashStrings("ab", "c"), HashStrings("a", "bc"))
	assert.Equal(t, HashString("abc"), HashStrings("abc"))
}

func TestReadSet(t *testing.T) {
	p := filepath.Join(t.TempDir(), "set.txt")
	require.NoError(t, os.WriteFile(p, []byte("# header\nсемья\n\n народ \n"), 0o644))

	set, err := ReadSet(p)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"семья": true, "народ": true}, set)
}

func TestDelimitedReader(t *testing.T) {
	p := filepath.Join(t.TempDir(), "dict.bsv")
	content := strings.Join([]string{
		"// comment",
		"1|Книга|книга|NOUN,inan,femn sing,nomn",
		"1|Книга|книга|NOUN,inan,femn sing,nomn",
		"1|книги|книга|NOUN,inan,femn sing,gent",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	rows, err := NewBSVReader(p, func(columns []string) uint64 {
		return HashStrings(columns...)
	})
	require.NoError(t, err)

	var got [][]string
	for row := range rows {
		got = append(got, row)
	}
	assert.Equal(t, [][]string{
		{"1", "Книга", "книга", "NOUN,inan,femn sing,nomn"},
		{"1", "книги", "книга", "NOUN,inan,femn sing,gent"},
	}, got)

	_, err = NewDelimitedReader(filepath.Join(t.TempDir(), "missing"), "\t", nil)
	assert.Error(t, err)
}

func TestRecoverWithError(t *testing.T) {
	boom := errors.New("boom")
	run := func() (err error) {
		defer RecoverWithError(&err)
		panic(boom)
	}
	err := run()
	require.Error(t, err)
	assert.Equal(t, "got panic: boom", err.Error())
	assert.True(t, errors.Is(err, boom))

	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Contains(t, string(panicErr.Stack), "TestRecoverWithError")
}

func TestStringStoreInterns(t *testing.T) {
	store := &stringStoreImpl{}
	a := store.Intern(strings.Repeat("x", 3))
	b := store.Intern("xxx")
	assert.Equal(t, a, b)

	store.Lock()
	assert.True(t, store.IsLocked())
	assert.Equal(t, "new", store.Intern("new"))
}

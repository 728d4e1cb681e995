package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var yoReplacer = strings.NewReplacer("ё", "е", "Ё", "Е")

// UnifyAlphabet composes the text and spells ё as е.
func UnifyAlphabet(s string) string {
	return yoReplacer.Replace(norm.NFC.String(s))
}

func isUpperWord(runes []rune) bool {
	hasLetter := false
	for _, r := range runes {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isLowerWord(runes []rune) bool {
	for _, r := range runes {
		if unicode.IsLetter(r) && !unicode.IsLower(r) {
			return false
		}
	}
	return true
}

// CapitalizeLike spells word with the letter case of original: fully upper,
// fully lower, or upper at the same positions.
func CapitalizeLike(original string, word string) string {
	orig := []rune(original)
	switch {
	case isUpperWord(orig):
		return strings.ToUpper(word)
	case isLowerWord(orig):
		return strings.ToLower(word)
	}

	out := []rune(strings.ToLower(word))
	for i, r := range orig {
		if i >= len(out) {
			break
		}
		if unicode.IsUpper(r) {
			out[i] = unicode.ToUpper(out[i])
		}
	}
	return string(out)
}

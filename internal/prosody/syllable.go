package prosody

import (
	"strings"
	"unicode"
)

// EstimateSyllables approximates the syllable count of a single word by
// counting vowel runs, with a silent trailing-e correction. It is a pacing
// heuristic, good enough to decide where a breath fits, and makes no claim
// to phonetic accuracy ("the" and "battle" are both known rough edges).
// Returns 0 only for input that is empty after punctuation stripping;
// any real word counts as at least one syllable.
func EstimateSyllables(word string) int {
	w := stripPunct(strings.ToLower(word))
	if w == "" {
		return 0
	}

	count := 0
	prevVowel := false
	for _, r := range w {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	// Trailing e is usually silent ("make", "table") unless the preceding
	// consonant keeps it pronounced, as in "battle" or "more".
	runes := []rune(w)
	if count > 1 && runes[len(runes)-1] == 'e' {
		switch runes[len(runes)-2] {
		case 'l', 'r', 'n':
		default:
			count--
		}
	}

	if count < 1 {
		count = 1
	}
	return count
}

// CountSyllables sums EstimateSyllables over whitespace-separated words.
func CountSyllables(text string) int {
	total := 0
	for _, w := range strings.Fields(text) {
		total += EstimateSyllables(w)
	}
	return total
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// stripPunct drops everything that is not a letter or digit.
func stripPunct(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package prosody

import (
	"strings"
	"unicode/utf8"
)

// BoundaryType ranks the prosodic strength of the gap after a word.
// Stronger boundaries compare greater; pause selection and chunk breaking
// rely on that numeric ordering, so the ordinal values are explicit.
type BoundaryType int

const (
	BoundaryNone     BoundaryType = 0
	BoundaryBreath   BoundaryType = 1
	BoundaryPhrase   BoundaryType = 2
	BoundaryClause   BoundaryType = 3
	BoundarySentence BoundaryType = 4
)

func (b BoundaryType) String() string {
	switch b {
	case BoundarySentence:
		return "sentence"
	case BoundaryClause:
		return "clause"
	case BoundaryPhrase:
		return "phrase"
	case BoundaryBreath:
		return "breath"
	case BoundaryNone:
		return "none"
	default:
		return "unknown"
	}
}

// phraseStarters are conjunctions and discourse connectives that open a new
// intonational phrase. A word followed by one of these gets a phrase boundary
// even when a comma would otherwise signal a clause.
var phraseStarters = map[string]struct{}{
	"and": {}, "but": {}, "or": {}, "nor": {}, "so": {}, "yet": {},
	"because": {}, "although": {}, "though": {}, "while": {}, "whereas": {},
	"when": {}, "if": {}, "unless": {}, "until": {}, "since": {},
	"after": {}, "before": {},
	"however": {}, "therefore": {}, "meanwhile": {}, "moreover": {},
	"furthermore": {}, "nevertheless": {}, "otherwise": {}, "instead": {},
	"then": {}, "also": {}, "besides": {},
	"first": {}, "second": {}, "third": {}, "finally": {}, "next": {},
	"what": {}, "which": {}, "who": {}, "whom": {}, "whose": {},
	"where": {}, "why": {}, "how": {},
}

// DetectBoundary classifies the gap after word. An empty next means word is
// the last in the utterance. Precedence: sentence-final punctuation wins,
// then a phrase-starter next word, then clause punctuation. The phrase check
// runs before the clause check on purpose, so "Well, however" yields a phrase
// boundary rather than a clause one.
func DetectBoundary(word, next string) BoundaryType {
	word = strings.TrimSpace(word)
	if word == "" {
		return BoundaryNone
	}
	last, _ := utf8.DecodeLastRuneInString(word)
	switch last {
	case '.', '!', '?':
		return BoundarySentence
	}
	if next != "" {
		if _, ok := phraseStarters[stripPunct(strings.ToLower(next))]; ok {
			return BoundaryPhrase
		}
	}
	switch last {
	case ',', ';', ':', '-', '–', '—':
		return BoundaryClause
	}
	return BoundaryNone
}

// WordBoundary pairs a word with the boundary detected after it.
type WordBoundary struct {
	Word     string
	Boundary BoundaryType
}

// DetectBoundaries scans every adjacent word pair in text. Diagnostic helper;
// the parser does its own incremental scan.
func DetectBoundaries(text string) []WordBoundary {
	words := strings.Fields(text)
	out := make([]WordBoundary, 0, len(words))
	for i, w := range words {
		next := ""
		if i+1 < len(words) {
			next = words[i+1]
		}
		out = append(out, WordBoundary{Word: w, Boundary: DetectBoundary(w, next)})
	}
	return out
}

package prosody

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRejectsBlankText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := Parse(text, Options{}); !errors.Is(err, ErrEmptyText) {
			t.Errorf("Parse(%q) error = %v, want ErrEmptyText", text, err)
		}
	}
}

func TestParseFirstAndFinalChunks(t *testing.T) {
	chunks, err := Parse("Hello! This is a test.", Options{FirstChunkWords: 2})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	first := chunks[0]
	if first.Text != "Hello! This" {
		t.Fatalf("first chunk = %q, want %q", first.Text, "Hello! This")
	}
	if !first.IsFirst || first.IsFinal {
		t.Fatalf("first chunk flags wrong: %+v", first)
	}
	if first.BoundaryBefore != BoundarySentence {
		t.Fatalf("utterance start must be a sentence boundary, got %v", first.BoundaryBefore)
	}
	last := chunks[len(chunks)-1]
	if !last.IsFinal {
		t.Fatalf("last chunk must be final: %+v", last)
	}
	if !strings.HasSuffix(last.Text, ".") {
		t.Fatalf("last chunk should end the sentence, got %q", last.Text)
	}
	if last.BoundaryAfter != BoundarySentence {
		t.Fatalf("final boundary = %v, want sentence", last.BoundaryAfter)
	}
}

func TestParsePreservesAllWords(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog, and then it rests because the day is long."
	chunks, err := Parse(text, Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var rejoined []string
	for _, c := range chunks {
		rejoined = append(rejoined, strings.Fields(c.Text)...)
	}
	want := strings.Fields(text)
	if len(rejoined) != len(want) {
		t.Fatalf("word count changed: got %d, want %d", len(rejoined), len(want))
	}
	for i := range want {
		if rejoined[i] != want[i] {
			t.Fatalf("word %d = %q, want %q", i, rejoined[i], want[i])
		}
	}
}

func TestParseShortText(t *testing.T) {
	chunks, err := Parse("Hi", Options{FirstChunkWords: 2})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected single chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if !c.IsFirst || !c.IsFinal {
		t.Fatalf("single chunk must be both first and final: %+v", c)
	}
	if c.PositionRatio != 1 {
		t.Fatalf("position ratio = %v, want 1", c.PositionRatio)
	}
	if c.BoundaryAfter != BoundarySentence {
		t.Fatalf("single chunk boundary = %v, want sentence", c.BoundaryAfter)
	}
}

func TestParseSharedSeamBoundaries(t *testing.T) {
	chunks, err := Parse("One two three. Four five six. Seven eight nine.", Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].BoundaryBefore != chunks[i-1].BoundaryAfter {
			t.Fatalf("seam %d: before=%v, previous after=%v", i,
				chunks[i].BoundaryBefore, chunks[i-1].BoundaryAfter)
		}
	}
}

func TestParseForcedBreathBreak(t *testing.T) {
	// No punctuation anywhere, so only the syllable budget can break this.
	text := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen"
	chunks, err := Parse(text, Options{FirstChunkWords: 2, MaxSyllablesBeforeBreath: 6})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("expected forced breaks, got %d chunks", len(chunks))
	}
	sawBreath := false
	for _, c := range chunks[1:] {
		if c.BoundaryAfter == BoundaryBreath {
			sawBreath = true
		}
	}
	if !sawBreath {
		t.Fatal("expected at least one forced breath boundary")
	}
}

func TestParseNeverDowngradesNaturalBoundary(t *testing.T) {
	// The clause comma lands exactly where the syllable budget runs out;
	// the break must stay a clause, not turn into a breath.
	text := "go one two three four five six, and onward we continue walking"
	chunks, err := Parse(text, Options{FirstChunkWords: 1, MaxSyllablesBeforeBreath: 4, MinWordsPerChunk: 2})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, c := range chunks {
		if strings.HasSuffix(c.Text, ",") && c.BoundaryAfter == BoundaryBreath {
			t.Fatalf("natural boundary downgraded to breath: %+v", c)
		}
	}
}

func TestParsePositionRatioMonotonic(t *testing.T) {
	chunks, err := Parse("Alpha beta gamma delta. Epsilon zeta eta theta, iota kappa lambda mu.", Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	prev := 0.0
	for i, c := range chunks {
		if c.PositionRatio <= prev && i > 0 {
			t.Fatalf("position ratio not increasing at chunk %d: %v <= %v", i, c.PositionRatio, prev)
		}
		prev = c.PositionRatio
	}
	if chunks[len(chunks)-1].PositionRatio != 1 {
		t.Fatalf("final chunk ratio = %v, want 1", chunks[len(chunks)-1].PositionRatio)
	}
}

func TestNewChunkValidation(t *testing.T) {
	if _, err := NewChunk("  ", BoundaryNone, BoundaryNone, false, false, 0.5, 1); err == nil {
		t.Fatal("expected error for blank text")
	}
	if _, err := NewChunk("ok", BoundaryNone, BoundaryNone, false, false, 1.5, 1); err == nil {
		t.Fatal("expected error for ratio out of range")
	}
	if _, err := NewChunk("ok", BoundaryNone, BoundaryNone, false, false, 0.5, -1); err == nil {
		t.Fatal("expected error for negative syllables")
	}
}

func TestFormatAnalysis(t *testing.T) {
	out := FormatAnalysis("Hello! This is a test.", 2)
	if !strings.Contains(out, "\"Hello! This\"") {
		t.Fatalf("analysis missing first chunk: %s", out)
	}
	if !strings.Contains(out, "sentence") {
		t.Fatalf("analysis missing boundary name: %s", out)
	}
	if !strings.Contains(out, "350ms") {
		t.Fatalf("analysis missing pause duration: %s", out)
	}
}

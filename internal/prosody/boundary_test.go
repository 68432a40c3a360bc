package prosody

import "testing"

func TestBoundaryOrdering(t *testing.T) {
	if !(BoundarySentence > BoundaryClause &&
		BoundaryClause > BoundaryPhrase &&
		BoundaryPhrase > BoundaryBreath &&
		BoundaryBreath > BoundaryNone) {
		t.Fatal("boundary strength ordering is broken")
	}
}

func TestDetectBoundary(t *testing.T) {
	cases := []struct {
		word, next string
		want       BoundaryType
	}{
		{"Hello!", "", BoundarySentence},
		{"done.", "Next", BoundarySentence},
		{"what?", "", BoundarySentence},
		{"wait...", "", BoundarySentence},
		{"Well,", "however", BoundaryPhrase}, // phrase starter wins over the comma
		{"ready", "and", BoundaryPhrase},
		{"first,", "we", BoundaryClause},
		{"items;", "more", BoundaryClause},
		{"note:", "this", BoundaryClause},
		{"pause—", "still", BoundaryClause},
		{"the", "dog", BoundaryNone},
		{"plain", "", BoundaryNone},
		{"", "anything", BoundaryNone},
	}
	for _, tc := range cases {
		if got := DetectBoundary(tc.word, tc.next); got != tc.want {
			t.Errorf("DetectBoundary(%q, %q) = %v, want %v", tc.word, tc.next, got, tc.want)
		}
	}
}

func TestDetectBoundaries(t *testing.T) {
	got := DetectBoundaries("Hello there. Goodbye,")
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Boundary != BoundaryNone {
		t.Errorf("expected none after %q, got %v", got[0].Word, got[0].Boundary)
	}
	if got[1].Boundary != BoundarySentence {
		t.Errorf("expected sentence after %q, got %v", got[1].Word, got[1].Boundary)
	}
	if got[2].Boundary != BoundaryClause {
		t.Errorf("expected clause after %q, got %v", got[2].Word, got[2].Boundary)
	}
}

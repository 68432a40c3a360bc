package prosody

import "testing"

func TestPauseForKnownBoundaries(t *testing.T) {
	if pc := PauseFor(BoundarySentence); pc.PauseMS != 350 || !pc.CanBreath {
		t.Fatalf("unexpected sentence pause config: %+v", pc)
	}
	if pc := PauseFor(BoundaryPhrase); pc.CanBreath {
		t.Fatalf("phrase boundaries must not breathe: %+v", pc)
	}
	if pc := PauseFor(BoundaryNone); pc.PauseMS != 0 {
		t.Fatalf("none boundary must have zero pause: %+v", pc)
	}
}

func TestPauseForUnknownBoundaryDefaults(t *testing.T) {
	pc := PauseFor(BoundaryType(42))
	if pc.PauseMS != 0 || pc.CanBreath || pc.BreathProbability != 0 {
		t.Fatalf("unknown boundary should default to zero config, got %+v", pc)
	}
}

func TestPauseTableInternallyConsistent(t *testing.T) {
	s := PauseFor(BoundarySentence).PauseMS
	c := PauseFor(BoundaryClause).PauseMS
	p := PauseFor(BoundaryPhrase).PauseMS
	if !(s > c && c > p) {
		t.Fatalf("pause durations must decrease with boundary strength: sentence=%v clause=%v phrase=%v", s, c, p)
	}
	for b, want := range pauseTable {
		if _, err := NewPauseConfig(want.PauseMS, want.CanBreath, want.BreathProbability); err != nil {
			t.Errorf("table entry for %v fails validation: %v", b, err)
		}
	}
}

func TestNewPauseConfigRejectsBadValues(t *testing.T) {
	if _, err := NewPauseConfig(-1, false, 0); err == nil {
		t.Fatal("expected error for negative pause")
	}
	if _, err := NewPauseConfig(100, true, 1.5); err == nil {
		t.Fatal("expected error for probability > 1")
	}
	if _, err := NewPauseConfig(100, true, -0.1); err == nil {
		t.Fatal("expected error for negative probability")
	}
}

package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestPCM16RoundTrip(t *testing.T) {
	in := Buffer{Samples: []float64{0, 0.5, -0.5, 1, -1}, Rate: testRate}
	out := FromPCM16(in.PCM16(), testRate)
	if out.Len() != in.Len() {
		t.Fatalf("length changed: %d != %d", out.Len(), in.Len())
	}
	for i := range in.Samples {
		if math.Abs(out.Samples[i]-in.Samples[i]) > 1.0/32767 {
			t.Fatalf("sample %d drifted: %v vs %v", i, out.Samples[i], in.Samples[i])
		}
	}
}

func TestPCM16ClipsOutOfRange(t *testing.T) {
	b := Buffer{Samples: []float64{2.0, -3.0}, Rate: testRate}
	out := FromPCM16(b.PCM16(), testRate)
	if out.Samples[0] < 0.99 || out.Samples[1] > -0.99 {
		t.Fatalf("expected clipping to full scale, got %v", out.Samples)
	}
}

func TestDurationMS(t *testing.T) {
	b := Silence(250, testRate)
	if d := b.DurationMS(); math.Abs(d-250) > 1 {
		t.Fatalf("duration = %v, want ~250", d)
	}
}

func TestWriteWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	if err := WriteWAVFile(path, tone(50, testRate)); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() <= 44 {
		t.Fatalf("wav file suspiciously small: %d bytes", info.Size())
	}
	if err := WriteWAVFile(filepath.Join(t.TempDir(), "bad.wav"), Buffer{}); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

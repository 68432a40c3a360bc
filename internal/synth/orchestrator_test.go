package synth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/powerfulmoves/archon-tts/internal/audio"
	"github.com/powerfulmoves/archon-tts/internal/tts"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// recordingSynth wraps the mock and records the order chunks are requested.
type recordingSynth struct {
	tts.Synthesizer
	mu    sync.Mutex
	texts []string
}

func (r *recordingSynth) Synthesize(ctx context.Context, req tts.Request) (audio.Buffer, error) {
	r.mu.Lock()
	r.texts = append(r.texts, req.Text)
	r.mu.Unlock()
	return r.Synthesizer.Synthesize(ctx, req)
}

type failingSynth struct {
	tts.Synthesizer
	failOn string
}

func (f *failingSynth) Synthesize(ctx context.Context, req tts.Request) (audio.Buffer, error) {
	if req.Text == f.failOn {
		return audio.Buffer{}, errors.New("backend exploded")
	}
	return f.Synthesizer.Synthesize(ctx, req)
}

func TestSpeakFirstChunkEmittedFirst(t *testing.T) {
	rec := &recordingSynth{Synthesizer: tts.NewMockSynth(24000)}
	o := New(rec, Options{Seed: 1}, newLogger())

	firstDelivered := false
	res, err := o.Speak(context.Background(), "Hello! This is a longer test sentence, with several chunks in it.", "", func(b audio.Buffer) {
		firstDelivered = true
		if b.Empty() {
			t.Error("first chunk audio is empty")
		}
		// Nothing else may have been requested before the first chunk landed.
		rec.mu.Lock()
		defer rec.mu.Unlock()
		if len(rec.texts) != 1 {
			t.Errorf("chunks requested before first delivery: %v", rec.texts)
		}
	})
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if !firstDelivered {
		t.Fatal("onFirst was never called")
	}
	if len(res.Chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(res.Chunks))
	}
	if res.Audio.Empty() {
		t.Fatal("stitched audio is empty")
	}
	if res.TTFS <= 0 {
		t.Fatalf("ttfs not measured: %v", res.TTFS)
	}
	if rec.texts[0] != res.Chunks[0].Text {
		t.Fatalf("first synthesized chunk %q, want %q", rec.texts[0], res.Chunks[0].Text)
	}
}

func TestSpeakStitchesInPauses(t *testing.T) {
	mock := tts.NewMockSynth(24000)
	o := New(mock, Options{Seed: 1}, newLogger())
	res, err := o.Speak(context.Background(), "One sentence here. Another sentence there.", "", nil)
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	// Sentence boundaries owe pauses, so the whole is longer than the parts.
	sum := 0
	for _, c := range res.Chunks {
		buf, err := mock.Synthesize(context.Background(), tts.Request{Text: c.Text})
		if err != nil {
			t.Fatalf("mock synth: %v", err)
		}
		sum += buf.Len()
	}
	if res.Audio.Len() <= sum {
		t.Fatalf("stitched length %d should exceed chunk sum %d", res.Audio.Len(), sum)
	}
}

func TestSpeakChunkFailurePropagates(t *testing.T) {
	mock := tts.NewMockSynth(24000)
	o := New(&failingSynth{Synthesizer: mock, failOn: "is a test."}, Options{Seed: 1}, newLogger())
	_, err := o.Speak(context.Background(), "Hello! This is a test.", "", nil)
	if err == nil {
		t.Fatal("expected chunk failure to propagate")
	}
}

func TestSpeakBlankTextFails(t *testing.T) {
	o := New(tts.NewMockSynth(24000), Options{}, newLogger())
	if _, err := o.Speak(context.Background(), "   ", "", nil); err == nil {
		t.Fatal("expected error for blank text")
	}
}

func TestSpeakReproducibleWithSeed(t *testing.T) {
	text := "First sentence over here. Second sentence over there. And a third one follows."
	a, err := New(tts.NewMockSynth(24000), Options{Seed: 99}, newLogger()).Speak(context.Background(), text, "", nil)
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	b, err := New(tts.NewMockSynth(24000), Options{Seed: 99}, newLogger()).Speak(context.Background(), text, "", nil)
	if err != nil {
		t.Fatalf("speak: %v", err)
	}
	if a.Audio.Len() != b.Audio.Len() {
		t.Fatalf("lengths differ: %d != %d", a.Audio.Len(), b.Audio.Len())
	}
	for i := range a.Audio.Samples {
		if a.Audio.Samples[i] != b.Audio.Samples[i] {
			t.Fatalf("sample %d differs under identical seed", i)
		}
	}
}

func TestSpeakCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := New(tts.NewMockSynth(24000), Options{Seed: 1}, newLogger())
	if _, err := o.Speak(ctx, "Hello there world.", "", nil); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

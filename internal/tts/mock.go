package tts

import (
	"context"
	"math"
	"strings"

	"github.com/powerfulmoves/archon-tts/internal/audio"
	"github.com/powerfulmoves/archon-tts/internal/prosody"
)

type mockSynth struct {
	sampleRate int
}

// NewMockSynth returns a deterministic synthesizer for tests and mock mode:
// a quiet tone whose duration tracks the syllable count of the text, so
// chunk ordering and stitching behave like they would with real speech.
func NewMockSynth(sampleRate int) Synthesizer {
	return &mockSynth{sampleRate: sampleRate}
}

func (m *mockSynth) SampleRate() int { return m.sampleRate }

func (m *mockSynth) Synthesize(ctx context.Context, req Request) (audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return audio.Buffer{}, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return audio.Buffer{}, ErrEmptyAudio
	}

	// Roughly 150ms of audio per syllable.
	syllables := prosody.CountSyllables(req.Text)
	if syllables < 1 {
		syllables = 1
	}
	n := m.sampleRate * syllables * 150 / 1000

	buf := audio.Buffer{Samples: make([]float64, n), Rate: m.sampleRate}
	for i := range buf.Samples {
		buf.Samples[i] = 0.2 * math.Sin(2*math.Pi*220*float64(i)/float64(m.sampleRate))
	}
	return buf, nil
}

package tts

import (
	"context"
	"errors"

	"github.com/powerfulmoves/archon-tts/internal/audio"
)

// Request contains parameters to synthesize one prosodic chunk.
type Request struct {
	Text  string
	Voice string
}

// ErrEmptyAudio is returned when a backend produces no samples. Zero-length
// chunk audio is a hard failure: silently substituting silence would insert
// gaps the prosody layer never asked for.
var ErrEmptyAudio = errors.New("tts: backend produced empty audio")

// Synthesizer is the contract any TTS backend must satisfy to plug in. One
// call, one chunk, one buffer at the backend's fixed sample rate. Failure is
// reported, never an empty or garbled buffer.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (audio.Buffer, error)
	SampleRate() int
}

package audio

import (
	"encoding/binary"
	"math"
)

// Buffer holds mono audio as float64 samples normalized to [-1, 1] together
// with its sample rate. Stitching operations treat buffers as immutable
// inputs and allocate a fresh output instead of aliasing.
type Buffer struct {
	Samples []float64
	Rate    int
}

func (b Buffer) Len() int { return len(b.Samples) }

func (b Buffer) Empty() bool { return len(b.Samples) == 0 }

// DurationMS returns the playback duration in milliseconds.
func (b Buffer) DurationMS() float64 {
	if b.Rate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.Rate) * 1000
}

// Clone returns a deep copy.
func (b Buffer) Clone() Buffer {
	out := Buffer{Samples: make([]float64, len(b.Samples)), Rate: b.Rate}
	copy(out.Samples, b.Samples)
	return out
}

// FromPCM16 decodes little-endian signed 16-bit PCM into a normalized buffer.
func FromPCM16(pcm []byte, rate int) Buffer {
	samples := make([]float64, len(pcm)/2)
	for i := range samples {
		samples[i] = float64(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / 32768.0
	}
	return Buffer{Samples: samples, Rate: rate}
}

// PCM16 encodes the buffer as little-endian signed 16-bit PCM, clipping
// anything outside [-1, 1].
func (b Buffer) PCM16() []byte {
	out := make([]byte, len(b.Samples)*2)
	for i, s := range b.Samples {
		v := int16(math.Round(clamp(s, -1, 1) * 32767))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

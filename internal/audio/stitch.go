package audio

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/powerfulmoves/archon-tts/internal/prosody"
)

// Timing constants for seam construction. Fades are deliberately partial
// (0.85→1.0 in, 1.0→0.9 out) so seams stay inaudible without a volume dip.
const (
	DefaultFadeMS          = 12.0
	DefaultCrossfadeMS     = 10.0
	DefaultBreathMS        = 80.0
	DefaultBreathIntensity = 0.015

	breathCutoffHz = 600.0
	maxBreathMS    = 90.0
)

// Silence returns a zero-filled buffer of the requested duration.
func Silence(durationMS float64, rate int) Buffer {
	n := int(math.Round(float64(rate) * durationMS / 1000))
	if n < 0 {
		n = 0
	}
	return Buffer{Samples: make([]float64, n), Rate: rate}
}

// BreathSound synthesizes a short inhalation: low-pass filtered white noise
// under an attack-decay envelope, scaled so no sample exceeds intensity.
func BreathSound(durationMS, intensity float64, rate int, rng *rand.Rand) Buffer {
	n := int(math.Round(float64(rate) * durationMS / 1000))
	if n <= 0 {
		return Buffer{Rate: rate}
	}

	noise := make([]float64, n)
	for i := range noise {
		noise[i] = rng.Float64()*2 - 1
	}
	noise = lowPass(noise, breathCutoffHz, rate)

	// Normalize before applying the envelope so the filter's gain loss
	// cannot make the cap do the scaling for us.
	peak := 0.0
	for _, s := range noise {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		peak = 1
	}

	attack := n / 5
	out := Buffer{Samples: make([]float64, n), Rate: rate}
	for i, s := range noise {
		var env float64
		if i < attack {
			env = float64(i) / float64(attack)
		} else {
			progress := float64(i-attack) / float64(n-attack)
			env = 1 - 0.7*progress
		}
		out.Samples[i] = clamp(s/peak*env*intensity, -intensity, intensity)
	}
	return out
}

// SmoothTransition applies partial linear fades to the edges of a buffer.
// Returns the input untouched when it is too short for both fades.
func SmoothTransition(b Buffer, fadeIn, fadeOut bool, fadeMS float64) Buffer {
	fade := int(math.Round(float64(b.Rate) * fadeMS / 1000))
	if fade <= 0 || len(b.Samples) < 2*fade {
		return b
	}
	out := b.Clone()
	if fadeIn {
		for i := 0; i < fade; i++ {
			gain := 0.85 + 0.15*float64(i)/float64(fade)
			out.Samples[i] *= gain
		}
	}
	if fadeOut {
		for i := 0; i < fade; i++ {
			gain := 1.0 - 0.1*float64(i)/float64(fade)
			out.Samples[len(out.Samples)-fade+i] *= gain
		}
	}
	return out
}

// Crossfade overlaps the tail of a with the head of b using complementary
// linear weights. Short or empty inputs degrade to plain concatenation.
func Crossfade(a, b Buffer, crossfadeMS float64) Buffer {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	rate := a.Rate
	fade := int(math.Round(float64(rate) * crossfadeMS / 1000))
	if fade <= 0 || len(a.Samples) < fade || len(b.Samples) < fade {
		return concat(a, b)
	}

	out := Buffer{Samples: make([]float64, len(a.Samples)+len(b.Samples)-fade), Rate: rate}
	copy(out.Samples, a.Samples[:len(a.Samples)-fade])
	offset := len(a.Samples) - fade
	for i := 0; i < fade; i++ {
		w := float64(i) / float64(fade)
		out.Samples[offset+i] = a.Samples[offset+i]*(1-w) + b.Samples[i]*w
	}
	copy(out.Samples[len(a.Samples):], b.Samples[fade:])
	return out
}

// ProsodicStitch joins two chunk buffers with the transition appropriate for
// the boundary between them: a crossfade when no pause is owed, otherwise a
// faded seam around silence that may begin with a breath. Randomness comes
// only from the supplied rng, so a fixed seed reproduces breath placement.
func ProsodicStitch(a, b Buffer, boundary prosody.BoundaryType, rng *rand.Rand) Buffer {
	pc := prosody.PauseFor(boundary)
	if pc.PauseMS == 0 {
		return Crossfade(a, b, DefaultCrossfadeMS)
	}
	rate := a.Rate
	if rate == 0 {
		rate = b.Rate
	}

	parts := []Buffer{SmoothTransition(a, false, true, DefaultFadeMS)}
	if pc.CanBreath && rng.Float64() < pc.BreathProbability {
		breathMS := math.Min(pc.PauseMS*0.6, maxBreathMS)
		parts = append(parts,
			BreathSound(breathMS, DefaultBreathIntensity, rate, rng),
			Silence(pc.PauseMS-breathMS, rate))
	} else {
		parts = append(parts, Silence(pc.PauseMS, rate))
	}
	parts = append(parts, SmoothTransition(b, true, false, DefaultFadeMS))
	return concat(parts...)
}

// StitchChunks folds ProsodicStitch over consecutive buffer pairs. One rng is
// seeded per call, not per seam, so a fixed seed makes the entire output
// byte-identical across runs. Boundary count must be exactly one less than
// the buffer count.
func StitchChunks(buffers []Buffer, boundaries []prosody.BoundaryType, seed int64) (Buffer, error) {
	if len(buffers) == 0 {
		if len(boundaries) != 0 {
			return Buffer{}, fmt.Errorf("audio: 0 buffers require 0 boundaries, got %d", len(boundaries))
		}
		return Buffer{}, nil
	}
	if len(boundaries) != len(buffers)-1 {
		return Buffer{}, fmt.Errorf("audio: %d buffers require %d boundaries, got %d",
			len(buffers), len(buffers)-1, len(boundaries))
	}
	if len(buffers) == 1 {
		return buffers[0], nil
	}

	rng := rand.New(rand.NewSource(seed))
	out := buffers[0]
	for i := 1; i < len(buffers); i++ {
		out = ProsodicStitch(out, buffers[i], boundaries[i-1], rng)
	}
	return out, nil
}

func concat(parts ...Buffer) Buffer {
	total := 0
	rate := 0
	for _, p := range parts {
		total += len(p.Samples)
		if rate == 0 {
			rate = p.Rate
		}
	}
	out := Buffer{Samples: make([]float64, 0, total), Rate: rate}
	for _, p := range parts {
		out.Samples = append(out.Samples, p.Samples...)
	}
	return out
}

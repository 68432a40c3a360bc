package audio

import "math"

// FilterKind selects the breath-noise low-pass implementation.
type FilterKind int

const (
	// FilterButterworth is a 2nd-order Butterworth biquad applied forward
	// and backward for zero phase shift. The default.
	FilterButterworth FilterKind = iota
	// FilterMovingAverage is the documented fallback: a moving-average
	// smoothing kernel sized max(30, n/20). Audibly duller than the
	// Butterworth filter but never wrong, only degraded.
	FilterMovingAverage
)

// breathFilter is resolved once; callers do not pick a filter per call.
var breathFilter = FilterButterworth

// UseFallbackFilter switches breath synthesis to the moving-average
// smoother. Called once at startup when configuration asks for it.
func UseFallbackFilter(fallback bool) {
	if fallback {
		breathFilter = FilterMovingAverage
	} else {
		breathFilter = FilterButterworth
	}
}

// lowPass smooths noise with whichever filter is active.
func lowPass(samples []float64, cutoffHz float64, rate int) []float64 {
	if breathFilter == FilterMovingAverage {
		window := len(samples) / 20
		if window < 30 {
			window = 30
		}
		return movingAverage(samples, window)
	}
	return butterworthZeroPhase(samples, cutoffHz, rate)
}

// butterworthZeroPhase runs a 2nd-order Butterworth low-pass over the signal
// twice, forward then reversed, cancelling the phase delay of a single pass.
func butterworthZeroPhase(samples []float64, cutoffHz float64, rate int) []float64 {
	if len(samples) == 0 || rate <= 0 || cutoffHz <= 0 {
		return append([]float64(nil), samples...)
	}
	b0, b1, b2, a1, a2 := butterworthCoeffs(cutoffHz, rate)

	forward := biquad(samples, b0, b1, b2, a1, a2)
	reverse(forward)
	backward := biquad(forward, b0, b1, b2, a1, a2)
	reverse(backward)
	return backward
}

// butterworthCoeffs derives biquad coefficients via the bilinear transform.
func butterworthCoeffs(cutoffHz float64, rate int) (b0, b1, b2, a1, a2 float64) {
	wc := math.Tan(math.Pi * cutoffHz / float64(rate))
	k1 := math.Sqrt2 * wc
	k2 := wc * wc
	norm := 1 / (1 + k1 + k2)

	b0 = k2 * norm
	b1 = 2 * b0
	b2 = b0
	a1 = 2 * (k2 - 1) * norm
	a2 = (1 - k1 + k2) * norm
	return
}

func biquad(samples []float64, b0, b1, b2, a1, a2 float64) []float64 {
	out := make([]float64, len(samples))
	var x1, x2, y1, y2 float64
	for i, x := range samples {
		y := b0*x + b1*x1 + b2*x2 - a1*y1 - a2*y2
		out[i] = y
		x2, x1 = x1, x
		y2, y1 = y1, y
	}
	return out
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func movingAverage(samples []float64, window int) []float64 {
	if window <= 1 || len(samples) == 0 {
		return append([]float64(nil), samples...)
	}
	out := make([]float64, len(samples))
	var sum float64
	for i, s := range samples {
		sum += s
		if i >= window {
			sum -= samples[i-window]
			out[i] = sum / float64(window)
		} else {
			out[i] = sum / float64(i+1)
		}
	}
	return out
}

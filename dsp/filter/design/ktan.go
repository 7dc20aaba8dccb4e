package design

import (
	"math"

	"github.com/cwbudde/algo-channel/dsp/filter/biquad"
)

// KTanLowpass designs a lowpass biquad from a normalized corner
// frequency (cycles per sample, i.e. freq/sampleRate) using the
// K = tan(pi*f) prewarp form. The tone and shelving stages recompute
// these coefficients per parameter change, so the input is taken
// already normalized.
func KTanLowpass(normFreq, q float64) biquad.Coefficients {
	if normFreq <= 0 || normFreq >= 0.5 || q <= 0 {
		return biquad.Coefficients{}
	}

	k := math.Tan(math.Pi * normFreq)
	norm := 1 / (1 + k/q + k*k)

	b0 := k * k * norm

	return biquad.Coefficients{
		B0: b0,
		B1: 2 * b0,
		B2: b0,
		A1: 2 * (k*k - 1) * norm,
		A2: (1 - k/q + k*k) * norm,
	}
}

// KTanBandpass designs a constant-skirt bandpass biquad from a
// normalized center frequency using the K = tan(pi*f) prewarp form.
// The tape head-bump resonators are built from this shape.
func KTanBandpass(normFreq, q float64) biquad.Coefficients {
	if normFreq <= 0 || normFreq >= 0.5 || q <= 0 {
		return biquad.Coefficients{}
	}

	k := math.Tan(math.Pi * normFreq)
	norm := 1 / (1 + k/q + k*k)

	b0 := k / q * norm

	return biquad.Coefficients{
		B0: b0,
		B1: 0,
		B2: -b0,
		A1: 2 * (k*k - 1) * norm,
		A2: (1 - k/q + k*k) * norm,
	}
}

package design

import (
	"math"

	"github.com/cwbudde/algo-channel/dsp/filter/biquad"
)

// MatchedHighpass designs a second-order highpass biquad using the
// matched-Z transform instead of the bilinear transform. Poles of the
// analog prototype H(s) = s^2 / (s^2 + s*w0/Q + w0^2) are mapped
// directly via z = exp(sT), and both zeros sit at z = 1 for exact DC
// rejection. The response is normalized to unity gain at Nyquist.
//
// Unlike the bilinear designs, the matched-Z mapping does not warp
// the frequency axis near Nyquist, so the cutoff stays accurate even
// for corner frequencies in the top octave.
func MatchedHighpass(freq, q, sampleRate float64) biquad.Coefficients {
	if _, ok := normalizedW0(freq, sampleRate); !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	w0 := 2 * math.Pi * freq

	alpha := w0 / (2 * q)
	discriminant := alpha*alpha - w0*w0

	poleReal := -alpha
	poleImag := 0.0
	if discriminant < 0 {
		// Complex pole pair, the usual underdamped case.
		poleImag = math.Sqrt(-discriminant)
	}

	t := 1 / sampleRate
	expRT := math.Exp(poleReal * t)
	re := expRT * math.Cos(poleImag*t)
	im := expRT * math.Sin(poleImag*t)

	// Numerator (1 - z^-1)^2, denominator from the mapped pole pair.
	b0, b1, b2 := 1.0, -2.0, 1.0
	a1 := -2 * re
	a2 := re*re + im*im

	gainNyquist := (b0 - b1 + b2) / (1 - a1 + a2)

	return biquad.Coefficients{
		B0: b0 / gainNyquist,
		B1: b1 / gainNyquist,
		B2: b2 / gainNyquist,
		A1: a1,
		A2: a2,
	}
}

// Package window provides the analysis windows used by the
// measurement tools.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function. The zero value is Hann, the
// general-purpose default.
type Type int

const (
	TypeHann Type = iota
	TypeRectangular
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris
	TypeFlatTop
)

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeHamming:
		return "hamming"
	case TypeBlackman:
		return "blackman"
	case TypeBlackmanHarris:
		return "blackman-harris"
	case TypeFlatTop:
		return "flattop"
	}
	return "unknown"
}

// cosine-sum coefficients, symmetric form
var windowTerms = map[Type][]float64{
	TypeRectangular:    {1},
	TypeHann:           {0.5, -0.5},
	TypeHamming:        {0.54, -0.46},
	TypeBlackman:       {0.42, -0.5, 0.08},
	TypeBlackmanHarris: {0.35875, -0.48829, 0.14128, -0.01168},
	TypeFlatTop:        {0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368},
}

// FirstMinimumBins returns the distance in bins from the main lobe
// peak to its first minimum, which bounds how far a tone's energy
// leaks into neighboring bins.
func FirstMinimumBins(t Type) int {
	switch t {
	case TypeRectangular:
		return 1
	case TypeHann, TypeHamming:
		return 2
	case TypeBlackman:
		return 3
	case TypeBlackmanHarris:
		return 4
	case TypeFlatTop:
		return 5
	}
	return 2
}

// Generate returns symmetric window coefficients of the given length.
// Unknown types fall back to Hann.
func Generate(t Type, length int) []float64 {
	if length <= 0 {
		return nil
	}

	terms, ok := windowTerms[t]
	if !ok {
		terms = windowTerms[TypeHann]
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out
	}

	for i := range out {
		x := float64(i) / float64(length-1)
		var w float64
		for k, a := range terms {
			w += a * math.Cos(2*math.Pi*float64(k)*x)
		}
		out[i] = w
	}

	return out
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64) {
	if len(buf) == 0 {
		return
	}
	vecmath.MulBlockInPlace(buf, Generate(t, len(buf)))
}

// CoherentGain returns sum(w)/N, the window's DC response. Spectral
// magnitudes divide by it to recover true tone amplitudes.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	var sum float64
	for _, w := range coeffs {
		sum += w
	}
	return sum / float64(len(coeffs))
}

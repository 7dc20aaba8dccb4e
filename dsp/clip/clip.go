package clip

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-channel/dsp/core"
)

const (
	maxSpacing = 16

	goldenRatioConj = 0.618033988749894
	goldenRatioSq   = 0.381966011250105
)

// spacingFor maps the sample rate to the lookahead length of the
// clipper buffers: one 44.1 kHz sample's worth, clamped to the buffer.
func spacingFor(sampleRate float64) int {
	return core.ClampInt(int(math.Floor(sampleRate/44100)), 1, maxSpacing)
}

func validateSampleRate(name string, sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%s sample rate must be positive and finite: %f", name, sampleRate)
	}
	return nil
}

// Hard is a lookahead hard clipper with golden-ratio slew limiting.
// Sample-to-sample steps are capped at 0.618, and samples past the
// 1.618 threshold are folded back toward the previous output rather
// than flattened, which keeps clipped transients from buzzing.
type Hard struct {
	spacing int

	lastSample   float64
	intermediate [maxSpacing]float64
	wasPosClip   bool
	wasNegClip   bool
}

// NewHard creates a hard clipper. Sample rate must be positive and finite.
func NewHard(sampleRate float64) (*Hard, error) {
	if err := validateSampleRate("hard clipper", sampleRate); err != nil {
		return nil, err
	}
	return &Hard{spacing: spacingFor(sampleRate)}, nil
}

// ProcessSample clips one sample. Output is delayed by the lookahead
// spacing (one 44.1 kHz sample's worth).
func (h *Hard) ProcessSample(x float64) float64 {
	x = core.Clamp(x, -4, 4)

	if x-h.lastSample > goldenRatioConj {
		x = h.lastSample + goldenRatioConj
	}
	if x-h.lastSample < -goldenRatioConj {
		x = h.lastSample - goldenRatioConj
	}

	if h.wasPosClip {
		if x < h.lastSample {
			h.lastSample = 1 + x*goldenRatioSq
		} else {
			h.lastSample = goldenRatioConj + h.lastSample*goldenRatioConj
		}
	}
	h.wasPosClip = false
	if x > 1+goldenRatioConj {
		h.wasPosClip = true
		x = 1 + h.lastSample*goldenRatioSq
	}

	if h.wasNegClip {
		if x > h.lastSample {
			h.lastSample = -1 + x*goldenRatioSq
		} else {
			h.lastSample = -goldenRatioConj + h.lastSample*goldenRatioConj
		}
	}
	h.wasNegClip = false
	if x < -(1 + goldenRatioConj) {
		h.wasNegClip = true
		x = -1 + h.lastSample*goldenRatioSq
	}

	h.intermediate[h.spacing-1] = x
	out := h.lastSample
	for i := h.spacing - 1; i > 0; i-- {
		h.intermediate[i-1] = h.intermediate[i]
	}
	h.lastSample = h.intermediate[0]

	return out
}

// Reset clears the clipper state and lookahead buffer.
func (h *Hard) Reset() {
	h.lastSample = 0
	h.intermediate = [maxSpacing]float64{}
	h.wasPosClip = false
	h.wasNegClip = false
}

// Soft is a sine-law soft clipper with adaptive smoothing: the hotter
// the incoming sample, the more of the previous output is blended in,
// rounding off what would otherwise be a flat top. Output is scaled
// by 0.9549925859 (-0.4 dB) to line up with the hard clipper ceiling.
type Soft struct {
	spacing int
	seed    uint32

	lastSample   float64
	intermediate [maxSpacing]float64
	rng          *core.Xorshift32
}

// NewSoft creates a soft clipper. Sample rate must be positive and finite.
func NewSoft(sampleRate float64) (*Soft, error) {
	if err := validateSampleRate("soft clipper", sampleRate); err != nil {
		return nil, err
	}
	return &Soft{
		spacing: spacingFor(sampleRate),
		rng:     core.NewXorshift32(0),
	}, nil
}

// Reseed replaces the dither generator seed. Reset restarts the
// sequence from this seed.
func (s *Soft) Reseed(seed uint32) {
	s.seed = seed
	s.rng.Reseed(seed)
}

// ProcessSample clips one sample. Output is delayed by the lookahead
// spacing (one 44.1 kHz sample's worth).
func (s *Soft) ProcessSample(x float64) float64 {
	x = s.rng.DenormalGuard(x)

	softSpeed := math.Abs(x)
	if softSpeed < 1 {
		softSpeed = 1
	} else {
		softSpeed = 1 / softSpeed
	}

	x = core.Clamp(x, -1.57079633, 1.57079633)
	x = math.Sin(x) * 0.9549925859

	x = x*softSpeed + s.lastSample*(1-softSpeed)

	s.intermediate[s.spacing-1] = x
	out := s.lastSample
	for i := s.spacing - 1; i > 0; i-- {
		s.intermediate[i-1] = s.intermediate[i]
	}
	s.lastSample = s.intermediate[0]

	s.rng.Next()

	return out
}

// Reset clears the clipper state and lookahead buffer.
func (s *Soft) Reset() {
	s.lastSample = 0
	s.intermediate = [maxSpacing]float64{}
	s.rng.Reseed(s.seed)
}

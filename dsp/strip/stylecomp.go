package strip

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-channel/dsp/core"
	"github.com/cwbudde/algo-channel/dsp/dynamics"
)

// StyleCompAlgorithm selects the character compressor model.
type StyleCompAlgorithm int

const (
	// StyleWarm is the optical compressor at 4:1, musical and
	// program dependent.
	StyleWarm StyleCompAlgorithm = iota
	// StylePunch is the digital compressor at 20:1 with 24 ms attack
	// and 10 ms release, close to a limiter.
	StylePunch
)

// styleThresholdDB is fixed so the character stays consistent; level
// into the compressor is set with the comp-in gain instead.
const styleThresholdDB = -10.0

// StyleComp is the character compression section. Gain staging goes
// comp-in up, compress, comp-in back down, then makeup, so the
// compressor can be driven hard without changing the output level.
type StyleComp struct {
	bypass Bypass

	warm  *dynamics.Optical
	punch *dynamics.Versatile

	algorithm StyleCompAlgorithm

	compInDB   float64
	compInGain float64
	makeupDB   float64
	makeupGain float64
	mixAmount  float64
}

// NewStyleComp creates the style compressor section in Warm mode with
// neutral staging and a fully wet mix.
func NewStyleComp(sampleRate float64) (*StyleComp, error) {
	warm, err := dynamics.NewOptical(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("style comp: %w", err)
	}
	if err := warm.SetThreshold(styleThresholdDB); err != nil {
		return nil, fmt.Errorf("style comp: %w", err)
	}

	punch, err := dynamics.NewVersatile(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("style comp: %w", err)
	}
	if err := punch.SetParameters(styleThresholdDB, 20, 24, 10); err != nil {
		return nil, fmt.Errorf("style comp: %w", err)
	}

	return &StyleComp{
		bypass:     NewBypass(sampleRate),
		warm:       warm,
		punch:      punch,
		compInGain: 1,
		makeupGain: 1,
		mixAmount:  1,
	}, nil
}

// SetAlgorithm selects the compressor model.
func (s *StyleComp) SetAlgorithm(a StyleCompAlgorithm) {
	s.algorithm = a
}

// SetCompIn sets the drive into the compressor in decibels, clamped
// to [-18, +60]. It is compensated after compression.
func (s *StyleComp) SetCompIn(dB float64) {
	s.compInDB = core.Clamp(dB, -18, 60)
	s.compInGain = math.Pow(10, s.compInDB/20)
}

// SetMakeup sets the makeup gain in decibels, clamped to [-6, +24].
func (s *StyleComp) SetMakeup(dB float64) {
	s.makeupDB = core.Clamp(dB, -6, 24)
	s.makeupGain = math.Pow(10, s.makeupDB/20)
}

// SetMix sets the dry/wet mix in percent, clamped to [0, 100].
func (s *StyleComp) SetMix(percent float64) {
	s.mixAmount = core.Clamp(percent, 0, 100) / 100
}

// GainReductionDB returns the active compressor's metered gain
// reduction in decibels.
func (s *StyleComp) GainReductionDB() float64 {
	if s.algorithm == StyleWarm {
		return s.warm.GainReductionDB()
	}
	return s.punch.GainReductionDB()
}

// SetBypassed sets the bypass target.
func (s *StyleComp) SetBypassed(bypassed bool) { s.bypass.SetBypassed(bypassed) }

// Bypassed reports the bypass target.
func (s *StyleComp) Bypassed() bool { return s.bypass.Bypassed() }

// Process runs one sample through the section.
func (s *StyleComp) Process(input float64) float64 {
	driven := input * s.compInGain

	var compressed float64
	if s.algorithm == StyleWarm {
		compressed = s.warm.ProcessSample(driven)
	} else {
		compressed = s.punch.ProcessSample(driven)
	}
	compressed /= s.compInGain

	wet := compressed * s.makeupGain
	wet = input*(1-s.mixAmount) + wet*s.mixAmount

	return s.bypass.Blend(input, wet)
}

// Reset clears both compressor states.
func (s *StyleComp) Reset() {
	s.warm.Reset()
	s.punch.Reset()
}

package console

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-channel/dsp/core"
)

// Voicing selects which desk family the Console stage emulates. Each
// voicing pairs a coupling-capacitor highpass amount with a slew
// threshold: warmer desks couple tighter and round transients harder.
type Voicing int

const (
	// VoicingEssex is warm and smooth, with the tightest coupling
	// highpass and the most transient rounding.
	VoicingEssex Voicing = iota
	// VoicingUSA is punchy and keeps the most low end, with a medium
	// slew threshold.
	VoicingUSA
	// VoicingOxford is tight and clean, with the least rounding.
	VoicingOxford
)

// String returns the voicing name.
func (v Voicing) String() string {
	switch v {
	case VoicingEssex:
		return "essex"
	case VoicingUSA:
		return "usa"
	case VoicingOxford:
		return "oxford"
	default:
		return fmt.Sprintf("voicing(%d)", int(v))
	}
}

type voicingParams struct {
	iirAmount float64
	threshold float64
}

var voicings = map[Voicing]voicingParams{
	VoicingEssex:  {iirAmount: 0.005832, threshold: 0.33362176},
	VoicingUSA:    {iirAmount: 0.004096, threshold: 0.59969536},
	VoicingOxford: {iirAmount: 0.004913, threshold: 0.84934656},
}

// The desk's internal drive is fixed at 100%, which puts the spiral
// shaper at full density and leaves these two derived constants.
const (
	consoleNonLin = 4.0
	consoleOutput = 0.83
)

// Console emulates an analog desk channel in four stages: an adaptive
// coupling highpass whose corner moves with signal level (dielectric
// absorption), a spiral sine saturator, a golden-ratio weighted slew
// limiter, and exponent-scaled TPDF dither on the way out. The
// coupling filter alternates between two state banks every sample.
type Console struct {
	sampleRate float64
	voicing    Voicing
	seed       uint32

	iirAmount      float64
	threshold      float64
	localIirAmount float64

	iirBank     [2]float64
	flip        bool
	lastSampleA float64
	lastSampleB float64
	lastSampleC float64

	rng *core.Xorshift32
}

// NewConsole creates a Console stage with the Oxford voicing. A zero
// seed selects the default. Sample rate must be positive and finite.
func NewConsole(sampleRate float64, seed uint32) (*Console, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("console sample rate must be positive and finite: %f", sampleRate)
	}

	c := &Console{
		sampleRate: sampleRate,
		seed:       seed,
		rng:        core.NewXorshift32(seed),
	}

	if err := c.SetVoicing(VoicingOxford); err != nil {
		return nil, err
	}
	return c, nil
}

// SetVoicing selects the desk family.
func (c *Console) SetVoicing(v Voicing) error {
	p, ok := voicings[v]
	if !ok {
		return fmt.Errorf("unknown console voicing: %d", int(v))
	}

	c.voicing = v
	c.iirAmount = p.iirAmount
	c.threshold = p.threshold
	c.localIirAmount = p.iirAmount / (c.sampleRate / 44100)
	return nil
}

// Voicing returns the current desk family.
func (c *Console) Voicing() Voicing { return c.voicing }

// ProcessSample runs one sample through the desk channel.
func (c *Console) ProcessSample(x float64) float64 {
	x = c.rng.DenormalGuard(x)

	// Coupling highpass: the corner scales with instantaneous level,
	// modeling dielectric absorption in the coupling capacitor.
	dielectricScale := math.Abs(2 - (x+consoleNonLin)/consoleNonLin)

	b := 0
	if c.flip {
		b = 1
	}
	amount := c.localIirAmount * dielectricScale
	c.iirBank[b] = c.iirBank[b]*(1-amount) + x*amount
	x -= c.iirBank[b]

	x = core.Clamp(x, -1, 1)

	// Spiral saturation at full density.
	x *= 1.2533141373155
	absX := math.Abs(x)
	if absX != 0 {
		x = math.Sin(x*absX) / absX
	}

	// Weighted slew limiter over the last three samples.
	clamp := (c.lastSampleB - c.lastSampleC) * 0.381966011250105
	clamp -= (c.lastSampleA - c.lastSampleB) * 0.6180339887498948482045
	clamp += x - c.lastSampleA

	c.lastSampleC = c.lastSampleB
	c.lastSampleB = c.lastSampleA
	c.lastSampleA = x

	if clamp > c.threshold {
		x = c.lastSampleB + c.threshold
	}
	if -clamp > c.threshold {
		x = c.lastSampleB - c.threshold
	}

	c.lastSampleA = c.lastSampleA*0.381966011250105 + x*0.6180339887498948482045

	c.flip = !c.flip

	if consoleOutput < 1 {
		x *= consoleOutput
	}

	return c.rng.TPDF(x)
}

// Reset clears the filter banks and slew history and reseeds the
// dither generator, so a reset instance replays identically.
func (c *Console) Reset() {
	c.iirBank = [2]float64{}
	c.flip = false
	c.lastSampleA = 0
	c.lastSampleB = 0
	c.lastSampleC = 0
	c.rng.Reseed(c.seed)
}

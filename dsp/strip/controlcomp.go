package strip

import (
	"fmt"

	"github.com/cwbudde/algo-channel/dsp/core"
	"github.com/cwbudde/algo-channel/dsp/dynamics"
)

// ARMode selects the attack/release preset of the control compressor.
type ARMode int

const (
	// ARFast is 0.2 ms attack, 15 ms release.
	ARFast ARMode = iota
	// ARNormal is 20 ms attack, 70 ms release.
	ARNormal
)

// ControlComp is the clean peak-control compressor: fixed 4:1 ratio,
// adjustable threshold, two attack/release presets.
type ControlComp struct {
	bypass Bypass

	comp        *dynamics.Versatile
	thresholdDB float64
	arMode      ARMode
}

// NewControlComp creates the control compressor section with the
// threshold at -10 dB and the Normal preset.
func NewControlComp(sampleRate float64) (*ControlComp, error) {
	comp, err := dynamics.NewVersatile(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("control comp: %w", err)
	}

	c := &ControlComp{
		bypass:      NewBypass(sampleRate),
		comp:        comp,
		thresholdDB: -10,
		arMode:      ARNormal,
	}
	c.updateParameters()

	return c, nil
}

// SetThreshold sets the threshold in decibels, clamped to
// [-30, -0.1].
func (c *ControlComp) SetThreshold(dB float64) {
	c.thresholdDB = core.Clamp(dB, -30, -0.1)
	c.updateParameters()
}

// SetARMode selects the attack/release preset.
func (c *ControlComp) SetARMode(mode ARMode) {
	c.arMode = mode
	c.updateParameters()
}

// GainReductionDB returns the metered gain reduction in decibels.
func (c *ControlComp) GainReductionDB() float64 {
	return c.comp.GainReductionDB()
}

func (c *ControlComp) updateParameters() {
	attackMs, releaseMs := 20.0, 70.0
	if c.arMode == ARFast {
		attackMs, releaseMs = 0.2, 15.0
	}
	_ = c.comp.SetParameters(c.thresholdDB, 4, attackMs, releaseMs)
}

// SetBypassed sets the bypass target.
func (c *ControlComp) SetBypassed(bypassed bool) { c.bypass.SetBypassed(bypassed) }

// Bypassed reports the bypass target.
func (c *ControlComp) Bypassed() bool { return c.bypass.Bypassed() }

// Process runs one sample through the section.
func (c *ControlComp) Process(input float64) float64 {
	return c.bypass.Blend(input, c.comp.ProcessSample(input))
}

// Reset clears the compressor state.
func (c *ControlComp) Reset() {
	c.comp.Reset()
}

package strip

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-channel/dsp/core"
)

// Volume is the final output gain section.
type Volume struct {
	bypass Bypass

	gainDB     float64
	gainLinear float64
}

// NewVolume creates the volume section at unity gain.
func NewVolume(sampleRate float64) *Volume {
	return &Volume{
		bypass:     NewBypass(sampleRate),
		gainLinear: 1,
	}
}

// SetGain sets the output gain in decibels, clamped to [-60, +12].
func (v *Volume) SetGain(dB float64) {
	v.gainDB = core.Clamp(dB, -60, 12)
	v.gainLinear = math.Pow(10, v.gainDB/20)
}

// Gain returns the output gain in decibels.
func (v *Volume) Gain() float64 {
	return v.gainDB
}

// GainLinear returns the output gain as a linear factor.
func (v *Volume) GainLinear() float64 {
	return v.gainLinear
}

// SetBypassed sets the bypass target.
func (v *Volume) SetBypassed(bypassed bool) { v.bypass.SetBypassed(bypassed) }

// Bypassed reports the bypass target.
func (v *Volume) Bypassed() bool { return v.bypass.Bypassed() }

// Process runs one sample through the section.
func (v *Volume) Process(input float64) float64 {
	return v.bypass.Blend(input, input*v.gainLinear)
}

// ProcessBlock applies the gain to samples in place. Outside of a
// bypass crossfade the whole block is scaled at once.
func (v *Volume) ProcessBlock(samples []float64) {
	if v.bypass.Settled() {
		if !v.bypass.Bypassed() {
			vecmath.ScaleBlockInPlace(samples, v.gainLinear)
		}
		return
	}
	for i, s := range samples {
		samples[i] = v.Process(s)
	}
}

// Reset is a no-op; the section carries no signal state.
func (v *Volume) Reset() {}

package strip

import (
	"fmt"

	"github.com/cwbudde/algo-channel/dsp/core"
	"github.com/cwbudde/algo-channel/dsp/dynamics"
)

// LowDynamics is the below-threshold expander/lifter section.
type LowDynamics struct {
	bypass Bypass

	proc *dynamics.LowLevel
}

// NewLowDynamics creates the low dynamics section at its neutral
// settings (ratio zero, exact bypass).
func NewLowDynamics(sampleRate float64) (*LowDynamics, error) {
	proc, err := dynamics.NewLowLevel(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("low dynamics: %w", err)
	}

	return &LowDynamics{
		bypass: NewBypass(sampleRate),
		proc:   proc,
	}, nil
}

// SetThreshold sets the gating threshold in decibels, clamped to
// [-40, -3].
func (l *LowDynamics) SetThreshold(dB float64) {
	_ = l.proc.SetThreshold(core.Clamp(dB, -40, -3))
}

// SetRatio sets the amount control, clamped to [-10, +10]. Negative
// expands downward, positive lifts, zero bypasses exactly.
func (l *LowDynamics) SetRatio(ratio float64) {
	_ = l.proc.SetRatio(core.Clamp(ratio, -10, 10))
}

// SetFastMode switches the detector timing preset.
func (l *LowDynamics) SetFastMode(fast bool) {
	l.proc.SetFastMode(fast)
}

// SetMix sets the dry/wet mix in percent.
func (l *LowDynamics) SetMix(percent float64) {
	l.proc.SetMix(percent)
}

// GainReductionDB returns the current gain change in decibels,
// negative for expansion and positive for lift.
func (l *LowDynamics) GainReductionDB() float64 {
	return l.proc.GainReductionDB()
}

// SetBypassed sets the bypass target.
func (l *LowDynamics) SetBypassed(bypassed bool) { l.bypass.SetBypassed(bypassed) }

// Bypassed reports the bypass target.
func (l *LowDynamics) Bypassed() bool { return l.bypass.Bypassed() }

// Process runs one sample through the section.
func (l *LowDynamics) Process(input float64) float64 {
	return l.bypass.Blend(input, l.proc.ProcessSample(input))
}

// Reset clears the detector state.
func (l *LowDynamics) Reset() {
	l.proc.Reset()
}

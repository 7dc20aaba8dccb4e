package drive

import (
	"math"

	"github.com/cwbudde/algo-channel/dsp/core"
)

// Purest is a gentle sine waveshaper whose depth follows the signal
// itself: the wet amount for each sample is scaled by the average of
// the current shaped sample and the previous one, so low-level detail
// and opposite-polarity transitions pass through nearly untouched
// while sustained energy saturates.
type Purest struct {
	driveDB   float64
	gain      float64
	intensity float64

	previous float64
}

// NewPurest creates a Purest saturator at 0 dB drive.
func NewPurest() *Purest {
	p := &Purest{}
	p.gain, p.intensity = driveParams(0)
	return p
}

// SetDrive sets the drive in dB. Range: -18 to +18 dB.
func (p *Purest) SetDrive(dB float64) error {
	if err := validateDrive(dB); err != nil {
		return err
	}
	p.driveDB = dB
	p.gain, p.intensity = driveParams(dB)
	return nil
}

// Drive returns the drive in dB.
func (p *Purest) Drive() float64 { return p.driveDB }

// ProcessSample saturates one sample.
func (p *Purest) ProcessSample(x float64) float64 {
	if math.Abs(x) < core.DenormalEpsilon {
		x = 0
	}
	x *= p.gain

	dry := x
	shaped := math.Sin(x)

	// Apply factor tracks the previous shaped sample, letting highs
	// and fresh transients through at closer to unity.
	apply := (math.Abs(p.previous+shaped) / 2) * p.intensity

	out := dry*(1-apply) + shaped*apply
	p.previous = math.Sin(dry)

	return out
}

// Reset clears the previous-sample state.
func (p *Purest) Reset() {
	p.previous = 0
}

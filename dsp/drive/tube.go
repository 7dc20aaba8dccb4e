package drive

import (
	"math"

	"github.com/cwbudde/algo-channel/dsp/core"
)

// Tube is an asymmetric valve-style saturator. The shaper flattens the
// bottom and points the top of the waveform, runs a power-series
// soft-clipper whose order shrinks as drive rises, and finishes with a
// slew-dependent hysteresis stage and a hard ceiling. At sample rates
// approaching 88.2 kHz and above, adjacent samples are averaged around
// the nonlinearities to keep aliasing down.
type Tube struct {
	sampleRate   float64
	overallScale float64

	driveDB   float64
	gain      float64
	intensity float64

	prevIn   float64
	prevOut  float64
	prevSlew float64
}

// NewTube creates a Tube saturator at 0 dB drive.
// Sample rate must be positive and finite.
func NewTube(sampleRate float64) (*Tube, error) {
	if err := validateSampleRate("tube", sampleRate); err != nil {
		return nil, err
	}

	t := &Tube{
		sampleRate:   sampleRate,
		overallScale: sampleRate / 44100,
	}
	t.gain, t.intensity = driveParams(0)
	return t, nil
}

// SetDrive sets the drive in dB. Range: -18 to +18 dB.
func (t *Tube) SetDrive(dB float64) error {
	if err := validateDrive(dB); err != nil {
		return err
	}
	t.driveDB = dB
	t.gain, t.intensity = driveParams(dB)
	return nil
}

// Drive returns the drive in dB.
func (t *Tube) Drive() float64 { return t.driveDB }

// ProcessSample saturates one sample.
func (t *Tube) ProcessSample(x float64) float64 {
	if math.Abs(x) < core.DenormalEpsilon {
		x = 0
	}
	x *= t.gain

	inputPad := t.intensity
	iterations := 1 - t.intensity

	powerfactor := int(9*iterations) + 1
	asymPad := float64(powerfactor)
	gainscaling := 1 / float64(powerfactor+1)
	outputscaling := 1 + 1/float64(powerfactor)

	if inputPad < 1 {
		x *= inputPad
	}

	highRate := t.overallScale > 1.9
	if highRate {
		stored := x
		x += t.prevIn
		t.prevIn = stored
		x *= 0.5
	}

	x = core.Clamp(x, -1, 1)

	// Flatten the bottom and point the top of the wave.
	x /= asymPad
	sharpen := -x
	if sharpen > 0 {
		sharpen = 1 + math.Sqrt(sharpen)
	} else {
		sharpen = 1 - math.Sqrt(-sharpen)
	}
	x -= x * math.Abs(x) * sharpen * 0.25
	x *= asymPad

	// Power-series clipper. Higher powerfactor widens the linear region.
	factor := x
	for i := 0; i < powerfactor; i++ {
		factor *= x
	}
	if powerfactor%2 == 1 && x != 0 {
		factor = (factor / x) * math.Abs(x)
	}
	factor *= gainscaling
	x -= factor
	x *= outputscaling

	if highRate {
		stored := x
		x += t.prevOut
		t.prevOut = stored
		x *= 0.5
	}

	// Hysteresis and spiky fuzz.
	slew := t.prevSlew - x
	if highRate {
		stored := x
		x += t.prevSlew
		t.prevSlew = stored
		x *= 0.5
	} else {
		t.prevSlew = x
	}

	if slew > 0 {
		slew = 1 + math.Sqrt(slew)*0.5
	} else {
		slew = 1 - math.Sqrt(-slew)*0.5
	}
	x -= x * math.Abs(x) * slew * gainscaling

	x = core.Clamp(x, -0.52, 0.52)

	return x * 1.923076923076923
}

// Reset clears the averaging and hysteresis state.
func (t *Tube) Reset() {
	t.prevIn = 0
	t.prevOut = 0
	t.prevSlew = 0
}

package filter

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-channel/dsp/core"
	"github.com/cwbudde/algo-channel/dsp/filter/biquad"
	"github.com/cwbudde/algo-channel/dsp/filter/design"
)

const (
	minBellGainDB = -12.0
	maxBellGainDB = 12.0

	minBellQ = 0.1
	maxBellQ = 10.0
)

// Bell is a parametric peaking filter whose bandwidth follows the gain
// setting the way classic proportional-Q equalizers do: small boosts
// are broad and musical while deep cuts become surgical. Frequency
// also shapes the Q, with low bands slightly narrower and high bands
// slightly wider.
type Bell struct {
	sampleRate float64

	freqHz  float64
	gainDB  float64
	qOffset float64

	section *biquad.Section
}

// NewBell creates a bell filter at 1 kHz and unity gain.
// Sample rate must be positive and finite.
func NewBell(sampleRate float64) (*Bell, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("bell sample rate must be positive and finite: %f", sampleRate)
	}

	b := &Bell{
		sampleRate: sampleRate,
		freqHz:     1000,
		section:    biquad.NewSection(biquad.Coefficients{}),
	}

	b.updateCoefficients()
	return b, nil
}

// SetParameters sets center frequency (Hz) and gain (dB, -12 to +12).
func (b *Bell) SetParameters(freqHz, gainDB float64) error {
	if freqHz <= 0 || math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
		return fmt.Errorf("bell frequency must be positive and finite: %f", freqHz)
	}
	if gainDB < minBellGainDB || gainDB > maxBellGainDB || math.IsNaN(gainDB) {
		return fmt.Errorf("bell gain must be in [%g, %g] dB: %f", minBellGainDB, maxBellGainDB, gainDB)
	}

	b.freqHz = freqHz
	b.gainDB = gainDB
	b.updateCoefficients()
	return nil
}

// SetQOffset adds a fixed offset to the computed Q, used for per-channel
// component tolerance modeling. Typical range is a few hundredths.
func (b *Bell) SetQOffset(offset float64) error {
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return fmt.Errorf("bell Q offset must be finite: %f", offset)
	}
	b.qOffset = offset
	b.updateCoefficients()
	return nil
}

// Q returns the effective Q after the gain- and frequency-dependent
// shaping and the channel offset.
func (b *Bell) Q() float64 {
	return core.Clamp(dynamicQ(b.gainDB, b.freqHz)+b.qOffset, minBellQ, maxBellQ)
}

// ProcessSample filters one sample.
func (b *Bell) ProcessSample(x float64) float64 {
	return b.section.ProcessSample(x)
}

// Reset clears the filter state.
func (b *Bell) Reset() {
	b.section.Reset()
}

// dynamicQ maps gain and frequency to bandwidth. Boosts run from a
// broad 0.15 at 1 dB to 0.75 at full boost; cuts narrow much faster,
// reaching 3.05 at full cut. Below 500 Hz the Q tightens by 10%, above
// 3 kHz it relaxes by 10%, with linear interpolation between.
func dynamicQ(gainDB, freqHz float64) float64 {
	absGain := math.Abs(gainDB)

	var q float64
	if gainDB > 0 {
		q = 0.15 + (absGain/12)*(0.75-0.15)
	} else {
		q = 0.25 + (absGain/12)*(3.3-0.5)
	}

	var freqFactor float64
	switch {
	case freqHz < 500:
		freqFactor = 1.1
	case freqHz > 3000:
		freqFactor = 0.9
	default:
		t := (freqHz - 500) / 2500
		freqFactor = 1.1 + t*(0.9-1.1)
	}

	return q * freqFactor
}

func (b *Bell) updateCoefficients() {
	freq := core.Clamp(b.freqHz, 20, b.sampleRate*0.49)
	b.section.Coefficients = design.Peak(freq, b.gainDB, b.Q(), b.sampleRate)
}

package filter

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-channel/dsp/core"
	"github.com/cwbudde/algo-channel/dsp/filter/biquad"
	"github.com/cwbudde/algo-channel/dsp/filter/design"
)

const (
	minShelfGainDB = -24.0
	maxShelfGainDB = 24.0

	defaultTrebleFreqHz = 4410.0
	defaultBassFreqHz   = 8820.0

	trebleShelfQ = 0.4
	bassShelfQ   = 0.2

	// Corner frequencies slide with gain and are capped below Nyquist.
	maxShelfNormFreq = 0.45
)

// Baxandall is a two-band shelving equalizer with independent bass and
// treble controls. Both bands are derived from tan-prewarped lowpass
// sections processed through alternating state banks; the treble band
// is the highpass complement (input minus lowpass).
//
// The corner frequencies are not fixed: the treble corner scales with
// the linear treble gain, and the bass corner scales inversely with
// the bass gain, so heavier boosts reach further into the spectrum the
// way a passive Baxandall network does.
type Baxandall struct {
	sampleRate float64

	bassGainDB   float64
	trebleGainDB float64
	bassFreqHz   float64
	trebleFreqHz float64

	bassGainLin   float64
	trebleGainLin float64

	treble *biquad.FlipSection
	bass   *biquad.FlipSection
}

// NewBaxandall creates a Baxandall shelving EQ at unity gain.
// Sample rate must be positive and finite.
func NewBaxandall(sampleRate float64) (*Baxandall, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("baxandall sample rate must be positive and finite: %f", sampleRate)
	}

	b := &Baxandall{
		sampleRate:   sampleRate,
		bassFreqHz:   defaultBassFreqHz,
		trebleFreqHz: defaultTrebleFreqHz,
		treble:       biquad.NewFlipSection(biquad.Coefficients{}),
		bass:         biquad.NewFlipSection(biquad.Coefficients{}),
	}

	b.updateCoefficients()
	return b, nil
}

// SetBass sets the bass shelf gain in dB. Range: -24 to +24 dB.
func (b *Baxandall) SetBass(dB float64) error {
	if dB < minShelfGainDB || dB > maxShelfGainDB || math.IsNaN(dB) {
		return fmt.Errorf("bass gain must be in [%g, %g] dB: %f", minShelfGainDB, maxShelfGainDB, dB)
	}
	b.bassGainDB = dB
	b.updateCoefficients()
	return nil
}

// SetTreble sets the treble shelf gain in dB. Range: -24 to +24 dB.
func (b *Baxandall) SetTreble(dB float64) error {
	if dB < minShelfGainDB || dB > maxShelfGainDB || math.IsNaN(dB) {
		return fmt.Errorf("treble gain must be in [%g, %g] dB: %f", minShelfGainDB, maxShelfGainDB, dB)
	}
	b.trebleGainDB = dB
	b.updateCoefficients()
	return nil
}

// SetBassFreq sets the bass shelf base corner frequency in Hz.
func (b *Baxandall) SetBassFreq(hz float64) error {
	if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return fmt.Errorf("bass frequency must be positive and finite: %f", hz)
	}
	b.bassFreqHz = hz
	b.updateCoefficients()
	return nil
}

// SetTrebleFreq sets the treble shelf base corner frequency in Hz.
func (b *Baxandall) SetTrebleFreq(hz float64) error {
	if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return fmt.Errorf("treble frequency must be positive and finite: %f", hz)
	}
	b.trebleFreqHz = hz
	b.updateCoefficients()
	return nil
}

// Bass returns the bass shelf gain in dB.
func (b *Baxandall) Bass() float64 { return b.bassGainDB }

// Treble returns the treble shelf gain in dB.
func (b *Baxandall) Treble() float64 { return b.trebleGainDB }

// ProcessSample filters one sample through both shelves.
func (b *Baxandall) ProcessSample(x float64) float64 {
	if math.Abs(x) < core.DenormalEpsilon {
		x = 0
	}

	lowpassed := b.treble.ProcessSample(x)
	trebleSample := (x - lowpassed) * b.trebleGainLin
	bassSample := b.bass.ProcessSample(x) * b.bassGainLin

	return bassSample + trebleSample
}

// Reset clears all filter state in both banks of both bands.
func (b *Baxandall) Reset() {
	b.treble.Reset()
	b.bass.Reset()
}

func (b *Baxandall) updateCoefficients() {
	b.trebleGainLin = math.Pow(10, b.trebleGainDB/20)

	trebleFreq := (b.trebleFreqHz * b.trebleGainLin) / b.sampleRate
	if trebleFreq > maxShelfNormFreq {
		trebleFreq = maxShelfNormFreq
	}

	b.bassGainLin = math.Pow(10, b.bassGainDB/20)

	bassFreq := (b.bassFreqHz * math.Pow(10, -b.bassGainDB/20)) / b.sampleRate
	if bassFreq > maxShelfNormFreq {
		bassFreq = maxShelfNormFreq
	}

	b.treble.Coefficients = design.KTanLowpass(trebleFreq, trebleShelfQ)
	b.bass.Coefficients = design.KTanLowpass(bassFreq, bassShelfQ)
}

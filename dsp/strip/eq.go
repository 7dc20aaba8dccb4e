package strip

import (
	"fmt"

	"github.com/cwbudde/algo-channel/dsp/core"
	"github.com/cwbudde/algo-channel/dsp/filter"
)

// bellFrequencies is the stepped frequency ladder of the bell bands.
var bellFrequencies = [15]float64{
	50, 100, 200, 300, 400, 500, 700, 900,
	1400, 2400, 3500, 5000, 7500, 10000, 13000,
}

// BellFrequency returns the bell frequency in Hz for a ladder index,
// clamping the index to the valid range 0..14.
func BellFrequency(index int) float64 {
	return bellFrequencies[core.ClampInt(index, 0, len(bellFrequencies)-1)]
}

// EQ is the equalizer section: Baxandall shelves followed by two
// parametric bells on a stepped frequency ladder.
type EQ struct {
	bypass Bypass

	shelves *filter.Baxandall
	bell1   *filter.Bell
	bell2   *filter.Bell
}

// NewEQ creates the equalizer section at flat settings.
func NewEQ(sampleRate float64) (*EQ, error) {
	shelves, err := filter.NewBaxandall(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("eq: %w", err)
	}
	bell1, err := filter.NewBell(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("eq: %w", err)
	}
	bell2, err := filter.NewBell(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("eq: %w", err)
	}

	return &EQ{
		bypass:  NewBypass(sampleRate),
		shelves: shelves,
		bell1:   bell1,
		bell2:   bell2,
	}, nil
}

// SetBassShelf sets the bass shelf gain in decibels, clamped to
// [-15, +15].
func (e *EQ) SetBassShelf(dB float64) {
	_ = e.shelves.SetBass(core.Clamp(dB, -15, 15))
}

// SetTrebleShelf sets the treble shelf gain in decibels, clamped to
// [-15, +15].
func (e *EQ) SetTrebleShelf(dB float64) {
	_ = e.shelves.SetTreble(core.Clamp(dB, -15, 15))
}

// SetBassShelfFreq sets the bass shelf corner in Hz.
func (e *EQ) SetBassShelfFreq(hz float64) {
	_ = e.shelves.SetBassFreq(core.Clamp(hz, 20, 22000))
}

// SetTrebleShelfFreq sets the treble shelf corner in Hz.
func (e *EQ) SetTrebleShelfFreq(hz float64) {
	_ = e.shelves.SetTrebleFreq(core.Clamp(hz, 20, 22000))
}

// SetBell1 sets the first bell from a frequency ladder index and a
// gain in decibels clamped to [-12, +12].
func (e *EQ) SetBell1(freqIndex int, gainDB float64) {
	e.SetBell1Variation(freqIndex, gainDB, 0, 0, 0)
}

// SetBell2 sets the second bell from a frequency ladder index and a
// gain in decibels clamped to [-12, +12].
func (e *EQ) SetBell2(freqIndex int, gainDB float64) {
	e.SetBell2Variation(freqIndex, gainDB, 0, 0, 0)
}

// SetBell1Variation sets the first bell with additive channel
// variation offsets for frequency, gain, and Q.
func (e *EQ) SetBell1Variation(freqIndex int, gainDB, freqOffset, gainOffset, qOffset float64) {
	setBell(e.bell1, freqIndex, gainDB, freqOffset, gainOffset, qOffset)
}

// SetBell2Variation sets the second bell with additive channel
// variation offsets for frequency, gain, and Q.
func (e *EQ) SetBell2Variation(freqIndex int, gainDB, freqOffset, gainOffset, qOffset float64) {
	setBell(e.bell2, freqIndex, gainDB, freqOffset, gainOffset, qOffset)
}

func setBell(b *filter.Bell, freqIndex int, gainDB, freqOffset, gainOffset, qOffset float64) {
	freq := BellFrequency(freqIndex) + freqOffset
	gain := core.Clamp(gainDB+gainOffset, -12, 12)
	_ = b.SetParameters(freq, gain)
	_ = b.SetQOffset(qOffset)
}

// SetBypassed sets the bypass target.
func (e *EQ) SetBypassed(bypassed bool) { e.bypass.SetBypassed(bypassed) }

// Bypassed reports the bypass target.
func (e *EQ) Bypassed() bool { return e.bypass.Bypassed() }

// Process runs one sample through the section.
func (e *EQ) Process(input float64) float64 {
	wet := e.shelves.ProcessSample(input)
	wet = e.bell1.ProcessSample(wet)
	wet = e.bell2.ProcessSample(wet)
	return e.bypass.Blend(input, wet)
}

// Reset clears the filter histories.
func (e *EQ) Reset() {
	e.shelves.Reset()
	e.bell1.Reset()
	e.bell2.Reset()
}

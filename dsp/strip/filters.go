package strip

import (
	"fmt"

	"github.com/cwbudde/algo-channel/dsp/core"
	"github.com/cwbudde/algo-channel/dsp/filter/biquad"
	"github.com/cwbudde/algo-channel/dsp/filter/design"
)

// FilterSlope selects the rolloff steepness of a pass filter.
type FilterSlope int

const (
	Slope6dB FilterSlope = iota
	Slope12dB
	Slope18dB
)

// FilterQMode selects the resonance character at the corner.
type FilterQMode int

const (
	// QNormal is a Butterworth corner.
	QNormal FilterQMode = iota
	// QBump raises the corner Q to 1.0 for a slight lift before the
	// rolloff.
	QBump
)

// Filters is the highpass/lowpass section. The highpass uses the
// matched-Z design so its corner stays accurate near Nyquist, the
// lowpass uses the bilinear design. Steeper slopes cascade a second
// identical biquad.
type Filters struct {
	bypass     Bypass
	sampleRate float64

	hpfFreq    float64
	hpfSlope   FilterSlope
	hpfQMode   FilterQMode
	hpfQOffset float64

	lpfFreq    float64
	lpfSlope   FilterSlope
	lpfQMode   FilterQMode
	lpfQOffset float64

	hpf1, hpf2 *biquad.Section
	lpf1, lpf2 *biquad.Section
}

// NewFilters creates the filter section with the highpass at 20 Hz
// (12 dB) and the lowpass at 24 kHz (12 dB), both at Butterworth Q.
func NewFilters(sampleRate float64) (*Filters, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("filter section sample rate must be positive and finite: %f", sampleRate)
	}

	f := &Filters{
		bypass:     NewBypass(sampleRate),
		sampleRate: sampleRate,
		hpfFreq:    20,
		hpfSlope:   Slope12dB,
		lpfFreq:    24000,
		lpfSlope:   Slope12dB,
		hpf1:       biquad.NewSection(biquad.Coefficients{}),
		hpf2:       biquad.NewSection(biquad.Coefficients{}),
		lpf1:       biquad.NewSection(biquad.Coefficients{}),
		lpf2:       biquad.NewSection(biquad.Coefficients{}),
	}
	f.updateCoefficients()

	return f, nil
}

// SetHighpass sets the highpass corner (clamped to 20 Hz..6 kHz),
// slope (12 or 18 dB/oct), and Q mode.
func (f *Filters) SetHighpass(freqHz float64, slope FilterSlope, qMode FilterQMode) {
	f.hpfFreq = core.Clamp(freqHz, 20, 6000)
	if slope == Slope6dB {
		slope = Slope12dB
	}
	f.hpfSlope = slope
	f.hpfQMode = qMode
	f.updateCoefficients()
}

// SetLowpass sets the lowpass corner (clamped to 300 Hz..24 kHz),
// slope (6 or 12 dB/oct), and Q mode.
func (f *Filters) SetLowpass(freqHz float64, slope FilterSlope, qMode FilterQMode) {
	f.lpfFreq = core.Clamp(freqHz, 300, 24000)
	if slope == Slope18dB {
		slope = Slope12dB
	}
	f.lpfSlope = slope
	f.lpfQMode = qMode
	f.updateCoefficients()
}

// SetHighpassQOffset adds a small Q offset for channel variation.
func (f *Filters) SetHighpassQOffset(offset float64) {
	f.hpfQOffset = offset
	f.updateCoefficients()
}

// SetLowpassQOffset adds a small Q offset for channel variation.
func (f *Filters) SetLowpassQOffset(offset float64) {
	f.lpfQOffset = offset
	f.updateCoefficients()
}

func (f *Filters) updateCoefficients() {
	hpfQ := 0.707
	if f.hpfQMode == QBump {
		hpfQ = 1.0
	}
	hpfQ = core.Clamp(hpfQ+f.hpfQOffset, 0.1, 5.0)

	hpfFreq := core.Clamp(f.hpfFreq, 20, f.sampleRate*0.49)
	hpfCoeffs := design.MatchedHighpass(hpfFreq, hpfQ, f.sampleRate)
	f.hpf1.Coefficients = hpfCoeffs
	f.hpf2.Coefficients = hpfCoeffs

	lpfQ := 0.707
	if f.lpfQMode == QBump {
		lpfQ = 1.0
	}
	if f.lpfSlope == Slope6dB {
		lpfQ = 0.5
	}
	lpfQ = core.Clamp(lpfQ+f.lpfQOffset, 0.1, 5.0)

	lpfFreq := core.Clamp(f.lpfFreq, 20, f.sampleRate*0.49)
	lpfCoeffs := design.Lowpass(lpfFreq, lpfQ, f.sampleRate)
	f.lpf1.Coefficients = lpfCoeffs
	f.lpf2.Coefficients = lpfCoeffs
}

// SetBypassed sets the bypass target.
func (f *Filters) SetBypassed(bypassed bool) { f.bypass.SetBypassed(bypassed) }

// Bypassed reports the bypass target.
func (f *Filters) Bypassed() bool { return f.bypass.Bypassed() }

// Process runs one sample through the section.
func (f *Filters) Process(input float64) float64 {
	wet := f.hpf1.ProcessSample(input)
	if f.hpfSlope == Slope18dB {
		wet = f.hpf2.ProcessSample(wet)
	}

	wet = f.lpf1.ProcessSample(wet)
	if f.lpfSlope == Slope12dB {
		wet = f.lpf2.ProcessSample(wet)
	}

	return f.bypass.Blend(input, wet)
}

// Reset clears the filter histories.
func (f *Filters) Reset() {
	f.hpf1.Reset()
	f.hpf2.Reset()
	f.lpf1.Reset()
	f.lpf2.Reset()
}

package strip

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-vecmath"
)

// Seed derivation for per-channel PRNGs: a large prime stride keeps
// the left and right generators fully decorrelated.
const (
	baseSeed   = 17
	seedStride = 1000000007
)

// peakMeterDecaySec is the release of the peak meters.
const peakMeterDecaySec = 0.2

// meterValue is a float64 published through an atomic word, safe for
// a single writer on the audio goroutine and any number of readers.
type meterValue struct {
	bits atomic.Uint64
}

func (m *meterValue) store(v float64) {
	m.bits.Store(math.Float64bits(v))
}

func (m *meterValue) load() float64 {
	return math.Float64frombits(m.bits.Load())
}

// Option configures a Channel at construction.
type Option func(*channelConfig)

type channelConfig struct {
	seed      uint32
	variation Variation
}

// WithSeed overrides the PRNG seed derived from the channel index.
func WithSeed(seed uint32) Option {
	return func(c *channelConfig) { c.seed = seed }
}

// WithVariation applies the component-tolerance offsets of the given
// desk channel number (0..47) on top of every base setting.
func WithVariation(deskChannel int) Option {
	return func(c *channelConfig) { c.variation = VariationFor(deskChannel) }
}

// Channel is one complete nine-section processing chain for a single
// audio channel. Two independent Channels make a stereo processor;
// they share no state and may run on separate goroutines.
//
// Parameter setters are expected from a control thread between
// process calls, never concurrently with them. Metering accessors are
// safe from any goroutine.
type Channel struct {
	sampleRate float64
	variation  Variation

	preInput    *PreInput
	filters     *Filters
	controlComp *ControlComp
	lowDynamics *LowDynamics
	eq          *EQ
	styleComp   *StyleComp
	console     *ConsoleStage
	outStage    *OutStage
	volume      *Volume

	// base settings kept so variation offsets reapply cleanly
	trebleShelfDB   float64
	trebleShelfFreq float64
	bassShelfDB     float64
	bassShelfFreq   float64
	bell1Index      int
	bell1DB         float64
	bell2Index      int
	bell2DB         float64
	hpfFreq         float64
	hpfSlope        FilterSlope
	hpfQMode        FilterQMode
	lpfFreq         float64
	lpfSlope        FilterSlope
	lpfQMode        FilterQMode
	consoleDriveDB  float64
	outputGainDB    float64

	peakDecay    float64
	inPeakState  float64
	outPeakState float64

	inputPeak  meterValue
	outputPeak meterValue
	controlGR  meterValue
	styleGR    meterValue
	lowGR      meterValue
}

// NewChannel creates a processing chain for the given audio channel
// index (0 = left, 1 = right). The index seeds the chain's PRNGs so
// channels flutter and dither independently.
func NewChannel(sampleRate float64, channelIndex int, opts ...Option) (*Channel, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sample rate must be positive and finite: %f", sampleRate)
	}
	if channelIndex < 0 {
		return nil, fmt.Errorf("channel index must be non-negative: %d", channelIndex)
	}

	cfg := channelConfig{
		seed: baseSeed + uint32(channelIndex)*seedStride,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	preInput, err := NewPreInput(sampleRate, cfg.seed)
	if err != nil {
		return nil, err
	}
	filters, err := NewFilters(sampleRate)
	if err != nil {
		return nil, err
	}
	controlComp, err := NewControlComp(sampleRate)
	if err != nil {
		return nil, err
	}
	lowDynamics, err := NewLowDynamics(sampleRate)
	if err != nil {
		return nil, err
	}
	eq, err := NewEQ(sampleRate)
	if err != nil {
		return nil, err
	}
	styleComp, err := NewStyleComp(sampleRate)
	if err != nil {
		return nil, err
	}
	console, err := NewConsoleStage(sampleRate, cfg.seed)
	if err != nil {
		return nil, err
	}
	outStage, err := NewOutStage(sampleRate, cfg.seed)
	if err != nil {
		return nil, err
	}

	c := &Channel{
		sampleRate:  sampleRate,
		variation:   cfg.variation,
		preInput:    preInput,
		filters:     filters,
		controlComp: controlComp,
		lowDynamics: lowDynamics,
		eq:          eq,
		styleComp:   styleComp,
		console:     console,
		outStage:    outStage,
		volume:      NewVolume(sampleRate),
		peakDecay:   math.Exp(-1 / (peakMeterDecaySec * sampleRate)),

		trebleShelfFreq: 4410,
		bassShelfFreq:   8820,
		hpfFreq:         20,
		hpfSlope:        Slope12dB,
		lpfFreq:         24000,
		lpfSlope:        Slope12dB,
	}
	c.applyVariation()

	return c, nil
}

// applyVariation pushes every variation-affected base setting down to
// its section with the offsets added.
func (c *Channel) applyVariation() {
	v := c.variation

	c.eq.SetTrebleShelf(c.trebleShelfDB + v.EQTrebleGain)
	c.eq.SetTrebleShelfFreq(c.trebleShelfFreq + v.EQTrebleFreq)
	c.eq.SetBassShelf(c.bassShelfDB + v.EQBassGain)
	c.eq.SetBassShelfFreq(c.bassShelfFreq + v.EQBassFreq)
	c.eq.SetBell1Variation(c.bell1Index, c.bell1DB, v.EQBell1Freq, v.EQBell1Gain, v.EQBell1Q)
	c.eq.SetBell2Variation(c.bell2Index, c.bell2DB, v.EQBell2Freq, v.EQBell2Gain, v.EQBell2Q)

	c.filters.SetHighpass(c.hpfFreq+v.HPFFreq, c.hpfSlope, c.hpfQMode)
	c.filters.SetHighpassQOffset(v.HPFQ)
	c.filters.SetLowpass(c.lpfFreq+v.LPFFreq, c.lpfSlope, c.lpfQMode)
	c.filters.SetLowpassQOffset(v.LPFQ)

	c.console.SetDrive(c.consoleDriveDB + v.ConsoleDrive)
	c.volume.SetGain(c.outputGainDB + v.OutputGain)
}

// Pre-input controls.

// SetPreInputAlgorithm selects the input saturation model.
func (c *Channel) SetPreInputAlgorithm(a DriveAlgorithm) { c.preInput.SetAlgorithm(a) }

// SetPreInputDrive sets the input drive in decibels.
func (c *Channel) SetPreInputDrive(dB float64) { c.preInput.SetDrive(dB) }

// SetPreInputBypassed bypasses the pre-input section.
func (c *Channel) SetPreInputBypassed(bypassed bool) { c.preInput.SetBypassed(bypassed) }

// Filter controls.

// SetHighpass sets the highpass corner, slope, and Q mode.
func (c *Channel) SetHighpass(freqHz float64, slope FilterSlope, qMode FilterQMode) {
	c.hpfFreq, c.hpfSlope, c.hpfQMode = freqHz, slope, qMode
	c.filters.SetHighpass(freqHz+c.variation.HPFFreq, slope, qMode)
}

// SetLowpass sets the lowpass corner, slope, and Q mode.
func (c *Channel) SetLowpass(freqHz float64, slope FilterSlope, qMode FilterQMode) {
	c.lpfFreq, c.lpfSlope, c.lpfQMode = freqHz, slope, qMode
	c.filters.SetLowpass(freqHz+c.variation.LPFFreq, slope, qMode)
}

// SetFiltersBypassed bypasses the filter section.
func (c *Channel) SetFiltersBypassed(bypassed bool) { c.filters.SetBypassed(bypassed) }

// Control compressor controls.

// SetControlThreshold sets the control compressor threshold in
// decibels.
func (c *Channel) SetControlThreshold(dB float64) { c.controlComp.SetThreshold(dB) }

// SetControlARMode selects the control compressor attack/release
// preset.
func (c *Channel) SetControlARMode(mode ARMode) { c.controlComp.SetARMode(mode) }

// SetControlCompBypassed bypasses the control compressor.
func (c *Channel) SetControlCompBypassed(bypassed bool) { c.controlComp.SetBypassed(bypassed) }

// Low dynamics controls.

// SetLowDynamicsThreshold sets the expander/lifter threshold in
// decibels.
func (c *Channel) SetLowDynamicsThreshold(dB float64) { c.lowDynamics.SetThreshold(dB) }

// SetLowDynamicsRatio sets the expander/lifter amount.
func (c *Channel) SetLowDynamicsRatio(ratio float64) { c.lowDynamics.SetRatio(ratio) }

// SetLowDynamicsFastMode switches the expander/lifter detector
// timing.
func (c *Channel) SetLowDynamicsFastMode(fast bool) { c.lowDynamics.SetFastMode(fast) }

// SetLowDynamicsMix sets the expander/lifter dry/wet mix in percent.
func (c *Channel) SetLowDynamicsMix(percent float64) { c.lowDynamics.SetMix(percent) }

// SetLowDynamicsBypassed bypasses the expander/lifter.
func (c *Channel) SetLowDynamicsBypassed(bypassed bool) { c.lowDynamics.SetBypassed(bypassed) }

// EQ controls.

// SetTrebleShelf sets the treble shelf gain in decibels.
func (c *Channel) SetTrebleShelf(dB float64) {
	c.trebleShelfDB = dB
	c.eq.SetTrebleShelf(dB + c.variation.EQTrebleGain)
}

// SetTrebleShelfFreq sets the treble shelf corner in Hz.
func (c *Channel) SetTrebleShelfFreq(hz float64) {
	c.trebleShelfFreq = hz
	c.eq.SetTrebleShelfFreq(hz + c.variation.EQTrebleFreq)
}

// SetBassShelf sets the bass shelf gain in decibels.
func (c *Channel) SetBassShelf(dB float64) {
	c.bassShelfDB = dB
	c.eq.SetBassShelf(dB + c.variation.EQBassGain)
}

// SetBassShelfFreq sets the bass shelf corner in Hz.
func (c *Channel) SetBassShelfFreq(hz float64) {
	c.bassShelfFreq = hz
	c.eq.SetBassShelfFreq(hz + c.variation.EQBassFreq)
}

// SetBell1 sets the first bell band from a frequency ladder index and
// gain in decibels.
func (c *Channel) SetBell1(freqIndex int, gainDB float64) {
	c.bell1Index, c.bell1DB = freqIndex, gainDB
	v := c.variation
	c.eq.SetBell1Variation(freqIndex, gainDB, v.EQBell1Freq, v.EQBell1Gain, v.EQBell1Q)
}

// SetBell2 sets the second bell band from a frequency ladder index
// and gain in decibels.
func (c *Channel) SetBell2(freqIndex int, gainDB float64) {
	c.bell2Index, c.bell2DB = freqIndex, gainDB
	v := c.variation
	c.eq.SetBell2Variation(freqIndex, gainDB, v.EQBell2Freq, v.EQBell2Gain, v.EQBell2Q)
}

// SetEQBypassed bypasses the equalizer.
func (c *Channel) SetEQBypassed(bypassed bool) { c.eq.SetBypassed(bypassed) }

// Style compressor controls.

// SetStyleAlgorithm selects the character compressor model.
func (c *Channel) SetStyleAlgorithm(a StyleCompAlgorithm) { c.styleComp.SetAlgorithm(a) }

// SetStyleCompIn sets the drive into the character compressor in
// decibels.
func (c *Channel) SetStyleCompIn(dB float64) { c.styleComp.SetCompIn(dB) }

// SetStyleMakeup sets the character compressor makeup gain in
// decibels.
func (c *Channel) SetStyleMakeup(dB float64) { c.styleComp.SetMakeup(dB) }

// SetStyleMix sets the character compressor dry/wet mix in percent.
func (c *Channel) SetStyleMix(percent float64) { c.styleComp.SetMix(percent) }

// SetStyleCompBypassed bypasses the character compressor.
func (c *Channel) SetStyleCompBypassed(bypassed bool) { c.styleComp.SetBypassed(bypassed) }

// Console controls.

// SetConsoleAlgorithm selects the console emulation model.
func (c *Channel) SetConsoleAlgorithm(a ConsoleAlgorithm) { c.console.SetAlgorithm(a) }

// SetConsoleDrive sets the console drive in decibels.
func (c *Channel) SetConsoleDrive(dB float64) {
	c.consoleDriveDB = dB
	c.console.SetDrive(dB + c.variation.ConsoleDrive)
}

// SetConsoleBypassed bypasses the console emulation.
func (c *Channel) SetConsoleBypassed(bypassed bool) { c.console.SetBypassed(bypassed) }

// Output stage controls.

// SetOutStageAlgorithm selects the output saturation model.
func (c *Channel) SetOutStageAlgorithm(a OutStageAlgorithm) { c.outStage.SetAlgorithm(a) }

// SetOutStageDrive sets the output stage drive in decibels.
func (c *Channel) SetOutStageDrive(dB float64) { c.outStage.SetDrive(dB) }

// SetOutStageBypassed bypasses the output stage.
func (c *Channel) SetOutStageBypassed(bypassed bool) { c.outStage.SetBypassed(bypassed) }

// Volume controls.

// SetOutputGain sets the final output gain in decibels.
func (c *Channel) SetOutputGain(dB float64) {
	c.outputGainDB = dB
	c.volume.SetGain(dB + c.variation.OutputGain)
}

// SetVolumeBypassed bypasses the output gain.
func (c *Channel) SetVolumeBypassed(bypassed bool) { c.volume.SetBypassed(bypassed) }

// Metering accessors, safe from any goroutine.

// InputPeak returns the input peak level (linear, 200 ms release).
func (c *Channel) InputPeak() float64 { return c.inputPeak.load() }

// OutputPeak returns the output peak level (linear, 200 ms release).
func (c *Channel) OutputPeak() float64 { return c.outputPeak.load() }

// ControlGainReductionDB returns the control compressor's gain
// reduction in decibels.
func (c *Channel) ControlGainReductionDB() float64 { return c.controlGR.load() }

// StyleGainReductionDB returns the character compressor's gain
// reduction in decibels.
func (c *Channel) StyleGainReductionDB() float64 { return c.styleGR.load() }

// LowDynamicsGainDB returns the expander/lifter's gain change in
// decibels.
func (c *Channel) LowDynamicsGainDB() float64 { return c.lowGR.load() }

// ProcessSample runs one sample through the whole chain and updates
// the meters.
func (c *Channel) ProcessSample(input float64) float64 {
	level := math.Abs(input)
	if level > c.inPeakState {
		c.inPeakState = level
	} else {
		c.inPeakState *= c.peakDecay
	}
	c.inputPeak.store(c.inPeakState)

	out := c.processChain(input)

	level = math.Abs(out)
	if level > c.outPeakState {
		c.outPeakState = level
	} else {
		c.outPeakState *= c.peakDecay
	}
	c.outputPeak.store(c.outPeakState)

	c.publishGainReduction()

	return out
}

func (c *Channel) processChain(signal float64) float64 {
	signal = c.preInput.Process(signal)
	signal = c.filters.Process(signal)
	signal = c.controlComp.Process(signal)
	signal = c.lowDynamics.Process(signal)
	signal = c.eq.Process(signal)
	signal = c.styleComp.Process(signal)
	signal = c.console.Process(signal)
	signal = c.outStage.Process(signal)
	return c.volume.Process(signal)
}

func (c *Channel) publishGainReduction() {
	c.controlGR.store(c.controlComp.GainReductionDB())
	c.styleGR.store(c.styleComp.GainReductionDB())
	c.lowGR.store(c.lowDynamics.GainReductionDB())
}

// ProcessBlock runs a block through the chain in place. Peak metering
// uses vectorized block scans, and the final gain applies blockwise
// when the volume section is not mid-crossfade.
func (c *Channel) ProcessBlock(samples []float64) {
	if len(samples) == 0 {
		return
	}

	blockDecay := math.Pow(c.peakDecay, float64(len(samples)))

	inPeak := vecmath.MaxAbs(samples)
	c.inPeakState = math.Max(inPeak, c.inPeakState*blockDecay)
	c.inputPeak.store(c.inPeakState)

	for i, s := range samples {
		s = c.preInput.Process(s)
		s = c.filters.Process(s)
		s = c.controlComp.Process(s)
		s = c.lowDynamics.Process(s)
		s = c.eq.Process(s)
		s = c.styleComp.Process(s)
		s = c.console.Process(s)
		samples[i] = c.outStage.Process(s)
	}
	c.volume.ProcessBlock(samples)

	outPeak := vecmath.MaxAbs(samples)
	c.outPeakState = math.Max(outPeak, c.outPeakState*blockDecay)
	c.outputPeak.store(c.outPeakState)

	c.publishGainReduction()
}

// Reset clears every section's state without touching parameters.
func (c *Channel) Reset() {
	c.preInput.Reset()
	c.filters.Reset()
	c.controlComp.Reset()
	c.lowDynamics.Reset()
	c.eq.Reset()
	c.styleComp.Reset()
	c.console.Reset()
	c.outStage.Reset()
	c.volume.Reset()

	c.inPeakState = 0
	c.outPeakState = 0
	c.inputPeak.store(0)
	c.outputPeak.store(0)
	c.controlGR.store(0)
	c.styleGR.store(0)
	c.lowGR.store(0)
}

// Sections exposes the chain in processing order, mainly for
// inspection and tests.
func (c *Channel) Sections() []Section {
	return []Section{
		c.preInput, c.filters, c.controlComp, c.lowDynamics, c.eq,
		c.styleComp, c.console, c.outStage, c.volume,
	}
}

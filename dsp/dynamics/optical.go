package dynamics

import (
	"fmt"
	"math"
)

// Optical envelope time constants in seconds, measured from the
// two-stage photocell response.
const (
	opticalLPF1AttackSec  = 0.001324200
	opticalLPF1ReleaseSec = 0.001782562
	opticalLPF2AttackSec  = 0.028011420
	opticalLPF2ReleaseSec = 0.026260180
	opticalReleaseSec     = 5.898

	opticalLPF1Weight = 0.2998201
	opticalLPF2Weight = 0.079904087

	opticalCellOffset = 0.0029900903
	opticalInputTrim  = 0.08098298
	opticalMakeup     = 33.768673

	opticalBlendA1 = 0.01193628
	opticalBlendB1 = 0.9323384
	opticalBlendA2 = 0.4595526
	opticalBlendB2 = 1.0

	opticalPostEQHz = 20000.0
)

// OpticalMode selects how the detector envelope is shaped.
type OpticalMode int

const (
	// OpticalFixed uses the cell's inherent attack and release only.
	OpticalFixed OpticalMode = iota
	// OpticalFixedManual overlays the manual envelope on the fixed one,
	// whichever is louder wins.
	OpticalFixedManual
	// OpticalManual uses the manual attack and release envelope alone.
	OpticalManual
)

// Optical is a feedback optical compressor in the style of a tube
// program limiter. The gain element is a photocell driven by the
// compressed output, so attack and release curves are program
// dependent and taken from lookup tables of the measured cell.
type Optical struct {
	sampleRate   float64
	thresholdDB  float64
	ratio        float64
	outputGainDB float64
	mode         OpticalMode
	attackNorm   float64
	releaseNorm  float64

	// derived from the ratio
	t3  float64
	t4  float64
	t10 float64

	t7  float64 // threshold
	t11 float64 // output gain
	t8  float64 // manual attack step
	t9  float64 // manual release droop

	lpf1AttackCoeff  float64
	lpf1ReleaseCoeff float64
	lpf2AttackCoeff  float64
	lpf2ReleaseCoeff float64
	releaseCoeff     float64
	postEQCoeff      float64

	lpf1State   float64
	lpf2State   float64
	levelState  float64
	postEQState float64

	gainReduction float64
}

// NewOptical creates an optical compressor for the given sample rate
// with a 4:1 ratio, the threshold at 0 dB, and the fixed envelope.
func NewOptical(sampleRate float64) (*Optical, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sample rate must be positive and finite: %f", sampleRate)
	}

	o := &Optical{
		sampleRate:    sampleRate,
		mode:          OpticalFixed,
		gainReduction: 1.0,
	}

	o.lpf1AttackCoeff = envCoeff(sampleRate, opticalLPF1AttackSec)
	o.lpf1ReleaseCoeff = envCoeff(sampleRate, opticalLPF1ReleaseSec)
	o.lpf2AttackCoeff = envCoeff(sampleRate, opticalLPF2AttackSec)
	o.lpf2ReleaseCoeff = envCoeff(sampleRate, opticalLPF2ReleaseSec)
	o.releaseCoeff = envCoeff(sampleRate, opticalReleaseSec)
	o.postEQCoeff = 1 - math.Exp(-2*math.Pi*opticalPostEQHz/sampleRate)

	if err := o.SetRatio(4); err != nil {
		return nil, err
	}
	if err := o.SetThreshold(0); err != nil {
		return nil, err
	}
	if err := o.SetOutputGain(0); err != nil {
		return nil, err
	}
	o.SetEnvelope(OpticalFixed, 0.5, 0.5)

	return o, nil
}

func envCoeff(sampleRate, seconds float64) float64 {
	return math.Exp(-1 / (sampleRate * seconds))
}

// SetRatio sets the compression ratio, from 2:1 to 10:1.
func (o *Optical) SetRatio(ratio float64) error {
	if ratio < 2 || ratio > 10 || math.IsNaN(ratio) {
		return fmt.Errorf("ratio must be between 2 and 10: %f", ratio)
	}
	o.ratio = ratio

	ratioNorm := (ratio - 2) / 8
	o.t3 = interpolateExp(ratioNorm, opticalTable3, false)
	o.t4 = interpolateLin(o.t3, opticalTable4)
	o.t10 = interpolateExp(ratioNorm, opticalTable10, false)
	return nil
}

// Ratio returns the current compression ratio.
func (o *Optical) Ratio() float64 {
	return o.ratio
}

// SetThreshold sets the compression threshold in decibels, from -40
// to +40 dB.
func (o *Optical) SetThreshold(thresholdDB float64) error {
	if thresholdDB < -40 || thresholdDB > 40 || math.IsNaN(thresholdDB) {
		return fmt.Errorf("threshold must be between -40 and 40 dB: %f", thresholdDB)
	}
	o.thresholdDB = thresholdDB
	o.t7 = math.Pow(10, (-40-thresholdDB)/20)
	return nil
}

// Threshold returns the current threshold in decibels.
func (o *Optical) Threshold() float64 {
	return o.thresholdDB
}

// SetOutputGain sets the output makeup gain in decibels, from -24 to
// +24 dB.
func (o *Optical) SetOutputGain(gainDB float64) error {
	if gainDB < -24 || gainDB > 24 || math.IsNaN(gainDB) {
		return fmt.Errorf("output gain must be between -24 and 24 dB: %f", gainDB)
	}
	o.outputGainDB = gainDB
	o.t11 = math.Pow(10, (-30+gainDB)/20)
	return nil
}

// SetEnvelope selects the detector mode and, for the manual modes, the
// attack and release amounts as normalized values in [0, 1]. Values
// outside the range are clamped.
func (o *Optical) SetEnvelope(mode OpticalMode, attack, release float64) {
	o.mode = mode
	o.attackNorm = math.Min(math.Max(attack, 0), 1)
	o.releaseNorm = math.Min(math.Max(release, 0), 1)
	o.t8 = interpolateLin(o.attackNorm, opticalTable8)
	o.t9 = interpolateLin(o.releaseNorm, opticalTable9)
}

// GainReductionDB returns the current gain reduction in decibels as a
// non-positive value.
func (o *Optical) GainReductionDB() float64 {
	gr := o.gainReduction
	if gr <= 0 {
		return 0
	}
	db := 20 * math.Log10(gr)
	if db > 0 {
		return 0
	}
	return db
}

// ProcessSample compresses a single sample.
func (o *Optical) ProcessSample(input float64) float64 {
	// feedback path: the envelope followers run on the previous
	// output level, which is what makes the cell program dependent
	invGR := o.lpf1State*opticalLPF1Weight + o.lpf2State*opticalLPF2Weight
	o.gainReduction = opticalCellOffset / tableClamp(invGR+opticalCellOffset)

	t5 := interpolateExp(invGR, opticalTable5, false)
	t6 := interpolateLin(t5, opticalTable6)
	m1 := opticalBlendA1*t6 + opticalBlendB1*(1-t6)
	m2 := opticalBlendA2*t6 + opticalBlendB2*(1-t6)
	mult := m1*(1-o.t4) + m2*o.t4

	sidechain := input * opticalInputTrim * mult * o.t7
	level := math.Abs(interpolateExp(sidechain, opticalTable12, true))

	combined := level
	if o.mode != OpticalFixed {
		if level >= o.levelState {
			o.levelState = math.Min(o.levelState+o.t8, level)
		} else {
			o.levelState = math.Max(o.levelState*o.releaseCoeff-o.t9, level)
		}
		if o.mode == OpticalManual {
			combined = o.levelState
		} else {
			combined = math.Max(level, o.levelState)
		}
	}

	t13 := interpolateLin(combined, opticalTable13)

	if t13 > o.lpf1State {
		o.lpf1State = t13 + (o.lpf1State-t13)*o.lpf1AttackCoeff
	} else {
		o.lpf1State = t13 + (o.lpf1State-t13)*o.lpf1ReleaseCoeff
	}
	if t13 > o.lpf2State {
		o.lpf2State = t13 + (o.lpf2State-t13)*o.lpf2AttackCoeff
	} else {
		o.lpf2State = t13 + (o.lpf2State-t13)*o.lpf2ReleaseCoeff
	}

	out := input * o.t10 * o.t11 * o.gainReduction * opticalMakeup

	// gentle top-end rolloff after the gain cell
	o.postEQState += (out - o.postEQState) * o.postEQCoeff
	return o.postEQState
}

// ProcessBlock compresses samples in place.
func (o *Optical) ProcessBlock(samples []float64) {
	for i, s := range samples {
		samples[i] = o.ProcessSample(s)
	}
}

// Reset clears the envelope and filter state.
func (o *Optical) Reset() {
	o.lpf1State = 0
	o.lpf2State = 0
	o.levelState = 0
	o.postEQState = 0
	o.gainReduction = 1.0
}

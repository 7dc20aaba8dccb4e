package dynamics

import (
	"fmt"
	"math"
)

const (
	lowLevelRMSWindowSec  = 0.020
	lowLevelPeakHoldSec   = 0.050
	lowLevelKneeWidthDB   = 0.5
	lowLevelWarmupSamples = 100
	lowLevelFloor         = 1e-6
)

// LowLevel processes the signal below a threshold, leaving everything
// above it untouched. Negative ratios expand downward (quiet parts get
// quieter, up to 1:4), positive ratios lift upward (quiet parts come
// up, to the same 1:4), and a ratio of zero is an exact bypass.
//
// Threshold gating uses the instantaneous level so peaks above the
// threshold are never affected; the smoothed detector only shapes the
// gain trajectory.
type LowLevel struct {
	sampleRate  float64
	thresholdDB float64
	ratio       float64
	fastMode    bool
	mixAmount   float64

	rmsCoeff           float64
	peakHoldDecay      float64
	attackCoeff        float64
	releaseCoeff       float64
	lifterAttackCoeff  float64
	lifterReleaseCoeff float64

	rmsState      float64
	peakHold      float64
	smoothedGain  float64
	currentGRDB   float64
	warmupSamples int
}

// NewLowLevel creates a below-threshold processor for the given sample
// rate with the threshold at -20 dB, the ratio at zero (bypass), and
// the mix fully wet.
func NewLowLevel(sampleRate float64) (*LowLevel, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sample rate must be positive and finite: %f", sampleRate)
	}

	l := &LowLevel{
		sampleRate:   sampleRate,
		thresholdDB:  -20,
		mixAmount:    1.0,
		smoothedGain: 1.0,
	}
	l.updateCoefficients()
	l.Reset()

	return l, nil
}

// SetThreshold sets the gating threshold in decibels, from -40 to
// -3 dB.
func (l *LowLevel) SetThreshold(thresholdDB float64) error {
	if thresholdDB < -40 || thresholdDB > -3 || math.IsNaN(thresholdDB) {
		return fmt.Errorf("threshold must be between -40 and -3 dB: %f", thresholdDB)
	}
	l.thresholdDB = thresholdDB
	return nil
}

// SetRatio sets the amount control from -10 (strongest expansion)
// through 0 (bypass) to +10 (strongest lift).
func (l *LowLevel) SetRatio(ratio float64) error {
	if ratio < -10 || ratio > 10 || math.IsNaN(ratio) {
		return fmt.Errorf("ratio must be between -10 and 10: %f", ratio)
	}
	l.ratio = ratio
	return nil
}

// SetFastMode switches between the normal and fast detector timings.
func (l *LowLevel) SetFastMode(fast bool) {
	l.fastMode = fast
	l.updateCoefficients()
}

// SetMix sets the dry/wet mix in percent, clamped to [0, 100].
func (l *LowLevel) SetMix(percent float64) {
	if percent < 0 || math.IsNaN(percent) {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	l.mixAmount = percent / 100
}

// GainReductionDB returns the gain applied to the last sample in
// decibels, negative for expansion and positive for lift.
func (l *LowLevel) GainReductionDB() float64 {
	return l.currentGRDB
}

func (l *LowLevel) updateCoefficients() {
	sr := l.sampleRate
	l.rmsCoeff = math.Exp(-1 / (lowLevelRMSWindowSec * sr))
	l.peakHoldDecay = math.Exp(-1 / (lowLevelPeakHoldSec * sr))

	if l.fastMode {
		l.attackCoeff = math.Exp(-1 / (0.0005 * sr))
		l.releaseCoeff = math.Exp(-1 / (0.060 * sr))
		l.lifterAttackCoeff = l.attackCoeff
		l.lifterReleaseCoeff = l.releaseCoeff
	} else {
		l.attackCoeff = math.Exp(-1 / (0.015 * sr))
		l.releaseCoeff = math.Exp(-1 / (0.100 * sr))
		l.lifterAttackCoeff = math.Exp(-1 / (0.0005 * sr))
		l.lifterReleaseCoeff = math.Exp(-1 / (0.015 * sr))
	}
}

// ProcessSample applies the below-threshold gain shaping to a single
// sample.
func (l *LowLevel) ProcessSample(input float64) float64 {
	// zero ratio is an exact bypass, nothing may color the signal
	if math.Abs(l.ratio) < 0.01 {
		l.smoothedGain = 1.0
		l.currentGRDB = 0
		return input
	}

	instantLevel := math.Abs(input)
	instantDB := 20 * math.Log10(math.Max(instantLevel, lowLevelFloor))

	expanding := l.ratio < 0

	var detectorLevel float64
	if l.fastMode && expanding {
		// peak hold keeps the expander from chattering on decays
		if instantLevel > l.peakHold {
			l.peakHold = instantLevel
		} else {
			l.peakHold = instantLevel + l.peakHoldDecay*(l.peakHold-instantLevel)
		}
		detectorLevel = l.peakHold
	} else {
		l.rmsState = l.rmsState*l.rmsCoeff + input*input*(1-l.rmsCoeff)
		detectorLevel = mathSqrt(l.rmsState)
	}

	targetGainDB := 0.0
	if instantDB < l.thresholdDB {
		dbBelow := l.thresholdDB - instantDB
		if expanding {
			// quadratic knob scaling keeps fine control near zero:
			// -1 maps to about 1:1.03, -10 to the full 1:4
			norm := -l.ratio / 10
			slope := norm * norm * 3.0
			targetGainDB = math.Max(-dbBelow*slope, -96)
		} else {
			// +10 lifts three quarters of the way to the threshold
			targetGainDB = dbBelow * (l.ratio * 0.075)
		}

		// short quadratic knee around the threshold
		if dbBelow < lowLevelKneeWidthDB {
			kneeRatio := dbBelow / lowLevelKneeWidthDB
			targetGainDB *= kneeRatio * kneeRatio
		}
	}

	targetGain := mathExp(targetGainDB * (math.Ln10 / 20))

	if l.warmupSamples > 0 || detectorLevel < lowLevelFloor {
		if l.warmupSamples > 0 {
			l.warmupSamples--
		}
		// ease toward the target while the detectors settle, and keep
		// the gain within +-6 dB so a cold detector cannot spike
		initCoeff := l.attackCoeff
		if !expanding {
			initCoeff = l.lifterAttackCoeff
		}
		l.smoothedGain = 1 + initCoeff*(targetGain-1)
		l.smoothedGain = math.Min(math.Max(l.smoothedGain, 0.5), 2.0)
	} else if expanding {
		// gain drops slowly so transients escape, recovers fast when
		// the signal comes back above threshold
		if targetGain < l.smoothedGain {
			l.smoothedGain = targetGain + l.releaseCoeff*(l.smoothedGain-targetGain)
		} else {
			l.smoothedGain = targetGain + l.attackCoeff*(l.smoothedGain-targetGain)
		}
	} else {
		// lift builds slowly to avoid pumping, lets go fast so peaks
		// above threshold stay untouched
		if targetGain > l.smoothedGain {
			l.smoothedGain = targetGain + l.lifterReleaseCoeff*(l.smoothedGain-targetGain)
		} else {
			l.smoothedGain = targetGain + l.lifterAttackCoeff*(l.smoothedGain-targetGain)
		}
	}

	wet := input * l.smoothedGain
	l.currentGRDB = 20 / math.Ln10 * mathLog(math.Max(l.smoothedGain, lowLevelFloor))

	return input*(1-l.mixAmount) + wet*l.mixAmount
}

// ProcessBlock applies the gain shaping to samples in place.
func (l *LowLevel) ProcessBlock(samples []float64) {
	for i, s := range samples {
		samples[i] = l.ProcessSample(s)
	}
}

// Reset clears the detectors and restarts the warmup period.
func (l *LowLevel) Reset() {
	l.rmsState = 0
	l.peakHold = 0
	l.smoothedGain = 1.0
	l.currentGRDB = 0
	l.warmupSamples = lowLevelWarmupSamples
}

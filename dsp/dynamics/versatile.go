package dynamics

import (
	"fmt"
	"math"
)

// dbPerNeper converts between natural log and decibel domains.
const dbPerNeper = 8.65617025

// Versatile is a clean digital feed-forward compressor for peak
// control. Detection is peak style through a one-pole smoother, the
// gain computer works in the log domain, and the ballistics are
// multiplicative so attack and release scale with the distance to the
// target gain.
type Versatile struct {
	sampleRate float64

	thresholdDB float64
	ratioValue  float64
	attackMs    float64
	releaseMs   float64

	thresh  float64
	ratio   float64
	attack  float64
	release float64

	detCoeffA float64
	detCoeffB float64

	gain     float64
	seekGain float64
	det      float64

	grMeter      float64
	grMeterDecay float64
}

// NewVersatile creates a compressor for the given sample rate with the
// threshold at -20 dB, a 4:1 ratio, 20 ms attack, and 250 ms release.
func NewVersatile(sampleRate float64) (*Versatile, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("sample rate must be positive and finite: %f", sampleRate)
	}

	v := &Versatile{
		sampleRate: sampleRate,
		gain:       1.0,
		seekGain:   1.0,
		grMeter:    1.0,
	}

	v.detCoeffB = -math.Exp(-60.0 / sampleRate)
	v.detCoeffA = 1.0 + v.detCoeffB

	// meter recovers over roughly a second
	v.grMeterDecay = math.Exp(1.0 / sampleRate)

	if err := v.SetParameters(-20, 4, 20, 250); err != nil {
		return nil, err
	}

	return v, nil
}

// SetParameters sets the threshold in decibels (-60 to -0.1 dB), the
// ratio (1 to 20), and the attack and release times in milliseconds
// (0.1 to 5000 ms). A threshold of exactly 0 dB would make the
// log-domain ballistics degenerate, so it is excluded.
func (v *Versatile) SetParameters(thresholdDB, ratio, attackMs, releaseMs float64) error {
	if thresholdDB < -60 || thresholdDB > -0.1 || math.IsNaN(thresholdDB) {
		return fmt.Errorf("threshold must be between -60 and -0.1 dB: %f", thresholdDB)
	}
	if ratio < 1 || ratio > 20 || math.IsNaN(ratio) {
		return fmt.Errorf("ratio must be between 1 and 20: %f", ratio)
	}
	if attackMs < 0.1 || attackMs > 5000 || math.IsNaN(attackMs) {
		return fmt.Errorf("attack must be between 0.1 and 5000 ms: %f", attackMs)
	}
	if releaseMs < 0.1 || releaseMs > 5000 || math.IsNaN(releaseMs) {
		return fmt.Errorf("release must be between 0.1 and 5000 ms: %f", releaseMs)
	}

	v.thresholdDB = thresholdDB
	v.ratioValue = ratio
	v.attackMs = attackMs
	v.releaseMs = releaseMs

	v.thresh = math.Exp(thresholdDB / dbPerNeper)
	v.ratio = 1.0 / ratio
	v.attack = math.Exp(thresholdDB / (attackMs * v.sampleRate / 1000.0) / dbPerNeper)
	v.release = math.Exp(thresholdDB / (releaseMs * v.sampleRate / 1000.0) / dbPerNeper)

	return nil
}

// Threshold returns the current threshold in decibels.
func (v *Versatile) Threshold() float64 {
	return v.thresholdDB
}

// Ratio returns the current compression ratio.
func (v *Versatile) Ratio() float64 {
	return v.ratioValue
}

// GainReductionDB returns the metered gain reduction in decibels as a
// non-positive value with a one second recovery.
func (v *Versatile) GainReductionDB() float64 {
	if v.grMeter <= 0 {
		return -150.0
	}
	return math.Log(v.grMeter) * (20.0 / math.Ln10)
}

// ProcessSample compresses a single sample.
func (v *Versatile) ProcessSample(input float64) float64 {
	level := math.Abs(input)
	v.det = v.detCoeffA*level - v.detCoeffB*v.det
	level = mathSqrt(v.det)

	if level > v.thresh {
		v.seekGain = mathExp((v.thresholdDB+(mathLog(level)*dbPerNeper-v.thresholdDB)*v.ratio)/dbPerNeper) / level
	} else {
		v.seekGain = 1.0
	}

	if v.gain > v.seekGain {
		v.gain = math.Max(v.gain*v.attack, v.seekGain)
	} else {
		v.gain = math.Min(v.gain/v.release, v.seekGain)
	}

	if v.gain < v.grMeter {
		v.grMeter = v.gain
	} else {
		v.grMeter *= v.grMeterDecay
		if v.grMeter > 1.0 {
			v.grMeter = 1.0
		}
	}

	return input * v.gain
}

// ProcessBlock compresses samples in place.
func (v *Versatile) ProcessBlock(samples []float64) {
	for i, s := range samples {
		samples[i] = v.ProcessSample(s)
	}
}

// Reset clears the detector and gain state.
func (v *Versatile) Reset() {
	v.gain = 1.0
	v.seekGain = 1.0
	v.det = 0
	v.grMeter = 1.0
}

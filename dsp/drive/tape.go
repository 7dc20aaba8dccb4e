package drive

import (
	"math"

	"github.com/cwbudde/algo-channel/dsp/core"
	"github.com/cwbudde/algo-channel/dsp/filter/biquad"
	"github.com/cwbudde/algo-channel/dsp/filter/design"
)

const (
	biasStages      = 9
	flutterBufMax   = 1000
	clipSpacingMax  = 16
	headBumpReso    = 0.618033988749894848204586
	goldenRatio     = 1.618033988749894848204586
	dublyLogDivisor = 2.40823996531 // ln(256), companding law scale
)

// tapeDefaults are the fixed voicing controls of the tape stage on a
// 0..1 scale: companding depth, encode/decode corner, flutter depth
// and speed, bias, head bump amount and head resonance placement.
type tapeDefaults struct {
	dubly, iirFreq, flutterDepth, flutterSpeed, bias, headBump, headFreq float64
}

var defaultTapeVoicing = tapeDefaults{
	dubly:        0.5,
	iirFreq:      0.5,
	flutterDepth: 0.38,
	flutterSpeed: 0.435,
	bias:         0.5,
	headBump:     0.5,
	headFreq:     0.5,
}

// Tape is a full tape-path emulation: a Dolby-style single-band
// companding encode, wow/flutter via a modulated delay line, a
// bias-dependent slew ladder, separate low/high saturation around a
// mid rolloff, a resonant head-bump low end, the matching companding
// decode, and a soft safety clipper with lookahead spacing.
//
// Each instance carries its own noise generator for flutter timing
// randomization, so two instances with different seeds drift apart
// the way two tape machines would.
type Tape struct {
	sampleRate   float64
	overallScale float64
	spacing      int

	driveDB   float64
	gain      float64
	inputGain float64

	dublyAmount float64
	outlyAmount float64
	iirEncFreq  float64
	iirDecFreq  float64
	iirMidFreq  float64

	flutDepth     float64
	flutFrequency float64

	bias      float64
	underBias float64

	headBumpDrive float64
	headBumpMix   float64
	iirSubFreq    float64
	outputGain    float64

	// companding state
	iirEnc, iirDec   float64
	compEnc, compDec float64
	avgEnc, avgDec   float64

	// flutter state
	delayBuffer    [flutterBufMax + 2]float64
	gcount         int
	sweep, nextmax float64
	phantomSweep   float64
	phantomNextmax float64

	// bias ladder state, alternating previous sample and threshold
	gslew [2 * biasStages]float64

	iirMidRoller float64
	iirLowCutoff float64

	headBump float64
	headBiqA *biquad.Section
	headBiqB *biquad.Section

	// safety clipper state
	lastSample   float64
	intermediate [clipSpacingMax]float64
	wasPosClip   bool
	wasNegClip   bool

	rng *core.Xorshift32
}

// NewTape creates a Tape stage at 0 dB drive with the given noise
// seed. A zero seed selects the default. Sample rate must be positive
// and finite.
func NewTape(sampleRate float64, seed uint32) (*Tape, error) {
	if err := validateSampleRate("tape", sampleRate); err != nil {
		return nil, err
	}

	t := &Tape{
		sampleRate: sampleRate,
		rng:        core.NewXorshift32(seed),
		headBiqA:   biquad.NewSection(biquad.Coefficients{}),
		headBiqB:   biquad.NewSection(biquad.Coefficients{}),
	}

	t.gain = 1
	t.inputGain = 1
	t.updateCoefficients()
	t.Reset()
	return t, nil
}

// SetDrive sets the drive in dB. Range: -18 to +18 dB.
//
// Positive drive pushes the tape path with up to +12 dB of squared
// input gain; negative drive is clean attenuation ahead of a neutral
// path.
func (t *Tape) SetDrive(dB float64) error {
	if err := validateDrive(dB); err != nil {
		return err
	}
	t.driveDB = dB

	gain, intensity := driveParams(dB)
	t.gain = gain
	t.inputGain = (intensity * 2) * (intensity * 2)
	return nil
}

// Drive returns the drive in dB.
func (t *Tape) Drive() float64 { return t.driveDB }

// Reseed reseeds the flutter noise generator and redraws the sweep
// targets. A zero seed selects the default.
func (t *Tape) Reseed(seed uint32) {
	t.rng.Reseed(seed)
	t.nextmax = t.nextFlutterTarget()
	t.phantomNextmax = t.nextFlutterTarget()
}

// Reset clears all processing state. The flutter sweep targets are
// redrawn so flutter keeps moving from the first sample.
func (t *Tape) Reset() {
	t.iirEnc, t.iirDec = 0, 0
	t.compEnc, t.compDec = 0, 0
	t.avgEnc, t.avgDec = 0, 0

	t.delayBuffer = [flutterBufMax + 2]float64{}
	t.gcount = 0
	t.sweep = 0
	t.phantomSweep = math.Pi

	t.nextmax = t.nextFlutterTarget()
	t.phantomNextmax = t.nextFlutterTarget()

	for i := range t.gslew {
		if i%2 == 0 {
			t.gslew[i] = 0
		}
	}

	t.iirMidRoller = 0
	t.iirLowCutoff = 0
	t.headBump = 0
	t.headBiqA.Reset()
	t.headBiqB.Reset()

	t.lastSample = 0
	t.intermediate = [clipSpacingMax]float64{}
	t.wasPosClip = false
	t.wasNegClip = false
}

// nextFlutterTarget draws the next sweep increment scale in [0.24, 0.98].
// A nonzero floor keeps the flutter sweep from freezing.
func (t *Tape) nextFlutterTarget() float64 {
	return 0.24 + t.rng.Uniform()*0.74
}

func (t *Tape) updateCoefficients() {
	v := defaultTapeVoicing

	t.overallScale = t.sampleRate / 44100
	t.spacing = core.ClampInt(int(math.Floor(t.overallScale)), 1, clipSpacingMax)

	t.dublyAmount = v.dubly * 2
	t.outlyAmount = (1 - v.dubly) * -2
	if t.outlyAmount < -1 {
		t.outlyAmount = -1
	}

	t.iirEncFreq = (1 - v.iirFreq) / t.overallScale
	t.iirDecFreq = v.iirFreq / t.overallScale
	t.iirMidFreq = (v.iirFreq*0.618 + 0.382) / t.overallScale

	t.flutDepth = math.Pow(v.flutterDepth, 6) * t.overallScale * 50
	if t.flutDepth > 498 {
		t.flutDepth = 498
	}
	t.flutFrequency = (0.02 * math.Pow(v.flutterSpeed, 3)) / t.overallScale

	t.bias = v.bias*2 - 1
	t.underBias = (math.Pow(t.bias, 4) * 0.25) / t.overallScale
	overBias := math.Pow(1-t.bias, 3) / t.overallScale
	if t.bias > 0 {
		t.underBias = 0
	}
	if t.bias < 0 {
		overBias = 1 / t.overallScale
	}

	// Golden ratio ladder: each earlier stage tolerates a wider slew.
	t.gslew[2*biasStages-1] = overBias
	for i := biasStages - 1; i >= 1; i-- {
		overBias *= goldenRatio
		t.gslew[2*i-1] = overBias
	}

	t.headBumpDrive = (v.headBump * 0.1) / t.overallScale
	t.headBumpMix = v.headBump * 0.5
	subCurve := math.Sin(v.headBump * math.Pi)
	t.iirSubFreq = (subCurve * 0.008) / t.overallScale

	headFreqA := (v.headFreq*v.headFreq*175 + 25) / t.sampleRate
	t.headBiqA.Coefficients = design.KTanBandpass(headFreqA, headBumpReso)
	t.headBiqB.Coefficients = design.KTanBandpass(headFreqA*0.9375, headBumpReso)

	t.outputGain = 1
}

// ProcessSample runs one sample through the full tape path.
func (t *Tape) ProcessSample(x float64) float64 {
	x = t.rng.DenormalGuard(x)
	x *= t.gain
	if t.inputGain != 1 {
		x *= t.inputGain
	}

	x = t.dublyEncode(x)
	x = t.flutter(x)
	x = t.biasLadder(x)
	x = t.headSaturation(x)
	x = t.dublyDecode(x)

	if t.outputGain != 1 {
		x *= t.outputGain
	}

	return t.safetyClip(x)
}

// dublyEncode boosts highs through a log-law compressor before the
// tape nonlinearity, mirrored by dublyDecode afterward.
func (t *Tape) dublyEncode(x float64) float64 {
	t.iirEnc = t.iirEnc*(1-t.iirEncFreq) + x*t.iirEncFreq
	highPart := (x - t.iirEnc) * 2.848
	highPart += t.avgEnc
	t.avgEnc = (x - t.iirEnc) * 1.152
	highPart = core.Clamp(highPart, -1, 1)

	dubly := math.Abs(highPart)
	if dubly > 0 {
		adjust := math.Log(1+255*dubly) / dublyLogDivisor
		if adjust > 0 {
			dubly /= adjust
		}
		t.compEnc = t.compEnc*(1-t.iirEncFreq) + dubly*t.iirEncFreq
		x += highPart * t.compEnc * t.dublyAmount
	}

	return x
}

func (t *Tape) dublyDecode(x float64) float64 {
	t.iirDec = t.iirDec*(1-t.iirDecFreq) + x*t.iirDecFreq
	highPart := (x - t.iirDec) * 2.628
	highPart += t.avgDec
	t.avgDec = (x - t.iirDec) * 1.372
	highPart = core.Clamp(highPart, -1, 1)

	dubly := math.Abs(highPart)
	if dubly > 0 {
		adjust := math.Log(1+255*dubly) / dublyLogDivisor
		if adjust > 0 {
			dubly /= adjust
		}
		t.compDec = t.compDec*(1-t.iirDecFreq) + dubly*t.iirDecFreq
		x += highPart * t.compDec * t.outlyAmount
	}

	return x
}

// flutter modulates a short delay line with a randomly retargeted
// sine sweep. A phantom second sweep, started half a cycle out of
// phase, stands in for the opposite channel of a stereo pair: each
// sweep picks whichever of two random candidates lands farther from
// the other sweep's position, keeping the two from locking together.
func (t *Tape) flutter(x float64) float64 {
	if t.flutDepth <= 0 {
		return x
	}

	if t.gcount < 0 || t.gcount > flutterBufMax-1 {
		t.gcount = flutterBufMax - 1
	}
	t.delayBuffer[t.gcount] = x
	count := t.gcount

	offset := t.flutDepth + t.flutDepth*math.Sin(t.sweep)
	t.sweep += t.nextmax * t.flutFrequency
	t.phantomSweep += t.phantomNextmax * t.flutFrequency

	if t.sweep > 2*math.Pi {
		t.sweep -= 2 * math.Pi
		flutA := t.nextFlutterTarget()
		flutB := t.nextFlutterTarget()
		ref := math.Sin(t.phantomSweep + t.phantomNextmax)
		if math.Abs(flutA-ref) < math.Abs(flutB-ref) {
			t.nextmax = flutA
		} else {
			t.nextmax = flutB
		}
	}

	if t.phantomSweep > 2*math.Pi {
		t.phantomSweep -= 2 * math.Pi
		flutA := t.nextFlutterTarget()
		flutB := t.nextFlutterTarget()
		ref := math.Sin(t.sweep + t.nextmax)
		if math.Abs(flutA-ref) < math.Abs(flutB-ref) {
			t.phantomNextmax = flutA
		} else {
			t.phantomNextmax = flutB
		}
	}

	count += int(math.Floor(offset))
	frac := offset - math.Floor(offset)

	i0 := count
	if i0 > flutterBufMax-1 {
		i0 -= flutterBufMax
	}
	i1 := count + 1
	if i1 > flutterBufMax-1 {
		i1 -= flutterBufMax
	}

	x = t.delayBuffer[i0] * (1 - frac)
	x += t.delayBuffer[i1] * frac
	t.gcount--

	return x
}

// biasLadder applies nine cascaded slew limiters whose thresholds
// climb by the golden ratio, emulating over/under bias behavior.
func (t *Tape) biasLadder(x float64) float64 {
	if math.Abs(t.bias) <= 0.001 {
		return x
	}

	for i := 0; i < biasStages; i++ {
		prev := t.gslew[2*i]
		threshold := t.gslew[2*i+1]

		if t.underBias > 0 {
			stuck := math.Abs(x-prev/0.975) / t.underBias
			if stuck < 1 {
				x = x*stuck + (prev/0.975)*(1-stuck)
			}
		}

		if x-prev > threshold {
			x = prev + threshold
		}
		if -(x - prev) > threshold {
			x = prev - threshold
		}

		t.gslew[2*i] = x * 0.975
	}

	return x
}

// headSaturation splits the signal at the mid rolloff, saturates lows
// with a sine shaper and thins highs with a cosine law, then feeds the
// saturated lows into the resonant head-bump pair.
func (t *Tape) headSaturation(x float64) float64 {
	t.iirMidRoller = t.iirMidRoller*(1-t.iirMidFreq) + x*t.iirMidFreq
	highs := x - t.iirMidRoller
	lows := t.iirMidRoller

	if t.iirSubFreq > 0 {
		t.iirLowCutoff = t.iirLowCutoff*(1-t.iirSubFreq) + lows*t.iirSubFreq
		lows -= t.iirLowCutoff
	}

	lows = core.Clamp(lows, -1.57079633, 1.57079633)
	lows = math.Sin(lows)

	thinned := math.Abs(highs) * 1.57079633
	if thinned > 1.57079633 {
		thinned = 1.57079633
	}
	thinned = 1 - math.Cos(thinned)
	if highs < 0 {
		thinned = -thinned
	}
	highs -= thinned

	var bumpSample float64
	if t.headBumpMix > 0 {
		t.headBump += lows * t.headBumpDrive
		t.headBump -= t.headBump * t.headBump * t.headBump * (0.0618 / math.Sqrt(t.overallScale))
		bumpSample = t.headBiqB.ProcessSample(t.headBiqA.ProcessSample(t.headBump))
	}

	return lows + highs + bumpSample*t.headBumpMix
}

// safetyClip is a slew-aware clipper: entering a clip replaces the
// sample with a weighted blend of the prior sample, and leaving it
// eases back over a sample instead of snapping. The output is delayed
// by spacing samples so the blend has the future sample available.
func (t *Tape) safetyClip(x float64) float64 {
	x = core.Clamp(x, -4, 4)

	if t.wasPosClip {
		if x < t.lastSample {
			t.lastSample = 0.7058208 + x*0.2609148
		} else {
			t.lastSample = 0.2491717 + t.lastSample*0.7390851
		}
	}
	t.wasPosClip = false
	if x > 0.9549925859 {
		t.wasPosClip = true
		x = 0.7058208 + t.lastSample*0.2609148
	}

	if t.wasNegClip {
		if x > t.lastSample {
			t.lastSample = -0.7058208 + x*0.2609148
		} else {
			t.lastSample = -0.2491717 + t.lastSample*0.7390851
		}
	}
	t.wasNegClip = false
	if x < -0.9549925859 {
		t.wasNegClip = true
		x = -0.7058208 + t.lastSample*0.2609148
	}

	t.intermediate[t.spacing-1] = x
	out := t.lastSample
	for i := t.spacing - 1; i > 0; i-- {
		t.intermediate[i-1] = t.intermediate[i]
	}
	t.lastSample = t.intermediate[0]

	return out
}

package dynamics

import (
	"math"
	"testing"
)

func TestInterpolateLinEndpoints(t *testing.T) {
	if got := interpolateLin(0, opticalTable13); got != 0 {
		t.Errorf("expected 0 at the low end, got %g", got)
	}
	if got := interpolateLin(1, opticalTable13); math.Abs(got-1) > 1e-6 {
		t.Errorf("expected 1 at the high end, got %g", got)
	}
	if got := interpolateLin(-0.5, opticalTable13); got != 0 {
		t.Errorf("negative input should clamp to the low end, got %g", got)
	}
}

func TestOpticalTable13Monotonic(t *testing.T) {
	for i := 1; i < len(opticalTable13); i++ {
		if opticalTable13[i] < opticalTable13[i-1] {
			t.Fatalf("table13 not monotonic at %d: %g < %g",
				i, opticalTable13[i], opticalTable13[i-1])
		}
	}
	if len(opticalTable13) != 252 {
		t.Fatalf("table13 length = %d, want 252", len(opticalTable13))
	}
}

func TestInterpolateExpZeroReturnsCenter(t *testing.T) {
	if got := interpolateExp(0, opticalTable3, false); got != opticalTable3[23] {
		t.Errorf("zero input should return the center entry, got %g", got)
	}
	if got := interpolateExp(0, opticalTable12, true); got != opticalTable12[46] {
		t.Errorf("zero input on a signed table should return its center, got %g", got)
	}
}

func TestInterpolateExpPowerOfTwo(t *testing.T) {
	// exact powers of two land on a table entry with zero fraction
	if got := interpolateExp(0.25, opticalTable3, false); got != opticalTable3[3] {
		t.Errorf("interpolateExp(0.25) = %g, want table entry %g", got, opticalTable3[3])
	}
	if got := interpolateExp(0.5, opticalTable3, false); got != opticalTable3[2] {
		t.Errorf("interpolateExp(0.5) = %g, want table entry %g", got, opticalTable3[2])
	}
}

func TestNewOpticalRejectsInvalidSampleRate(t *testing.T) {
	for _, sr := range []float64{0, -44100, math.NaN(), math.Inf(1)} {
		if _, err := NewOptical(sr); err == nil {
			t.Errorf("expected error for sample rate %f", sr)
		}
	}
}

func TestOpticalParameterValidation(t *testing.T) {
	o, err := NewOptical(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.SetThreshold(-41); err == nil {
		t.Error("expected error for threshold below range")
	}
	if err := o.SetThreshold(41); err == nil {
		t.Error("expected error for threshold above range")
	}
	if err := o.SetRatio(1); err == nil {
		t.Error("expected error for ratio below range")
	}
	if err := o.SetRatio(11); err == nil {
		t.Error("expected error for ratio above range")
	}
	if err := o.SetOutputGain(-25); err == nil {
		t.Error("expected error for output gain below range")
	}
}

func TestOpticalSilencePassesWithoutReduction(t *testing.T) {
	o, err := NewOptical(44100)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4410; i++ {
		o.ProcessSample(0)
	}
	if gr := o.GainReductionDB(); gr != 0 {
		t.Errorf("silence should show no gain reduction, got %g dB", gr)
	}
}

func TestOpticalCompressesLoudSignal(t *testing.T) {
	o, err := NewOptical(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.SetThreshold(-40); err != nil {
		t.Fatal(err)
	}

	w := 2 * math.Pi * 1000 / 44100
	for i := 0; i < 44100; i++ {
		o.ProcessSample(0.9 * math.Sin(w*float64(i)))
	}
	if gr := o.GainReductionDB(); gr > -6 {
		t.Errorf("expected deep gain reduction on a hot signal, got %g dB", gr)
	}
}

func TestOpticalManualAttackIsSlower(t *testing.T) {
	fixed, err := NewOptical(44100)
	if err != nil {
		t.Fatal(err)
	}
	manual, err := NewOptical(44100)
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range []*Optical{fixed, manual} {
		if err := o.SetThreshold(-40); err != nil {
			t.Fatal(err)
		}
	}
	// slowest manual attack barely moves the envelope in 500 samples
	manual.SetEnvelope(OpticalManual, 1, 0.5)

	w := 2 * math.Pi * 1000 / 44100
	for i := 0; i < 500; i++ {
		in := 0.9 * math.Sin(w*float64(i))
		fixed.ProcessSample(in)
		manual.ProcessSample(in)
	}
	if manual.GainReductionDB() <= fixed.GainReductionDB() {
		t.Errorf("manual attack should reduce less than fixed early on: manual %g dB, fixed %g dB",
			manual.GainReductionDB(), fixed.GainReductionDB())
	}
}

func TestOpticalResetClearsState(t *testing.T) {
	o, err := NewOptical(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.SetThreshold(-40); err != nil {
		t.Fatal(err)
	}
	w := 2 * math.Pi * 1000 / 44100
	for i := 0; i < 4410; i++ {
		o.ProcessSample(0.9 * math.Sin(w*float64(i)))
	}
	o.Reset()
	if gr := o.GainReductionDB(); gr != 0 {
		t.Errorf("reset should clear the gain reduction, got %g dB", gr)
	}
}

func TestNewVersatileRejectsInvalidSampleRate(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN()} {
		if _, err := NewVersatile(sr); err == nil {
			t.Errorf("expected error for sample rate %f", sr)
		}
	}
}

func TestVersatileParameterValidation(t *testing.T) {
	v, err := NewVersatile(44100)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name                    string
		thresh, ratio, att, rel float64
	}{
		{"threshold too low", -61, 4, 20, 250},
		{"threshold at zero", 0, 4, 20, 250},
		{"ratio below unity", -20, 0.5, 20, 250},
		{"ratio too high", -20, 21, 20, 250},
		{"attack too short", -20, 4, 0.01, 250},
		{"release too long", -20, 4, 20, 6000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := v.SetParameters(tc.thresh, tc.ratio, tc.att, tc.rel); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestVersatileBelowThresholdIsTransparent(t *testing.T) {
	v, err := NewVersatile(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.SetParameters(-20, 4, 20, 250); err != nil {
		t.Fatal(err)
	}

	w := 2 * math.Pi * 440 / 44100
	for i := 0; i < 44100; i++ {
		in := 0.003 * math.Sin(w*float64(i))
		out := v.ProcessSample(in)
		if out != in {
			t.Fatalf("sample %d: expected unity gain below threshold, in %g out %g", i, in, out)
		}
	}
	if gr := v.GainReductionDB(); gr != 0 {
		t.Errorf("expected no metered reduction, got %g dB", gr)
	}
}

func TestVersatileSteadyStateGainReduction(t *testing.T) {
	v, err := NewVersatile(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.SetParameters(-20, 4, 20, 250); err != nil {
		t.Fatal(err)
	}

	// constant 0.5 input: the detector settles at sqrt(0.5), about
	// -3 dB, which is 17 dB over the threshold. At 4:1 the computed
	// gain lands near -12.79 dB.
	for i := 0; i < 88200; i++ {
		v.ProcessSample(0.5)
	}
	if gr := v.GainReductionDB(); math.Abs(gr-(-12.79)) > 0.2 {
		t.Errorf("steady-state gain reduction = %g dB, want about -12.79 dB", gr)
	}
}

func TestVersatileResetRestoresUnity(t *testing.T) {
	v, err := NewVersatile(44100)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4410; i++ {
		v.ProcessSample(0.9)
	}
	v.Reset()
	if out := v.ProcessSample(0.001); out != 0.001 {
		t.Errorf("expected unity gain right after reset, got %g", out)
	}
}

func TestNewLowLevelRejectsInvalidSampleRate(t *testing.T) {
	for _, sr := range []float64{0, -48000, math.Inf(-1)} {
		if _, err := NewLowLevel(sr); err == nil {
			t.Errorf("expected error for sample rate %f", sr)
		}
	}
}

func TestLowLevelZeroRatioIsExactBypass(t *testing.T) {
	l, err := NewLowLevel(44100)
	if err != nil {
		t.Fatal(err)
	}
	inputs := []float64{0, 0.001, -0.5, 0.9999, -1e-12, 123.456}
	for _, in := range inputs {
		if out := l.ProcessSample(in); out != in {
			t.Errorf("bypass must be exact: in %g out %g", in, out)
		}
	}
	if gr := l.GainReductionDB(); gr != 0 {
		t.Errorf("bypass must show no gain change, got %g dB", gr)
	}
}

func TestLowLevelExpansionReducesQuietSignal(t *testing.T) {
	l, err := NewLowLevel(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.SetRatio(-10); err != nil {
		t.Fatal(err)
	}

	w := 2 * math.Pi * 440 / 44100
	var inRMS, outRMS float64
	for i := 0; i < 44100; i++ {
		in := 0.003 * math.Sin(w*float64(i))
		out := l.ProcessSample(in)
		if i >= 22050 {
			inRMS += in * in
			outRMS += out * out
		}
	}
	if outRMS >= inRMS*0.01 {
		t.Errorf("expected strong expansion of a quiet signal: in power %g, out power %g", inRMS, outRMS)
	}
	if gr := l.GainReductionDB(); gr > -20 {
		t.Errorf("expected deep gain reduction, got %g dB", gr)
	}
}

func TestLowLevelExpanderSlopeFormula(t *testing.T) {
	l, err := NewLowLevel(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.SetRatio(-10); err != nil {
		t.Fatal(err)
	}

	// A constant level pins the instantaneous detector, so the gain
	// must converge on the slope formula: 20 dB below the -20 dB
	// threshold at full ratio (slope 3) means -60 dB.
	for i := 0; i < 2*44100; i++ {
		l.ProcessSample(0.01)
	}
	if gr := l.GainReductionDB(); math.Abs(gr+60) > 0.5 {
		t.Errorf("expected about -60 dB from the slope formula, got %g dB", gr)
	}

	// Far below threshold the target pegs at the -96 dB floor.
	l.Reset()
	if err := l.SetThreshold(-3); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3*44100; i++ {
		l.ProcessSample(1e-4)
	}
	if gr := l.GainReductionDB(); math.Abs(gr+96) > 1 {
		t.Errorf("expected the -96 dB floor, got %g dB", gr)
	}
}

func TestLowLevelLiftRaisesQuietSignal(t *testing.T) {
	l, err := NewLowLevel(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.SetRatio(10); err != nil {
		t.Fatal(err)
	}

	w := 2 * math.Pi * 440 / 44100
	var inRMS, outRMS float64
	for i := 0; i < 44100; i++ {
		in := 0.003 * math.Sin(w*float64(i))
		out := l.ProcessSample(in)
		if i >= 22050 {
			inRMS += in * in
			outRMS += out * out
		}
	}
	if outRMS <= inRMS*9 {
		t.Errorf("expected at least 9.5 dB of lift: in power %g, out power %g", inRMS, outRMS)
	}
	if gr := l.GainReductionDB(); gr <= 0 {
		t.Errorf("lift should meter as positive gain, got %g dB", gr)
	}
}

func TestLowLevelMixZeroReturnsDry(t *testing.T) {
	l, err := NewLowLevel(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.SetRatio(-10); err != nil {
		t.Fatal(err)
	}
	l.SetMix(0)

	w := 2 * math.Pi * 440 / 44100
	for i := 0; i < 1000; i++ {
		in := 0.003 * math.Sin(w*float64(i))
		if out := l.ProcessSample(in); out != in {
			t.Fatalf("sample %d: dry mix must pass the input through, in %g out %g", i, in, out)
		}
	}
}

func TestLowLevelWarmupLimitsGain(t *testing.T) {
	l, err := NewLowLevel(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.SetRatio(10); err != nil {
		t.Fatal(err)
	}

	// cold detectors may not spike the lift past +6 dB
	for i := 0; i < 50; i++ {
		in := 0.0001
		out := l.ProcessSample(in)
		if math.Abs(out) > math.Abs(in)*2.0001 {
			t.Fatalf("sample %d: warmup gain exceeded +6 dB: in %g out %g", i, in, out)
		}
	}
}

func TestLowLevelParameterValidation(t *testing.T) {
	l, err := NewLowLevel(44100)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.SetThreshold(-41); err == nil {
		t.Error("expected error for threshold below range")
	}
	if err := l.SetThreshold(-2); err == nil {
		t.Error("expected error for threshold above range")
	}
	if err := l.SetRatio(-11); err == nil {
		t.Error("expected error for ratio below range")
	}
	if err := l.SetRatio(10.5); err == nil {
		t.Error("expected error for ratio above range")
	}
}

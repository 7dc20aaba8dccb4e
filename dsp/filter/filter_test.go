package filter

import (
	"math"
	"testing"
)

const testSampleRate = 48000.0

// sineGainDB drives a settled sine through fn and measures steady-state
// gain in dB at the given frequency.
func sineGainDB(t *testing.T, process func(float64) float64, freqHz float64) float64 {
	t.Helper()

	w := 2 * math.Pi * freqHz / testSampleRate
	const settle = 4800
	const measure = 9600

	var peakIn, peakOut float64
	for i := 0; i < settle+measure; i++ {
		x := math.Sin(w * float64(i))
		y := process(x)
		if i >= settle {
			if a := math.Abs(x); a > peakIn {
				peakIn = a
			}
			if a := math.Abs(y); a > peakOut {
				peakOut = a
			}
		}
	}

	return 20 * math.Log10(peakOut/peakIn)
}

func TestBaxandallFlatAtZeroGain(t *testing.T) {
	b, err := NewBaxandall(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	// With both shelves at 0 dB the bass lowpass and treble highpass
	// complement each other. The low-Q crossover leaves a small ripple
	// in the midband, so the tolerance is loose there.
	for _, f := range []float64{100, 1000, 5000} {
		b.Reset()
		if db := sineGainDB(t, b.ProcessSample, f); math.Abs(db) > 1.5 {
			t.Errorf("f=%g: flat response off by %.3f dB", f, db)
		}
	}
}

func TestBaxandallBassBoost(t *testing.T) {
	b, err := NewBaxandall(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetBass(12); err != nil {
		t.Fatal(err)
	}

	low := sineGainDB(t, b.ProcessSample, 50)
	b.Reset()
	high := sineGainDB(t, b.ProcessSample, 10000)

	if low < 8 {
		t.Errorf("50 Hz gain = %.2f dB, want strong boost", low)
	}
	if low-high < 6 {
		t.Errorf("tilt = %.2f dB, want bass well above treble", low-high)
	}
}

func TestBaxandallTrebleCut(t *testing.T) {
	b, err := NewBaxandall(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetTreble(-12); err != nil {
		t.Fatal(err)
	}

	high := sineGainDB(t, b.ProcessSample, 15000)
	b.Reset()
	low := sineGainDB(t, b.ProcessSample, 100)

	if high > -6 {
		t.Errorf("15 kHz gain = %.2f dB, want clear cut", high)
	}
	if low-high < 4 {
		t.Errorf("tilt = %.2f dB, want treble well below bass", low-high)
	}
}

func TestBaxandallRejectsOutOfRangeGain(t *testing.T) {
	b, err := NewBaxandall(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := b.SetBass(25); err == nil {
		t.Error("SetBass(25) should fail")
	}
	if err := b.SetTreble(-30); err == nil {
		t.Error("SetTreble(-30) should fail")
	}
	if err := b.SetBassFreq(-100); err == nil {
		t.Error("SetBassFreq(-100) should fail")
	}
}

func TestNewBaxandallInvalidSampleRate(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewBaxandall(sr); err == nil {
			t.Errorf("NewBaxandall(%v) should fail", sr)
		}
	}
}

func TestBellUnityAtZeroGain(t *testing.T) {
	b, err := NewBell(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetParameters(1000, 0); err != nil {
		t.Fatal(err)
	}

	for _, x := range []float64{0.5, -0.25, 1.0} {
		if y := b.ProcessSample(x); math.Abs(y-x) > 1e-9 {
			t.Errorf("ProcessSample(%g) = %g, want pass-through", x, y)
		}
	}
}

func TestBellBoostAtCenter(t *testing.T) {
	b, err := NewBell(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetParameters(1000, 6); err != nil {
		t.Fatal(err)
	}

	if db := sineGainDB(t, b.ProcessSample, 1000); math.Abs(db-6) > 0.2 {
		t.Errorf("center gain = %.2f dB, want ~6", db)
	}
}

func TestBellDynamicQ(t *testing.T) {
	tests := []struct {
		name   string
		gainDB float64
		freqHz float64
		want   float64
	}{
		{"small boost mid", 1, 1000, (0.15 + (1.0/12)*0.6) * (1.1 + 0.2*(-0.2))},
		{"full boost low", 12, 200, 0.75 * 1.1},
		{"full cut high", -12, 5000, (0.25 + 2.8) * 0.9},
		{"zero gain mid", 0, 1000, 0.25 * (1.1 + 0.2*(-0.2))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dynamicQ(tt.gainDB, tt.freqHz)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("dynamicQ(%g, %g) = %g, want %g", tt.gainDB, tt.freqHz, got, tt.want)
			}
		})
	}
}

func TestBellCutsNarrowerThanBoosts(t *testing.T) {
	boost := dynamicQ(9, 1000)
	cut := dynamicQ(-9, 1000)
	if cut <= boost {
		t.Errorf("cut Q %g should exceed boost Q %g", cut, boost)
	}
}

func TestBellQOffsetAndClamp(t *testing.T) {
	b, err := NewBell(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetParameters(1000, -12); err != nil {
		t.Fatal(err)
	}

	base := b.Q()
	if err := b.SetQOffset(0.06); err != nil {
		t.Fatal(err)
	}
	if got := b.Q(); math.Abs(got-(base+0.06)) > 1e-12 {
		t.Errorf("Q with offset = %g, want %g", got, base+0.06)
	}

	// Extreme offsets clamp rather than destabilize.
	if err := b.SetQOffset(100); err != nil {
		t.Fatal(err)
	}
	if got := b.Q(); got != 10.0 {
		t.Errorf("clamped Q = %g, want 10", got)
	}
}

func TestBellRejectsInvalidParameters(t *testing.T) {
	b, err := NewBell(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}

	if err := b.SetParameters(0, 0); err == nil {
		t.Error("zero frequency should fail")
	}
	if err := b.SetParameters(1000, 13); err == nil {
		t.Error("gain above range should fail")
	}
	if err := b.SetQOffset(math.NaN()); err == nil {
		t.Error("NaN offset should fail")
	}
}

package design

import (
	"math"
	"testing"
)

const sampleRate = 48000.0

func TestLowpassDCAndNyquist(t *testing.T) {
	c := Lowpass(1000, 0.707, sampleRate)

	if db := c.MagnitudeDB(1, sampleRate); math.Abs(db) > 0.01 {
		t.Errorf("DC gain = %.4f dB, want ~0", db)
	}
	if db := c.MagnitudeDB(23999, sampleRate); db > -60 {
		t.Errorf("Nyquist gain = %.1f dB, want strong rejection", db)
	}
}

func TestHighpassDCAndNyquist(t *testing.T) {
	c := Highpass(1000, 0.707, sampleRate)

	if db := c.MagnitudeDB(1, sampleRate); db > -60 {
		t.Errorf("DC gain = %.1f dB, want strong rejection", db)
	}
	if db := c.MagnitudeDB(23990, sampleRate); math.Abs(db) > 0.05 {
		t.Errorf("Nyquist gain = %.4f dB, want ~0", db)
	}
}

func TestLowpassCutoffAttenuation(t *testing.T) {
	// Butterworth Q puts the corner at -3 dB.
	c := Lowpass(1000, 1/math.Sqrt2, sampleRate)
	if db := c.MagnitudeDB(1000, sampleRate); math.Abs(db+3.01) > 0.1 {
		t.Errorf("corner gain = %.3f dB, want about -3", db)
	}
}

func TestPeakUnityAtZeroGain(t *testing.T) {
	c := Peak(2500, 0, 1.0, sampleRate)
	for _, f := range []float64{100, 1000, 2500, 10000} {
		if db := c.MagnitudeDB(f, sampleRate); math.Abs(db) > 1e-9 {
			t.Errorf("f=%g: gain = %g dB, want 0", f, db)
		}
	}
}

func TestPeakGainAtCenter(t *testing.T) {
	for _, gain := range []float64{-12, -6, 3, 6, 12} {
		c := Peak(1000, gain, 1.5, sampleRate)
		if db := c.MagnitudeDB(1000, sampleRate); math.Abs(db-gain) > 0.01 {
			t.Errorf("gain %g: center = %.4f dB", gain, db)
		}
	}
}

func TestMatchedHighpassNyquistUnity(t *testing.T) {
	for _, freq := range []float64{20, 100, 1000, 6000} {
		c := MatchedHighpass(freq, 0.707, sampleRate)
		if db := c.MagnitudeDB(sampleRate/2, sampleRate); math.Abs(db) > 1e-6 {
			t.Errorf("freq %g: Nyquist gain = %g dB, want exactly 0", freq, db)
		}
	}
}

func TestMatchedHighpassDCRejection(t *testing.T) {
	c := MatchedHighpass(100, 0.707, sampleRate)

	// Both zeros at z=1 give a genuine null at DC.
	if m := c.MagnitudeSquared(0, sampleRate); m > 1e-20 {
		t.Errorf("|H(0)|^2 = %g, want ~0", m)
	}
}

func TestMatchedHighpassNoCrampingNearNyquist(t *testing.T) {
	// A bilinear highpass at the same corner sags below the matched-Z
	// response in the top octave. The matched design must stay within
	// a fraction of a dB of flat from 2x the corner upward.
	c := MatchedHighpass(6000, 0.707, sampleRate)
	if db := c.MagnitudeDB(20000, sampleRate); math.Abs(db) > 1.0 {
		t.Errorf("20 kHz gain = %.3f dB, want near 0", db)
	}
}

func TestMatchedHighpassOverdampedStable(t *testing.T) {
	// Q < 0.5 makes the analog poles real; the mapping must stay stable.
	c := MatchedHighpass(500, 0.3, sampleRate)
	if c.A2 >= 1 || c.A2 < 0 {
		t.Errorf("A2 = %g, want within unit circle", c.A2)
	}
}

func TestKTanLowpassMatchesRBJ(t *testing.T) {
	// The tan-prewarped lowpass is algebraically the same filter as the
	// RBJ cookbook design.
	freq := 3000.0
	q := 0.8
	a := KTanLowpass(freq/sampleRate, q)
	b := Lowpass(freq, q, sampleRate)

	for _, f := range []float64{100, 1000, 3000, 10000} {
		ga := a.MagnitudeDB(f, sampleRate)
		gb := b.MagnitudeDB(f, sampleRate)
		if math.Abs(ga-gb) > 1e-9 {
			t.Errorf("f=%g: ktan %.6f dB, rbj %.6f dB", f, ga, gb)
		}
	}
}

func TestKTanBandpassCenterUnity(t *testing.T) {
	c := KTanBandpass(100.0/sampleRate, 0.618033988749894848204586)
	if db := c.MagnitudeDB(100, sampleRate); math.Abs(db) > 0.01 {
		t.Errorf("center gain = %.4f dB, want ~0", db)
	}
	if m := c.MagnitudeSquared(0, sampleRate); m > 1e-20 {
		t.Errorf("DC leakage = %g, want ~0", m)
	}
}

func TestInvalidParametersYieldZeroCoefficients(t *testing.T) {
	if c := KTanLowpass(0.6, 1); c.B0 != 0 || c.A2 != 0 {
		t.Errorf("out-of-range normFreq: got %+v, want zero", c)
	}

	if c := Lowpass(-10, 1, sampleRate); c.B0 != 0 {
		t.Errorf("negative freq: got %+v, want zero", c)
	}
	if c := MatchedHighpass(1000, 1, 0); c.B0 != 0 {
		t.Errorf("zero sample rate: got %+v, want zero", c)
	}
}

func TestBadQFallsBackToButterworth(t *testing.T) {
	got := Lowpass(1000, 0, sampleRate)
	want := Lowpass(1000, 1/math.Sqrt2, sampleRate)
	if got != want {
		t.Errorf("q=0 design %+v, want Butterworth %+v", got, want)
	}
}

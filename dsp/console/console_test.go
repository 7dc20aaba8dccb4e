package console

import (
	"math"
	"testing"
)

const testSampleRate = 48000.0

func TestPurestPolynomial(t *testing.T) {
	p := NewPurest(0)

	// x + x^5/128 + x^9/262144 - x^3/8 - x^7/4096 at a few points.
	for _, x := range []float64{0.1, 0.5, -0.5, 1.0, -1.0} {
		want := x + math.Pow(x, 5)/128 + math.Pow(x, 9)/262144 -
			math.Pow(x, 3)/8 - math.Pow(x, 7)/4096
		if got := p.ProcessSample(x); math.Abs(got-want) > 1e-15 {
			t.Errorf("ProcessSample(%g) = %g, want %g", x, got, want)
		}
	}
}

func TestPurestSubtleAtLowLevel(t *testing.T) {
	p := NewPurest(0)

	// At -20 dB the cubic term dominates and sits far below the signal.
	x := 0.1
	y := p.ProcessSample(x)
	if d := math.Abs(y - x); d > 2e-4 {
		t.Errorf("deviation %g at low level, want subtle shaping", d)
	}
}

func TestPurestOddSymmetry(t *testing.T) {
	a := NewPurest(0)
	b := NewPurest(0)

	for _, x := range []float64{0.2, 0.7, 1.0} {
		if pa, pb := a.ProcessSample(x), b.ProcessSample(-x); math.Abs(pa+pb) > 1e-15 {
			t.Errorf("x=%g: not odd-symmetric (%g vs %g)", x, pa, pb)
		}
	}
}

func TestVoicingString(t *testing.T) {
	if VoicingEssex.String() != "essex" || VoicingUSA.String() != "usa" || VoicingOxford.String() != "oxford" {
		t.Error("voicing names wrong")
	}
}

func TestConsoleDefaultsToOxford(t *testing.T) {
	c, err := NewConsole(testSampleRate, 0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Voicing() != VoicingOxford {
		t.Errorf("default voicing = %v, want oxford", c.Voicing())
	}
}

func TestConsoleRejectsUnknownVoicing(t *testing.T) {
	c, err := NewConsole(testSampleRate, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetVoicing(Voicing(42)); err == nil {
		t.Error("SetVoicing(42) should fail")
	}
	// Failed set leaves the previous voicing intact.
	if c.Voicing() != VoicingOxford {
		t.Errorf("voicing after failed set = %v, want oxford", c.Voicing())
	}
}

func TestConsoleNearUnityAtModerateLevel(t *testing.T) {
	c, err := NewConsole(testSampleRate, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetVoicing(VoicingEssex); err != nil {
		t.Fatal(err)
	}

	// The spiral expansion at mid levels and the fixed 0.83 trim
	// nearly cancel, leaving a steady sine within half a dB of unity.
	var peakIn, peakOut float64
	for i := 0; i < 9600; i++ {
		x := 0.5 * math.Sin(2*math.Pi*1000*float64(i)/testSampleRate)
		y := c.ProcessSample(x)
		if i > 4800 {
			if a := math.Abs(x); a > peakIn {
				peakIn = a
			}
			if a := math.Abs(y); a > peakOut {
				peakOut = a
			}
		}
	}

	db := 20 * math.Log10(peakOut/peakIn)
	if math.Abs(db) > 0.5 {
		t.Errorf("console gain at moderate level = %.2f dB, want within 0.5 dB of unity", db)
	}
}

func TestConsoleVoicingsDiffer(t *testing.T) {
	outputs := map[Voicing]float64{}
	for _, v := range []Voicing{VoicingEssex, VoicingUSA, VoicingOxford} {
		c, err := NewConsole(testSampleRate, 5)
		if err != nil {
			t.Fatal(err)
		}
		if err := c.SetVoicing(v); err != nil {
			t.Fatal(err)
		}

		var sum float64
		for i := 0; i < 2048; i++ {
			y := c.ProcessSample(0.8 * math.Sin(0.29*float64(i)))
			sum += y * y
		}
		outputs[v] = sum
	}

	if outputs[VoicingEssex] == outputs[VoicingUSA] || outputs[VoicingUSA] == outputs[VoicingOxford] {
		t.Error("voicings produced identical energy, expected distinct responses")
	}
}

func TestConsoleDeterministicPerSeed(t *testing.T) {
	run := func(seed uint32) []float64 {
		c, err := NewConsole(testSampleRate, seed)
		if err != nil {
			t.Fatal(err)
		}
		out := make([]float64, 256)
		for i := range out {
			out[i] = c.ProcessSample(0.3 * math.Sin(0.11*float64(i)))
		}
		return out
	}

	a, b := run(99), run(99)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs for identical seeds", i)
		}
	}
}

func TestConsoleResetReplaysIdentically(t *testing.T) {
	c, err := NewConsole(testSampleRate, 1234)
	if err != nil {
		t.Fatal(err)
	}

	first := make([]float64, 256)
	for i := range first {
		first[i] = c.ProcessSample(0.4 * math.Sin(0.07*float64(i)))
	}

	c.Reset()
	for i := range first {
		if y := c.ProcessSample(0.4 * math.Sin(0.07*float64(i))); y != first[i] {
			t.Fatalf("sample %d: %g after Reset, want %g", i, y, first[i])
		}
	}
}

func TestNewConsoleInvalidSampleRate(t *testing.T) {
	for _, sr := range []float64{0, -44100, math.NaN(), math.Inf(1)} {
		if _, err := NewConsole(sr, 0); err == nil {
			t.Errorf("NewConsole(%v) should fail", sr)
		}
	}
}

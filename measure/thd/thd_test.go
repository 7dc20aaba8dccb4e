package thd_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-channel/dsp/drive"
	"github.com/cwbudde/algo-channel/dsp/window"
	"github.com/cwbudde/algo-channel/measure/thd"
)

const (
	testSampleRate = 44100.0
	testFFTSize    = 8192
)

// binSine returns a sine landing exactly on an FFT bin so leakage
// stays confined to the window main lobe.
func binSine(bin int, amplitude float64) []float64 {
	buf := make([]float64, testFFTSize)
	for i := range buf {
		buf[i] = amplitude * math.Sin(2*math.Pi*float64(bin)*float64(i)/testFFTSize)
	}
	return buf
}

func TestAnalyzeSignalPureSine(t *testing.T) {
	const bin = 186 // about 1 kHz

	result := thd.AnalyzeSignal(binSine(bin, 0.5), thd.Config{
		SampleRate: testSampleRate,
		FFTSize:    testFFTSize,
	})

	wantFreq := float64(bin) * testSampleRate / testFFTSize
	if math.Abs(result.FundamentalFreq-wantFreq) > testSampleRate/testFFTSize {
		t.Errorf("fundamental frequency: got %f want %f", result.FundamentalFreq, wantFreq)
	}
	if result.THD > 0.01 {
		t.Errorf("pure sine should carry almost no harmonic energy: THD %f", result.THD)
	}
	if result.THDN > 0.05 {
		t.Errorf("pure sine THD+N too high: %f", result.THDN)
	}
	if result.SINAD < 20 {
		t.Errorf("pure sine SINAD too low: %f dB", result.SINAD)
	}
}

func TestAnalyzeSignalCubicShaper(t *testing.T) {
	const bin = 186

	// y = x - 0.3x^3 on a unit sine puts 0.075/0.775 of the
	// fundamental on the third harmonic and nothing on the even ones
	signal := binSine(bin, 1)
	for i, x := range signal {
		signal[i] = x - 0.3*x*x*x
	}

	result := thd.AnalyzeSignal(signal, thd.Config{
		SampleRate: testSampleRate,
		FFTSize:    testFFTSize,
	})

	wantTHD := 0.075 / 0.775
	if result.THD < wantTHD-0.02 || result.THD > wantTHD+0.02 {
		t.Errorf("cubic shaper THD: got %f want about %f", result.THD, wantTHD)
	}
	if result.EvenHD > 0.01 {
		t.Errorf("symmetric shaper should produce no even harmonics: %f", result.EvenHD)
	}
	if result.OddHD < wantTHD-0.02 {
		t.Errorf("odd harmonic share too low: %f", result.OddHD)
	}
	if len(result.Harmonics) == 0 {
		t.Error("expected per-harmonic breakdown")
	}
}

func TestAnalyzeSignalTubeDrive(t *testing.T) {
	tube, err := drive.NewTube(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	if err := tube.SetDrive(12); err != nil {
		t.Fatal(err)
	}

	signal := binSine(186, 0.5)
	for i, x := range signal {
		signal[i] = tube.ProcessSample(x)
	}

	result := thd.AnalyzeSignal(signal, thd.Config{
		SampleRate: testSampleRate,
		FFTSize:    testFFTSize,
		WindowType: window.TypeBlackmanHarris,
	})

	if result.THD < 0.001 {
		t.Errorf("driven valve stage should distort measurably: THD %f", result.THD)
	}
	if result.THDdB >= 0 {
		t.Errorf("THD below unity should be negative in dB: %f", result.THDdB)
	}
}

func TestCalculateFromMagnitudeSyntheticSpectrum(t *testing.T) {
	const fftSize = 8192

	magSquared := make([]float64, fftSize/2+1)
	magSquared[100] = 1.0    // fundamental
	magSquared[200] = 0.01   // second harmonic at -20 dB
	magSquared[300] = 0.0025 // third harmonic at -26 dB

	calc := thd.NewCalculator(thd.Config{
		SampleRate:  float64(fftSize),
		FFTSize:     fftSize,
		CaptureBins: 1,
	})
	result := calc.CalculateFromMagnitude(magSquared)

	if math.Abs(result.FundamentalFreq-100) > 0.5 {
		t.Errorf("fundamental bin: got %f want 100", result.FundamentalFreq)
	}
	if math.Abs(result.THD-0.15) > 1e-9 {
		t.Errorf("THD: got %f want 0.15", result.THD)
	}
	if math.Abs(result.EvenHD-0.1) > 1e-9 {
		t.Errorf("even harmonics: got %f want 0.1", result.EvenHD)
	}
	if math.Abs(result.OddHD-0.05) > 1e-9 {
		t.Errorf("odd harmonics: got %f want 0.05", result.OddHD)
	}
	if math.Abs(result.THDdB-20*math.Log10(0.15)) > 1e-9 {
		t.Errorf("THD dB mismatch: %f", result.THDdB)
	}
}

func TestAnalyzeSignalDegenerate(t *testing.T) {
	if r := thd.AnalyzeSignal(nil, thd.Config{}); r.THD != 0 {
		t.Error("empty signal should yield a zero result")
	}
	if r := thd.AnalyzeSignal([]float64{0, 0, 0, 0}, thd.Config{SampleRate: testSampleRate}); r.FundamentalLevel != 0 {
		t.Error("silence has no fundamental")
	}
}

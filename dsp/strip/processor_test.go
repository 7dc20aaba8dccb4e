package strip

import (
	"math"
	"testing"
)

func TestProcessorStereoVariationDecorrelates(t *testing.T) {
	p, err := NewProcessor(testSampleRate,
		WithVariationMode(VariationStereo), WithChannelPair(3))
	if err != nil {
		t.Fatal(err)
	}
	p.Each(func(c *Channel) { c.SetTrebleShelf(6) })

	var diff float64
	for _, x := range sineWave(8000, 0.5, 4096) {
		l, r := p.ProcessSample(x, x)
		diff += math.Abs(l - r)
	}
	if diff == 0 {
		t.Error("stereo variation should decorrelate the sides")
	}
}

func TestProcessorLinkedVariationKeepsSidesMatched(t *testing.T) {
	p, err := NewProcessor(testSampleRate,
		WithVariationMode(VariationLinked), WithChannelPair(3))
	if err != nil {
		t.Fatal(err)
	}
	p.Each(func(c *Channel) {
		c.SetTrebleShelf(6)
		c.SetControlThreshold(-15)
	})

	for i, x := range sineWave(8000, 0.5, 4096) {
		l, r := p.ProcessSample(x, x)
		if l != r {
			t.Fatalf("sample %d: linked sides diverged: %f vs %f", i, l, r)
		}
	}
}

func TestProcessorOffMatchesPlainChannels(t *testing.T) {
	p, err := NewProcessor(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := NewChannel(testSampleRate, 0)
	if err != nil {
		t.Fatal(err)
	}

	for i, x := range sineWave(1000, 0.5, 1024) {
		l, _ := p.ProcessSample(x, x)
		if want := ref.ProcessSample(x); l != want {
			t.Fatalf("sample %d: left channel differs from a plain channel: %f vs %f", i, l, want)
		}
	}
}

func TestProcessorBlockInPlace(t *testing.T) {
	p, err := NewProcessor(testSampleRate)
	if err != nil {
		t.Fatal(err)
	}
	p.Each(func(c *Channel) { c.SetOutputGain(-6) })

	left := sineWave(1000, 0.5, 512)
	right := sineWave(1000, 0.5, 512)
	p.ProcessBlock(left, right)

	for i := range left {
		if math.IsNaN(left[i]) || math.IsNaN(right[i]) {
			t.Fatalf("sample %d: non-finite output", i)
		}
	}
	if p.Left().OutputPeak() <= 0 || p.Right().OutputPeak() <= 0 {
		t.Error("both sides should publish output peaks")
	}
}

package window

import (
	"math"
	"testing"
)

func TestGenerateEndpoints(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		edge float64
	}{
		{"rectangular", TypeRectangular, 1},
		{"hann", TypeHann, 0},
		{"hamming", TypeHamming, 0.08},
		{"blackman", TypeBlackman, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Generate(tt.typ, 64)
			if len(w) != 64 {
				t.Fatalf("expected 64 coefficients, got %d", len(w))
			}
			if math.Abs(w[0]-tt.edge) > 1e-9 || math.Abs(w[63]-tt.edge) > 1e-9 {
				t.Errorf("edge values: %f %f, want %f", w[0], w[63], tt.edge)
			}
		})
	}
}

func TestGenerateSymmetric(t *testing.T) {
	for _, typ := range []Type{
		TypeHann, TypeRectangular, TypeHamming, TypeBlackman,
		TypeBlackmanHarris, TypeFlatTop,
	} {
		w := Generate(typ, 101)
		for i := 0; i < len(w)/2; i++ {
			if math.Abs(w[i]-w[len(w)-1-i]) > 1e-12 {
				t.Fatalf("%s asymmetric at %d: %g vs %g", typ, i, w[i], w[len(w)-1-i])
			}
		}
		if math.Abs(w[50]-1) > 0.01 && typ != TypeFlatTop {
			t.Errorf("%s midpoint should be near unity: %f", typ, w[50])
		}
	}
}

func TestGenerateDegenerate(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Error("zero length should return nil")
	}
	if w := Generate(TypeHann, 1); len(w) != 1 || w[0] != 1 {
		t.Errorf("length 1 should be a unit window: %v", w)
	}
}

func TestApply(t *testing.T) {
	buf := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	Apply(TypeHann, buf)

	want := Generate(TypeHann, 8)
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("sample %d: %f != %f", i, buf[i], want[i])
		}
	}
}

func TestCoherentGain(t *testing.T) {
	if g := CoherentGain(Generate(TypeRectangular, 128)); math.Abs(g-1) > 1e-12 {
		t.Errorf("rectangular coherent gain should be 1: %f", g)
	}
	if g := CoherentGain(Generate(TypeHann, 4096)); math.Abs(g-0.5) > 0.001 {
		t.Errorf("hann coherent gain should approach 0.5: %f", g)
	}
}

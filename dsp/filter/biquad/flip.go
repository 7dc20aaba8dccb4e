package biquad

// FlipSection is a biquad with two independent delay-line banks that
// alternate on every sample. Each bank therefore runs at half the
// sample rate, which decorrelates accumulated rounding error between
// even and odd samples. Several analog-modeling stages use this
// arrangement for their tone and head-bump filters.
type FlipSection struct {
	Coefficients

	d    [2][2]float64
	flip bool
}

// NewFlipSection returns a FlipSection initialized with the given
// coefficients and zero state in both banks.
func NewFlipSection(c Coefficients) *FlipSection {
	return &FlipSection{Coefficients: c}
}

// ProcessSample filters one input sample through the currently active
// bank, then switches banks for the next call.
func (s *FlipSection) ProcessSample(x float64) float64 {
	b := 0
	if s.flip {
		b = 1
	}
	s.flip = !s.flip

	y := s.B0*x + s.d[b][0]
	s.d[b][0] = s.B1*x - s.A1*y + s.d[b][1]
	s.d[b][1] = s.B2*x - s.A2*y

	return y
}

// Reset clears both delay-line banks and restores the initial bank order.
func (s *FlipSection) Reset() {
	s.d = [2][2]float64{}
	s.flip = false
}

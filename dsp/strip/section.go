package strip

// Section is the uniform surface every chain stage implements: one
// sample in, one sample out, a resettable state, and a crossfaded
// bypass.
type Section interface {
	Process(input float64) float64
	Reset()
	SetBypassed(bypassed bool)
	Bypassed() bool
}

var (
	_ Section = (*PreInput)(nil)
	_ Section = (*Filters)(nil)
	_ Section = (*ControlComp)(nil)
	_ Section = (*LowDynamics)(nil)
	_ Section = (*EQ)(nil)
	_ Section = (*StyleComp)(nil)
	_ Section = (*ConsoleStage)(nil)
	_ Section = (*OutStage)(nil)
	_ Section = (*Volume)(nil)
)

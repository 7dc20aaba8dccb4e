package strip

// VariationMode controls how component-tolerance presets map onto the
// two audio channels of a processor.
type VariationMode int

const (
	// VariationOff disables the tolerance offsets entirely.
	VariationOff VariationMode = iota
	// VariationStereo gives the left and right channels the two
	// adjacent presets of the selected desk channel pair.
	VariationStereo
	// VariationLinked applies the pair's left preset to both
	// channels, keeping the sides identical.
	VariationLinked
)

// ProcessorOption configures a Processor at construction.
type ProcessorOption func(*processorConfig)

type processorConfig struct {
	mode VariationMode
	pair int
}

// WithVariationMode selects how tolerance presets are assigned.
func WithVariationMode(mode VariationMode) ProcessorOption {
	return func(c *processorConfig) { c.mode = mode }
}

// WithChannelPair selects which desk channel pair (0..23) supplies
// the tolerance presets.
func WithChannelPair(pair int) ProcessorOption {
	return func(c *processorConfig) { c.pair = pair }
}

// Processor is the dual-mono stereo processor: two fully independent
// Channels sharing nothing but their construction parameters. The
// sides may be processed on separate goroutines.
type Processor struct {
	left  *Channel
	right *Channel
}

// NewProcessor creates a stereo processor. Variation is off unless an
// option enables it.
func NewProcessor(sampleRate float64, opts ...ProcessorOption) (*Processor, error) {
	var cfg processorConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var leftOpts, rightOpts []Option
	switch cfg.mode {
	case VariationStereo:
		leftOpts = append(leftOpts, WithVariation(cfg.pair*2))
		rightOpts = append(rightOpts, WithVariation(cfg.pair*2+1))
	case VariationLinked:
		leftOpts = append(leftOpts, WithVariation(cfg.pair*2))
		rightOpts = append(rightOpts, WithVariation(cfg.pair*2))
	}

	left, err := NewChannel(sampleRate, 0, leftOpts...)
	if err != nil {
		return nil, err
	}
	right, err := NewChannel(sampleRate, 1, rightOpts...)
	if err != nil {
		return nil, err
	}

	return &Processor{left: left, right: right}, nil
}

// Left returns the left channel chain.
func (p *Processor) Left() *Channel { return p.left }

// Right returns the right channel chain.
func (p *Processor) Right() *Channel { return p.right }

// Each applies fn to both channels, for parameter changes that should
// stay linked across the sides.
func (p *Processor) Each(fn func(*Channel)) {
	fn(p.left)
	fn(p.right)
}

// ProcessSample runs one stereo frame through both chains.
func (p *Processor) ProcessSample(left, right float64) (float64, float64) {
	return p.left.ProcessSample(left), p.right.ProcessSample(right)
}

// ProcessBlock runs both channel buffers through their chains in
// place. The slices may have different lengths; each side consumes
// its own.
func (p *Processor) ProcessBlock(left, right []float64) {
	p.left.ProcessBlock(left)
	p.right.ProcessBlock(right)
}

// Reset clears both chains.
func (p *Processor) Reset() {
	p.left.Reset()
	p.right.Reset()
}

package strip

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-channel/dsp/core"
	"github.com/cwbudde/algo-channel/dsp/drive"
)

// DriveAlgorithm selects the saturation model of a drive stage.
type DriveAlgorithm int

const (
	DriveClean DriveAlgorithm = iota
	DrivePure
	DriveTape
	DriveTube
)

// String returns the algorithm name.
func (a DriveAlgorithm) String() string {
	switch a {
	case DriveClean:
		return "clean"
	case DrivePure:
		return "pure"
	case DriveTape:
		return "tape"
	case DriveTube:
		return "tube"
	}
	return "unknown"
}

// PreInput is the first section of the chain: input saturation with a
// selectable model. Clean is a plain gain, the other three run their
// saturators under the shared drive contract.
type PreInput struct {
	bypass Bypass

	algorithm DriveAlgorithm
	driveDB   float64
	driveGain float64

	pure *drive.Purest
	tape *drive.Tape
	tube *drive.Tube
}

// NewPreInput creates the pre-input section. The seed keys the tape
// model's flutter generator so channels wobble independently.
func NewPreInput(sampleRate float64, seed uint32) (*PreInput, error) {
	tape, err := drive.NewTape(sampleRate, seed)
	if err != nil {
		return nil, fmt.Errorf("pre-input: %w", err)
	}
	tube, err := drive.NewTube(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("pre-input: %w", err)
	}

	return &PreInput{
		bypass:    NewBypass(sampleRate),
		algorithm: DrivePure,
		driveGain: 1,
		pure:      drive.NewPurest(),
		tape:      tape,
		tube:      tube,
	}, nil
}

// SetAlgorithm selects the saturation model.
func (s *PreInput) SetAlgorithm(a DriveAlgorithm) {
	s.algorithm = a
}

// SetDrive sets the drive in decibels, clamped to [-18, +18].
func (s *PreInput) SetDrive(dB float64) {
	dB = core.Clamp(dB, drive.MinDriveDB, drive.MaxDriveDB)
	s.driveDB = dB
	s.driveGain = math.Pow(10, dB/20)

	// the clamped value is always in range for the saturators
	_ = s.pure.SetDrive(dB)
	_ = s.tape.SetDrive(dB)
	_ = s.tube.SetDrive(dB)
}

// SetBypassed sets the bypass target.
func (s *PreInput) SetBypassed(bypassed bool) { s.bypass.SetBypassed(bypassed) }

// Bypassed reports the bypass target.
func (s *PreInput) Bypassed() bool { return s.bypass.Bypassed() }

// Process runs one sample through the section.
func (s *PreInput) Process(input float64) float64 {
	var wet float64
	switch s.algorithm {
	case DriveClean:
		wet = input * s.driveGain
	case DrivePure:
		wet = s.pure.ProcessSample(input)
	case DriveTape:
		wet = s.tape.ProcessSample(input)
	case DriveTube:
		wet = s.tube.ProcessSample(input)
	default:
		wet = input
	}
	return s.bypass.Blend(input, wet)
}

// Reset clears the saturator state.
func (s *PreInput) Reset() {
	s.pure.Reset()
	s.tape.Reset()
	s.tube.Reset()
}

package drive

import (
	"fmt"
	"math"
)

const (
	// MinDriveDB and MaxDriveDB bound the drive control shared by all
	// saturation stages.
	MinDriveDB = -18.0
	MaxDriveDB = 18.0
)

// driveParams maps the bipolar drive control to a pre-gain and an
// algorithm intensity. Negative drive is pure attenuation with the
// shaper held at its neutral setting; positive drive leaves level
// alone and pushes the shaper from neutral (0.5) to full (1.0) over
// the 0..+18 dB range.
func driveParams(dB float64) (gain, intensity float64) {
	if dB < 0 {
		return math.Pow(10, dB/20), 0.5
	}

	intensity = 0.5 + dB/36
	if intensity > 1 {
		intensity = 1
	}

	return 1, intensity
}

func validateDrive(dB float64) error {
	if dB < MinDriveDB || dB > MaxDriveDB || math.IsNaN(dB) {
		return fmt.Errorf("drive must be in [%g, %g] dB: %f", MinDriveDB, MaxDriveDB, dB)
	}
	return nil
}

func validateSampleRate(name string, sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%s sample rate must be positive and finite: %f", name, sampleRate)
	}
	return nil
}

// Package console models analog desk channels: Purest is a nearly
// transparent polynomial summing-amp stage, and Console is a voiced
// four-stage emulation (adaptive coupling highpass, spiral
// saturation, weighted slew limiting, TPDF dither) selectable between
// three desk families.
package console

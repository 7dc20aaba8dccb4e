// Package strip assembles the channel strip: nine bypassable sections
// running in a fixed order from input conditioning to output gain.
//
// Each section wraps one or more algorithms from dsp/drive, dsp/filter,
// dsp/dynamics, dsp/console, and dsp/clip behind clamping parameter
// setters and a click-free bypass crossfade. Channel ties the sections
// together, adds per-channel component-tolerance variation, and
// publishes peak and gain reduction meters through atomics so a UI
// thread can poll them while audio runs.
package strip

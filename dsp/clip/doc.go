// Package clip provides the output clippers: a golden-ratio hard
// clipper with slew limiting and a sine-law soft clipper with
// adaptive smoothing. Both run a short lookahead buffer, so their
// output is delayed by one 44.1 kHz sample's worth.
package clip

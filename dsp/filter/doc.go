// Package filter provides the higher-level filter blocks of the
// channel: a Baxandall-style two-band shelving EQ with gain-dependent
// corner frequencies, and a proportional-Q parametric bell.
package filter

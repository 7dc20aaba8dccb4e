// Package dynamics implements the three gain-control stages of the
// channel: Optical (a table-driven feedback optical compressor with
// program-dependent ballistics), Versatile (a clean log-domain digital
// compressor for peak control), and LowLevel (a below-threshold
// expander/lifter that never touches peaks above its threshold).
//
// All per-sample exp, log, and sqrt calls go through small wrappers
// that the fastmath build tag swaps for approximate versions.
package dynamics

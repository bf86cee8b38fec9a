// Package imaging provides the image plumbing around the gauge detection
// pipeline: grayscale conversion, threshold modes, annulus masking, a
// Canny-style edge pre-filter, and annotation primitives for the debug
// overlays.
//
// # Pipeline Role
//
// A captured frame is converted to grayscale once, masked to the annulus
// where a needle can physically be, binarized with one of four threshold
// modes, and optionally edge-filtered before line extraction. The annotation
// helpers draw the overlays (detected circles, candidate bands, accepted
// segments, tick marks and value labels) that make a misbehaving gauge setup
// diagnosable from the debug image bundle alone.
//
// # Threshold Modes
//
// Exactly one mode is applied per frame, selected by configuration:
//
//   - binary: binary-inverse at a fixed level (default)
//   - gray: zero-below-threshold, grays preserved
//   - gauss: adaptive local Gaussian thresholding
//   - otsu: global automatic threshold after a Gaussian pre-blur
//
// The fixed binary threshold is easy to reason about but fails under shadows;
// the adaptive and automatic modes trade speckle for lighting robustness.
//
// # Conventions
//
// Background is white (255) before thresholding and black (0) after; all
// mutating helpers document whether they modify in place or return a copy.
package imaging

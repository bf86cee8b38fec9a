// Package gauge reads analog gauges from camera frames.
//
// The pipeline is: locate the dial (circle detection over a median-blurred
// frame), stabilize its geometry over a sliding window, threshold the dial
// region and extract line segments, filter them down to needle candidates by
// endpoint geometry, and convert the length-weighted mean needle angle to a
// value via a two-point linear calibration. Uncalibrated gauges report raw
// angles in degrees.
//
// Reader orchestrates the pipeline over a FrameSource and fans results out to
// value, alert and debug sinks. Two watchdogs guard operation: one alerts
// when the median reading leaves the configured bounds, the other when no
// reading has succeeded for too long.
package gauge

// Package sink provides output destinations for the gauge reader: annotated
// images to a directory, readings as CSV lines and alerts to the log.
package sink

// Package source provides frame acquisition for the gauge reading pipeline.
//
// A source produces Frame values one at a time and signals exhaustion with
// io.EOF. Any other error is transient: the caller logs it, skips the frame
// and asks for the next one. FileSource replays image files matching a glob
// pattern in lexical order, which covers offline analysis and testing.
package source

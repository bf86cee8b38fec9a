package source

import (
	"image"
	"time"

	"github.com/google/uuid"
)

// Frame is one captured gauge image with its acquisition metadata.
//
// Frames are immutable after production: the pipeline derives what it needs
// (grayscale copies, annotation canvases) instead of writing into Image.
type Frame struct {
	// ID correlates a frame across log lines and debug bundle files.
	ID uuid.UUID

	// Seq is a monotonically increasing sequence number assigned by the
	// source.
	Seq uint64

	// Timestamp is the capture time as reported by the source, not the
	// processing time.
	Timestamp time.Time

	// Image is the captured frame.
	Image image.Image
}

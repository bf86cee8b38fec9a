package gauge

import (
	"math"

	"github.com/ironsheep/gauge-reader/internal/detection"
)

// DialGeometry is the located gauge face: center and radius in frame
// coordinates. Float precision is kept because stabilization medians
// sub-pixel estimates.
type DialGeometry struct {
	X float64
	Y float64
	R float64
}

// dist returns the euclidean distance from a segment endpoint to the dial
// center.
func dist(p detection.Point, d DialGeometry) float64 {
	dx := float64(p.X) - d.X
	dy := float64(p.Y) - d.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// needleAngle returns the angle of a needle candidate in radians. The
// endpoint farther from the dial center is taken as the needle tip; the
// angle is measured from straight down (6 o'clock), increasing clockwise,
// normalized to [0, 2*pi).
func needleAngle(seg detection.Segment, d DialGeometry) float64 {
	tip := seg.Start
	if dist(seg.End, d) > dist(seg.Start, d) {
		tip = seg.End
	}
	dx := float64(tip.X) - d.X
	dy := float64(tip.Y) - d.Y

	// Image y grows downward, so straight down is (0, +1).
	angle := math.Atan2(-dx, dy)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

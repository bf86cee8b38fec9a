package gauge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironsheep/gauge-reader/internal/detection"
)

func TestNeedleAngle(t *testing.T) {
	dial := DialGeometry{X: 100, Y: 100, R: 80}

	cases := []struct {
		name string
		tip  detection.Point
		want float64 // radians clockwise from straight down
	}{
		{"straight down", detection.Point{X: 100, Y: 170}, 0},
		{"nine o'clock", detection.Point{X: 30, Y: 100}, math.Pi / 2},
		{"straight up", detection.Point{X: 100, Y: 30}, math.Pi},
		{"three o'clock", detection.Point{X: 170, Y: 100}, 3 * math.Pi / 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seg := detection.Segment{
				Start: detection.Point{X: 100, Y: 100},
				End:   tc.tip,
			}
			assert.InDelta(t, tc.want, needleAngle(seg, dial), 1e-9)
		})
	}
}

func TestNeedleAngle_EndpointOrderIrrelevant(t *testing.T) {
	dial := DialGeometry{X: 100, Y: 100, R: 80}
	hub := detection.Point{X: 105, Y: 95}
	tip := detection.Point{X: 160, Y: 40}

	forward := needleAngle(detection.Segment{Start: hub, End: tip}, dial)
	backward := needleAngle(detection.Segment{Start: tip, End: hub}, dial)

	assert.InDelta(t, forward, backward, 1e-9,
		"the tip is whichever endpoint is farther from the center")
}

func TestNeedleAngle_NormalizedRange(t *testing.T) {
	dial := DialGeometry{X: 100, Y: 100, R: 80}

	// Lower-right quadrant: atan2 would be negative before wrapping.
	seg := detection.Segment{
		Start: detection.Point{X: 100, Y: 100},
		End:   detection.Point{X: 150, Y: 150},
	}
	angle := needleAngle(seg, dial)
	assert.GreaterOrEqual(t, angle, 0.0)
	assert.Less(t, angle, 2*math.Pi)
	assert.InDelta(t, 7*math.Pi/4, angle, 1e-9)
}

func TestDist(t *testing.T) {
	dial := DialGeometry{X: 0, Y: 0}
	assert.InDelta(t, 5.0, dist(detection.Point{X: 3, Y: 4}, dial), 1e-9)
}

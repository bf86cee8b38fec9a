package gauge

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/anthonynsimon/bild/effect"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/gauge-reader/internal/detection"
	"github.com/ironsheep/gauge-reader/internal/imaging"
)

// DialLocator finds the gauge face in a frame.
//
// # Algorithm
//
// The grayscale frame is median-blurred to suppress dial markings, then
// circle detection runs with radius bounds derived from the configured dial
// diameter fractions. All returned circles describe the same physical dial,
// so their centers and radii are averaged into a single estimate rather than
// picking the highest-voted one.
type DialLocator struct {
	cfg *Config
	log *slog.Logger
}

// NewDialLocator returns a locator using the given configuration.
func NewDialLocator(cfg *Config, log *slog.Logger) *DialLocator {
	return &DialLocator{cfg: cfg, log: log}
}

// LocateResult carries the dial estimate plus an annotated copy of the frame
// showing every raw circle and the averaged dial.
type LocateResult struct {
	Dial    DialGeometry
	Circles []detection.Circle
	Overlay *image.RGBA
}

// Locate finds the dial in a grayscale frame.
//
// On failure it returns a DetectionError of kind KindDialNotFound together
// with a non-nil result whose Overlay is still useful for debugging.
func (l *DialLocator) Locate(gray *image.Gray) (*LocateResult, error) {
	blurred := imaging.ToGray(effect.Median(gray, float64(l.cfg.BlurSize)/2))

	bounds := gray.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	minRadius := int(float64(side) / 2 * l.cfg.MinDialFrac)
	maxRadius := int(float64(side) / 2 * l.cfg.MaxDialFrac)

	circles, err := detection.DetectCircles(blurred, minRadius, maxRadius)
	if err != nil {
		return nil, fmt.Errorf("circle detection: %w", err)
	}

	overlay := imaging.ToRGBA(gray)
	palette := imaging.Palette(len(circles.Circles))
	for i, c := range circles.Circles {
		imaging.DrawCircle(overlay, float64(c.Center.X), float64(c.Center.Y), float64(c.Radius), palette[i], 1)
	}

	result := &LocateResult{Circles: circles.Circles, Overlay: overlay}
	if len(circles.Circles) == 0 {
		return result, &DetectionError{
			Kind: KindDialNotFound,
			Msg:  fmt.Sprintf("no circles with radius in [%d, %d]", minRadius, maxRadius),
		}
	}

	xs := make([]float64, len(circles.Circles))
	ys := make([]float64, len(circles.Circles))
	rs := make([]float64, len(circles.Circles))
	for i, c := range circles.Circles {
		xs[i] = float64(c.Center.X)
		ys[i] = float64(c.Center.Y)
		rs[i] = float64(c.Radius)
	}
	result.Dial = DialGeometry{
		X: stat.Mean(xs, nil),
		Y: stat.Mean(ys, nil),
		R: stat.Mean(rs, nil),
	}

	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	imaging.DrawCircle(overlay, result.Dial.X, result.Dial.Y, result.Dial.R, red, 2)
	imaging.DrawCircle(overlay, result.Dial.X, result.Dial.Y, 2, green, 2)

	l.log.Debug("dial located",
		"x", result.Dial.X, "y", result.Dial.Y, "r", result.Dial.R,
		"candidates", len(circles.Circles))
	return result, nil
}

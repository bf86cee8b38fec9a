package gauge

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/ironsheep/gauge-reader/internal/imaging"
)

// pointOnDial returns the frame coordinates at the given fraction of the
// dial radius, for an angle in radians measured clockwise from straight
// down.
func pointOnDial(d DialGeometry, angleRad, radiusFrac float64) (int, int) {
	r := d.R * radiusFrac
	x := d.X - r*math.Sin(angleRad)
	y := d.Y + r*math.Cos(angleRad)
	return int(math.Round(x)), int(math.Round(y))
}

// drawDialFace annotates the stabilized dial onto a frame copy: the rim, a
// tick ring and tick labels.
//
// Uncalibrated gauges get a degree ring (a tick every 10 degrees, labels
// every 30). Calibrated gauges get 21 ticks spread across the calibration
// range with value labels on every fourth tick.
func drawDialFace(img *image.RGBA, d DialGeometry, scale *Scale, cfg *Config) {
	rim := color.RGBA{R: 255, A: 255}
	tick := color.RGBA{R: 255, G: 165, A: 255}
	fg := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	bg := color.RGBA{A: 255}

	imaging.DrawCircle(img, d.X, d.Y, d.R, rim, 2)

	if !scale.Calibrated() {
		for deg := 0; deg < 360; deg += 10 {
			angle := float64(deg) * math.Pi / 180
			drawTick(img, d, angle, tick)
			if deg%30 == 0 {
				labelTick(img, d, angle, strconv.Itoa(deg), fg, bg)
			}
		}
		return
	}

	const ticks = 21
	for i := 0; i < ticks; i++ {
		frac := float64(i) / float64(ticks-1)
		angleDeg := cfg.MinAngle + frac*(cfg.MaxAngle-cfg.MinAngle)
		angle := angleDeg * math.Pi / 180
		drawTick(img, d, angle, tick)
		if i%4 == 0 {
			value := scale.Convert(angleDeg)
			labelTick(img, d, angle, strconv.FormatFloat(value, 'g', 3, 64), fg, bg)
		}
	}
}

// drawTick draws a radial tick from 0.9r to the rim.
func drawTick(img *image.RGBA, d DialGeometry, angleRad float64, c color.RGBA) {
	x1, y1 := pointOnDial(d, angleRad, 0.9)
	x2, y2 := pointOnDial(d, angleRad, 1.0)
	imaging.DrawLine(img, x1, y1, x2, y2, c, 1)
}

// labelTick centers a label just outside the rim at the given angle.
func labelTick(img *image.RGBA, d DialGeometry, angleRad float64, text string, fg, bg color.RGBA) {
	x, y := pointOnDial(d, angleRad, 1.2)
	imaging.DrawLabel(img, x-imaging.LabelWidth(text)/2, y-3, text, fg, bg)
}

// drawNeedle draws the detected needle as a ray from the hub to the rim.
func drawNeedle(img *image.RGBA, d DialGeometry, angleRad float64) {
	magenta := color.RGBA{R: 255, B: 255, A: 255}
	x, y := pointOnDial(d, angleRad, 1.0)
	imaging.DrawLine(img, int(math.Round(d.X)), int(math.Round(d.Y)), x, y, magenta, 2)
}

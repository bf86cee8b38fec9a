package imaging

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DrawLine draws a straight line between two points with the given thickness.
func DrawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA, thickness int) {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		setThick(img, x1, y1, c, thickness)
		return
	}
	for i := 0; i <= steps; i++ {
		x := float64(x1) + dx*float64(i)/float64(steps)
		y := float64(y1) + dy*float64(i)/float64(steps)
		setThick(img, int(math.Round(x)), int(math.Round(y)), c, thickness)
	}
}

// DrawCircle draws a circle outline around a center point.
func DrawCircle(img *image.RGBA, cx, cy, r float64, c color.RGBA, thickness int) {
	if r <= 0 {
		setThick(img, int(math.Round(cx)), int(math.Round(cy)), c, thickness)
		return
	}
	steps := int(math.Max(32, 2*math.Pi*r))
	steps = (steps + 3) / 4 * 4 // hit the cardinal points exactly
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + r*math.Cos(a)
		y := cy + r*math.Sin(a)
		setThick(img, int(math.Round(x)), int(math.Round(y)), c, thickness)
	}
}

// setThick plots a square dot of the given thickness, clipped to the image.
func setThick(img *image.RGBA, x, y int, c color.RGBA, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	half := thickness / 2
	bounds := img.Bounds()
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.SetRGBA(px, py, c)
			}
		}
	}
}

// Palette returns n visually distinct overlay colors, evenly spaced in hue.
// Used when annotating raw detections so individual circles or segments stay
// distinguishable.
func Palette(n int) []color.RGBA {
	if n <= 0 {
		return nil
	}
	out := make([]color.RGBA, n)
	for i := 0; i < n; i++ {
		h := 360 * float64(i) / float64(n)
		r, g, b := colorful.Hsv(h, 0.9, 0.95).RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// glyphs is a 3x5 pixel font covering the characters that appear in numeric
// readings and ISO-8601 timestamps. Unknown characters advance the cursor
// without drawing.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
	'.': {"000", "000", "000", "000", "010"},
	':': {"000", "010", "000", "010", "000"},
	'-': {"000", "000", "111", "000", "000"},
	'+': {"000", "010", "111", "010", "000"},
	'e': {"010", "101", "111", "100", "011"},
	'T': {"111", "010", "010", "010", "010"},
	'Z': {"111", "001", "010", "100", "111"},
	' ': {"000", "000", "000", "000", "000"},
}

// DrawLabel draws a small text label with a filled background box at the
// given position. The font is a built-in 3x5 pixel font; characters without
// a glyph are skipped.
func DrawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	charWidth := 4
	labelWidth := len([]rune(text)) * charWidth
	labelHeight := 7

	// Background box
	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
				img.SetRGBA(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel == '1' {
					px, py := cx+col, y+row
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						img.SetRGBA(px, py, fg)
					}
				}
			}
		}
		cx += charWidth
	}
}

// LabelWidth returns the pixel width DrawLabel will use for a string,
// so callers can center labels.
func LabelWidth(text string) int {
	return len([]rune(text)) * 4
}

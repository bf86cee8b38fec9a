package imaging

import (
	"image"
	"image/color"
)

// MaskAnnulus forces every pixel closer to the center than rInner, and every
// pixel farther than rOuter, to the given background value. The image is
// modified in place.
//
// The gauge pipeline uses it before thresholding: the hub disc (and any
// counterweight needle attached to it) and everything outside the chassis —
// bezel, mounting screws, wall behind the gauge — would otherwise produce
// line candidates. Pre-threshold background is white (255).
func MaskAnnulus(gray *image.Gray, cx, cy, rInner, rOuter float64, background uint8) {
	bounds := gray.Bounds()
	innerSq := rInner * rInner
	outerSq := rOuter * rOuter
	bg := color.Gray{Y: background}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			distSq := dx*dx + dy*dy
			if distSq < innerSq || distSq > outerSq {
				gray.SetGray(x, y, bg)
			}
		}
	}
}

package imaging

import (
	"image"
	"image/color"
	"image/draw"
)

// ToGray converts an image to grayscale using ITU-R BT.601 luminance weights.
// Formula: Y = 0.299*R + 0.587*G + 0.114*B
//
// A new image is always returned, even when the input is already *image.Gray,
// so callers may mutate the result (the pipeline masks grayscale frames in
// place) without violating the frame immutability contract.
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()

	if g, ok := img.(*image.Gray); ok {
		return CloneGray(g)
	}

	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			lum := float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(b>>8)*0.114
			out.SetGray(x, y, color.Gray{Y: uint8(lum)})
		}
	}
	return out
}

// CloneGray returns a deep copy of a grayscale image.
func CloneGray(g *image.Gray) *image.Gray {
	out := image.NewGray(g.Bounds())
	copy(out.Pix, g.Pix)
	return out
}

// ToRGBA returns a mutable RGBA copy of an image, used as the canvas for
// annotation overlays.
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)
	return out
}

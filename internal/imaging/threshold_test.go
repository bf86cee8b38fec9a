package imaging

import (
	"image"
	"image/color"
	"testing"
)

// fillGray creates a solid grayscale image.
func fillGray(width, height int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestParseThresholdMode(t *testing.T) {
	cases := map[string]ThresholdMode{
		"":       ThresholdBinary,
		"binary": ThresholdBinary,
		"gray":   ThresholdGray,
		"gauss":  ThresholdGauss,
		"otsu":   ThresholdOtsu,
	}
	for in, want := range cases {
		got, err := ParseThresholdMode(in)
		if err != nil {
			t.Fatalf("ParseThresholdMode(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseThresholdMode(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseThresholdMode("sobel"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestThresholdModeString(t *testing.T) {
	if ThresholdBinary.String() != "binary" || ThresholdOtsu.String() != "otsu" {
		t.Error("unexpected mode names")
	}
}

func TestApplyThreshold_BinaryInverse(t *testing.T) {
	img := fillGray(10, 10, 200)
	img.SetGray(5, 5, color.Gray{Y: 50})

	out := ApplyThreshold(img, ThresholdBinary, 175, 5)

	// Bright background becomes 0, the dark pixel becomes foreground.
	if out.GrayAt(0, 0).Y != 0 {
		t.Errorf("bright pixel should be background, got %d", out.GrayAt(0, 0).Y)
	}
	if out.GrayAt(5, 5).Y != 255 {
		t.Errorf("dark pixel should be foreground, got %d", out.GrayAt(5, 5).Y)
	}
}

func TestApplyThreshold_GrayPreservesValues(t *testing.T) {
	img := fillGray(4, 4, 100)
	img.SetGray(1, 1, color.Gray{Y: 220})

	out := ApplyThreshold(img, ThresholdGray, 175, 5)

	if out.GrayAt(1, 1).Y != 220 {
		t.Errorf("bright pixel should keep its value, got %d", out.GrayAt(1, 1).Y)
	}
	if out.GrayAt(0, 0).Y != 0 {
		t.Errorf("dim pixel should be zeroed, got %d", out.GrayAt(0, 0).Y)
	}
}

func TestApplyThreshold_GaussPicksDarkStroke(t *testing.T) {
	img := fillGray(40, 40, 255)
	for y := 5; y < 35; y++ {
		img.SetGray(20, y, color.Gray{Y: 0})
	}

	out := ApplyThreshold(img, ThresholdGauss, 0, 5)

	if out.GrayAt(20, 20).Y != 255 {
		t.Error("dark stroke should be foreground under adaptive thresholding")
	}
	if out.GrayAt(2, 2).Y != 0 {
		t.Error("uniform background should not be foreground")
	}
}

func TestApplyThreshold_OtsuSeparatesClasses(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if x < 20 {
				img.SetGray(x, y, color.Gray{Y: 30})
			} else {
				img.SetGray(x, y, color.Gray{Y: 220})
			}
		}
	}

	out := ApplyThreshold(img, ThresholdOtsu, 0, 5)

	// Plain binary output: the bright class maps to 255, the dark one to 0.
	if out.GrayAt(35, 20).Y != 255 {
		t.Error("bright class should map to 255")
	}
	if out.GrayAt(4, 20).Y != 0 {
		t.Error("dark class should map to 0")
	}
}

func TestOtsuLevel_Bimodal(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if x%2 == 0 {
				img.SetGray(x, y, color.Gray{Y: 40})
			} else {
				img.SetGray(x, y, color.Gray{Y: 200})
			}
		}
	}

	level := otsuLevel(img)
	if level < 40 || level >= 200 {
		t.Errorf("otsu level %d should separate the two classes", level)
	}
}

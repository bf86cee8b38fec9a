package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// ThresholdMode selects how a masked grayscale dial image is binarized before
// line extraction. It is a closed enumeration passed as explicit
// configuration.
type ThresholdMode int

const (
	// ThresholdBinary applies a binary-inverse threshold at a fixed level:
	// pixels above the level become background (0), the rest foreground
	// (255). Default mode; a dark needle on a bright face becomes a white
	// stroke on black.
	ThresholdBinary ThresholdMode = iota

	// ThresholdGray zeroes pixels at or below the level and preserves the
	// gray values above it.
	ThresholdGray

	// ThresholdGauss applies adaptive local thresholding: each pixel is
	// compared against the Gaussian-weighted mean of its 11x11 neighborhood
	// minus a small constant, with binary-inverse output. Tends to produce
	// speckle on glossy faces but survives uneven lighting.
	ThresholdGauss

	// ThresholdOtsu applies a Gaussian pre-blur and then a global threshold
	// chosen automatically by Otsu's method, with plain binary output.
	ThresholdOtsu
)

// String returns the configuration name of the mode.
func (m ThresholdMode) String() string {
	switch m {
	case ThresholdBinary:
		return "binary"
	case ThresholdGray:
		return "gray"
	case ThresholdGauss:
		return "gauss"
	case ThresholdOtsu:
		return "otsu"
	default:
		return fmt.Sprintf("ThresholdMode(%d)", int(m))
	}
}

// ParseThresholdMode converts a configuration string to a ThresholdMode.
func ParseThresholdMode(s string) (ThresholdMode, error) {
	switch s {
	case "", "binary":
		return ThresholdBinary, nil
	case "gray":
		return ThresholdGray, nil
	case "gauss":
		return ThresholdGauss, nil
	case "otsu":
		return ThresholdOtsu, nil
	default:
		return ThresholdBinary, fmt.Errorf("unknown threshold mode %q", s)
	}
}

// Adaptive thresholding parameters for ThresholdGauss.
const (
	adaptiveBlockSize = 11
	adaptiveC         = 2.0
)

// ApplyThreshold binarizes a grayscale image according to the selected mode.
//
// Parameters:
//   - gray: Source grayscale image (not modified).
//   - mode: One of the ThresholdMode values.
//   - level: Fixed threshold level for ThresholdBinary and ThresholdGray.
//     Ignored by the adaptive and automatic modes.
//   - blurSize: Gaussian pre-blur kernel size for ThresholdOtsu, odd.
//     Ignored by the other modes.
//
// Returns a new grayscale image. For all modes except ThresholdGray the
// output contains only the values 0 and 255.
func ApplyThreshold(gray *image.Gray, mode ThresholdMode, level uint8, blurSize int) *image.Gray {
	switch mode {
	case ThresholdGray:
		return thresholdToZero(gray, level)
	case ThresholdGauss:
		return thresholdAdaptiveGauss(gray)
	case ThresholdOtsu:
		blurred := ToGray(blur.Gaussian(gray, float64(blurSize)/2))
		return thresholdBinaryAt(blurred, otsuLevel(blurred), false)
	default:
		return thresholdBinaryAt(gray, level, true)
	}
}

// thresholdBinaryAt applies a fixed global threshold. With inverse set,
// pixels above the level map to 0 and the rest to 255; otherwise pixels
// above the level map to 255.
func thresholdBinaryAt(gray *image.Gray, level uint8, inverse bool) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			above := gray.GrayAt(x, y).Y > level
			if above != inverse {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// thresholdToZero zeroes pixels at or below the level, preserving the rest.
func thresholdToZero(gray *image.Gray, level uint8) *image.Gray {
	bounds := gray.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if v := gray.GrayAt(x, y).Y; v > level {
				out.SetGray(x, y, color.Gray{Y: v})
			}
		}
	}
	return out
}

// thresholdAdaptiveGauss compares each pixel against the Gaussian-weighted
// mean of its neighborhood minus adaptiveC, with binary-inverse output.
func thresholdAdaptiveGauss(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	kernel, half := adaptiveKernel()

	out := image.NewGray(bounds)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var mean float64
			for ky := -half; ky <= half; ky++ {
				for kx := -half; kx <= half; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					v := float64(gray.GrayAt(px+bounds.Min.X, py+bounds.Min.Y).Y)
					mean += v * kernel[ky+half][kx+half]
				}
			}

			v := float64(gray.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y)
			if v <= mean-adaptiveC {
				out.SetGray(x+bounds.Min.X, y+bounds.Min.Y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

// adaptiveKernel builds the normalized Gaussian weight matrix for the
// adaptive threshold block. Sigma follows the usual size-derived heuristic
// sigma = 0.3*((size-1)*0.5 - 1) + 0.8, which is 2.0 for an 11x11 block.
func adaptiveKernel() (kernel [][]float64, half int) {
	half = adaptiveBlockSize / 2
	sigma := 0.3*(float64(adaptiveBlockSize-1)*0.5-1) + 0.8

	kernel = make([][]float64, adaptiveBlockSize)
	sum := 0.0
	for ky := -half; ky <= half; ky++ {
		kernel[ky+half] = make([]float64, adaptiveBlockSize)
		for kx := -half; kx <= half; kx++ {
			w := math.Exp(-float64(kx*kx+ky*ky) / (2 * sigma * sigma))
			kernel[ky+half][kx+half] = w
			sum += w
		}
	}
	for ky := range kernel {
		for kx := range kernel[ky] {
			kernel[ky][kx] /= sum
		}
	}
	return kernel, half
}

// otsuLevel picks the global threshold that maximizes between-class variance
// of the image histogram.
func otsuLevel(gray *image.Gray) uint8 {
	bounds := gray.Bounds()

	var hist [256]int
	total := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
			total++
		}
	}
	if total == 0 {
		return 0
	}

	var sumAll float64
	for i, n := range hist {
		sumAll += float64(i) * float64(n)
	}

	var sumBg float64
	var weightBg int
	bestLevel := uint8(0)
	bestVariance := -1.0

	for t := 0; t < 256; t++ {
		weightBg += hist[t]
		if weightBg == 0 {
			continue
		}
		weightFg := total - weightBg
		if weightFg == 0 {
			break
		}

		sumBg += float64(t) * float64(hist[t])
		meanBg := sumBg / float64(weightBg)
		meanFg := (sumAll - sumBg) / float64(weightFg)

		variance := float64(weightBg) * float64(weightFg) * (meanBg - meanFg) * (meanBg - meanFg)
		if variance > bestVariance {
			bestVariance = variance
			bestLevel = uint8(t)
		}
	}

	return bestLevel
}

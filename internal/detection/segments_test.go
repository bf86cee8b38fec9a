package detection

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// drawBinaryLine sets a run of foreground pixels on a black image.
func drawBinaryLine(img *image.Gray, x1, y1, x2, y2 int) {
	dx := x2 - x1
	dy := y2 - y1
	steps := int(math.Max(math.Abs(float64(dx)), math.Abs(float64(dy))))
	if steps == 0 {
		img.SetGray(x1, y1, color.Gray{Y: 255})
		return
	}
	for i := 0; i <= steps; i++ {
		x := x1 + dx*i/steps
		y := y1 + dy*i/steps
		img.SetGray(x, y, color.Gray{Y: 255})
	}
}

func TestDetectSegments_Vertical(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	drawBinaryLine(img, 100, 20, 100, 170)

	result, err := DetectSegments(img, 50)
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}

	if result.Count == 0 {
		t.Fatal("expected at least one segment")
	}

	s := result.Segments[0]
	if s.Start.X != 100 && s.End.X != 100 {
		t.Errorf("expected segment on x=100, got %+v", s)
	}
	if s.Length < 140 {
		t.Errorf("expected length >= 140, got %.1f", s.Length)
	}
}

func TestDetectSegments_Horizontal(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	drawBinaryLine(img, 20, 80, 170, 80)

	result, err := DetectSegments(img, 50)
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}

	if result.Count == 0 {
		t.Fatal("expected at least one segment")
	}
	if result.Segments[0].Length < 140 {
		t.Errorf("expected length >= 140, got %.1f", result.Segments[0].Length)
	}
}

func TestDetectSegments_Diagonal(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	drawBinaryLine(img, 20, 20, 170, 170)

	result, err := DetectSegments(img, 50)
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}

	// A 1-pixel diagonal rasterization is sparse along the Hough trace;
	// detection is acceptable but not guaranteed at this resolution.
	t.Logf("detected %d segments on diagonal", result.Count)
	if result.Count > 0 && result.Segments[0].Length < 50 {
		t.Errorf("segment below requested minimum length: %.1f", result.Segments[0].Length)
	}
}

func TestDetectSegments_EmptyImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 200))

	result, err := DetectSegments(img, 20)
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}

	if result.Count != 0 {
		t.Errorf("expected 0 segments in empty image, got %d", result.Count)
	}
}

func TestDetectSegments_MinLength(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	drawBinaryLine(img, 100, 20, 100, 170)

	result, err := DetectSegments(img, 400)
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}

	if result.Count != 0 {
		t.Errorf("expected 0 segments with minLength=400, got %d", result.Count)
	}
}

func TestDetectSegments_ZeroGapSplitsRuns(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 400, 400))
	// Two collinear strokes with a 20px hole between them.
	drawBinaryLine(img, 200, 20, 200, 180)
	drawBinaryLine(img, 200, 200, 200, 360)

	result, err := DetectSegments(img, 50)
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}

	if result.Count < 2 {
		t.Fatalf("expected the gap to split the line into 2 segments, got %d", result.Count)
	}
	for _, s := range result.Segments {
		if s.Length > 170 {
			t.Errorf("segment spans the gap: %+v", s)
		}
	}
}

func TestDetectSegments_BelowVoteThreshold(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	// 40px stroke: under the accumulator vote threshold, invisible to Hough.
	drawBinaryLine(img, 100, 80, 100, 120)

	result, err := DetectSegments(img, 10)
	if err != nil {
		t.Fatalf("DetectSegments failed: %v", err)
	}

	if result.Count != 0 {
		t.Errorf("expected no segments below vote threshold, got %d", result.Count)
	}
}

package detection

import (
	"image"
	"math"
	"sort"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Circle represents a detected circular shape.
//
// Circles are detected using the Hough circle transform, which votes for
// potential circle centers at each edge pixel.
type Circle struct {
	// Center is the detected center point of the circle.
	Center Point `json:"center"`

	// Radius is the detected radius in pixels.
	Radius int `json:"radius"`

	// Confidence indicates detection quality (0.0 to 1.0).
	// Based on the ratio of edge votes to expected circumference.
	Confidence float64 `json:"confidence"`
}

// CirclesResult contains all circles detected in an image.
type CirclesResult struct {
	// Circles is the list of detected circles, sorted by confidence (highest first).
	Circles []Circle `json:"circles"`

	// Count is the number of circles detected.
	Count int `json:"count"`
}

// DetectCircles finds circular shapes in a grayscale image using the Hough
// circle transform.
//
// This is the dial-face localization primitive: a gauge chassis shows up as a
// strong circular edge, and reflections or imperfect circularity typically
// produce a handful of near-duplicate detections around it.
//
// Parameters:
//   - gray: Grayscale source image. Callers usually pre-smooth with a median
//     blur to suppress speckle before edge extraction.
//   - minRadius: Minimum circle radius to detect in pixels.
//   - maxRadius: Maximum circle radius to detect in pixels. Limits search
//     space; a circle larger than min(width,height)/2 cannot fit the frame.
//
// Returns:
//   - *CirclesResult: Detected circles sorted by confidence (highest first).
//   - error: Currently always nil.
//
// # Algorithm (Hough Circle Transform)
//
//  1. Edge Detection: Find edge pixels using gradient thresholds
//  2. Accumulator Voting: For each radius from minRadius to maxRadius:
//     - For each edge pixel, vote for potential centers by drawing a
//     voting circle around the pixel
//     - Votes are cast every 10° around the edge pixel
//  3. Peak Detection: Find local maxima in the accumulator that exceed
//     threshold (60% of expected circumference points)
//  4. Duplicate Removal: Merge circles with overlapping centers
//
// # Confidence Score
//
// Confidence is calculated as votes / (2 × radius): the fraction of the
// circumference where edge pixels voted for this center, capped at 1.0.
//
// # Limitations
//
//   - Ellipses are not detected (only true circles); slightly elliptical dials
//     come out as several overlapping circle hypotheses, which is why callers
//     average the survivors instead of trusting a single detection
//   - Large radius ranges slow detection significantly
func DetectCircles(gray *image.Gray, minRadius, maxRadius int) (*CirclesResult, error) {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	edges := detectEdges(gray)

	circles := make([]Circle, 0)

	// For each radius, accumulate votes
	for radius := minRadius; radius <= maxRadius; radius++ {
		if radius <= 0 {
			continue
		}
		accumulator := make([][]int, height)
		for y := 0; y < height; y++ {
			accumulator[y] = make([]int, width)
		}

		// Vote for circle centers
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if edges[y][x] {
					// Vote in a circle around this edge point
					for angle := 0; angle < 360; angle += 10 {
						rad := float64(angle) * math.Pi / 180
						cx := x - int(float64(radius)*math.Cos(rad))
						cy := y - int(float64(radius)*math.Sin(rad))
						if cx >= 0 && cx < width && cy >= 0 && cy < height {
							accumulator[cy][cx]++
						}
					}
				}
			}
		}

		// Find local maxima in accumulator
		threshold := int(float64(2*radius) * 0.6) // Require ~60% of circumference
		for y := radius; y < height-radius; y++ {
			for x := radius; x < width-radius; x++ {
				if accumulator[y][x] < threshold {
					continue
				}
				isMax := true
				for dy := -5; dy <= 5 && isMax; dy++ {
					for dx := -5; dx <= 5 && isMax; dx++ {
						if dy == 0 && dx == 0 {
							continue
						}
						ny, nx := y+dy, x+dx
						if ny >= 0 && ny < height && nx >= 0 && nx < width {
							if accumulator[ny][nx] > accumulator[y][x] {
								isMax = false
							}
						}
					}
				}

				if isMax {
					confidence := float64(accumulator[y][x]) / float64(2*radius)
					circles = append(circles, Circle{
						Center:     Point{X: x + bounds.Min.X, Y: y + bounds.Min.Y},
						Radius:     radius,
						Confidence: math.Min(confidence, 1.0),
					})
				}
			}
		}
	}

	// Remove duplicate detections (circles with very close centers)
	filtered := filterDuplicateCircles(circles)

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Confidence > filtered[j].Confidence
	})

	return &CirclesResult{
		Circles: filtered,
		Count:   len(filtered),
	}, nil
}

// detectEdges performs simple gradient-based edge detection on a grayscale image.
//
// Pixels where |current - neighbor| > 30 are marked as edges. Checks both
// horizontal and vertical neighbors. Border pixels are never edges.
func detectEdges(gray *image.Gray) [][]bool {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	edges := make([][]bool, height)
	const threshold = 30.0

	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				continue
			}

			c := gray.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y
			cx := gray.GrayAt(x+1+bounds.Min.X, y+bounds.Min.Y).Y
			cy := gray.GrayAt(x+bounds.Min.X, y+1+bounds.Min.Y).Y

			dx := math.Abs(float64(c) - float64(cx))
			dy := math.Abs(float64(c) - float64(cy))

			if dx > threshold || dy > threshold {
				edges[y][x] = true
			}
		}
	}

	return edges
}

// filterDuplicateCircles removes circles with overlapping centers.
//
// Two circles are considered duplicates if the distance between their centers
// is less than the average of their radii. Only the first circle (typically
// higher confidence due to sorting) is kept.
func filterDuplicateCircles(circles []Circle) []Circle {
	if len(circles) == 0 {
		return circles
	}

	filtered := make([]Circle, 0)
	for _, c := range circles {
		isDuplicate := false
		for _, f := range filtered {
			dx := c.Center.X - f.Center.X
			dy := c.Center.Y - f.Center.Y
			dist := math.Sqrt(float64(dx*dx + dy*dy))
			if dist < float64(c.Radius+f.Radius)/2 {
				isDuplicate = true
				break
			}
		}
		if !isDuplicate {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

package detection

import (
	"image"
	"math"
	"sort"
)

// Segment represents a detected line segment in pixel coordinates.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`

	// Length is the Euclidean distance between Start and End.
	Length float64 `json:"length"`
}

// SegmentsResult contains detected line segments.
type SegmentsResult struct {
	Segments []Segment `json:"segments"`
	Count    int       `json:"count"`
}

const (
	// houghRhoStep is the rho resolution of the accumulator in pixels.
	// Coarser than 1 so that slightly bent or thick strokes still pile
	// votes into a single bucket; it is easier to detect generously and
	// filter geometrically afterwards than to tune for exact hits.
	houghRhoStep = 3

	// houghVoteThreshold is the minimum accumulator count for a peak to be
	// considered a line.
	houghVoteThreshold = 100

	// maxSegments caps the number of extracted segments per image.
	maxSegments = 500
)

// DetectSegments extracts line segments from a binary image using a
// probabilistic Hough transform.
//
// Any pixel with a value above zero is treated as foreground. The function is
// intended to run on thresholded images where strokes (a gauge needle, tick
// marks, label edges) are foreground on a black background.
//
// Parameters:
//   - bin: Binary (thresholded) grayscale image.
//   - minLength: Minimum segment length in pixels. Shorter runs are dropped.
//
// Returns:
//   - *SegmentsResult: Segments ordered by the vote count of the line they
//     were traced from (strongest line first).
//   - error: Currently always nil.
//
// # Algorithm
//
//  1. Voting: every foreground pixel votes in (rho, theta) space with 1°
//     angular resolution and a rho bucket width of 3 pixels
//  2. Peak Detection: local maxima with at least houghVoteThreshold votes
//  3. Tracing: for each peak, walk along the line through the image and
//     collect contiguous foreground runs; a single missing pixel ends the
//     run (zero gap tolerance)
//  4. Consumption: pixels belonging to an emitted run are removed from the
//     foreground so weaker peaks cannot re-emit the same stroke
//
// Runs shorter than minLength are discarded. Each surviving run becomes one
// Segment with its first and last foreground pixels as endpoints.
func DetectSegments(bin *image.Gray, minLength int) (*SegmentsResult, error) {
	bounds := bin.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Foreground grid, normalized to a zero origin.
	fg := make([][]bool, height)
	for y := 0; y < height; y++ {
		fg[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			if bin.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y > 0 {
				fg[y][x] = true
			}
		}
	}

	maxDist := int(math.Ceil(math.Sqrt(float64(width*width + height*height))))
	numRho := 2*maxDist/houghRhoStep + 1
	const numAngles = 180

	accumulator := make([][]int, numRho)
	for i := range accumulator {
		accumulator[i] = make([]int, numAngles)
	}

	// Vote in Hough space.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !fg[y][x] {
				continue
			}
			for theta := 0; theta < numAngles; theta++ {
				angle := float64(theta) * math.Pi / 180.0
				rho := float64(x)*math.Cos(angle) + float64(y)*math.Sin(angle)
				rhoIdx := (int(rho) + maxDist) / houghRhoStep
				if rhoIdx >= 0 && rhoIdx < numRho {
					accumulator[rhoIdx][theta]++
				}
			}
		}
	}

	// Find peaks in the accumulator.
	type peak struct {
		rhoIdx int
		theta  int
		votes  int
	}
	peaks := make([]peak, 0)

	for rhoIdx := 0; rhoIdx < numRho; rhoIdx++ {
		for theta := 0; theta < numAngles; theta++ {
			votes := accumulator[rhoIdx][theta]
			if votes < houghVoteThreshold {
				continue
			}
			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr := rhoIdx + dr
					nt := (theta + dt + numAngles) % numAngles
					if nr >= 0 && nr < numRho && accumulator[nr][nt] > votes {
						isMax = false
					}
				}
			}
			if isMax {
				peaks = append(peaks, peak{rhoIdx: rhoIdx, theta: theta, votes: votes})
			}
		}
	}

	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].votes > peaks[j].votes
	})

	segments := make([]Segment, 0)

	for _, p := range peaks {
		if len(segments) >= maxSegments {
			break
		}

		angle := float64(p.theta) * math.Pi / 180.0
		// Center of the rho bucket.
		rho := float64(p.rhoIdx*houghRhoStep-maxDist) + float64(houghRhoStep)/2

		cosA := math.Cos(angle)
		sinA := math.Sin(angle)

		// Line base point and walking direction.
		baseX := rho * cosA
		baseY := rho * sinA
		dirX := -sinA
		dirY := cosA

		// Perpendicular probe offsets cover the rho bucket width.
		probeX := int(math.Round(cosA))
		probeY := int(math.Round(sinA))

		var runStart, runEnd Point
		runLen := 0

		flush := func() {
			if runLen == 0 {
				return
			}
			dx := float64(runEnd.X - runStart.X)
			dy := float64(runEnd.Y - runStart.Y)
			length := math.Sqrt(dx*dx + dy*dy)
			if length >= float64(minLength) && len(segments) < maxSegments {
				segments = append(segments, Segment{
					Start:  Point{X: runStart.X + bounds.Min.X, Y: runStart.Y + bounds.Min.Y},
					End:    Point{X: runEnd.X + bounds.Min.X, Y: runEnd.Y + bounds.Min.Y},
					Length: length,
				})
			}
			runLen = 0
		}

		for t := -maxDist; t <= maxDist; t++ {
			px := int(math.Round(baseX + float64(t)*dirX))
			py := int(math.Round(baseY + float64(t)*dirY))

			hit := false
			var hitX, hitY int
			for o := -1; o <= 1; o++ {
				nx := px + o*probeX
				ny := py + o*probeY
				if nx >= 0 && nx < width && ny >= 0 && ny < height && fg[ny][nx] {
					if !hit {
						hit = true
						hitX, hitY = nx, ny
					}
					fg[ny][nx] = false // consume
				}
			}

			if !hit {
				flush()
				continue
			}
			if runLen == 0 {
				runStart = Point{X: hitX, Y: hitY}
			}
			runEnd = Point{X: hitX, Y: hitY}
			runLen++
		}
		flush()
	}

	return &SegmentsResult{
		Segments: segments,
		Count:    len(segments),
	}, nil
}

package gauge

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/gauge-reader/internal/detection"
	"github.com/ironsheep/gauge-reader/internal/imaging"
)

// maxNeedleCandidates caps how many segments may survive the geometric
// filter before the frame is rejected as noise. A real needle produces a
// handful of near-parallel segments; dozens mean the threshold picked up the
// whole dial face.
const maxNeedleCandidates = 75

// NeedleDetector extracts the needle angle from a located dial.
//
// # Algorithm
//
// The frame is cropped to the dial by masking everything outside it to
// white, thresholded so the dark needle becomes foreground, and scanned for
// line segments. Segments are kept when one endpoint lies in the inner band
// around the hub and the other in the outer band near the rim. The needle
// angle is the mean of the surviving segment angles, weighted by segment
// length so the long flank of the needle dominates over short fragments.
type NeedleDetector struct {
	cfg *Config
	log *slog.Logger
}

// NewNeedleDetector returns a detector using the given configuration.
func NewNeedleDetector(cfg *Config, log *slog.Logger) *NeedleDetector {
	return &NeedleDetector{cfg: cfg, log: log}
}

// NeedleResult carries the needle angle plus the intermediate images used
// for debugging. A result is returned even when detection fails, with
// whatever stages completed.
type NeedleResult struct {
	// AngleRad is the needle angle in radians, measured clockwise from
	// straight down. Only meaningful when Detect returned no error.
	AngleRad float64

	// Candidates are the segments that passed the geometric needle filter.
	Candidates []detection.Segment

	// Thresholded is the binarized dial region fed to segment detection.
	Thresholded *image.Gray

	// Overlay shows raw segments, the needle bands and the surviving
	// candidates on top of the thresholded image.
	Overlay *image.RGBA
}

// Detect finds the needle in a grayscale frame given the stabilized dial
// geometry.
func (n *NeedleDetector) Detect(gray *image.Gray, dial DialGeometry) (*NeedleResult, error) {
	result := &NeedleResult{}

	// Mask out the hub disc and everything beyond the outer band: the
	// counterweight and bezel produce strong strokes that are never the
	// needle.
	masked := imaging.CloneGray(gray)
	imaging.MaskAnnulus(masked, dial.X, dial.Y, n.cfg.RInnerMin*dial.R, n.cfg.ROuterMax*dial.R, 255)

	bin := imaging.ApplyThreshold(masked, n.cfg.ThresholdMode, n.cfg.ThresholdLevel, n.cfg.BlurSize)
	if n.cfg.UseLineFilter {
		bin = n.lineFilter(bin)
	}
	result.Thresholded = bin

	minLength := int(n.cfg.MinLengthFrac * dial.R)
	segments, err := detection.DetectSegments(bin, minLength)
	if err != nil {
		return result, fmt.Errorf("segment detection: %w", err)
	}

	result.Overlay = n.drawOverlay(bin, dial, segments.Segments)
	if len(segments.Segments) == 0 {
		return result, &DetectionError{Kind: KindNoLines, Msg: "thresholded dial contains no line segments"}
	}

	candidates := n.filterCandidates(segments.Segments, dial)
	if len(candidates) > maxNeedleCandidates {
		return result, &DetectionError{
			Kind: KindTooManyCandidates,
			Msg:  fmt.Sprintf("%d candidates survived filtering, frame looks like noise", len(candidates)),
		}
	}
	if len(candidates) == 0 {
		return result, &DetectionError{
			Kind: KindNoNeedle,
			Msg:  fmt.Sprintf("none of %d segments had endpoints in the needle bands", len(segments.Segments)),
		}
	}
	result.Candidates = candidates

	blue := color.RGBA{B: 255, A: 255}
	for _, seg := range candidates {
		imaging.DrawLine(result.Overlay, seg.Start.X, seg.Start.Y, seg.End.X, seg.End.Y, blue, 2)
	}

	angles := make([]float64, len(candidates))
	lengths := make([]float64, len(candidates))
	for i, seg := range candidates {
		angles[i] = needleAngle(seg, dial)
		lengths[i] = seg.Length
	}
	result.AngleRad = stat.Mean(angles, lengths)

	n.log.Debug("needle detected",
		"angle_deg", result.AngleRad*180/math.Pi,
		"candidates", len(candidates),
		"segments", len(segments.Segments))
	return result, nil
}

// filterCandidates keeps segments whose endpoints straddle the needle bands:
// one end near the hub, the other near the rim.
func (n *NeedleDetector) filterCandidates(segments []detection.Segment, dial DialGeometry) []detection.Segment {
	var out []detection.Segment
	for _, seg := range segments {
		d1 := dist(seg.Start, dial)
		d2 := dist(seg.End, dial)
		if d1 > d2 {
			d1, d2 = d2, d1
		}
		innerOK := d1 > n.cfg.RInnerMin*dial.R && d1 < n.cfg.RInnerMax*dial.R
		outerOK := d2 > n.cfg.ROuterMin*dial.R && d2 < n.cfg.ROuterMax*dial.R
		if innerOK && outerOK {
			out = append(out, seg)
		}
	}
	return out
}

// lineFilter cleans a thresholded image that picked up printed dial
// markings: a median pass removes speckle, edge extraction keeps only
// stroke boundaries, and a light gaussian re-widens them for the segment
// scan.
func (n *NeedleDetector) lineFilter(bin *image.Gray) *image.Gray {
	smoothed := imaging.ToGray(effect.Median(bin, float64(n.cfg.BlurSize)/2))
	edges := imaging.EdgeFilter(smoothed, 50, 150)
	return imaging.ToGray(blur.Gaussian(edges, float64(n.cfg.BlurSize)/2))
}

// drawOverlay renders the segment scan for debugging: every raw segment in
// green, the inner band in red and the outer band in yellow.
func (n *NeedleDetector) drawOverlay(bin *image.Gray, dial DialGeometry, segments []detection.Segment) *image.RGBA {
	overlay := imaging.ToRGBA(bin)

	green := color.RGBA{G: 255, A: 255}
	for _, seg := range segments {
		imaging.DrawLine(overlay, seg.Start.X, seg.Start.Y, seg.End.X, seg.End.Y, green, 1)
	}

	red := color.RGBA{R: 255, A: 255}
	yellow := color.RGBA{R: 255, G: 255, A: 255}
	imaging.DrawCircle(overlay, dial.X, dial.Y, n.cfg.RInnerMin*dial.R, red, 1)
	imaging.DrawCircle(overlay, dial.X, dial.Y, n.cfg.RInnerMax*dial.R, red, 1)
	imaging.DrawCircle(overlay, dial.X, dial.Y, n.cfg.ROuterMin*dial.R, yellow, 1)
	imaging.DrawCircle(overlay, dial.X, dial.Y, n.cfg.ROuterMax*dial.R, yellow, 1)

	return overlay
}

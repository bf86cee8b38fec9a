// Package detection provides the shape-detection primitives the gauge reading
// pipeline depends on: circle detection to localize the dial face and line
// segment extraction to find needle candidates.
//
// # Detection Capabilities
//
//   - Circles: Hough circle transform over a gradient edge map. Used to find
//     the gauge chassis; near-duplicate detections from reflections or
//     imperfect circularity are expected and left to the caller to average.
//   - Line segments: probabilistic Hough transform over a binary image with
//     zero line-gap tolerance. Used to find needle candidate strokes in a
//     thresholded dial image.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// # Confidence Scores
//
// Circle detections carry a confidence score (0.0 to 1.0) based on the
// fraction of circumference points that voted for the center. Segments carry
// no score; the gauge pipeline weighs them by pixel length instead.
//
// # Performance Considerations
//
// Both transforms iterate over all pixels and a parameter space, so cost grows
// with image size and (for circles) the radius range searched. Callers bound
// the circle search with minimum and maximum radii derived from the frame
// size, and run segment extraction on masked, thresholded images where most
// pixels are background.
//
// # Limitations
//
// The algorithms work best on clean, high-contrast input:
//   - Circle detection expects a visible chassis edge; heavy glare can
//     suppress it entirely
//   - Segment extraction expects a thresholded image where the needle is a
//     solid stroke; a poorly chosen threshold level floods the image with
//     spurious candidates
package detection

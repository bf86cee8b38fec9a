package gauge

import "sort"

// median returns the middle value of the samples, averaging the two middles
// for even counts. The input slice is not modified.
func median(samples []float64) float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// DialStabilizer smooths the dial estimate over recent frames. Single-frame
// circle detection jitters by a few pixels; a per-axis median over a sliding
// window pins the dial in place so the needle bands stay steady.
type DialStabilizer struct {
	size int
	xs   []float64
	ys   []float64
	rs   []float64
}

// NewDialStabilizer returns a stabilizer with the given window size. A size
// of 1 passes estimates through unchanged.
func NewDialStabilizer(size int) *DialStabilizer {
	if size < 1 {
		size = 1
	}
	return &DialStabilizer{size: size}
}

// Push records a new dial estimate and returns the stabilized geometry: the
// per-axis median of the window so far.
func (s *DialStabilizer) Push(d DialGeometry) DialGeometry {
	if s.size == 1 {
		return d
	}
	if len(s.xs) == s.size {
		s.xs = s.xs[1:]
		s.ys = s.ys[1:]
		s.rs = s.rs[1:]
	}
	s.xs = append(s.xs, d.X)
	s.ys = append(s.ys, d.Y)
	s.rs = append(s.rs, d.R)

	return DialGeometry{
		X: median(s.xs),
		Y: median(s.ys),
		R: median(s.rs),
	}
}

// Len returns the number of estimates currently in the window.
func (s *DialStabilizer) Len() int {
	if s.size == 1 {
		return 1
	}
	return len(s.xs)
}

// ValueHistory is a sliding window over recent readings. Alerting waits for
// a full window and compares its median, so one misread frame cannot page
// anyone.
type ValueHistory struct {
	size   int
	values []float64
}

// NewValueHistory returns a history with the given window size.
func NewValueHistory(size int) *ValueHistory {
	if size < 1 {
		size = 1
	}
	return &ValueHistory{size: size}
}

// Push records a reading, evicting the oldest when the window is full.
func (h *ValueHistory) Push(v float64) {
	if len(h.values) == h.size {
		h.values = h.values[1:]
	}
	h.values = append(h.values, v)
}

// Full reports whether the window has reached its configured size.
func (h *ValueHistory) Full() bool {
	return len(h.values) == h.size
}

// Median returns the median of the recorded readings. It returns 0 for an
// empty history.
func (h *ValueHistory) Median() float64 {
	if len(h.values) == 0 {
		return 0
	}
	return median(h.values)
}

// Len returns the number of recorded readings.
func (h *ValueHistory) Len() int {
	return len(h.values)
}

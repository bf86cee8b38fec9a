package gauge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{1, 4, 2, 3}), "even count averages the two middles")
	assert.Equal(t, 7.0, median([]float64{7}))
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestDialStabilizer(t *testing.T) {
	s := NewDialStabilizer(3)

	first := s.Push(DialGeometry{X: 100, Y: 100, R: 50})
	assert.Equal(t, DialGeometry{X: 100, Y: 100, R: 50}, first)

	// An outlier in a window of 3 is voted down by the median.
	s.Push(DialGeometry{X: 500, Y: 500, R: 200})
	third := s.Push(DialGeometry{X: 102, Y: 98, R: 52})
	assert.Equal(t, DialGeometry{X: 102, Y: 100, R: 52}, third)

	// Window is bounded: pushing more evicts the oldest.
	s.Push(DialGeometry{X: 104, Y: 96, R: 54})
	assert.Equal(t, 3, s.Len())
}

func TestDialStabilizer_PassThrough(t *testing.T) {
	s := NewDialStabilizer(1)

	out := s.Push(DialGeometry{X: 1, Y: 2, R: 3})
	assert.Equal(t, DialGeometry{X: 1, Y: 2, R: 3}, out)

	out = s.Push(DialGeometry{X: 9, Y: 9, R: 9})
	assert.Equal(t, DialGeometry{X: 9, Y: 9, R: 9}, out, "window of 1 must not smooth")
}

func TestValueHistory(t *testing.T) {
	h := NewValueHistory(3)

	assert.False(t, h.Full())
	assert.Equal(t, 0.0, h.Median(), "empty history medians to zero")

	h.Push(1)
	h.Push(2)
	require.False(t, h.Full())

	h.Push(3)
	require.True(t, h.Full())
	assert.Equal(t, 2.0, h.Median())

	// Eviction: window slides to {2, 3, 10}.
	h.Push(10)
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 3.0, h.Median())
}

package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate_DocumentedFormula(t *testing.T) {
	// (x - x0) * (y1 - y0 + 1) / (x1 - x0 + 1) + y0
	assert.Equal(t, 5, Interpolate(5, 0, 9, 0, 9))
	assert.Equal(t, 0, Interpolate(0, 0, 9, 0, 9))
	assert.Equal(t, 9, Interpolate(9, 0, 9, 0, 9))
}

func TestInterpolate_EndpointExactness(t *testing.T) {
	cases := []struct {
		x0, x1, y0, y1 int
	}{
		{0, 420, 0, 10},
		{420, 900, 10, 20},
		{10, 20, 8, 17},
		{170, 180, 193, 200},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.y0, Interpolate(tc.x0, tc.x0, tc.x1, tc.y0, tc.y1),
			"lower endpoint for segment (%d,%d)-(%d,%d)", tc.x0, tc.y0, tc.x1, tc.y1)
		assert.Equal(t, tc.y1, Interpolate(tc.x1, tc.x0, tc.x1, tc.y0, tc.y1),
			"upper endpoint for segment (%d,%d)-(%d,%d)", tc.x0, tc.y0, tc.x1, tc.y1)
	}
}

func TestInterpolate_OutputWithinRange(t *testing.T) {
	// For any in-range x the output must lie within [min(y0,y1), max(y0,y1)].
	segments := []struct {
		x0, x1, y0, y1 int
	}{
		{0, 420, 0, 10},
		{420, 900, 10, 20},
		{0, 100, 100, 0}, // decreasing segment
		{0, 7, 0, 200},
	}

	for _, seg := range segments {
		lo, hi := seg.y0, seg.y1
		if lo > hi {
			lo, hi = hi, lo
		}
		for x := seg.x0; x <= seg.x1; x++ {
			y := Interpolate(x, seg.x0, seg.x1, seg.y0, seg.y1)
			assert.GreaterOrEqual(t, y, lo, "x=%d in segment (%d,%d)-(%d,%d)", x, seg.x0, seg.y0, seg.x1, seg.y1)
			assert.LessOrEqual(t, y, hi, "x=%d in segment (%d,%d)-(%d,%d)", x, seg.x0, seg.y0, seg.x1, seg.y1)
		}
	}
}

func TestInterpolate_TruncatesTowardZero(t *testing.T) {
	// 240 * 11 / 481 = 5.48... -> 5
	assert.Equal(t, 15, Interpolate(660, 420, 900, 10, 20))
}

func TestNewCurve_Valid(t *testing.T) {
	c, err := NewCurve([]Point{{0, 0}, {420, 10}, {900, 20}})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, Point{420, 10}, c.At(1))
}

func TestNewCurve_TooFewPoints(t *testing.T) {
	_, err := NewCurve([]Point{{0, 0}})
	assert.Error(t, err)

	_, err = NewCurve(nil)
	assert.Error(t, err)
}

func TestNewCurve_NonIncreasingX(t *testing.T) {
	_, err := NewCurve([]Point{{0, 0}, {420, 10}, {420, 20}})
	assert.Error(t, err)

	_, err = NewCurve([]Point{{0, 0}, {900, 10}, {420, 20}})
	assert.Error(t, err)
}

func TestNewCurve_CopiesInput(t *testing.T) {
	pts := []Point{{0, 0}, {100, 10}}
	c, err := NewCurve(pts)
	require.NoError(t, err)

	pts[0].Y = 999
	assert.Equal(t, Point{0, 0}, c.At(0), "curve must be immutable after construction")
}

func TestCurve_LookupBracketing(t *testing.T) {
	c := MustCurve([]Point{{0, 0}, {420, 10}, {900, 20}, {1380, 30}})

	assert.Equal(t, 0, c.Lookup(0))
	assert.Equal(t, 10, c.Lookup(420))
	assert.Equal(t, Interpolate(660, 420, 900, 10, 20), c.Lookup(660))
	assert.Equal(t, Interpolate(1000, 900, 1380, 20, 30), c.Lookup(1000))
}

func TestCurve_LookupExtrapolatesBeyondLastPoint(t *testing.T) {
	c := MustCurve([]Point{{0, 0}, {100, 10}, {200, 20}})

	// At the last point extrapolation uses the final segment.
	assert.Equal(t, 20, c.Lookup(200))
	// Beyond the last point the result may exceed the last Y value.
	assert.Greater(t, c.Lookup(300), 20)
}

package interp

import "fmt"

// Point is a single calibration reference point.
type Point struct {
	X int
	Y int
}

// Curve is an immutable piecewise-linear calibration curve: an ordered
// sequence of reference points with strictly increasing X.
type Curve struct {
	pts []Point
}

// NewCurve constructs a Curve from the given points. It returns an error if
// fewer than two points are supplied or if the X values are not strictly
// increasing, so the invariant is checked once at construction instead of on
// every lookup.
func NewCurve(pts []Point) (Curve, error) {
	if len(pts) < 2 {
		return Curve{}, fmt.Errorf("curve needs at least 2 points, got %d", len(pts))
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].X <= pts[i-1].X {
			return Curve{}, fmt.Errorf("curve x values must be strictly increasing: x[%d]=%d, x[%d]=%d",
				i-1, pts[i-1].X, i, pts[i].X)
		}
	}
	// Copy so the caller cannot mutate the curve afterwards.
	own := make([]Point, len(pts))
	copy(own, pts)
	return Curve{pts: own}, nil
}

// MustCurve is like NewCurve but panics on invalid points. Intended for
// compiled-in calibration tables.
func MustCurve(pts []Point) Curve {
	c, err := NewCurve(pts)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of reference points.
func (c Curve) Len() int {
	return len(c.pts)
}

// At returns the i-th reference point.
func (c Curve) At(i int) Point {
	return c.pts[i]
}

// Lookup maps x through the curve. Inputs at or beyond the last point's X
// extrapolate using the final segment; the result may exceed the last Y
// value, which is deliberate (extrapolate rather than saturate). Inputs
// inside the curve are bracketed by a binary search that narrows the upper
// index down and the lower index up until they are adjacent, then
// interpolated. The first point's X is the lower bound of the input domain,
// so no underflow case exists.
func (c Curve) Lookup(x int) int {
	last := len(c.pts) - 1
	if x >= c.pts[last].X {
		return Interpolate(x, c.pts[last-1].X, c.pts[last].X, c.pts[last-1].Y, c.pts[last].Y)
	}

	lo, hi := 0, last
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if c.pts[mid].X <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return Interpolate(x, c.pts[lo].X, c.pts[hi].X, c.pts[lo].Y, c.pts[hi].Y)
}

// Package interp provides the fixed-point linear interpolation primitives
// used by the exposure meter's calibration stages.
package interp

// Interpolate maps x from the segment [x0, x1] onto [y0, y1] using only
// integer arithmetic:
//
//	y = (x - x0) * (y1 - y0 + 1) / (x1 - x0 + 1) + y0
//
// The +1 bias in numerator and denominator deliberately differs from naive
// linear interpolation: it spreads quantized output values evenly across the
// input range, which the classic Arduino map() gets wrong. Division truncates
// toward zero.
//
// Callers must guarantee x0 < x1; the reference points are not validated.
func Interpolate(x, x0, x1, y0, y1 int) int {
	return (x-x0)*(y1-y0+1)/(x1-x0+1) + y0
}

// Package expose implements the exposure meter's numeric pipeline: the
// sensor-to-EV and EV-to-actuator calibration stages and the acquisition
// loop that ties them to the hardware boundaries.
//
// Exposure values are carried as EV x10 integers (one decimal digit of
// precision without fractional arithmetic).
package expose

import (
	"fmt"

	"github.com/itohio/goexm/pkg/interp"
)

// EVMapper converts an oversampled photoresistor reading to EV x10 through
// a piecewise-linear calibration curve plus a fixed global correction.
type EVMapper struct {
	curve      interp.Curve
	correction int
}

// NewEVMapper creates a mapper over the given curve. correction is in
// EV x10 units and is added to every mapped value.
func NewEVMapper(curve interp.Curve, correction int) EVMapper {
	return EVMapper{curve: curve, correction: correction}
}

// Map converts a raw reading to EV x10. Readings beyond the last curve point
// extrapolate along the final segment rather than saturating; the low end
// needs no special case because the curve starts at the reading's lower
// bound. Every representable reading produces a defined output.
func (m EVMapper) Map(raw int) int {
	return m.curve.Lookup(raw) + m.correction
}

// ActuatorMapper converts EV x10 to the 8-bit duty value driving the analog
// meter. The table holds one duty entry per whole EV (unit spacing of 10
// EV x10 units); input is clamped to [evMin, evMax] before lookup.
type ActuatorMapper struct {
	table []int
	evMin int
	evMax int
}

// NewActuatorMapper validates that the table covers the clamp range,
// including the upper interpolation neighbour at evMax.
func NewActuatorMapper(table []int, evMin, evMax int) (ActuatorMapper, error) {
	if evMin < 0 || evMax < evMin {
		return ActuatorMapper{}, fmt.Errorf("invalid EV clamp range [%d, %d]", evMin, evMax)
	}
	if need := evMax/10 + 2; len(table) < need {
		return ActuatorMapper{}, fmt.Errorf("actuator table too short: need %d entries for evMax=%d, got %d",
			need, evMax, len(table))
	}
	own := make([]int, len(table))
	copy(own, table)
	return ActuatorMapper{table: own, evMin: evMin, evMax: evMax}, nil
}

// Map converts EV x10 to a duty value. The output range is bounded by the
// table's endpoint values; the interpolation itself imposes no ceiling.
func (m ActuatorMapper) Map(ev int) uint8 {
	if ev < m.evMin {
		ev = m.evMin
	}
	if ev > m.evMax {
		ev = m.evMax
	}
	lowV := ev / 10
	low := lowV * 10
	return uint8(interp.Interpolate(ev, low, low+10, m.table[lowV], m.table[lowV+1]))
}

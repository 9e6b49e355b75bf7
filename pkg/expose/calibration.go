package expose

import "github.com/itohio/goexm/pkg/interp"

// Default calibration for the reference hardware: a GL5528 photoresistor in
// a divider on a 10-bit ADC oversampled to 12 bits, driving a 200uA analog
// voltmeter through PWM.
const (
	// DefaultEVCorrection is the global correction added to every mapped
	// exposure value, in EV x10 units.
	DefaultEVCorrection = 10

	// DefaultEVMin and DefaultEVMax bound the needle scale, in EV x10 units.
	DefaultEVMin = 10
	DefaultEVMax = 180

	// DefaultNativeBits is the ADC's hardware resolution;
	// DefaultTargetBits is the resolution synthesized by oversampling.
	DefaultNativeBits = 10
	DefaultTargetBits = 12

	// SelfCheckDuty is the mid-scale duty driven briefly at power-on so the
	// operator can judge battery condition from the needle.
	SelfCheckDuty = 100
)

// DefaultSensorPoints is the measured photoresistor response: oversampled
// divider reading to EV x10. One point per full EV stop.
func DefaultSensorPoints() []interp.Point {
	return []interp.Point{
		{X: 0, Y: 0},
		{X: 420, Y: 10},
		{X: 900, Y: 20},
		{X: 1380, Y: 30},
		{X: 1850, Y: 40},
		{X: 2300, Y: 50},
		{X: 2720, Y: 60},
		{X: 3100, Y: 70},
		{X: 3420, Y: 80},
		{X: 3660, Y: 90},
		{X: 3820, Y: 100},
		{X: 3920, Y: 110},
		{X: 3980, Y: 120},
		{X: 4020, Y: 130},
	}
}

// DefaultSensorCurve returns the compiled-in sensor calibration curve.
func DefaultSensorCurve() interp.Curve {
	return interp.MustCurve(DefaultSensorPoints())
}

// DefaultActuatorTable maps whole EV values to meter duty, one entry per EV.
// The meter face is not quite linear, hence the hand-measured ramp. The last
// entry duplicates the previous one so the interpolation always has an upper
// neighbour at the top of the clamp range.
func DefaultActuatorTable() []int {
	return []int{0, 8, 17, 27, 38, 50, 62, 75, 88, 101, 114, 127, 140, 152, 164, 175, 185, 193, 200, 200}
}

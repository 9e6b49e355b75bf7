package sample

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Lux returns the illuminance corresponding to an exposure value, using the
// standard incident-light relation lux = 2.5 * 2^EV.
func Lux(ev float32) float32 {
	return 2.5 * math32.Exp2(ev)
}

// ShutterSeconds returns the shutter time that exposes correctly at the
// given EV, f-number and film speed: 2^EV = N^2/t at ISO 100, with the film
// speed scaling exposure linearly.
func ShutterSeconds(ev, aperture, iso float32) float32 {
	return aperture * aperture / (math32.Exp2(ev) * iso / 100)
}

// FormatShutter renders a shutter time the way it is engraved on a shutter
// dial: fractional times as a reciprocal, longer times in seconds.
func FormatShutter(seconds float32) string {
	if seconds <= 0 {
		return "-"
	}
	if seconds >= 1 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	return fmt.Sprintf("1/%d", int(1/seconds+0.5))
}

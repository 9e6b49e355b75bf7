package main

import "machine"

const (
	// Loop configuration
	LOOP_INTERVAL_MS = 100  // one pipeline step per interval
	BATTERY_CHECK_MS = 2000 // how long the self-check holds the needle at mid-scale

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 10   // ADC hardware resolution in bits (10-bit = 0-1023)

	// Meter drive
	PWM_PERIOD_NS = 1000000000 / 490 // ~490 Hz, fast enough for the meter coil to average

	// Diagnostic stream default; toggled at runtime by a '1'/'0' byte on the UART
	STREAM_DEFAULT = false

	// Sensor power rail, held high for the process lifetime
	PIN_POWER = machine.D2

	// Photoresistor divider input
	PIN_LDR = machine.A1

	// Voltmeter drive output (must be on a TCC0 channel)
	PIN_METER = machine.D4

	// Serial configuration
	// Format "unix_micros,raw,ev,mv\n", e.g. "1234567890123456,4095,215,2400\n"
	// = ~30 bytes max per line at 10 lines/sec, so 115200 baud has ample headroom.
	UART_BAUD_RATE = 115200
)

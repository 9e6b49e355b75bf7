//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"

	"github.com/itohio/goexm/pkg/expose"
)

var (
	uart      = machine.UART0
	streaming = STREAM_DEFAULT
)

// ldrADC adapts the hardware ADC to the pipeline's reader boundary,
// shifting the left-justified conversion down to native resolution.
type ldrADC struct {
	adc machine.ADC
}

func (l ldrADC) ReadRaw() uint16 {
	return l.adc.Get() >> (16 - expose.DefaultNativeBits)
}

// meterPWM adapts a TCC channel to the pipeline's writer boundary, scaling
// the 8-bit duty to the timer's top value.
type meterPWM struct {
	tcc *machine.TCC
	ch  uint8
}

func (m meterPWM) WriteDuty(duty uint8) {
	m.tcc.Set(m.ch, m.tcc.Top()*uint32(duty)/255)
}

func main() {
	// Sensor power rail on, and it stays on.
	PIN_POWER.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_POWER.High()

	// Photoresistor input
	machine.InitADC()
	PIN_LDR.Configure(machine.PinConfig{Mode: machine.PinInput})
	adc := machine.ADC{Pin: PIN_LDR}
	adc.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	// Meter drive
	tcc := machine.TCC0
	if err := tcc.Configure(machine.PWMConfig{Period: PWM_PERIOD_NS}); err != nil {
		println("pwm configure:", err.Error())
		return
	}
	ch, err := tcc.Channel(PIN_METER)
	if err != nil {
		println("pwm channel:", err.Error())
		return
	}

	// UART for the diagnostic stream and its on/off command
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	meter, err := expose.New(ldrADC{adc}, meterPWM{tcc, ch}, expose.DefaultConfig())
	if err != nil {
		println("meter:", err.Error())
		return
	}

	// Power-on self-check: hold the needle at mid-scale so the operator can
	// judge battery condition before the first reading.
	meter.SelfCheck()
	time.Sleep(BATTERY_CHECK_MS * time.Millisecond)

	// One throwaway reading so the first iteration isn't averaged against a
	// zero-filled history.
	meter.Prime()

	for {
		processSerial()

		r := meter.Step()
		if streaming {
			emit(r)
		}

		time.Sleep(LOOP_INTERVAL_MS * time.Millisecond)
	}
}

// emit writes one diagnostic line.
// Format: "unix_micros,raw,ev,mv\n" where raw is the smoothed reading and
// ev is EV x10 (integer part and first decimal digit in fixed point).
func emit(r expose.Reading) {
	print(time.Now().UnixNano() / 1000)
	print(",")
	print(r.Smoothed)
	print(",")
	print(r.EV)
	print(",")
	print(r.MilliVolts)
	print("\n")
}

// processSerial drains the UART. The command protocol is a single byte:
// '1' enables the diagnostic stream, '0' disables it. Everything else,
// including the line ending, is ignored.
func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		switch data {
		case '1':
			streaming = true
		case '0':
			streaming = false
		}
	}
}

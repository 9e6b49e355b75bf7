package expose

import (
	"fmt"
	"time"

	"github.com/itohio/goexm/pkg/interp"
	"github.com/itohio/goexm/pkg/smooth"
)

// AnalogReader reads one raw sample from the light sensor channel.
type AnalogReader interface {
	ReadRaw() uint16
}

// AnalogWriter drives the meter actuator with an 8-bit duty value.
type AnalogWriter interface {
	WriteDuty(duty uint8)
}

// Config holds the numeric-pipeline parameters. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	SensorCurve   interp.Curve
	EVCorrection  int
	ActuatorTable []int
	EVMin         int
	EVMax         int
	FilterSize    int
	NativeBits    int
	TargetBits    int
	Settle        time.Duration // delay between single ADC reads while oversampling
}

// DefaultConfig returns the compiled-in calibration for the reference
// hardware.
func DefaultConfig() Config {
	return Config{
		SensorCurve:   DefaultSensorCurve(),
		EVCorrection:  DefaultEVCorrection,
		ActuatorTable: DefaultActuatorTable(),
		EVMin:         DefaultEVMin,
		EVMax:         DefaultEVMax,
		FilterSize:    smooth.DefaultSize,
		NativeBits:    DefaultNativeBits,
		TargetBits:    DefaultTargetBits,
		Settle:        2 * time.Millisecond,
	}
}

// Reading is the result of one acquisition step.
type Reading struct {
	Raw        int   // oversampled sum fed into the filter
	Smoothed   int   // rolling-average output
	EV         int   // exposure value, EV x10
	Duty       uint8 // duty written to the actuator
	MilliVolts int   // estimated meter drive voltage, see MilliVolts
}

// MilliVolts estimates the meter drive voltage for a duty value.
//
// 3300/255 truncates to 12 before the multiplication, so the estimate runs
// ~3% low. The original fixed-point firmware behaved this way and calibrated
// expectations may depend on it, so the quirk is preserved rather than
// computed as (duty*3300)/255.
func MilliVolts(duty uint8) int {
	return int(duty) * (3300 / 255)
}

// Meter owns the full pipeline for one light channel: oversampling, the
// rolling-average sample history, and both calibration stages. It is not
// safe for concurrent use; the acquisition loop is a single control flow.
type Meter struct {
	reader AnalogReader
	writer AnalogWriter
	filter *smooth.Rolling
	ev     EVMapper
	act    ActuatorMapper
	reads  int
	settle time.Duration
}

// New builds a Meter from the given boundaries and configuration.
func New(reader AnalogReader, writer AnalogWriter, cfg Config) (*Meter, error) {
	if reader == nil || writer == nil {
		return nil, fmt.Errorf("meter needs both an analog reader and writer")
	}
	if cfg.TargetBits < cfg.NativeBits {
		return nil, fmt.Errorf("target resolution %d below native %d", cfg.TargetBits, cfg.NativeBits)
	}
	act, err := NewActuatorMapper(cfg.ActuatorTable, cfg.EVMin, cfg.EVMax)
	if err != nil {
		return nil, fmt.Errorf("actuator calibration: %w", err)
	}

	return &Meter{
		reader: reader,
		writer: writer,
		filter: smooth.NewRolling(cfg.FilterSize),
		ev:     NewEVMapper(cfg.SensorCurve, cfg.EVCorrection),
		act:    act,
		reads:  1 << (cfg.TargetBits - cfg.NativeBits),
		settle: cfg.Settle,
	}, nil
}

// oversample sums 2^(target-native) single reads with a settling delay
// between them. The sum is deliberately not divided: the extra magnitude is
// the synthesized resolution. It is an unweighted oversample-and-sum, so the
// extra bits are only as meaningful as the analog noise floor permits.
func (m *Meter) oversample() int {
	sum := 0
	for i := 0; i < m.reads; i++ {
		if i > 0 && m.settle > 0 {
			time.Sleep(m.settle)
		}
		sum += int(m.reader.ReadRaw())
	}
	return sum
}

// Prime feeds one throwaway oversampled reading into the filter so the first
// real iteration is not averaged against a fully zero history.
func (m *Meter) Prime() {
	m.filter.Smooth(m.oversample())
}

// SelfCheck drives the needle to mid-scale. The firmware holds it there
// briefly at power-on so the operator can gauge battery condition from the
// needle position.
func (m *Meter) SelfCheck() {
	m.writer.WriteDuty(SelfCheckDuty)
}

// Step runs one acquisition iteration: oversample, smooth, map to EV, map
// to duty, drive the actuator. Every input produces a defined output; there
// is nothing to fail.
func (m *Meter) Step() Reading {
	raw := m.oversample()
	smoothed := m.filter.Smooth(raw)
	ev := m.ev.Map(smoothed)
	duty := m.act.Map(ev)
	m.writer.WriteDuty(duty)

	return Reading{
		Raw:        raw,
		Smoothed:   smoothed,
		EV:         ev,
		Duty:       duty,
		MilliVolts: MilliVolts(duty),
	}
}

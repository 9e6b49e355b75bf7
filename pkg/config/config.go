package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/goexm/pkg/expose"
	"github.com/itohio/goexm/pkg/interp"
)

// Config represents the host application configuration.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Meter       MeterConfig       `yaml:"meter"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Display     DisplayConfig     `yaml:"display"`
	Mock        MockConfig        `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
}

// MeterConfig mirrors the firmware's pipeline parameters so the host-side
// mock and the gauge scale agree with the device.
type MeterConfig struct {
	EVCorrection int `yaml:"ev_correction"` // EV x10 added to every mapped value
	EVMin        int `yaml:"ev_min"`        // EV x10, low end of the needle scale
	EVMax        int `yaml:"ev_max"`        // EV x10, high end of the needle scale
	FilterSize   int `yaml:"filter_size"`   // rolling-average history length
	NativeBits   int `yaml:"native_bits"`   // ADC hardware resolution
	TargetBits   int `yaml:"target_bits"`   // resolution synthesized by oversampling
	SettleMicros int `yaml:"settle_micros"` // delay between oversample reads
}

// CalPoint is one sensor calibration point: oversampled reading to EV x10.
type CalPoint struct {
	Raw int `yaml:"raw"`
	EV  int `yaml:"ev"`
}

// CalibrationConfig contains both calibration curves.
type CalibrationConfig struct {
	Sensor   []CalPoint `yaml:"sensor"`
	Actuator []int      `yaml:"actuator"` // duty per whole EV, unit spacing
}

// DisplayConfig contains the photographic parameters used for the suggested
// exposure readout.
type DisplayConfig struct {
	Aperture      float32 `yaml:"aperture"` // f-number for the shutter suggestion
	ISO           float32 `yaml:"iso"`
	WindowSeconds float64 `yaml:"window_seconds"` // history window for the trend strip
}

// MockConfig drives the simulated photoresistor.
type MockConfig struct {
	Level       float32       `yaml:"level"`        // mean light level in native ADC counts
	Swing       float32       `yaml:"swing"`        // sweep amplitude in native ADC counts
	NoiseLevel  float32       `yaml:"noise_level"`  // noise amplitude in native ADC counts
	SweepPeriod time.Duration `yaml:"sweep_period"` // full light sweep duration
	SampleRate  time.Duration `yaml:"sample_rate"`  // emission interval
}

// Default returns a default configuration matching the reference hardware's
// compiled-in calibration.
func Default() *Config {
	sensor := make([]CalPoint, 0, 14)
	for _, p := range expose.DefaultSensorPoints() {
		sensor = append(sensor, CalPoint{Raw: p.X, EV: p.Y})
	}

	return &Config{
		Serial: SerialConfig{
			Port: "COM3", // default for Windows, "/dev/ttyACM0" on Linux/Mac
		},
		Meter: MeterConfig{
			EVCorrection: expose.DefaultEVCorrection,
			EVMin:        expose.DefaultEVMin,
			EVMax:        expose.DefaultEVMax,
			FilterSize:   10,
			NativeBits:   expose.DefaultNativeBits,
			TargetBits:   expose.DefaultTargetBits,
			SettleMicros: 2000,
		},
		Calibration: CalibrationConfig{
			Sensor:   sensor,
			Actuator: expose.DefaultActuatorTable(),
		},
		Display: DisplayConfig{
			Aperture:      8,
			ISO:           100,
			WindowSeconds: 60,
		},
		Mock: MockConfig{
			Level:       512,
			Swing:       380,
			NoiseLevel:  4,
			SweepPeriod: 30 * time.Second,
			SampleRate:  100 * time.Millisecond,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MeterConfig assembles the pipeline configuration from the calibration
// tables, validating the sensor curve in the process.
func (c *Config) MeterConfig() (expose.Config, error) {
	pts := make([]interp.Point, 0, len(c.Calibration.Sensor))
	for _, p := range c.Calibration.Sensor {
		pts = append(pts, interp.Point{X: p.Raw, Y: p.EV})
	}
	curve, err := interp.NewCurve(pts)
	if err != nil {
		return expose.Config{}, fmt.Errorf("sensor calibration: %w", err)
	}

	return expose.Config{
		SensorCurve:   curve,
		EVCorrection:  c.Meter.EVCorrection,
		ActuatorTable: c.Calibration.Actuator,
		EVMin:         c.Meter.EVMin,
		EVMax:         c.Meter.EVMax,
		FilterSize:    c.Meter.FilterSize,
		NativeBits:    c.Meter.NativeBits,
		TargetBits:    c.Meter.TargetBits,
		Settle:        time.Duration(c.Meter.SettleMicros) * time.Microsecond,
	}, nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}

	// EVCorrection and SettleMicros may legitimately be zero, so only the
	// structural fields are backfilled.
	if c.Meter.EVMin == 0 && c.Meter.EVMax == 0 {
		c.Meter.EVMin = def.Meter.EVMin
		c.Meter.EVMax = def.Meter.EVMax
	}
	if c.Meter.FilterSize == 0 {
		c.Meter.FilterSize = def.Meter.FilterSize
	}
	if c.Meter.NativeBits == 0 {
		c.Meter.NativeBits = def.Meter.NativeBits
	}
	if c.Meter.TargetBits == 0 {
		c.Meter.TargetBits = def.Meter.TargetBits
	}

	if len(c.Calibration.Sensor) == 0 {
		c.Calibration.Sensor = def.Calibration.Sensor
	}
	if len(c.Calibration.Actuator) == 0 {
		c.Calibration.Actuator = def.Calibration.Actuator
	}

	if c.Display.Aperture == 0 {
		c.Display.Aperture = def.Display.Aperture
	}
	if c.Display.ISO == 0 {
		c.Display.ISO = def.Display.ISO
	}
	if c.Display.WindowSeconds == 0 {
		c.Display.WindowSeconds = def.Display.WindowSeconds
	}

	if c.Mock.Level == 0 {
		c.Mock.Level = def.Mock.Level
	}
	if c.Mock.SweepPeriod == 0 {
		c.Mock.SweepPeriod = def.Mock.SweepPeriod
	}
	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
}

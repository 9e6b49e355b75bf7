package expom

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/itohio/goexm/pkg/config"
	"github.com/itohio/goexm/pkg/expose"
)

// Mock simulates an exposure meter for testing and development. Unlike a
// hand-rolled sample generator it runs the real acquisition pipeline
// (oversampling, rolling average, both calibration stages) against a
// simulated photoresistor, so host-side consumers see the same numeric
// behavior as the firmware.
type Mock struct {
	cfg   *config.MockConfig
	meter *config.Config

	samples   chan RawSample
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
	streaming bool

	startTime time.Time
}

// simADC simulates the photoresistor channel: a slow full-scale light sweep
// with sinusoidal noise on top, in native ADC counts.
type simADC struct {
	cfg   *config.MockConfig
	max   uint16
	start time.Time
	now   func() time.Time
}

func (s *simADC) ReadRaw() uint16 {
	t := float32(s.now().Sub(s.start).Seconds())
	period := float32(s.cfg.SweepPeriod.Seconds())

	level := s.cfg.Level + s.cfg.Swing*math32.Sin(2*math32.Pi*t/period)
	level += s.cfg.NoiseLevel * math32.Sin(211*t) * math32.Cos(137*t)

	if level < 0 {
		level = 0
	}
	if level > float32(s.max) {
		level = float32(s.max)
	}
	return uint16(level)
}

// captureDuty records the duty the pipeline writes each step.
type captureDuty struct {
	duty uint8
}

func (c *captureDuty) WriteDuty(duty uint8) {
	c.duty = duty
}

// NewMock creates a new mocked device instance. The meter section of the
// configuration drives the simulated pipeline so mock behavior tracks the
// configured calibration.
func NewMock(cfg *config.Config) *Mock {
	if cfg == nil {
		cfg = config.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:       &cfg.Mock,
		meter:     cfg,
		samples:   make(chan RawSample, DefaultBufferSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Connect builds the simulated pipeline and starts generating samples.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	mc, err := m.meter.MeterConfig()
	if err != nil {
		return fmt.Errorf("mock pipeline: %w", err)
	}
	mc.Settle = 0 // nothing to settle in simulation

	m.startTime = time.Now()
	adc := &simADC{
		cfg:   m.cfg,
		max:   uint16(1<<mc.NativeBits) - 1,
		start: m.startTime,
		now:   time.Now,
	}
	out := &captureDuty{}
	meter, err := expose.New(adc, out, mc)
	if err != nil {
		return fmt.Errorf("mock pipeline: %w", err)
	}

	m.connected = true
	m.streaming = true

	go m.generateSamples(meter)

	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false

	return nil
}

// Samples returns the channel for reading samples.
func (m *Mock) Samples() <-chan RawSample {
	return m.samples
}

// SetStreaming toggles sample emission, mirroring the firmware command.
func (m *Mock) SetStreaming(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return fmt.Errorf("not connected")
	}

	m.streaming = on
	return nil
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// generateSamples runs the acquisition loop on a ticker, emitting one
// diagnostic sample per iteration while streaming is enabled. It owns the
// samples channel so the close can never race a send.
func (m *Mock) generateSamples(meter *expose.Meter) {
	defer close(m.samples)

	meter.Prime()

	ticker := time.NewTicker(m.cfg.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			r := meter.Step()

			m.mu.RLock()
			streaming := m.streaming
			m.mu.RUnlock()
			if !streaming {
				continue
			}

			sample := RawSample{
				Timestamp:  time.Now(),
				Raw:        clampUint16(r.Smoothed),
				EV:         int16(r.EV),
				MilliVolts: uint16(r.MilliVolts),
			}

			select {
			case m.samples <- sample:
			case <-m.ctx.Done():
				return
			default:
				// Channel full, skip
			}
		}
	}
}

func clampUint16(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}

package expom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/goexm/pkg/config"
)

func fastMockConfig() *config.Config {
	cfg := config.Default()
	cfg.Mock.SampleRate = 10 * time.Millisecond
	cfg.Mock.SweepPeriod = time.Second
	return cfg
}

func TestMock_ConnectAndReceiveSamples(t *testing.T) {
	m := NewMock(fastMockConfig())

	require.NoError(t, m.Connect())
	defer m.Close()
	assert.True(t, m.IsConnected())

	var samples []RawSample
	timeout := time.After(2 * time.Second)
	for len(samples) < 5 {
		select {
		case s := <-m.Samples():
			samples = append(samples, s)
		case <-timeout:
			t.Fatalf("timed out waiting for samples, got %d", len(samples))
		}
	}

	for _, s := range samples {
		assert.False(t, s.Timestamp.IsZero())
		assert.LessOrEqual(t, s.Raw, uint16(4095))
		assert.LessOrEqual(t, s.MilliVolts, uint16(3060))
	}
}

func TestMock_SamplesTrackCalibration(t *testing.T) {
	cfg := fastMockConfig()
	m := NewMock(cfg)

	require.NoError(t, m.Connect())
	defer m.Close()

	mc, err := cfg.MeterConfig()
	require.NoError(t, err)

	timeout := time.After(2 * time.Second)
	for i := 0; i < 5; i++ {
		select {
		case s := <-m.Samples():
			// The mock runs the real pipeline, so each sample's EV must be
			// the mapper's output for its smoothed reading.
			want := mc.SensorCurve.Lookup(int(s.Raw)) + mc.EVCorrection
			assert.Equal(t, int16(want), s.EV)
		case <-timeout:
			t.Fatal("timed out waiting for samples")
		}
	}
}

func TestMock_DoubleConnect(t *testing.T) {
	m := NewMock(fastMockConfig())

	require.NoError(t, m.Connect())
	defer m.Close()

	assert.Error(t, m.Connect())
}

func TestMock_SetStreaming(t *testing.T) {
	m := NewMock(fastMockConfig())

	assert.Error(t, m.SetStreaming(true), "not connected yet")

	require.NoError(t, m.Connect())
	defer m.Close()

	require.NoError(t, m.SetStreaming(false))

	// Drain anything emitted before the toggle landed.
	drained := true
	for drained {
		select {
		case <-m.Samples():
		case <-time.After(100 * time.Millisecond):
			drained = false
		}
	}

	// No further samples while streaming is off.
	select {
	case s, ok := <-m.Samples():
		if ok {
			t.Fatalf("unexpected sample while streaming disabled: %+v", s)
		}
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, m.SetStreaming(true))
	select {
	case <-m.Samples():
	case <-time.After(2 * time.Second):
		t.Fatal("no samples after re-enabling streaming")
	}
}

func TestMock_NilConfigUsesDefaults(t *testing.T) {
	m := NewMock(nil)
	require.NoError(t, m.Connect())
	defer m.Close()
	assert.True(t, m.IsConnected())
}

func TestMock_InvalidCalibrationFailsConnect(t *testing.T) {
	cfg := fastMockConfig()
	cfg.Calibration.Sensor = []config.CalPoint{{Raw: 100, EV: 0}, {Raw: 100, EV: 10}}

	m := NewMock(cfg)
	assert.Error(t, m.Connect())
	assert.False(t, m.IsConnected())
}

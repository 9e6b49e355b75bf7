package sample

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/goexm/pkg/expom"
)

func TestConvert_FixedPointEV(t *testing.T) {
	now := time.Now()
	s := Convert(expom.RawSample{
		Timestamp:  now,
		Raw:        660,
		EV:         25, // EV 2.5
		MilliVolts: 96,
	})

	assert.Equal(t, now, s.Timestamp)
	assert.InDelta(t, 2.5, s.EV, 1e-6)
	assert.InDelta(t, Lux(2.5), s.Lux, 1e-4)
	assert.Equal(t, float32(96), s.MilliVolts)
}

func TestConvert_NegativeEV(t *testing.T) {
	s := Convert(expom.RawSample{EV: -15})
	assert.InDelta(t, -1.5, s.EV, 1e-6)
}

func TestNewConverter_PassesSamplesThrough(t *testing.T) {
	converter := NewConverter(10)

	in := make(chan expom.RawSample, 5)
	out := converter(in)

	now := time.Now()
	for i := 0; i < 5; i++ {
		in <- expom.RawSample{
			Timestamp: now.Add(time.Duration(i) * time.Millisecond),
			Raw:       uint16(100 * i),
			EV:        int16(10 + i),
		}
	}
	close(in)

	var samples []Sample
	for s := range out {
		samples = append(samples, s)
	}

	require.Len(t, samples, 5)
	for i, s := range samples {
		assert.InDelta(t, float32(10+i)/10, s.EV, 1e-6)
	}
}

func TestNewConverter_ClosesOutputWhenInputCloses(t *testing.T) {
	converter := NewConverter(10)

	in := make(chan expom.RawSample)
	out := converter(in)
	close(in)

	_, ok := <-out
	assert.False(t, ok, "output channel should be closed")
}

func TestLux_DoublesPerEV(t *testing.T) {
	assert.InDelta(t, 2.5, Lux(0), 1e-5)
	assert.InDelta(t, 2*Lux(5), Lux(6), 1e-2)
	// EV 15 is the classic sunny-16 light level, ~80k lux.
	assert.InDelta(t, 81920, Lux(15), 1)
}

func TestShutterSeconds_Reciprocity(t *testing.T) {
	// EV 13 at f/8, ISO 100: t = 64 / 8192 s = 1/128.
	assert.InDelta(t, 64.0/8192, ShutterSeconds(13, 8, 100), 1e-6)

	// One stop more light halves the time.
	assert.InDelta(t, ShutterSeconds(13, 8, 100)/2, ShutterSeconds(14, 8, 100), 1e-6)

	// Doubling film speed halves the time.
	assert.InDelta(t, ShutterSeconds(13, 8, 100)/2, ShutterSeconds(13, 8, 200), 1e-6)

	// Opening one full stop (f/8 -> f/5.6) roughly halves the time.
	assert.InDelta(t, ShutterSeconds(13, 8, 100)/2, ShutterSeconds(13, 5.657, 100), 1e-4)
}

func TestFormatShutter(t *testing.T) {
	assert.Equal(t, "1/125", FormatShutter(1.0/125))
	assert.Equal(t, "1/8", FormatShutter(0.125))
	assert.Equal(t, "2.0s", FormatShutter(2))
	assert.Equal(t, "-", FormatShutter(0))
}

func TestDownsample_CopiesWhenSmall(t *testing.T) {
	samples := []Sample{{EV: 1}, {EV: 2}, {EV: 3}}

	got := Downsample(nil, samples, 10)
	assert.Equal(t, samples, got)
}

func TestDownsample_Decimates(t *testing.T) {
	samples := make([]Sample, 100)
	for i := range samples {
		samples[i].EV = float32(i)
	}

	got := Downsample(nil, samples, 10)
	require.Len(t, got, 10)
	assert.Equal(t, float32(0), got[0].EV)
	assert.Equal(t, float32(90), got[9].EV)
}

func TestDownsample_ReusesDestination(t *testing.T) {
	samples := make([]Sample, 100)
	dst := make([]Sample, 0, 50)

	got := Downsample(dst, samples, 10)
	assert.Len(t, got, 10)
	assert.Equal(t, cap(dst), cap(got), "destination capacity should be reused")
}

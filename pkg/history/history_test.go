package history

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/goexm/pkg/sample"
)

func feed(l *Log, samples ...sample.Sample) {
	in := make(chan sample.Sample, len(samples))
	for _, s := range samples {
		in <- s
	}
	close(in)
	l.Process(in)
}

func TestLog_KeepsSamplesInOrder(t *testing.T) {
	l := New(time.Minute)
	now := time.Now()

	feed(l,
		sample.Sample{Timestamp: now, EV: 1},
		sample.Sample{Timestamp: now.Add(time.Second), EV: 2},
		sample.Sample{Timestamp: now.Add(2 * time.Second), EV: 3},
	)

	got := l.Samples()
	require.Len(t, got, 3)
	assert.Equal(t, float32(1), got[0].EV)
	assert.Equal(t, float32(3), got[2].EV)
}

func TestLog_EvictsOutsideWindow(t *testing.T) {
	l := New(10 * time.Second)
	now := time.Now()

	feed(l,
		sample.Sample{Timestamp: now, EV: 1},
		sample.Sample{Timestamp: now.Add(time.Second), EV: 2},
		sample.Sample{Timestamp: now.Add(30 * time.Second), EV: 3},
	)

	got := l.Samples()
	require.Len(t, got, 1)
	assert.Equal(t, float32(3), got[0].EV)
}

func TestLog_Latest(t *testing.T) {
	l := New(time.Minute)

	_, ok := l.Latest()
	assert.False(t, ok)

	now := time.Now()
	feed(l,
		sample.Sample{Timestamp: now, EV: 1},
		sample.Sample{Timestamp: now.Add(time.Second), EV: 2},
	)

	latest, ok := l.Latest()
	require.True(t, ok)
	assert.Equal(t, float32(2), latest.EV)
}

func TestLog_CallbackReceivesSnapshot(t *testing.T) {
	l := New(time.Minute)

	var mu sync.Mutex
	var snapshots [][]sample.Sample
	l.OnUpdate(func(samples []sample.Sample) {
		mu.Lock()
		snapshots = append(snapshots, samples)
		mu.Unlock()
	})

	now := time.Now()
	feed(l,
		sample.Sample{Timestamp: now, EV: 1},
		sample.Sample{Timestamp: now.Add(time.Second), EV: 2},
	)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, snapshots, 2)
	assert.Len(t, snapshots[0], 1)
	assert.Len(t, snapshots[1], 2)

	// Mutating the snapshot must not affect the log.
	snapshots[1][0].EV = 999
	assert.Equal(t, float32(1), l.Samples()[0].EV)
}

func TestLog_NoCallbacksAfterShutdown(t *testing.T) {
	l := New(time.Minute)

	count := 0
	l.OnUpdate(func([]sample.Sample) { count++ })

	feed(l, sample.Sample{Timestamp: time.Now(), EV: 1})
	assert.Equal(t, 1, count)

	// Channel closed: Process set the shutdown flag; a second chain must
	// not fire callbacks until reset.
	in := make(chan sample.Sample, 1)
	in <- sample.Sample{Timestamp: time.Now(), EV: 2}
	close(in)
	l.Process(in)
	assert.Equal(t, 1, count, "no callbacks while shut down")

	l.ResetShutdown()
	feed(l, sample.Sample{Timestamp: time.Now(), EV: 3})
	assert.Equal(t, 2, count)
}

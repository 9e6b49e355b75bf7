// Package history keeps a time-windowed log of processed samples and fans
// updates out to display callbacks.
package history

import (
	"sync"
	"time"

	"github.com/itohio/goexm/pkg/sample"
)

// Log maintains a FIFO buffer of samples bounded by a time window. Samples
// are ordered oldest first; removal is based on timestamp, not count.
type Log struct {
	// Data (protected by mu)
	mu      sync.RWMutex
	samples []sample.Sample
	window  time.Duration

	// Update callbacks
	// Callbacks receive a snapshot copy of the current window.
	callbacks []func(samples []sample.Sample)
	cbMu      sync.RWMutex

	// Shutdown control
	shutdown bool // set when the input channel closes, prevents further callbacks
}

// New creates a Log with the given retention window.
func New(window time.Duration) *Log {
	if window <= 0 {
		window = time.Minute
	}
	return &Log{
		samples: make([]sample.Sample, 0),
		window:  window,
	}
}

// Process consumes samples from the input channel until it closes, then
// sets the shutdown flag so no further callbacks fire.
func (l *Log) Process(input <-chan sample.Sample) {
	for s := range input {
		l.add(s)
	}
	l.mu.Lock()
	l.shutdown = true
	l.mu.Unlock()
}

// add appends a sample, evicts everything older than the window, and
// notifies callbacks.
func (l *Log) add(s sample.Sample) {
	l.mu.Lock()

	l.samples = append(l.samples, s)

	cutoff := s.Timestamp.Add(-l.window)
	idx := 0
	for idx < len(l.samples) && !l.samples[idx].Timestamp.After(cutoff) {
		idx++
	}
	if idx > 0 {
		l.samples = l.samples[idx:]
	}

	shouldNotify := !l.shutdown
	l.mu.Unlock()

	if shouldNotify {
		l.notifyCallbacks()
	}
}

// Samples returns a copy of the current window, oldest first.
func (l *Log) Samples() []sample.Sample {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]sample.Sample, len(l.samples))
	copy(result, l.samples)
	return result
}

// Latest returns the newest sample, if any.
func (l *Log) Latest() (sample.Sample, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.samples) == 0 {
		return sample.Sample{}, false
	}
	return l.samples[len(l.samples)-1], true
}

// OnUpdate registers a callback invoked after each new sample. The callback
// receives a snapshot and should return quickly.
func (l *Log) OnUpdate(callback func(samples []sample.Sample)) {
	l.cbMu.Lock()
	defer l.cbMu.Unlock()
	l.callbacks = append(l.callbacks, callback)
}

// ResetShutdown re-arms callbacks. Call before starting a new measurement
// chain after a disconnect.
func (l *Log) ResetShutdown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shutdown = false
}

// notifyCallbacks invokes all registered callbacks with a snapshot copy,
// holding no locks during the calls.
func (l *Log) notifyCallbacks() {
	snapshot := l.Samples()

	l.cbMu.RLock()
	callbacks := make([]func(samples []sample.Sample), len(l.callbacks))
	copy(callbacks, l.callbacks)
	l.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(snapshot)
		}
	}
}

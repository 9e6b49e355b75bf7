// Package smooth implements the rolling-average filter that sits between the
// oversampled photoresistor reading and the exposure mapping stages.
package smooth

// DefaultSize is the sample history length used by the meter.
const DefaultSize = 10

// Rolling is a fixed-capacity rolling-average filter over integer samples.
// The buffer is zero-filled at construction, so the average is biased toward
// zero until capacity samples have been written. That startup transient is
// accepted; the acquisition loop primes the filter once before its first
// real iteration.
type Rolling struct {
	buf  []int
	idx  int
	sum  int
	full bool
}

// NewRolling creates a zero-filled filter of the given capacity.
// Non-positive capacities fall back to DefaultSize.
func NewRolling(capacity int) *Rolling {
	if capacity <= 0 {
		capacity = DefaultSize
	}
	return &Rolling{buf: make([]int, capacity)}
}

// Smooth writes x into the history, evicting the oldest sample, and returns
// the current average (integer division by the capacity). The running sum
// always equals the arithmetic total of the buffer contents. The average is
// returned regardless of whether the buffer has filled yet.
func (r *Rolling) Smooth(x int) int {
	r.sum -= r.buf[r.idx]
	r.buf[r.idx] = x
	r.sum += x
	r.idx++
	if r.idx == len(r.buf) {
		r.idx = 0
		r.full = true
	}
	return r.sum / len(r.buf)
}

// Full reports whether capacity samples have been written since construction.
// The returned average does not depend on it; it is exposed for callers that
// want to gate on a fully populated history.
func (r *Rolling) Full() bool {
	return r.full
}

// Size returns the filter capacity.
func (r *Rolling) Size() int {
	return len(r.buf)
}

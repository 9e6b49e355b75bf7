package smooth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmooth_ConstantInputConverges(t *testing.T) {
	r := NewRolling(10)

	var avg int
	for i := 0; i < 10; i++ {
		avg = r.Smooth(420)
	}

	// After exactly N samples of v the average is v.
	assert.Equal(t, 420, avg)
}

func TestSmooth_EvictsOldestSample(t *testing.T) {
	r := NewRolling(10)

	r.Smooth(7777) // the sample that must be evicted

	var avg int
	for i := 0; i < 10; i++ {
		avg = r.Smooth(100)
	}

	// N+1 samples: the first one has left the window entirely.
	assert.Equal(t, 100, avg)
}

func TestSmooth_PartialBufferIsZeroBiased(t *testing.T) {
	r := NewRolling(10)

	// One sample against nine zero-filled slots.
	assert.Equal(t, 10, r.Smooth(100))
	assert.False(t, r.Full())
}

func TestSmooth_FullFlagSetOnFirstWrap(t *testing.T) {
	r := NewRolling(4)

	for i := 0; i < 3; i++ {
		r.Smooth(1)
		assert.False(t, r.Full(), "not full before the index wraps")
	}
	r.Smooth(1)
	assert.True(t, r.Full(), "full once the index wraps to 0")

	// Stays full from then on.
	r.Smooth(1)
	assert.True(t, r.Full())
}

func TestSmooth_IntegerDivision(t *testing.T) {
	r := NewRolling(4)
	r.Smooth(1)
	r.Smooth(1)
	r.Smooth(1)

	// sum=3, capacity=4 -> 0 under integer division.
	assert.Equal(t, 0, r.Smooth(0))
}

func TestNewRolling_InvalidCapacity(t *testing.T) {
	r := NewRolling(0)
	assert.Equal(t, DefaultSize, r.Size())

	r = NewRolling(-3)
	assert.Equal(t, DefaultSize, r.Size())
}

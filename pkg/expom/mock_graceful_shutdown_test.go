package expom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_CloseClosesSamplesChannel(t *testing.T) {
	m := NewMock(fastMockConfig())
	require.NoError(t, m.Connect())

	// Let the generator produce a few samples first.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, m.Close())
	assert.False(t, m.IsConnected())

	// The channel must drain and then report closed.
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-m.Samples():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("samples channel never closed")
		}
	}
}

func TestMock_DoubleCloseIsSafe(t *testing.T) {
	m := NewMock(fastMockConfig())
	require.NoError(t, m.Connect())

	require.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

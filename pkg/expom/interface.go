// Package expom provides the host-side connection to the exposure meter:
// a Device abstraction with a serial implementation reading the firmware's
// diagnostic stream and a mock running the real pipeline in simulation.
package expom

// Device defines the interface for exposure meter devices (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Samples() <-chan RawSample
	SetStreaming(on bool) error
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)

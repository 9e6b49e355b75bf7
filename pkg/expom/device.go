package expom

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the firmware's UART rate.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the samples channel buffer.
	DefaultBufferSize = 100
)

// RawSample is one diagnostic line from the meter: the smoothed oversampled
// reading, the computed exposure value, and the firmware's meter drive
// estimate.
type RawSample struct {
	Timestamp  time.Time
	Raw        uint16 // smoothed oversampled reading (0-4095)
	EV         int16  // exposure value, EV x10
	MilliVolts uint16 // firmware's drive estimate, duty * (3300/255) with the truncated constant
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial represents a connection to the exposure meter MCU.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	samples   chan RawSample
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial device with the specified port, baud rate, and
// buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:      port,
		baudRate:  baudRate,
		bufSize:   bufSize,
		samples:   make(chan RawSample, bufSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port, enables streaming, and starts reading
// samples.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true

	// The firmware may have streaming disabled from a previous session.
	if _, err := port.Write([]byte("1\n")); err != nil {
		log.Printf("Failed to enable streaming: %v", err)
	}

	go d.readSamples()

	return nil
}

// Close closes the connection and stops reading samples.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	d.connected = false

	return nil
}

// Samples returns the channel for reading samples.
func (d *Serial) Samples() <-chan RawSample {
	return d.samples
}

// SetStreaming toggles the firmware's diagnostic stream. A single '1' or '0'
// byte followed by newline is the whole command protocol.
func (d *Serial) SetStreaming(on bool) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return fmt.Errorf("not connected")
	}

	cmd := "0\n"
	if on {
		cmd = "1\n"
	}
	if _, err := d.conn.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("failed to send streaming command: %w", err)
	}

	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readSamples reads lines from the serial port and parses them into
// RawSample. It owns the samples channel: closing happens here, after the
// last send, never concurrently with one.
func (d *Serial) readSamples() {
	defer close(d.samples)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in readSamples: %v", r)
		}
	}()

	scanner := bufio.NewScanner(d.conn)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					if err != io.EOF {
						log.Printf("Error reading from serial port: %v", err)
					}
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			sample, err := parseLine(line)
			if err != nil {
				log.Printf("Failed to parse line '%s': %v", line, err)
				continue
			}

			select {
			case d.samples <- sample:
			case <-d.ctx.Done():
				return
			default:
				// Channel full, log and skip
				log.Printf("Samples channel full, dropping sample")
			}
		}
	}
}

// parseLine parses one diagnostic line from the MCU into a RawSample.
// Format: unix_micros,raw,ev,mv where ev is EV x10 (fixed-point: integer
// part and first decimal digit).
// Example: 1234567890123,660,25,96
func parseLine(line string) (RawSample, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 4 {
		return RawSample{}, fmt.Errorf("invalid line format: expected 4 comma-separated values, got %d", len(parts))
	}

	// Parse timestamp (unix microseconds)
	timestampMicros, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return RawSample{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	timestamp := time.Unix(0, timestampMicros*1000)

	// Smoothed reading, bounded by the oversampled resolution.
	raw, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return RawSample{}, fmt.Errorf("invalid reading: %w", err)
	}
	if raw > 4095 {
		return RawSample{}, fmt.Errorf("reading out of range: %d (max 4095)", raw)
	}

	// EV x10. May exceed the needle scale when the mapper extrapolates.
	ev, err := strconv.ParseInt(parts[2], 10, 16)
	if err != nil {
		return RawSample{}, fmt.Errorf("invalid exposure value: %w", err)
	}

	// Drive estimate: at most 255 * 12 mV.
	mv, err := strconv.ParseUint(parts[3], 10, 16)
	if err != nil {
		return RawSample{}, fmt.Errorf("invalid millivolts: %w", err)
	}
	if mv > 3060 {
		return RawSample{}, fmt.Errorf("millivolts out of range: %d (max 3060)", mv)
	}

	return RawSample{
		Timestamp:  timestamp,
		Raw:        uint16(raw),
		EV:         int16(ev),
		MilliVolts: uint16(mv),
	}, nil
}

// Package sample converts the meter's raw diagnostic stream into physical
// readings for display.
package sample

import (
	"log"
	"time"

	"github.com/itohio/goexm/pkg/expom"
)

// Sample represents a processed measurement with physical values.
type Sample struct {
	Timestamp  time.Time
	EV         float32 // exposure value
	Lux        float32 // derived illuminance
	MilliVolts float32 // meter drive estimate reported by the firmware
}

// Converter is a function type that converts a RawSample channel to a
// Sample channel.
type Converter func(in <-chan expom.RawSample) <-chan Sample

// NewConverter creates a converter function that transforms RawSample to
// Sample. Conversion is total, so the only failure mode is backpressure.
func NewConverter(bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan expom.RawSample) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			for raw := range in {
				select {
				case out <- Convert(raw):
				case <-time.After(time.Second):
					log.Printf("Converter output channel full, dropping sample")
				}
			}
		}()

		return out
	}
}

// Convert expands one raw diagnostic sample into physical units. The EV x10
// fixed-point value becomes a float EV; illuminance follows from it.
func Convert(raw expom.RawSample) Sample {
	ev := float32(raw.EV) / 10
	return Sample{
		Timestamp:  raw.Timestamp,
		EV:         ev,
		Lux:        Lux(ev),
		MilliVolts: float32(raw.MilliVolts),
	}
}

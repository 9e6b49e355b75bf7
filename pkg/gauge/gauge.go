// Package gauge renders the exposure meter face: an analog needle dial with
// an EV scale, the current reading, and a short trend strip.
package gauge

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/goexm/pkg/config"
	"github.com/itohio/goexm/pkg/sample"
)

// Widget is a custom Fyne widget that displays the meter needle and scale.
type Widget struct {
	widget.BaseWidget

	// Scale and readout parameters, fixed at construction.
	evMin    float32
	evMax    float32
	aperture float32
	iso      float32

	// Data (protected by mu)
	mu         sync.RWMutex
	latest     sample.Sample
	hasReading bool
	history    []sample.Sample

	// Display buffer (reused for downsampling the trend strip)
	trend          []sample.Sample
	maxTrendPoints int
}

// New creates a gauge for the configured scale.
func New(cfg *config.Config) *Widget {
	w := &Widget{
		evMin:          float32(cfg.Meter.EVMin) / 10,
		evMax:          float32(cfg.Meter.EVMax) / 10,
		aperture:       cfg.Display.Aperture,
		iso:            cfg.Display.ISO,
		history:        make([]sample.Sample, 0),
		trend:          make([]sample.Sample, 0, 200),
		maxTrendPoints: 200,
	}
	w.ExtendBaseWidget(w)
	w.Refresh()
	return w
}

// UpdateData replaces the displayed window. Call from the history callback
// via fyne.Do().
func (w *Widget) UpdateData(samples []sample.Sample) {
	w.mu.Lock()
	w.history = samples
	w.trend = sample.Downsample(w.trend, samples, w.maxTrendPoints)
	if len(samples) > 0 {
		w.latest = samples[len(samples)-1]
		w.hasReading = true
	}
	w.mu.Unlock()

	w.Refresh()
}

// Clear drops the reading, parking the needle. Used on disconnect.
func (w *Widget) Clear() {
	w.mu.Lock()
	w.history = nil
	w.trend = w.trend[:0]
	w.hasReading = false
	w.mu.Unlock()

	w.Refresh()
}

// CreateRenderer creates the widget renderer.
func (w *Widget) CreateRenderer() fyne.WidgetRenderer {
	face := canvas.NewRectangle(color.RGBA{R: 24, G: 22, B: 18, A: 255})
	return &gaugeRenderer{
		gauge:    w,
		face:     face,
		objects:  []fyne.CanvasObject{face},
		lastSize: fyne.Size{Width: 0, Height: 0},
	}
}

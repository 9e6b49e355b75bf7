package gauge

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/chewxy/math32"

	"github.com/itohio/goexm/pkg/sample"
)

// Needle sweep: 180 degrees, left (scale minimum) to right (scale maximum),
// pivot at the bottom center of the dial area.
const (
	sweepStart = math32.Pi // radians, pointing left
	sweep      = math32.Pi
)

// gaugeRenderer renders the gauge widget.
type gaugeRenderer struct {
	gauge *Widget

	// Background
	face *canvas.Rectangle

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// MinSize returns the minimum size of the widget.
func (r *gaugeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 320)
}

// Layout arranges the widget components.
func (r *gaugeRenderer) Layout(size fyne.Size) {
	r.face.Resize(size)

	if r.lastSize.Width != size.Width || r.lastSize.Height != size.Height {
		r.lastSize = size
		r.gauge.BaseWidget.Refresh()
	}
}

// Refresh rebuilds the dial from the current reading.
func (r *gaugeRenderer) Refresh() {
	r.gauge.mu.RLock()
	latest := r.gauge.latest
	hasReading := r.gauge.hasReading
	trend := r.gauge.trend
	evMin := r.gauge.evMin
	evMax := r.gauge.evMax
	aperture := r.gauge.aperture
	iso := r.gauge.iso
	r.gauge.mu.RUnlock()

	size := r.gauge.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.objects = []fyne.CanvasObject{r.face}

	// Dial geometry: pivot at bottom center of the upper 3/4, trend strip
	// along the bottom quarter.
	dialHeight := size.Height * 0.75
	cx := size.Width / 2
	cy := dialHeight - 20
	radius := dialHeight - 60
	if half := size.Width/2 - 20; radius > half {
		radius = half
	}

	r.drawScale(cx, cy, radius, evMin, evMax)
	r.drawNeedle(cx, cy, radius, latest.EV, evMin, evMax, hasReading)
	r.drawReadout(size, latest, hasReading, aperture, iso)
	r.drawTrend(size, dialHeight, trend, evMin, evMax)
}

// angleFor maps an EV to a needle angle, clamped to the dial sweep.
func angleFor(ev, evMin, evMax float32) float32 {
	f := (ev - evMin) / (evMax - evMin)
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return sweepStart - f*sweep
}

// pointAt returns the dial position at the given angle and radius.
func pointAt(cx, cy, radius, angle float32) fyne.Position {
	return fyne.NewPos(cx+radius*math32.Cos(angle), cy-radius*math32.Sin(angle))
}

// drawScale draws tick marks and labels for every whole EV.
func (r *gaugeRenderer) drawScale(cx, cy, radius, evMin, evMax float32) {
	tickColor := color.RGBA{R: 220, G: 210, B: 190, A: 255}
	labelColor := color.RGBA{R: 170, G: 160, B: 140, A: 255}

	for ev := evMin; ev <= evMax+0.001; ev++ {
		angle := angleFor(ev, evMin, evMax)

		inner := radius * 0.92
		major := int(ev)%2 == 0
		if major {
			inner = radius * 0.86
		}

		tick := canvas.NewLine(tickColor)
		tick.Position1 = pointAt(cx, cy, inner, angle)
		tick.Position2 = pointAt(cx, cy, radius, angle)
		tick.StrokeWidth = 1
		if major {
			tick.StrokeWidth = 2
		}
		r.objects = append(r.objects, tick)

		if major {
			pos := pointAt(cx, cy, radius*0.76, angle)
			label := canvas.NewText(fmt.Sprintf("%.0f", ev), labelColor)
			label.TextSize = 11
			label.Alignment = fyne.TextAlignCenter
			label.Move(fyne.NewPos(pos.X-8, pos.Y-8))
			r.objects = append(r.objects, label)
		}
	}
}

// drawNeedle draws the needle at the reading's angle, or parked at the scale
// minimum when there is no reading.
func (r *gaugeRenderer) drawNeedle(cx, cy, radius, ev, evMin, evMax float32, hasReading bool) {
	angle := angleFor(evMin, evMin, evMax)
	needleColor := color.RGBA{R: 90, G: 90, B: 90, A: 255}
	if hasReading {
		angle = angleFor(ev, evMin, evMax)
		needleColor = color.RGBA{R: 230, G: 70, B: 50, A: 255}
	}

	needle := canvas.NewLine(needleColor)
	needle.Position1 = fyne.NewPos(cx, cy)
	needle.Position2 = pointAt(cx, cy, radius*0.88, angle)
	needle.StrokeWidth = 2.5
	r.objects = append(r.objects, needle)

	hub := canvas.NewCircle(needleColor)
	hub.Resize(fyne.NewSize(10, 10))
	hub.Move(fyne.NewPos(cx-5, cy-5))
	r.objects = append(r.objects, hub)
}

// drawReadout draws the numeric reading and the suggested camera settings.
func (r *gaugeRenderer) drawReadout(size fyne.Size, latest sample.Sample, hasReading bool, aperture, iso float32) {
	textColor := color.RGBA{R: 230, G: 220, B: 200, A: 255}
	dimColor := color.RGBA{R: 150, G: 140, B: 120, A: 255}

	var evText, detailText string
	if hasReading {
		evText = fmt.Sprintf("EV %.1f", latest.EV)
		shutter := sample.ShutterSeconds(latest.EV, aperture, iso)
		detailText = fmt.Sprintf("%.0f lx   f/%g @ %s   ISO %.0f",
			latest.Lux, aperture, sample.FormatShutter(shutter), iso)
	} else {
		evText = "EV --"
		detailText = "no reading"
	}

	ev := canvas.NewText(evText, textColor)
	ev.TextSize = 22
	ev.TextStyle = fyne.TextStyle{Bold: true}
	ev.Alignment = fyne.TextAlignCenter
	ev.Move(fyne.NewPos(size.Width/2-50, 16))
	r.objects = append(r.objects, ev)

	detail := canvas.NewText(detailText, dimColor)
	detail.TextSize = 12
	detail.Alignment = fyne.TextAlignCenter
	detail.Move(fyne.NewPos(size.Width/2-110, 46))
	r.objects = append(r.objects, detail)
}

// drawTrend draws the EV history as a polyline along the bottom strip.
func (r *gaugeRenderer) drawTrend(size fyne.Size, top float32, trend []sample.Sample, evMin, evMax float32) {
	if len(trend) < 2 {
		return
	}

	stripTop := top + 8
	stripHeight := size.Height - stripTop - 8
	if stripHeight <= 0 {
		return
	}

	divider := canvas.NewLine(color.RGBA{R: 60, G: 55, B: 45, A: 255})
	divider.Position1 = fyne.NewPos(12, top)
	divider.Position2 = fyne.NewPos(size.Width-12, top)
	divider.StrokeWidth = 1
	r.objects = append(r.objects, divider)

	t0 := trend[0].Timestamp
	span := float32(trend[len(trend)-1].Timestamp.Sub(t0).Seconds())
	if span <= 0 {
		return
	}

	lineColor := color.RGBA{R: 255, G: 165, B: 0, A: 255}
	prev := fyne.Position{}
	for i, s := range trend {
		f := (s.EV - evMin) / (evMax - evMin)
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		x := 12 + float32(s.Timestamp.Sub(t0).Seconds())/span*(size.Width-24)
		y := stripTop + (1-f)*stripHeight

		pos := fyne.NewPos(x, y)
		if i > 0 {
			line := canvas.NewLine(lineColor)
			line.Position1 = prev
			line.Position2 = pos
			line.StrokeWidth = 1.5
			r.objects = append(r.objects, line)
		}
		prev = pos
	}
}

// Objects returns all canvas objects for rendering.
func (r *gaugeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *gaugeRenderer) Destroy() {
	// Cleanup handled by Fyne
}

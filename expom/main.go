package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/goexm/pkg/config"
	"github.com/itohio/goexm/pkg/expom"
	"github.com/itohio/goexm/pkg/gauge"
	"github.com/itohio/goexm/pkg/history"
	"github.com/itohio/goexm/pkg/sample"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use mocked device instead of serial port")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Create Fyne application
	application := app.NewWithID("com.itohio.goexm")

	window := application.NewWindow("Exposure Meter")
	window.Resize(fyne.NewSize(520, 640))
	window.CenterOnScreen()

	// Sample log driving the display
	retention := time.Duration(cfg.Display.WindowSeconds * float64(time.Second))
	sampleLog := history.New(retention)

	state := &appState{
		cfg:        cfg,
		configPath: *configFlag,
		sampleLog:  sampleLog,
		window:     window,
		useMock:    *mockFlag,
	}

	toolbar := createToolbar(state)

	gaugeWidget := gauge.New(cfg)
	state.gauge = gaugeWidget

	// Register the display callback once; reconnects reuse it. Updates are
	// throttled to ~60 FPS so the needle stays smooth without overwhelming
	// the UI thread.
	const updateInterval = 16 * time.Millisecond
	sampleLog.OnUpdate(func(samples []sample.Sample) {
		state.updateMu.Lock()
		now := time.Now()
		tooSoon := now.Sub(state.lastUpdateTime) < updateInterval
		if !tooSoon {
			state.lastUpdateTime = now
		}
		state.updateMu.Unlock()

		if tooSoon {
			return
		}

		fyne.Do(func() {
			gaugeWidget.UpdateData(samples)
		})
	})

	content := container.NewBorder(
		toolbar,
		nil,
		nil,
		nil,
		gaugeWidget,
	)

	window.SetContent(content)
	window.ShowAndRun()
}

// measurementChain tracks the components of the measurement chain for
// graceful shutdown.
type measurementChain struct {
	device        expom.Device
	samplesStream <-chan sample.Sample
	logGoroutine  chan struct{} // closed when the log goroutine exits
}

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	configPath string
	device     expom.Device
	sampleLog  *history.Log
	gauge      *gauge.Widget
	window     fyne.Window
	connectBtn *widget.Button
	streamBtn  *widget.Button
	useMock    bool
	streaming  bool
	chain      *measurementChain // current measurement chain (nil if not connected)

	// Throttling for gauge updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the application toolbar with Connect, Settings, and
// Stream buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	streamBtn := widget.NewButtonWithIcon("", theme.MediaPauseIcon(), func() {
		handleStreamToggle(state)
	})
	streamBtn.Disable()
	state.streamBtn = streamBtn

	return container.NewBorder(
		nil, // top
		nil, // bottom
		container.NewHBox(connectBtn, settingsBtn), // left
		container.NewHBox(streamBtn),               // right
		nil,                                        // center (spacer)
	)
}

// closeMeasurementChain gracefully closes the measurement chain, waiting for
// the pipeline goroutines to drain.
func closeMeasurementChain(chain *measurementChain) {
	if chain == nil {
		return
	}

	// Closing the device closes its samples channel; the converter and log
	// goroutines drain and exit in turn.
	if chain.device != nil {
		chain.device.Close()
	}

	if chain.logGoroutine != nil {
		<-chain.logGoroutine
	}
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		// Disconnect - gracefully close measurement chain
		closeMeasurementChain(state.chain)
		state.chain = nil
		state.device = nil
		state.streamBtn.Disable()
		state.gauge.Clear()
		if state.useMock {
			fmt.Println("Disconnected from mocked device")
		} else {
			fmt.Println("Disconnected from serial port")
		}
		return
	}

	// Connect
	var device expom.Device
	if state.useMock {
		device = expom.NewMock(state.cfg)
		fmt.Println("Using mocked device")
	} else {
		device = expom.New(state.cfg.Serial.Port, expom.DefaultBaudRate, expom.DefaultBufferSize)
	}

	if err := device.Connect(); err != nil {
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to connect to mocked device: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	state.device = device
	state.streaming = true
	state.streamBtn.Enable()
	if state.useMock {
		fmt.Printf("Connected to mocked device\n")
	} else {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}

	// Re-arm the log for the new chain
	state.sampleLog.ResetShutdown()

	// Build the pipeline: device -> converter -> log -> gauge callback
	samplesStream := sample.NewConverter(500)(device.Samples())

	logDone := make(chan struct{})
	go func() {
		defer close(logDone)
		state.sampleLog.Process(samplesStream)
	}()

	state.chain = &measurementChain{
		device:        device,
		samplesStream: samplesStream,
		logGoroutine:  logDone,
	}
}

// handleStreamToggle pauses or resumes the device's diagnostic stream.
func handleStreamToggle(state *appState) {
	if state.device == nil || !state.device.IsConnected() {
		return
	}

	next := !state.streaming
	if err := state.device.SetStreaming(next); err != nil {
		dialog.ShowError(fmt.Errorf("failed to toggle streaming: %w", err), state.window)
		return
	}
	state.streaming = next

	if next {
		state.streamBtn.SetIcon(theme.MediaPauseIcon())
	} else {
		state.streamBtn.SetIcon(theme.MediaPlayIcon())
	}
}

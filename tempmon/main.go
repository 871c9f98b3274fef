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
	"github.com/itohio/chiptemp/pkg/chiptemp"
	"github.com/itohio/chiptemp/pkg/config"
	"github.com/itohio/chiptemp/pkg/device"
	"github.com/itohio/chiptemp/pkg/history"
	"github.com/itohio/chiptemp/pkg/sample"
	"github.com/itohio/chiptemp/pkg/scope"
)

func main() {
	var (
		portFlag           = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag         = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag           = flag.Bool("mock", false, "Use mocked device instead of serial port")
		averageSamplesFlag = flag.Int("average-samples", -1, "Number of samples to average (0 = disabled, overrides config)")
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

	// Override average samples if provided via command line
	if *averageSamplesFlag >= 0 {
		cfg.Display.AverageSamples = *averageSamplesFlag
	}

	// Create Fyne application
	application := app.NewWithID("com.itohio.chiptemp")

	// Create main window
	window := application.NewWindow("Chip Temperature Monitor")
	window.Resize(fyne.NewSize(1000, 700))
	window.CenterOnScreen()

	// Create temperature history
	tempHistory := history.New(time.Duration(cfg.Display.WindowSeconds) * time.Second)

	// Create application state
	appState := &appState{
		cfg:     cfg,
		device:  nil,
		history: tempHistory,
		window:  window,
		useMock: *mockFlag,
	}

	// Create toolbar
	toolbar := createToolbar(appState)

	// Create scope widget for graph display
	scopeWidget := scope.New(cfg)
	appState.scopeWidget = scopeWidget

	// Create border layout with toolbar at top and scope widget as content
	container := container.NewBorder(
		toolbar,
		nil,
		nil,
		nil,
		scopeWidget,
	)

	window.SetContent(container)
	window.ShowAndRun()
}

// measurementChain tracks the components of the measurement chain for graceful shutdown.
type measurementChain struct {
	device           device.Device
	samplesStream    <-chan sample.Sample
	historyGoroutine chan struct{} // Closed when history goroutine exits
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	device      device.Device
	history     *history.History
	scopeWidget *scope.ScopeWidget
	window      fyne.Window
	connectBtn  *widget.Button
	tempLabel   *widget.Label
	useMock     bool
	chain       *measurementChain // Current measurement chain (nil if not connected)

	// Throttling for scope updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the application toolbar with Connect and Settings
// buttons and a live temperature readout.
func createToolbar(state *appState) fyne.CanvasObject {
	// Connect button with icon
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	// Settings button with icon
	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	// Live temperature readout, updated from the history callback
	tempLabel := widget.NewLabel("--")
	tempLabel.TextStyle = fyne.TextStyle{Bold: true}
	state.tempLabel = tempLabel

	return container.NewBorder(
		nil, // top
		nil, // bottom
		container.NewHBox(connectBtn, settingsBtn), // left
		tempLabel, // right
		nil,       // center (spacer)
	)
}

// closeMeasurementChain gracefully closes the measurement chain.
// Waits for all goroutines to finish and channels to drain.
func closeMeasurementChain(chain *measurementChain) {
	if chain == nil {
		return
	}

	// Close device - this will close the raw samples channel
	if chain.device != nil {
		chain.device.Close()
	}

	// Wait for history goroutine to finish.
	// It exits when samplesStream closes, which happens once the
	// converter finishes draining.
	if chain.historyGoroutine != nil {
		<-chain.historyGoroutine
	}
}

// hostCalibration builds the host-side calibration from the config, or
// returns nil when disabled (trust the firmware's temperature).
func hostCalibration(cfg *config.Config) (*chiptemp.Calibration, error) {
	if !cfg.Calibration.Enabled {
		return nil, nil
	}
	p1, p2, err := cfg.Calibration.Points()
	if err != nil {
		return nil, err
	}
	cal, err := chiptemp.NewCalibration(p1, p2)
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		// Disconnect - gracefully close measurement chain
		closeMeasurementChain(state.chain)
		state.chain = nil
		state.device = nil
		state.tempLabel.SetText("--")
		if state.useMock {
			fmt.Println("Disconnected from mocked device")
		} else {
			fmt.Println("Disconnected from serial port")
		}
		return
	}

	// Connect
	var dev device.Device
	if state.useMock {
		dev = device.NewMock(&state.cfg.Mock)
		fmt.Println("Using mocked device")
	} else {
		dev = device.New(state.cfg.Serial.Port, device.DefaultBaudRate, device.DefaultBufferSize)
	}

	cal, err := hostCalibration(state.cfg)
	if err != nil {
		dialog.ShowError(fmt.Errorf("invalid calibration: %w", err), state.window)
		return
	}

	if err := dev.Connect(); err != nil {
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to connect to mocked device: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	state.device = dev
	if state.useMock {
		fmt.Printf("Connected to mocked device\n")
	} else {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}

	// Reset history shutdown flag for new chain
	state.history.ResetShutdown()

	// Register callback with history to update scope widget.
	// This must be done before starting the measurement chain.
	// Throttle updates to ~60 FPS (16.67ms between updates) to ensure smooth UI.
	const updateInterval = 16 * time.Millisecond // ~60 FPS
	state.history.OnUpdate(func(samples []sample.Sample, stats history.Stats) {
		// Throttle updates to prevent UI from being overwhelmed
		state.updateMu.Lock()
		now := time.Now()
		timeSinceLastUpdate := now.Sub(state.lastUpdateTime)
		state.updateMu.Unlock()

		// Skip update if too soon since last update
		if timeSinceLastUpdate < updateInterval {
			return
		}

		var readout string
		if len(samples) > 0 {
			last := samples[len(samples)-1]
			readout = fmt.Sprintf("%d°C / %dK", last.Celsius, last.Kelvin)
		}

		// Update timestamp
		state.updateMu.Lock()
		state.lastUpdateTime = now
		state.updateMu.Unlock()

		// Update widgets on main thread.
		// Scope widget handles downsampling internally, so pass full data.
		fyne.Do(func() {
			state.scopeWidget.UpdateData(samples, stats)
			if readout != "" {
				state.tempLabel.SetText(readout)
			}
		})
	})

	// Convert raw device samples to temperature samples. The averaging
	// converter is used when extra smoothing over the firmware's own
	// 5-sample average is configured.
	var convert sample.Converter
	if state.cfg.Display.AverageSamples > 0 {
		convert = sample.NewAveragingConverter(cal, state.cfg.Display.AverageSamples, 500)
	} else {
		convert = sample.NewConverter(cal, 500)
	}
	samplesStream := convert(dev.Samples())

	// Process samples through the history (starts measurement automatically)
	historyDone := make(chan struct{})
	go func() {
		defer close(historyDone)
		state.history.ProcessSamples(samplesStream)
	}()

	// Store chain for graceful shutdown
	state.chain = &measurementChain{
		device:           dev,
		samplesStream:    samplesStream,
		historyGoroutine: historyDone,
	}
}

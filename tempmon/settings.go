package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/chiptemp/pkg/device"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	// Create tabs
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createCalibrationTab(state),
		createDisplayTab(state),
		createMockTab(state),
	)

	// Create dialog with tabs as content
	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	// Get available serial ports
	ports, err := device.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
		currentDisplay = currentPort
	}

	portSelect := widget.NewSelect(portOptions, func(selected string) {
		// Selection handler - will be called on submit
	})
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
		},
		OnSubmit: func() {
			if portSelect.Selected != "" {
				selectedPort := portMap[portSelect.Selected]
				if selectedPort == "" {
					selectedPort = portSelect.Selected // Fallback to selected text
				}

				// Check if port changed and device is connected
				portChanged := state.cfg.Serial.Port != selectedPort
				wasConnected := state.device != nil && state.device.IsConnected()

				state.cfg.Serial.Port = selectedPort
				if err := state.cfg.Save("config.yaml"); err != nil {
					dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
					return
				}

				// If port changed and device was connected, restart the measurement chain
				if portChanged && wasConnected {
					// Gracefully close old chain
					closeMeasurementChain(state.chain)
					state.chain = nil

					// Close old device
					if state.device != nil {
						state.device.Close()
						state.device = nil
					}

					// Reconnect with new port
					handleConnect(state)
				}
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createCalibrationTab creates the Calibration configuration tab with the
// two reference points for re-mapping the raw readings.
func createCalibrationTab(state *appState) *container.TabItem {
	enabledCheck := widget.NewCheck("Re-map raw readings on the host", nil)
	enabledCheck.SetChecked(state.cfg.Calibration.Enabled)

	p1TempEntry := widget.NewEntry()
	p1TempEntry.SetText(strconv.Itoa(state.cfg.Calibration.Point1.Temp))
	p1UnitEntry := widget.NewSelect([]string{"K", "C", "F"}, nil)
	p1UnitEntry.SetSelected(unitOrDefault(state.cfg.Calibration.Point1.Unit))
	p1ReadingEntry := widget.NewEntry()
	p1ReadingEntry.SetText(strconv.Itoa(int(state.cfg.Calibration.Point1.Reading)))

	p2TempEntry := widget.NewEntry()
	p2TempEntry.SetText(strconv.Itoa(state.cfg.Calibration.Point2.Temp))
	p2UnitEntry := widget.NewSelect([]string{"K", "C", "F"}, nil)
	p2UnitEntry.SetSelected(unitOrDefault(state.cfg.Calibration.Point2.Unit))
	p2ReadingEntry := widget.NewEntry()
	p2ReadingEntry.SetText(strconv.Itoa(int(state.cfg.Calibration.Point2.Reading)))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Enabled", Widget: enabledCheck},
			{Text: "Point 1 Temperature", Widget: p1TempEntry},
			{Text: "Point 1 Unit", Widget: p1UnitEntry},
			{Text: "Point 1 Raw Reading", Widget: p1ReadingEntry},
			{Text: "Point 2 Temperature", Widget: p2TempEntry},
			{Text: "Point 2 Unit", Widget: p2UnitEntry},
			{Text: "Point 2 Raw Reading", Widget: p2ReadingEntry},
		},
		OnSubmit: func() {
			state.cfg.Calibration.Enabled = enabledCheck.Checked
			if t, err := strconv.Atoi(p1TempEntry.Text); err == nil {
				state.cfg.Calibration.Point1.Temp = t
			}
			state.cfg.Calibration.Point1.Unit = p1UnitEntry.Selected
			if r, err := strconv.ParseUint(p1ReadingEntry.Text, 10, 16); err == nil {
				state.cfg.Calibration.Point1.Reading = uint16(r)
			}
			if t, err := strconv.Atoi(p2TempEntry.Text); err == nil {
				state.cfg.Calibration.Point2.Temp = t
			}
			state.cfg.Calibration.Point2.Unit = p2UnitEntry.Selected
			if r, err := strconv.ParseUint(p2ReadingEntry.Text, 10, 16); err == nil {
				state.cfg.Calibration.Point2.Reading = uint16(r)
			}

			// Reject a broken calibration before it reaches the pipeline
			if state.cfg.Calibration.Enabled {
				if _, _, err := state.cfg.Calibration.Points(); err != nil {
					dialog.ShowError(fmt.Errorf("invalid calibration: %w", err), state.window)
					return
				}
			}

			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Calibration", form)
}

func unitOrDefault(unit string) string {
	if unit == "" {
		return "K"
	}
	return unit
}

// createDisplayTab creates the Display configuration tab.
func createDisplayTab(state *appState) *container.TabItem {
	windowSecondsEntry := widget.NewEntry()
	windowSecondsEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Display.WindowSeconds))

	averageSamplesEntry := widget.NewEntry()
	averageSamplesEntry.SetText(fmt.Sprintf("%d", state.cfg.Display.AverageSamples))

	maxChartPointsEntry := widget.NewEntry()
	maxChartPointsEntry.SetText(fmt.Sprintf("%d", state.cfg.Display.MaxChartPoints))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Window (seconds)", Widget: windowSecondsEntry},
			{Text: "Average Samples (0=disabled)", Widget: averageSamplesEntry},
			{Text: "Max Chart Points", Widget: maxChartPointsEntry},
		},
		OnSubmit: func() {
			if ws, err := strconv.ParseFloat(windowSecondsEntry.Text, 64); err == nil {
				state.cfg.Display.WindowSeconds = ws
			}
			if avg, err := strconv.Atoi(averageSamplesEntry.Text); err == nil {
				state.cfg.Display.AverageSamples = avg
			}
			if mp, err := strconv.Atoi(maxChartPointsEntry.Text); err == nil {
				state.cfg.Display.MaxChartPoints = mp
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Display", form)
}

// createMockTab creates the Mock device configuration tab.
func createMockTab(state *appState) *container.TabItem {
	ambientEntry := widget.NewEntry()
	ambientEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Mock.AmbientCelsius))

	offsetEntry := widget.NewEntry()
	offsetEntry.SetText(fmt.Sprintf("%d", state.cfg.Mock.OffsetCounts))

	noiseEntry := widget.NewEntry()
	noiseEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Mock.NoiseCounts))

	driftEntry := widget.NewEntry()
	driftEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Mock.DriftCelsius))

	driftPeriodEntry := widget.NewEntry()
	driftPeriodEntry.SetText(state.cfg.Mock.DriftPeriod.String())

	sampleRateEntry := widget.NewEntry()
	sampleRateEntry.SetText(state.cfg.Mock.SampleRate.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Ambient (°C)", Widget: ambientEntry},
			{Text: "Sensor Offset (counts)", Widget: offsetEntry},
			{Text: "Noise (counts)", Widget: noiseEntry},
			{Text: "Drift Amplitude (°C)", Widget: driftEntry},
			{Text: "Drift Period", Widget: driftPeriodEntry},
			{Text: "Sample Rate", Widget: sampleRateEntry},
		},
		OnSubmit: func() {
			if a, err := strconv.ParseFloat(ambientEntry.Text, 64); err == nil {
				state.cfg.Mock.AmbientCelsius = a
			}
			if o, err := strconv.Atoi(offsetEntry.Text); err == nil {
				state.cfg.Mock.OffsetCounts = o
			}
			if n, err := strconv.ParseFloat(noiseEntry.Text, 64); err == nil {
				state.cfg.Mock.NoiseCounts = n
			}
			if d, err := strconv.ParseFloat(driftEntry.Text, 64); err == nil {
				state.cfg.Mock.DriftCelsius = d
			}
			if dp, err := time.ParseDuration(driftPeriodEntry.Text); err == nil {
				state.cfg.Mock.DriftPeriod = dp
			}
			if sr, err := time.ParseDuration(sampleRateEntry.Text); err == nil {
				state.cfg.Mock.SampleRate = sr
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Mock", form)
}

package main

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// showSettingsDialog shows a form for the connection and display settings.
// Saved values take effect on the next connect; the gauge scale itself is
// part of the device calibration and is not edited here.
func showSettingsDialog(state *appState) {
	portEntry := widget.NewEntry()
	portEntry.SetText(state.cfg.Serial.Port)

	correctionEntry := widget.NewEntry()
	correctionEntry.SetText(strconv.Itoa(state.cfg.Meter.EVCorrection))

	apertureEntry := widget.NewEntry()
	apertureEntry.SetText(fmt.Sprintf("%g", state.cfg.Display.Aperture))

	isoEntry := widget.NewEntry()
	isoEntry.SetText(fmt.Sprintf("%.0f", state.cfg.Display.ISO))

	items := []*widget.FormItem{
		widget.NewFormItem("Serial port", portEntry),
		widget.NewFormItem("EV correction (x10)", correctionEntry),
		widget.NewFormItem("Aperture (f-number)", apertureEntry),
		widget.NewFormItem("Film speed (ISO)", isoEntry),
	}

	dialog.ShowForm("Settings", "Save", "Cancel", items, func(save bool) {
		if !save {
			return
		}

		correction, err := strconv.Atoi(correctionEntry.Text)
		if err != nil {
			dialog.ShowError(fmt.Errorf("invalid EV correction: %w", err), state.window)
			return
		}
		aperture, err := strconv.ParseFloat(apertureEntry.Text, 32)
		if err != nil || aperture <= 0 {
			dialog.ShowError(fmt.Errorf("invalid aperture: %q", apertureEntry.Text), state.window)
			return
		}
		iso, err := strconv.ParseFloat(isoEntry.Text, 32)
		if err != nil || iso <= 0 {
			dialog.ShowError(fmt.Errorf("invalid film speed: %q", isoEntry.Text), state.window)
			return
		}

		state.cfg.Serial.Port = portEntry.Text
		state.cfg.Meter.EVCorrection = correction
		state.cfg.Display.Aperture = float32(aperture)
		state.cfg.Display.ISO = float32(iso)

		if err := state.cfg.Save(state.configPath); err != nil {
			dialog.ShowError(fmt.Errorf("failed to save configuration: %w", err), state.window)
		}
	}, state.window)
}

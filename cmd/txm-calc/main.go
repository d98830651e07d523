// txm-calc — TXM Parameter Calculator
//
// A cross-platform desktop tool for computing the optical layout of a
// transmission X-ray microscope from a small set of primary parameters.
//
// Build:
//   go build -o txm-calc ./cmd/txm-calc
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o txm-calc.exe ./cmd/txm-calc
//   GOOS=darwin  GOARCH=amd64 go build -o txm-calc-darwin ./cmd/txm-calc
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/malte-storm/txm-param-calc/internal/ui"
)

func main() {
	application := app.NewWithID("com.malte-storm.txm-param-calc")
	window := application.NewWindow("TXM Parameter Calculator")

	appUI := ui.NewApp(window)
	cfg := appUI.Config()

	if variant, ok := ui.VariantFromName(cfg.Theme); ok {
		application.Settings().SetTheme(ui.NewCalcThemeWithVariant(variant))
	} else {
		application.Settings().SetTheme(ui.NewCalcTheme())
	}

	appUI.SetupMenus()
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(cfg.WindowWidth, cfg.WindowHeight))
	window.CenterOnScreen()
	window.SetOnClosed(appUI.SaveState)
	window.ShowAndRun()
}

package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/malte-storm/txm-param-calc/internal/export"
	"github.com/malte-storm/txm-param-calc/internal/importer"
	"github.com/malte-storm/txm-param-calc/internal/model"
	"github.com/malte-storm/txm-param-calc/internal/optics"
	"github.com/malte-storm/txm-param-calc/internal/project"
)

// App holds all application state and UI references.
type App struct {
	window  fyne.Window
	setup   model.Setup
	results *optics.Results
	evalErr error

	config  model.AppConfig
	presets []model.Preset

	tabs *container.AppTabs

	// UI references for dynamic updates
	entries         map[string]*widget.Entry
	resultContainer *fyne.Container
	checkContainer  *fyne.Container
	plotPanel       *plotPanel
}

func NewApp(window fyne.Window) *App {
	cfg, err := loadConfig()
	if err != nil {
		cfg = model.DefaultAppConfig()
	}
	presets, err := project.LoadPresetsFromDefault()
	if err != nil {
		presets = nil
	}

	a := &App{
		window:  window,
		setup:   model.DefaultSetup(),
		config:  cfg,
		presets: presets,
		entries: make(map[string]*widget.Entry),
	}
	a.recalculate()
	return a
}

func loadConfig() (model.AppConfig, error) {
	path, err := project.DefaultConfigPath()
	if err != nil {
		return model.AppConfig{}, err
	}
	return project.LoadAppConfig(path)
}

// SaveState persists preferences and presets; called on shutdown.
func (a *App) SaveState() {
	if path, err := project.DefaultConfigPath(); err == nil {
		_ = project.SaveAppConfig(path, a.config)
	}
	_ = project.SavePresetsToDefault(a.presets)
}

// Config returns the current application preferences.
func (a *App) Config() model.AppConfig {
	return a.config
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Reset to Defaults", func() {
			a.setup = model.DefaultSetup()
			a.refreshEntries()
			a.recalculate()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Parameters from CSV...", func() {
			a.importParams(importer.ImportCSV)
		}),
		fyne.NewMenuItem("Import Parameters from Excel...", func() {
			a.importParams(importer.ImportXLSX)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Sweep Archive...", func() {
			a.exportArchive()
		}),
		fyne.NewMenuItem("Export Excel Workbook...", func() {
			a.exportXLSX()
		}),
		fyne.NewMenuItem("Export PDF Report...", func() {
			a.exportPDF()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	presetMenu := fyne.NewMenu("Presets",
		fyne.NewMenuItem("Save Current as Preset...", func() {
			a.savePresetDialog()
		}),
		fyne.NewMenuItem("Load Preset...", func() {
			a.loadPresetDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Preset to File...", func() {
			a.exportPresetDialog()
		}),
		fyne.NewMenuItem("Import Preset from File...", func() {
			a.importPresetDialog()
		}),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Backup All Data...", func() {
			a.backupDialog()
		}),
		fyne.NewMenuItem("Restore from Backup...", func() {
			a.restoreDialog()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, presetMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About TXM Parameter Calculator",
		"TXM Parameter Calculator\n\n"+
			"A cross-platform desktop tool for computing the optical\n"+
			"layout of a transmission X-ray microscope: zone plate\n"+
			"properties, imaging geometry, and condenser matching.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	paramsTab := container.NewTabItem("Parameters", a.buildParamsPanel())
	resultsTab := container.NewTabItem("Results", a.buildResultsPanel())
	plotsTab := container.NewTabItem("Plots", a.buildPlotsPanel())

	a.tabs = container.NewAppTabs(paramsTab, resultsTab, plotsTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	return a.tabs
}

// recalculate reruns the engine and refreshes every dependent view.
func (a *App) recalculate() {
	a.results, a.evalErr = a.setup.Evaluate()
	a.refreshResults()
	a.refreshPlots()
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) exportArchive() {
	if _, ok := a.setup.SweepValues(); !ok {
		dialog.ShowInformation("No sweep active",
			"Enter a range for one parameter (e.g. \"10:16:0.5\" or \"[8, 10, 12]\") before exporting plots.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportArchive(path, &a.setup); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Sweep archive saved to %s", path), a.window)
	}, a.window)
	d.SetFileName("txm_sweep.zip")
	d.Show()
}

func (a *App) exportXLSX() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportXLSX(path, &a.setup); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.rememberFile(path)
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Workbook saved to %s", path), a.window)
	}, a.window)
	d.SetFileName("txm_parameters.xlsx")
	d.Show()
}

func (a *App) exportPDF() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportPDF(path, &a.setup); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Report saved to %s", path), a.window)
	}, a.window)
	d.SetFileName("txm_report.pdf")
	d.Show()
}

func (a *App) importParams(importFn func(string, *model.Setup) importer.Result) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := importFn(reader.URI().Path(), &a.setup)
		a.rememberFile(reader.URI().Path())
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) handleImportResult(result importer.Result) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}

	if result.Applied > 0 {
		a.refreshEntries()
		a.recalculate()

		msg := fmt.Sprintf("Successfully applied %d parameters.", result.Applied)
		if len(result.Warnings) > 0 {
			msg += fmt.Sprintf("\n\n%d rows were skipped:\n%s",
				len(result.Warnings), strings.Join(result.Warnings, "\n"))
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
	}
}

func (a *App) rememberFile(path string) {
	for _, p := range a.config.RecentFiles {
		if p == path {
			return
		}
	}
	a.config.RecentFiles = append([]string{path}, a.config.RecentFiles...)
	if len(a.config.RecentFiles) > 8 {
		a.config.RecentFiles = a.config.RecentFiles[:8]
	}
}

// ─── Preset dialogs ────────────────────────────────────────

func (a *App) savePresetDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Preset name")

	form := dialog.NewForm("Save Preset", "Save", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", nameEntry)},
		func(ok bool) {
			if !ok || nameEntry.Text == "" {
				return
			}
			preset := model.NewPreset(nameEntry.Text, a.setup)
			a.presets = append(a.presets, preset)
			a.config.LastPresetID = preset.ID
			if err := project.SavePresetsToDefault(a.presets); err != nil {
				dialog.ShowError(err, a.window)
			}
		},
		a.window,
	)
	form.Resize(fyne.NewSize(360, 140))
	form.Show()
}

func (a *App) loadPresetDialog() {
	if len(a.presets) == 0 {
		dialog.ShowInformation("No presets", "Save a preset first.", a.window)
		return
	}

	names := make([]string, len(a.presets))
	for i, p := range a.presets {
		names[i] = p.Name
	}
	selector := widget.NewSelect(names, nil)
	selector.SetSelectedIndex(0)

	form := dialog.NewForm("Load Preset", "Load", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Preset", selector)},
		func(ok bool) {
			if !ok || selector.SelectedIndex() < 0 {
				return
			}
			preset := a.presets[selector.SelectedIndex()]
			a.setup = preset.Setup
			a.config.LastPresetID = preset.ID
			a.refreshEntries()
			a.recalculate()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(360, 140))
	form.Show()
}

func (a *App) exportPresetDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetText("Shared setup")

	form := dialog.NewForm("Export Preset", "Choose File", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", nameEntry)},
		func(ok bool) {
			if !ok {
				return
			}
			preset := model.NewPreset(nameEntry.Text, a.setup)
			d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
				if err != nil || writer == nil {
					return
				}
				defer writer.Close()
				if err := project.ExportPreset(writer.URI().Path(), preset); err != nil {
					dialog.ShowError(err, a.window)
				}
			}, a.window)
			d.SetFileName("txm_preset.json")
			d.Show()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(360, 140))
	form.Show()
}

func (a *App) importPresetDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		preset, err := project.ImportPreset(reader.URI().Path())
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.presets = append(a.presets, preset)
		a.setup = preset.Setup
		a.refreshEntries()
		a.recalculate()
		if err := project.SavePresetsToDefault(a.presets); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
}

// ─── Backup dialogs ────────────────────────────────────────

func (a *App) backupDialog() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := project.ExportAllData(path, a.config, a.setup, a.presets); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Backup Complete",
			fmt.Sprintf("All data saved to %s", path), a.window)
	}, a.window)
	d.SetFileName("txm_backup.json")
	d.Show()
}

func (a *App) restoreDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		backup, err := project.ImportAllData(reader.URI().Path())
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.config = backup.Config
		a.setup = backup.Setup
		a.presets = backup.Presets
		a.refreshEntries()
		a.recalculate()
	}, a.window)
}

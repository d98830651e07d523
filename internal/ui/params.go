package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/malte-storm/txm-param-calc/internal/model"
	"github.com/malte-storm/txm-param-calc/internal/optics"
	"github.com/malte-storm/txm-param-calc/internal/parse"
)

// paramGroup is one titled card of related input parameters.
type paramGroup struct {
	title string
	ids   []string
}

var paramGroups = []paramGroup{
	{title: "X-ray Source", ids: []string{optics.QEnergy, optics.QBandwidth}},
	{title: "Fresnel Zone Plate", ids: []string{optics.QFZPZoneWidth, optics.QFZPDiameter}},
	{title: "Detector", ids: []string{
		optics.QDetMag, optics.QDetPixSize, optics.QDetNHor, optics.QDetNVert,
		optics.QEffPixelSize, optics.QDistSampleDet,
	}},
	{title: "Beam-Shaping Condenser", ids: []string{
		optics.QBSCDiameter, optics.QBSCZoneWidth, optics.QBSCField, optics.QBSCCentralStop,
	}},
}

var detectorModeNames = map[model.DetectorSolveMode]string{
	model.DetModeEffPixel:       "Fixed effective pixel size",
	model.DetModeTargetDistance: "Fixed sample-detector distance",
}

var stopModeNames = map[model.StopSolveMode]string{
	model.StopModeExplicit:     "Explicit stop size",
	model.StopModeFullDetector: "Cover full detector FOV",
}

func (a *App) buildParamsPanel() fyne.CanvasObject {
	cards := make([]fyne.CanvasObject, 0, len(paramGroups)+1)

	for _, g := range paramGroups {
		rows := container.NewVBox()
		for _, id := range g.ids {
			rows.Add(a.buildParamRow(id))
		}
		if g.title == "Detector" {
			rows.Add(a.buildDetectorModeRow())
		}
		if g.title == "Beam-Shaping Condenser" {
			rows.Add(a.buildStopModeRow())
		}
		cards = append(cards, widget.NewCard(g.title, "", rows))
	}

	hint := widget.NewRichTextFromMarkdown(
		"Values accept a single number or a range: `10:16:0.5`, `[8, 10, 12]`, " +
			"`linspace(8, 16, 40)`. Only one parameter may hold a range at a time.")
	hint.Wrapping = fyne.TextWrapWord
	cards = append(cards, hint)

	return container.NewVScroll(container.NewVBox(cards...))
}

// buildParamRow creates one label + entry + apply button line for an input.
func (a *App) buildParamRow(id string) fyne.CanvasObject {
	entry := widget.NewEntry()
	if v, ok := a.setup.InputDisplay(id); ok {
		entry.SetText(v.String())
	}
	a.entries[id] = entry

	apply := func() { a.applyEntry(id) }
	entry.OnSubmitted = func(string) { apply() }

	return container.NewBorder(nil, nil,
		newFixedWidthLabel(model.TitleOf(id), 240),
		widget.NewButton("Set", apply),
		entry,
	)
}

func (a *App) applyEntry(id string) {
	entry := a.entries[id]
	v, err := parse.Value(entry.Text)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if err := a.setup.SetDisplay(id, v); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.recalculate()
}

func (a *App) buildDetectorModeRow() fyne.CanvasObject {
	options := []string{
		detectorModeNames[model.DetModeEffPixel],
		detectorModeNames[model.DetModeTargetDistance],
	}
	selector := widget.NewSelect(options, func(selected string) {
		mode := model.DetModeEffPixel
		if selected == detectorModeNames[model.DetModeTargetDistance] {
			mode = model.DetModeTargetDistance
		}
		if mode == a.setup.DetMode {
			return
		}
		a.setup.DetMode = mode
		a.updateModeEntries()
		a.recalculate()
	})
	selector.SetSelected(detectorModeNames[a.setup.DetMode])

	return container.NewBorder(nil, nil,
		newFixedWidthLabel("Geometry solved from", 240), nil, selector)
}

func (a *App) buildStopModeRow() fyne.CanvasObject {
	options := []string{
		stopModeNames[model.StopModeExplicit],
		stopModeNames[model.StopModeFullDetector],
	}
	selector := widget.NewSelect(options, func(selected string) {
		mode := model.StopModeExplicit
		if selected == stopModeNames[model.StopModeFullDetector] {
			mode = model.StopModeFullDetector
		}
		if mode == a.setup.StopMode {
			return
		}
		a.setup.StopMode = mode
		a.updateModeEntries()
		a.recalculate()
	})
	selector.SetSelected(stopModeNames[a.setup.StopMode])

	return container.NewBorder(nil, nil,
		newFixedWidthLabel("Central stop sizing", 240), nil, selector)
}

// updateModeEntries enables the driving input of the active mode and greys
// out the one the engine currently ignores.
func (a *App) updateModeEntries() {
	setEnabled := func(id string, enabled bool) {
		entry, ok := a.entries[id]
		if !ok {
			return
		}
		if enabled {
			entry.Enable()
		} else {
			entry.Disable()
		}
	}
	setEnabled(optics.QEffPixelSize, a.setup.DetMode == model.DetModeEffPixel)
	setEnabled(optics.QDistSampleDet, a.setup.DetMode == model.DetModeTargetDistance)
	setEnabled(optics.QBSCCentralStop, a.setup.StopMode == model.StopModeExplicit)
}

// refreshEntries rewrites every entry from the current setup, used after
// loading a preset or importing a file.
func (a *App) refreshEntries() {
	for id, entry := range a.entries {
		if v, ok := a.setup.InputDisplay(id); ok {
			entry.SetText(v.String())
		}
	}
	a.updateModeEntries()
}

// newFixedWidthLabel keeps the parameter names in a straight column.
func newFixedWidthLabel(text string, width float32) fyne.CanvasObject {
	label := widget.NewLabel(text)
	return container.NewGridWrap(fyne.NewSize(width, label.MinSize().Height), label)
}

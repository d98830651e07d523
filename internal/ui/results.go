package ui

import (
	"fmt"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/malte-storm/txm-param-calc/internal/model"
	"github.com/malte-storm/txm-param-calc/internal/optics"
)

// resultGroup mirrors the three calculation stages in the results view.
type resultGroup struct {
	title string
	ids   []string
}

var resultGroups = []resultGroup{
	{title: "Zone Plate Optics", ids: []string{
		optics.QWavelength, optics.QFZPResolution, optics.QFZPObjectNA,
		optics.QFZPDepthFocus, optics.QFZPZoneCount, optics.QFZPFocalLength,
	}},
	{title: "Imaging Geometry", ids: []string{
		optics.QMTotal, optics.QMXray, optics.QDistSampleFZP, optics.QDistFZPDet,
		optics.QDistSampleDet, optics.QEffPixelSize, optics.QDetFOVHor,
		optics.QDetFOVVert, optics.QFZPImageNA, optics.QFZPAngularFOV,
		optics.QFZPFieldOfView,
	}},
	{title: "Condenser and Illumination", ids: []string{
		optics.QBSCFocalLength, optics.QBSCZoneCount, optics.QDistBSCSample,
		optics.QDistSourceBSC, optics.QBSCCentralStop, optics.QBSCEffFOV,
		optics.QBSCFreeArea, optics.QTotalEff,
	}},
}

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewVBox()
	a.checkContainer = container.NewVBox()
	a.refreshResults()

	return container.NewVScroll(container.NewVBox(
		a.resultContainer,
		widget.NewCard("Validity Checks", "", a.checkContainer),
	))
}

func (a *App) refreshResults() {
	if a.resultContainer == nil {
		return
	}
	a.resultContainer.RemoveAll()
	a.checkContainer.RemoveAll()

	if a.evalErr != nil {
		msg := widget.NewLabel("Calculation failed: " + a.evalErr.Error())
		msg.Wrapping = fyne.TextWrapWord
		a.resultContainer.Add(msg)
		a.resultContainer.Refresh()
		a.checkContainer.Refresh()
		return
	}

	for _, g := range resultGroups {
		grid := container.NewGridWithColumns(2)
		for _, id := range g.ids {
			v, ok := a.results.Quantity(id)
			if !ok {
				continue
			}
			grid.Add(widget.NewLabel(model.TitleOf(id)))
			grid.Add(widget.NewLabelWithStyle(
				formatDisplay(v.Scale(model.ScaleOf(id))),
				fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true}))
		}
		a.resultContainer.Add(widget.NewCard(g.title, "", grid))
	}

	for _, id := range optics.CheckIDs {
		flag, ok := a.results.Check(id)
		if !ok {
			continue
		}
		a.checkContainer.Add(buildCheckRow(model.TitleOf(id), flag))
	}

	a.resultContainer.Refresh()
	a.checkContainer.Refresh()
}

func buildCheckRow(name string, flag optics.Flag) fyne.CanvasObject {
	status := "OK"
	style := fyne.TextStyle{Bold: true}
	if !flag.All() {
		if flag.IsSweep() {
			failed := 0
			for _, ok := range flag.Bools() {
				if !ok {
					failed++
				}
			}
			status = fmt.Sprintf("FAILED (%d of %d samples)", failed, flag.Len())
		} else {
			status = "FAILED"
		}
	}
	return container.NewGridWithColumns(2,
		widget.NewLabel(name),
		widget.NewLabelWithStyle(status, fyne.TextAlignTrailing, style),
	)
}

// formatDisplay renders one quantity for the results table: scalars as a
// single number, sweeps as their span over the feasible samples.
func formatDisplay(v optics.Value) string {
	if !v.IsSweep() {
		if math.IsNaN(v.Float()) {
			return "infeasible"
		}
		return fmt.Sprintf("%.6g", v.Float())
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	valid := 0
	for _, x := range v.Values() {
		if math.IsNaN(x) {
			continue
		}
		valid++
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	if valid == 0 {
		return "infeasible"
	}
	return fmt.Sprintf("%.6g ... %.6g", lo, hi)
}

package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/malte-storm/txm-param-calc/internal/export"
	"github.com/malte-storm/txm-param-calc/internal/model"
	"github.com/malte-storm/txm-param-calc/internal/optics"
)

// plotSlot is one quantity plot with its own scale and range controls.
type plotSlot struct {
	prefs *model.PlotPrefs

	selector  *widget.Select
	logCheck  *widget.Check
	autoCheck *widget.Check
	yminEntry *widget.Entry
	ymaxEntry *widget.Entry
	imageSpot *fyne.Container
}

// plotPanel holds the two quantity plots and the shared validity strip.
type plotPanel struct {
	slots     [2]*plotSlot
	checkSpot *fyne.Container

	// rendered images are recreated on every refresh
	seq int
}

// plotQuantityTitles lists the plottable quantities in engine order.
func plotQuantityTitles() ([]string, map[string]string) {
	titles := make([]string, 0, len(optics.DerivedIDs))
	byTitle := make(map[string]string, len(optics.DerivedIDs))
	for _, id := range optics.DerivedIDs {
		title := model.TitleOf(id)
		titles = append(titles, title)
		byTitle[title] = id
	}
	return titles, byTitle
}

func (a *App) buildPlotsPanel() fyne.CanvasObject {
	p := &plotPanel{}
	a.plotPanel = p

	p.slots[0] = a.buildPlotSlot(&a.config.PlotA)
	p.slots[1] = a.buildPlotSlot(&a.config.PlotB)
	p.checkSpot = container.NewVBox()

	content := container.NewVBox()
	for _, slot := range p.slots {
		content.Add(container.NewVBox(
			container.NewHBox(
				slot.selector, slot.logCheck, slot.autoCheck,
				slot.yminEntry, slot.ymaxEntry,
			),
			slot.imageSpot,
		))
		content.Add(widget.NewSeparator())
	}
	content.Add(p.checkSpot)

	a.refreshPlots()
	return container.NewVScroll(content)
}

// buildPlotSlot wires the controls of one plot to its preference struct.
func (a *App) buildPlotSlot(prefs *model.PlotPrefs) *plotSlot {
	slot := &plotSlot{prefs: prefs, imageSpot: container.NewVBox()}
	titles, byTitle := plotQuantityTitles()

	slot.selector = widget.NewSelect(titles, func(selected string) {
		prefs.Quantity = byTitle[selected]
		a.refreshPlots()
	})
	slot.selector.SetSelected(model.TitleOf(prefs.Quantity))

	slot.logCheck = widget.NewCheck("Log y", func(on bool) {
		prefs.LogY = on
		a.refreshPlots()
	})
	slot.logCheck.Checked = prefs.LogY

	slot.yminEntry = widget.NewEntry()
	slot.ymaxEntry = widget.NewEntry()
	slot.yminEntry.SetPlaceHolder("y min")
	slot.ymaxEntry.SetPlaceHolder("y max")
	applyRange := func(string) {
		ymin, errMin := strconv.ParseFloat(slot.yminEntry.Text, 64)
		ymax, errMax := strconv.ParseFloat(slot.ymaxEntry.Text, 64)
		if errMin != nil || errMax != nil || ymin >= ymax {
			return
		}
		prefs.YMin = ymin
		prefs.YMax = ymax
		a.refreshPlots()
	}
	slot.yminEntry.OnSubmitted = applyRange
	slot.ymaxEntry.OnSubmitted = applyRange

	slot.autoCheck = widget.NewCheck("Autoscale", func(on bool) {
		prefs.Autoscale = on
		slot.updateRangeEntries()
		a.refreshPlots()
	})
	slot.autoCheck.Checked = prefs.Autoscale
	slot.updateRangeEntries()

	return slot
}

func (s *plotSlot) updateRangeEntries() {
	if s.prefs.Autoscale {
		s.yminEntry.Disable()
		s.ymaxEntry.Disable()
	} else {
		s.yminEntry.Enable()
		s.ymaxEntry.Enable()
	}
}

func (a *App) refreshPlots() {
	p := a.plotPanel
	if p == nil || p.checkSpot == nil {
		return
	}
	for _, slot := range p.slots {
		slot.imageSpot.RemoveAll()
	}
	p.checkSpot.RemoveAll()
	defer func() {
		for _, slot := range p.slots {
			slot.imageSpot.Refresh()
		}
		p.checkSpot.Refresh()
	}()

	if a.evalErr != nil {
		p.slots[0].imageSpot.Add(widget.NewLabel("Calculation failed: " + a.evalErr.Error()))
		return
	}

	xs, ok := a.setup.SweepValues()
	if !ok {
		p.slots[0].imageSpot.Add(widget.NewLabel(
			"No parameter sweeps. Enter a range for one parameter to see plots."))
		return
	}
	xLabel := model.AxisLabelOf(a.setup.ActiveSweep)

	for _, slot := range p.slots {
		a.renderSlot(slot, xs, xLabel)
	}
	a.addChecksPlot(xs, xLabel)
}

func (a *App) renderSlot(slot *plotSlot, xs []float64, xLabel string) {
	id := slot.prefs.Quantity
	v, ok := a.results.Quantity(id)
	if !ok {
		return
	}

	scaled := v.Scale(model.ScaleOf(id))
	ys := scaled.Values()
	if !scaled.IsSweep() {
		ys = make([]float64, len(xs))
		for i := range ys {
			ys[i] = scaled.Float()
		}
	}

	opts := export.PlotOptions{
		Title:  model.TitleOf(id),
		XLabel: xLabel,
		YLabel: model.AxisLabelOf(id),
		LogY:   slot.prefs.LogY,
	}
	if !slot.prefs.Autoscale && slot.prefs.YMin < slot.prefs.YMax {
		opts.ManualRange = true
		opts.YMin = slot.prefs.YMin
		opts.YMax = slot.prefs.YMax
	}

	png, err := export.LinePNG(xs, ys, opts)
	if err != nil {
		slot.imageSpot.Add(widget.NewLabel(fmt.Sprintf("Cannot plot %s: %v", model.TitleOf(id), err)))
		return
	}
	slot.imageSpot.Add(a.plotPanel.newPlotImage(id, png))
}

func (a *App) addChecksPlot(xs []float64, xLabel string) {
	p := a.plotPanel
	checks := make([]export.CheckSeries, 0, len(optics.CheckIDs))
	for _, id := range optics.CheckIDs {
		flag, ok := a.results.Check(id)
		if !ok {
			continue
		}
		oks := flag.Bools()
		if !flag.IsSweep() {
			oks = make([]bool, len(xs))
			for i := range oks {
				oks[i] = flag.Bool()
			}
		}
		checks = append(checks, export.CheckSeries{Name: model.TitleOf(id), OK: oks})
	}

	png, err := export.ChecksPNG(xs, checks, xLabel)
	if err != nil {
		p.checkSpot.Add(widget.NewLabel(fmt.Sprintf("Cannot plot checks: %v", err)))
		return
	}
	p.checkSpot.Add(p.newPlotImage("checks", png))
}

// newPlotImage wraps PNG bytes in a sized canvas image. The resource name
// changes on every refresh so fyne does not serve a cached rendering.
func (p *plotPanel) newPlotImage(id string, png []byte) fyne.CanvasObject {
	p.seq++
	res := fyne.NewStaticResource(fmt.Sprintf("plot_%s_%d.png", id, p.seq), png)
	img := canvas.NewImageFromResource(res)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(720, 450))
	return img
}

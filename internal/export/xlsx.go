package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/malte-storm/txm-param-calc/internal/model"
	"github.com/malte-storm/txm-param-calc/internal/optics"
)

// ExportXLSX writes the current evaluation to a workbook: a Parameters
// sheet with the primary inputs in display units, and a Results sheet
// holding either one row of scalar results or the full sweep table with
// one column per derived quantity.
func ExportXLSX(path string, s *model.Setup) error {
	r, err := s.Evaluate()
	if err != nil {
		return fmt.Errorf("evaluate before export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	params := "Parameters"
	f.SetSheetName("Sheet1", params)
	f.SetCellValue(params, "A1", "Parameter")
	f.SetCellValue(params, "B1", "Value")

	row := 2
	for _, id := range model.InputIDs {
		if skipInactive(s, id) {
			continue
		}
		v, ok := s.InputDisplay(id)
		if !ok {
			continue
		}
		nameCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(params, nameCell, model.TitleOf(id))
		if v.IsSweep() {
			f.SetCellValue(params, valueCell, v.String())
		} else {
			f.SetCellValue(params, valueCell, v.Float())
		}
		row++
	}

	results := "Results"
	f.NewSheet(results)
	if xs, ok := s.SweepValues(); ok {
		writeSweepSheet(f, results, s, r, xs)
	} else {
		writeScalarSheet(f, results, r)
	}

	return f.SaveAs(path)
}

func writeScalarSheet(f *excelize.File, sheet string, r *optics.Results) {
	f.SetCellValue(sheet, "A1", "Quantity")
	f.SetCellValue(sheet, "B1", "Value")
	row := 2
	for _, id := range optics.DerivedIDs {
		v, ok := r.Quantity(id)
		if !ok {
			continue
		}
		nameCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(sheet, nameCell, model.TitleOf(id))
		setNumber(f, sheet, valueCell, v.Scale(model.ScaleOf(id)).Float())
		row++
	}
}

func writeSweepSheet(f *excelize.File, sheet string, s *model.Setup, r *optics.Results, xs []float64) {
	f.SetCellValue(sheet, "A1", model.AxisLabelOf(s.ActiveSweep))
	col := 2
	series := make(map[string][]float64, len(optics.DerivedIDs))
	for _, id := range optics.DerivedIDs {
		v, ok := r.Quantity(id)
		if !ok {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(col, 1)
		f.SetCellValue(sheet, cell, model.AxisLabelOf(id))
		series[id] = displaySeries(v, model.ScaleOf(id), len(xs))
		col++
	}

	for i, x := range xs {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		setNumber(f, sheet, cell, x)
		col = 2
		for _, id := range optics.DerivedIDs {
			ys, ok := series[id]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col, row)
			setNumber(f, sheet, cell, ys[i])
			col++
		}
	}
}

// setNumber writes a float cell, mapping NaN (infeasible samples) to an
// empty cell rather than an invalid numeric value.
func setNumber(f *excelize.File, sheet, cell string, v float64) {
	if math.IsNaN(v) {
		return
	}
	f.SetCellValue(sheet, cell, v)
}

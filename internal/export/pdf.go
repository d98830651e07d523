package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/malte-storm/txm-param-calc/internal/model"
	"github.com/malte-storm/txm-param-calc/internal/optics"
)

// Report page layout constants (A4 portrait in mm).
const (
	reportPageWidth  = 210.0
	reportMarginLeft = 18.0
	reportMarginTop  = 15.0
	reportLineHeight = 5.2
	reportNameWidth  = 95.0
	reportValueWidth = 60.0
	reportQRSize     = 32.0
)

// ExportPDF writes a printable report of the current configuration: the
// primary inputs, every derived quantity, the validity checks, and a QR
// code encoding the full setup as JSON so the state can be re-imported
// from a printout.
func ExportPDF(path string, s *model.Setup) error {
	r, err := s.Evaluate()
	if err != nil {
		return fmt.Errorf("evaluate before export: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetXY(reportMarginLeft, reportMarginTop)
	pdf.CellFormat(reportPageWidth-2*reportMarginLeft, 8, "TXM Parameter Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetX(reportMarginLeft)
	pdf.CellFormat(reportPageWidth-2*reportMarginLeft, 5, time.Now().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	renderSectionHeader(pdf, "Input parameters")
	for _, id := range model.InputIDs {
		if skipInactive(s, id) {
			continue
		}
		v, ok := s.InputDisplay(id)
		if !ok {
			continue
		}
		renderRow(pdf, model.TitleOf(id), formatValue(v))
	}
	renderRow(pdf, "Detector mode", string(s.DetMode))
	renderRow(pdf, "Central stop mode", string(s.StopMode))
	pdf.Ln(3)

	renderSectionHeader(pdf, "Derived quantities")
	for _, id := range optics.DerivedIDs {
		v, ok := r.Quantity(id)
		if !ok {
			continue
		}
		renderRow(pdf, model.TitleOf(id), formatResult(v.Scale(model.ScaleOf(id))))
	}
	pdf.Ln(3)

	renderSectionHeader(pdf, "Validity checks")
	for _, id := range optics.CheckIDs {
		flag, ok := r.Check(id)
		if !ok {
			continue
		}
		renderCheckRow(pdf, model.TitleOf(id), flag)
	}

	if err := renderSetupQR(pdf, s); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

func renderSectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetX(reportMarginLeft)
	pdf.CellFormat(reportPageWidth-2*reportMarginLeft, 7, title, "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func renderRow(pdf *fpdf.Fpdf, name, value string) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetX(reportMarginLeft)
	pdf.CellFormat(reportNameWidth, reportLineHeight, name, "", 0, "L", false, 0, "")
	pdf.CellFormat(reportValueWidth, reportLineHeight, value, "", 1, "L", false, 0, "")
}

func renderCheckRow(pdf *fpdf.Fpdf, name string, flag optics.Flag) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetX(reportMarginLeft)
	pdf.CellFormat(reportNameWidth, reportLineHeight, name, "", 0, "L", false, 0, "")

	status := "OK"
	pdf.SetTextColor(0, 130, 0)
	if !flag.All() {
		if flag.IsSweep() {
			status = failedSampleSummary(flag)
		} else {
			status = "FAILED"
		}
		pdf.SetTextColor(190, 0, 0)
	}
	pdf.CellFormat(reportValueWidth, reportLineHeight, status, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func failedSampleSummary(flag optics.Flag) string {
	failed := 0
	for _, ok := range flag.Bools() {
		if !ok {
			failed++
		}
	}
	return fmt.Sprintf("FAILED for %d of %d samples", failed, flag.Len())
}

// formatResult renders a derived quantity for the report: scalars as a
// single number, sweeps as their min-max span.
func formatResult(v optics.Value) string {
	if !v.IsSweep() {
		return formatNumber(v.Float())
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
	return fmt.Sprintf("%s to %s", formatNumber(lo), formatNumber(hi))
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return "infeasible"
	}
	return fmt.Sprintf("%.6g", v)
}

// renderSetupQR places a QR code with the JSON-serialized setup in the
// lower right corner of the current page.
func renderSetupQR(pdf *fpdf.Fpdf, s *model.Setup) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal setup for QR code: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate QR code: %w", err)
	}

	pdf.RegisterImageOptionsReader("setup_qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	_, pageH := pdf.GetPageSize()
	qrX := reportPageWidth - reportMarginLeft - reportQRSize
	qrY := pageH - 18 - reportQRSize
	pdf.ImageOptions("setup_qr", qrX, qrY, reportQRSize, reportQRSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(qrX, qrY+reportQRSize)
	pdf.CellFormat(reportQRSize, 3, "Scan to restore this setup", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return nil
}

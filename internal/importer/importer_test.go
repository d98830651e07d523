package importer

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/malte-storm/txm-param-calc/internal/model"
	"github.com/malte-storm/txm-param-calc/internal/optics"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportCSV_Basic(t *testing.T) {
	path := writeTempCSV(t, "parameter,value\nenergy,17.4\nfzp_dr,30\n")
	s := model.DefaultSetup()
	result := ImportCSV(path, &s)

	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if result.Applied != 2 {
		t.Errorf("applied = %d, want 2", result.Applied)
	}
	if got := s.Params.Energy.Float(); got != 17.4 {
		t.Errorf("energy = %g, want 17.4", got)
	}
	// zone width entered in display nm, stored in metres
	if got := s.Params.FZPZoneWidth.Float(); math.Abs(got-30e-9) > 1e-18 {
		t.Errorf("zone width = %g, want 30e-9", got)
	}
}

func TestImportCSV_TitlesAndSemicolons(t *testing.T) {
	path := writeTempCSV(t, "Energy [keV];14\nFZP diameter [um];120\n")
	s := model.DefaultSetup()
	result := ImportCSV(path, &s)

	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if got := s.Params.Energy.Float(); got != 14 {
		t.Errorf("energy = %g, want 14", got)
	}
	if got := s.Params.FZPDiameter.Float(); math.Abs(got-120e-6) > 1e-15 {
		t.Errorf("diameter = %g, want 120e-6", got)
	}
}

func TestImportCSV_SweepExpression(t *testing.T) {
	path := writeTempCSV(t, "energy,\"[10,12,14]\"\n")
	s := model.DefaultSetup()
	result := ImportCSV(path, &s)

	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if s.ActiveSweep != optics.QEnergy {
		t.Errorf("active sweep = %q, want energy", s.ActiveSweep)
	}
	if s.Params.Energy.Len() != 3 {
		t.Errorf("energy sweep length = %d, want 3", s.Params.Energy.Len())
	}
}

func TestImportCSV_UnknownParameterIsWarning(t *testing.T) {
	path := writeTempCSV(t, "energy,12\nflux_monitor,3.5\n")
	s := model.DefaultSetup()
	result := ImportCSV(path, &s)

	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("unknown parameter produced no warning")
	}
	if result.Applied != 1 {
		t.Errorf("applied = %d, want 1", result.Applied)
	}
}

func TestImportCSV_BadValueIsError(t *testing.T) {
	path := writeTempCSV(t, "energy,twelve\nbandwidth,2e-3\n")
	s := model.DefaultSetup()
	result := ImportCSV(path, &s)

	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", result.Errors)
	}
	// The valid row after the bad one must still apply.
	if got := s.Params.Bandwidth.Float(); got != 2e-3 {
		t.Errorf("bandwidth = %g, want 2e-3", got)
	}
}

func TestImportCSV_TwoSweepsRejected(t *testing.T) {
	path := writeTempCSV(t, "energy,\"[10,12]\"\nbandwidth,\"[1e-3,2e-3]\"\n")
	s := model.DefaultSetup()
	result := ImportCSV(path, &s)

	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want the second sweep rejected", result.Errors)
	}
}

func TestDetectCSVDelimiter(t *testing.T) {
	cases := map[string]rune{
		"a,b\nc,d\n":   ',',
		"a;b\nc;d\n":   ';',
		"a\tb\nc\td\n": '\t',
	}
	for content, want := range cases {
		if got := DetectCSVDelimiter([]byte(content)); got != want {
			t.Errorf("DetectCSVDelimiter(%q) = %q, want %q", content, got, want)
		}
	}
}

func TestImportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"parameter", "value"},
		{"energy", "17.4"},
		{"bsc_d", "3.2"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	s := model.DefaultSetup()
	result := ImportXLSX(path, &s)
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if result.Applied != 2 {
		t.Errorf("applied = %d, want 2", result.Applied)
	}
	if got := s.Params.Energy.Float(); got != 17.4 {
		t.Errorf("energy = %g, want 17.4", got)
	}
	if got := s.Params.BSCDiameter.Float(); math.Abs(got-3.2e-3) > 1e-12 {
		t.Errorf("BSC diameter = %g, want 3.2e-3 (display mm)", got)
	}
}

func TestImportCSV_MissingFile(t *testing.T) {
	s := model.DefaultSetup()
	result := ImportCSV(filepath.Join(t.TempDir(), "nope.csv"), &s)
	if len(result.Errors) == 0 {
		t.Error("missing file produced no error")
	}
}

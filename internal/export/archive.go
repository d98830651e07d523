package export

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"

	"github.com/malte-storm/txm-param-calc/internal/model"
	"github.com/malte-storm/txm-param-calc/internal/optics"
)

// dumpPadWidth is the column the dots pad out to in the parameter dump.
const dumpPadWidth = 40

// ExportArchive writes one zip archive containing, for every derived
// quantity, a PNG line plot over the active sweep and a matching
// two-column text table, plus a human-readable dump of the primary
// inputs. It fails when no parameter currently sweeps.
func ExportArchive(path string, s *model.Setup) error {
	xs, ok := s.SweepValues()
	if !ok {
		return fmt.Errorf("archive export needs a swept parameter; all inputs are scalar")
	}

	r, err := s.Evaluate()
	if err != nil {
		return fmt.Errorf("evaluate before export: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	xLabel := model.AxisLabelOf(s.ActiveSweep)

	for _, id := range optics.DerivedIDs {
		v, found := r.Quantity(id)
		if !found {
			continue
		}
		ys := displaySeries(v, model.ScaleOf(id), len(xs))

		base := fmt.Sprintf("%s_vs_%s", id, s.ActiveSweep)

		png, err := LinePNG(xs, ys, PlotOptions{
			Title:  model.TitleOf(id),
			XLabel: xLabel,
			YLabel: model.AxisLabelOf(id),
		})
		if err != nil {
			return fmt.Errorf("plot %s: %w", id, err)
		}
		if err := writeZipEntry(zw, base+".png", png); err != nil {
			return err
		}

		table := formatTable(xLabel, model.AxisLabelOf(id), xs, ys)
		if err := writeZipEntry(zw, base+".txt", []byte(table)); err != nil {
			return err
		}
	}

	dump := ParameterDump(s)
	if err := writeZipEntry(zw, "_Input_Parameters.txt", []byte(dump)); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

// displaySeries converts a quantity to display units and stretches a
// scalar result into a constant series matching the sweep length.
func displaySeries(v optics.Value, scale float64, n int) []float64 {
	scaled := v.Scale(scale)
	if scaled.IsSweep() {
		return scaled.Values()
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = scaled.Float()
	}
	return out
}

func formatTable(xLabel, yLabel string, xs, ys []float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\t%s\n", xLabel, yLabel)
	for i := range xs {
		fmt.Fprintf(&sb, "%.12g\t%.12g\n", xs[i], ys[i])
	}
	return sb.String()
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}

// ParameterDump renders the primary inputs as dot-padded "name: value"
// lines in display units, skipping the driving input of whichever solve
// mode is inactive.
func ParameterDump(s *model.Setup) string {
	var sb strings.Builder
	sb.WriteString("TXM parameter calculator - input parameters\n\n")
	for _, id := range model.InputIDs {
		if skipInactive(s, id) {
			continue
		}
		v, ok := s.InputDisplay(id)
		if !ok {
			continue
		}
		name := model.TitleOf(id)
		pad := dumpPadWidth - len(name)
		if pad < 1 {
			pad = 1
		}
		fmt.Fprintf(&sb, "%s%s: %s\n", name, strings.Repeat(".", pad), formatValue(v))
	}
	fmt.Fprintf(&sb, "\nDetector mode%s: %s\n", strings.Repeat(".", dumpPadWidth-len("Detector mode")), s.DetMode)
	fmt.Fprintf(&sb, "Central stop mode%s: %s\n", strings.Repeat(".", dumpPadWidth-len("Central stop mode")), s.StopMode)
	return sb.String()
}

// skipInactive hides the driving input that the current mode selection
// ignores, so the dump never shows a stale value as authoritative.
func skipInactive(s *model.Setup, id string) bool {
	switch id {
	case optics.QEffPixelSize:
		return s.DetMode != model.DetModeEffPixel
	case optics.QDistSampleDet:
		return s.DetMode != model.DetModeTargetDistance
	case optics.QBSCCentralStop:
		return s.StopMode != model.StopModeExplicit
	}
	return false
}

func formatValue(v optics.Value) string {
	if !v.IsSweep() {
		return fmt.Sprintf("%g", v.Float())
	}
	vals := v.Values()
	parts := make([]string, len(vals))
	for i, x := range vals {
		parts[i] = fmt.Sprintf("%g", x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Package export renders the calculator's results into shareable files:
// PNG line plots, a zip archive of all swept quantities, an XLSX sweep
// table, and a printable PDF parameter report.
package export

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotOptions controls the rendering of a single line plot.
type PlotOptions struct {
	Title  string
	XLabel string
	YLabel string

	// LogY switches the y axis to a logarithmic scale. Non-positive
	// samples are dropped before plotting.
	LogY bool

	// ManualRange fixes the y axis to [YMin, YMax] instead of the
	// default autoscaled range.
	ManualRange bool
	YMin        float64
	YMax        float64
}

var lineColor = color.RGBA{R: 33, G: 113, B: 181, A: 255}

// LinePNG renders one x/y series as a PNG line plot. NaN samples are
// skipped so that infeasible sweep regions leave gaps instead of
// corrupting the line. The autoscaled y range pads the data by a factor
// of 0.995 below and 1.01 above.
func LinePNG(xs, ys []float64, opts PlotOptions) ([]byte, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("plot series length mismatch: %d x values, %d y values", len(xs), len(ys))
	}

	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if math.IsNaN(ys[i]) || math.IsNaN(xs[i]) {
			continue
		}
		if opts.LogY && ys[i] <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("no plottable samples for %q", opts.Title)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	if opts.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("build line: %w", err)
	}
	line.Width = vg.Points(1)
	line.Color = lineColor
	p.Add(line)
	p.Add(plotter.NewGrid())

	if opts.ManualRange {
		p.Y.Min = opts.YMin
		p.Y.Max = opts.YMax
	} else {
		lo, hi := seriesRange(pts)
		if opts.LogY {
			p.Y.Min = lo * 0.995
			p.Y.Max = hi * 1.01
		} else {
			p.Y.Min = scaleLimit(lo, 0.995)
			p.Y.Max = scaleLimit(hi, 1.01)
			if p.Y.Min == p.Y.Max {
				p.Y.Min--
				p.Y.Max++
			}
		}
	}

	return renderPNG(p, 8*vg.Inch, 5*vg.Inch)
}

// CheckSeries is one validity check plotted in a strip chart: a name and
// one pass/fail sample per sweep point.
type CheckSeries struct {
	Name string
	OK   []bool
}

var checkColors = []color.RGBA{
	{R: 33, G: 113, B: 181, A: 255},
	{R: 230, G: 85, B: 13, A: 255},
	{R: 49, G: 163, B: 84, A: 255},
}

// checkOffsets separates overlapping check lines vertically so that
// simultaneous pass/fail transitions remain readable.
var checkOffsets = []float64{0.05, 0, -0.05}

// ChecksPNG renders validity checks as offset 0/1 step lines over the
// sweep axis.
func ChecksPNG(xs []float64, checks []CheckSeries, xLabel string) ([]byte, error) {
	if len(checks) == 0 {
		return nil, fmt.Errorf("no checks to plot")
	}

	p := plot.New()
	p.Title.Text = "Validity of calculations"
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Check passed"
	p.Y.Min = -0.2
	p.Y.Max = 1.25

	for i, c := range checks {
		if len(c.OK) != len(xs) {
			return nil, fmt.Errorf("check %q has %d samples for %d sweep points", c.Name, len(c.OK), len(xs))
		}
		pts := make(plotter.XYs, len(xs))
		off := checkOffsets[i%len(checkOffsets)]
		for j := range xs {
			y := off
			if c.OK[j] {
				y = 1 + off
			}
			pts[j] = plotter.XY{X: xs[j], Y: y}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("build check line: %w", err)
		}
		line.Width = vg.Points(1)
		line.Color = checkColors[i%len(checkColors)]
		p.Add(line)
		p.Legend.Add(c.Name, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return renderPNG(p, 8*vg.Inch, 5*vg.Inch)
}

func renderPNG(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("render plot: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode plot: %w", err)
	}
	return buf.Bytes(), nil
}

func seriesRange(pts plotter.XYs) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, pt := range pts {
		if pt.Y < lo {
			lo = pt.Y
		}
		if pt.Y > hi {
			hi = pt.Y
		}
	}
	return lo, hi
}

// scaleLimit pads an axis limit away from the data regardless of sign.
func scaleLimit(v, factor float64) float64 {
	if v == 0 {
		return 0
	}
	if v < 0 {
		return v * (2 - factor)
	}
	return v * factor
}

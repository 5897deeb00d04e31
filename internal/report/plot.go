package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/linac-data/tlog/internal/tlog"
	"github.com/linac-data/tlog/internal/units"
)

// SaveAxisPlots writes one PNG per requested axis into outputDir, expected
// and actual traces on the same plot. Pass nil axes for DefaultAxes.
// Returns the number of plots written.
func SaveAxisPlots(outputDir string, log *tlog.TrajectoryLog, axes []string) (int, error) {
	if axes == nil {
		axes = DefaultAxes
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output dir: %w", err)
	}

	count := 0
	for _, name := range axes {
		axis, err := axisByName(log, name)
		if err != nil {
			return count, err
		}
		file := filepath.Join(outputDir, fileStem(name)+".png")
		if err := saveAxisPlot(file, name, axis, log.SamplingIntervalMS); err != nil {
			return count, fmt.Errorf("axis %s: %w", name, err)
		}
		count++
	}
	return count, nil
}

func saveAxisPlot(file, name string, axis tlog.Axis, intervalMS int32) error {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = "Time (ms)"
	if u := units.ForAxis(name); u != units.None {
		p.Y.Label.Text = u
	}

	expectedPts := make(plotter.XYs, len(axis.Expected))
	actualPts := make(plotter.XYs, len(axis.Actual))
	for i := range axis.Expected {
		x := float64(i) * float64(intervalMS)
		expectedPts[i] = plotter.XY{X: x, Y: float64(axis.Expected[i])}
		actualPts[i] = plotter.XY{X: x, Y: float64(axis.Actual[i])}
	}

	expectedLine, err := plotter.NewLine(expectedPts)
	if err != nil {
		return err
	}
	expectedLine.Color = color.RGBA{B: 255, A: 255}
	expectedLine.Width = vg.Points(1)
	p.Add(expectedLine)
	p.Legend.Add("Expected", expectedLine)

	actualLine, err := plotter.NewLine(actualPts)
	if err != nil {
		return err
	}
	actualLine.Color = color.RGBA{R: 255, A: 255}
	actualLine.Width = vg.Points(1)
	p.Add(actualLine)
	p.Legend.Add("Actual", actualLine)

	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 4*vg.Inch, file); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

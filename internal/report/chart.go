package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/linac-data/tlog/internal/tlog"
	"github.com/linac-data/tlog/internal/units"
)

// WriteHTMLReport renders one line chart per requested axis to w as a
// single HTML page. Pass nil axes to chart DefaultAxes. The X axis is time
// in milliseconds derived from the log's sampling interval.
func WriteHTMLReport(w io.Writer, src string, log *tlog.TrajectoryLog, axes []string) error {
	if axes == nil {
		axes = DefaultAxes
	}

	page := components.NewPage()
	for _, name := range axes {
		axis, err := axisByName(log, name)
		if err != nil {
			return err
		}
		page.AddCharts(axisChart(src, name, axis, log.SamplingIntervalMS))
	}
	return page.Render(w)
}

func axisChart(src, name string, axis tlog.Axis, intervalMS int32) *charts.Line {
	title := name
	if u := units.ForAxis(name); u != units.None {
		title = fmt.Sprintf("%s (%s)", name, u)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Trajectory Log", Width: "1200px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: src}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (ms)"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	xs := make([]string, len(axis.Expected))
	expected := make([]opts.LineData, len(axis.Expected))
	actual := make([]opts.LineData, len(axis.Actual))
	for i := range axis.Expected {
		xs[i] = fmt.Sprintf("%d", int(intervalMS)*i)
		expected[i] = opts.LineData{Value: axis.Expected[i]}
		actual[i] = opts.LineData{Value: axis.Actual[i]}
	}

	line.SetXAxis(xs).
		AddSeries("Expected", expected).
		AddSeries("Actual", actual)
	return line
}

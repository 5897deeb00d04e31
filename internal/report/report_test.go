package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linac-data/tlog/internal/tlog"
)

func sampleLog() *tlog.TrajectoryLog {
	axis := func(vs ...float32) tlog.Axis {
		actual := make([]float32, len(vs))
		for i, v := range vs {
			actual[i] = v + 0.1
		}
		return tlog.Axis{Expected: vs, Actual: actual}
	}
	return &tlog.TrajectoryLog{
		Signature:          "VOSTL",
		Version:            2.1,
		SamplingIntervalMS: 20,
		NumSnapshots:       3,
		NumMLCLeaves:       1,
		Gantry:             axis(178, 179, 180),
		Collimator:         axis(30, 30, 30),
		CouchLat:           axis(0, 0, 0),
		CouchLng:           axis(10, 10, 10),
		CouchRtn:           axis(0, 0, 0),
		MonitorUnits:       axis(0, 25, 50),
		BeamHold:           axis(0, 0, 0),
		ControlPoint:       axis(0, 1, 2),
		CarriageA:          axis(1, 1, 1),
		CarriageB:          axis(2, 2, 2),
		MLC:                map[int]tlog.Axis{1: axis(-2, -2.1, -2.2)},
	}
}

func TestWriteHTMLReport(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTMLReport(&buf, "beam1.bin", sampleLog(), nil)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Expected")
	assert.Contains(t, html, "Actual")
	assert.Contains(t, html, "Gantry (degrees)")
	assert.Contains(t, html, "MU (MU)")
	assert.Contains(t, html, "beam1.bin")
}

func TestWriteHTMLReportSelectedAxes(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTMLReport(&buf, "", sampleLog(), []string{"Gantry", "Leaf 1"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Leaf 1 (cm)")
}

func TestWriteHTMLReportUnknownAxis(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTMLReport(&buf, "", sampleLog(), []string{"Wedge"})
	assert.Error(t, err)
}

func TestSaveAxisPlots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")

	n, err := SaveAxisPlots(dir, sampleLog(), []string{"Gantry", "Couch Lat", "Leaf 1"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, name := range []string{"gantry.png", "couch_lat.png", "leaf_1.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Greater(t, info.Size(), int64(0), name)
	}
}

func TestSaveAxisPlotsMissingLeaf(t *testing.T) {
	_, err := SaveAxisPlots(t.TempDir(), sampleLog(), []string{"Leaf 9"})
	assert.Error(t, err)
}

// Package tlogcsv writes a decoded trajectory log as CSV, one labelled row
// per header scalar and one expected/actual row pair per axis.
package tlogcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/linac-data/tlog/internal/tlog"
	"github.com/linac-data/tlog/internal/units"
)

// Write emits the CSV form of log to w. src names the source file in the
// first row; pass "" to omit it. Header fields appear in declaration order,
// then the axes: gantry, collimator, couch lat/lng/rtn, MU, beam hold,
// control point, carriages, then MLC leaves in ascending leaf index.
func Write(w io.Writer, src string, log *tlog.TrajectoryLog) error {
	cw := csv.NewWriter(w)

	if src != "" {
		writeValue(cw, "Tlog File:", src, units.None)
	}
	writeValue(cw, "Signature:", log.Signature, units.None)
	writeValue(cw, "Version:", strconv.FormatFloat(log.Version, 'g', -1, 64), units.None)
	writeValue(cw, "Header Size:", strconv.Itoa(int(log.HeaderSize)), units.None)
	writeValue(cw, "Sampling Interval:", strconv.Itoa(int(log.SamplingIntervalMS)), units.MS)
	writeValue(cw, "Number of Axes:", strconv.Itoa(int(log.NumAxes)), units.None)
	writeValue(cw, "Axis Enumeration:", fmt.Sprint(log.AxisEnumeration), units.None)
	writeValue(cw, "Samples per Axis:", fmt.Sprint(log.SamplesPerAxis), units.None)
	writeValue(cw, "Axis Scale:", strconv.Itoa(int(log.AxisScale)), units.None)
	writeValue(cw, "Number of Subbeams:", strconv.Itoa(int(log.NumSubbeams)), units.None)
	writeValue(cw, "Is Truncated?", strconv.Itoa(int(log.IsTruncated)), units.None)
	writeValue(cw, "Number of Snapshots:", strconv.Itoa(int(log.NumSnapshots)), units.None)
	writeValue(cw, "MLC Model:", strconv.Itoa(int(log.MLCModel)), units.None)

	writeAxis(cw, "Gantry", log.Gantry)
	writeAxis(cw, "Collimator", log.Collimator)
	writeAxis(cw, "Couch Lat", log.CouchLat)
	writeAxis(cw, "Couch Lng", log.CouchLng)
	writeAxis(cw, "Couch Rtn", log.CouchRtn)
	writeAxis(cw, "MU", log.MonitorUnits)
	writeAxis(cw, "Beam Hold", log.BeamHold)
	writeAxis(cw, "Control Point", log.ControlPoint)
	writeAxis(cw, "Carriage A", log.CarriageA)
	writeAxis(cw, "Carriage B", log.CarriageB)
	for leaf := 1; leaf <= log.NumMLCLeaves; leaf++ {
		writeAxis(cw, fmt.Sprintf("Leaf %d", leaf), log.MLC[leaf])
	}

	cw.Flush()
	return cw.Error()
}

func writeValue(cw *csv.Writer, label, value, unit string) {
	if unit == units.None {
		cw.Write([]string{label, value})
		return
	}
	cw.Write([]string{label, value, unit})
}

func writeAxis(cw *csv.Writer, label string, axis tlog.Axis) {
	unit := units.ForAxis(label)
	if unit == units.None {
		cw.Write([]string{label + " Expected"})
	} else {
		cw.Write([]string{label + " Expected in units of", unit})
	}
	cw.Write(formatSamples(axis.Expected))
	if unit == units.None {
		cw.Write([]string{label + " Actual"})
	} else {
		cw.Write([]string{label + " Actual in units of", unit})
	}
	cw.Write(formatSamples(axis.Actual))
}

func formatSamples(samples []float32) []string {
	out := make([]string, len(samples))
	for i, v := range samples {
		out[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return out
}

// Package tlogstats summarizes expected-vs-actual deviation for the axes of
// a decoded trajectory log.
package tlogstats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/linac-data/tlog/internal/tlog"
	"github.com/linac-data/tlog/internal/units"
)

// AxisDeviation summarizes how far an axis's measured positions strayed
// from the plan over one log.
type AxisDeviation struct {
	Axis   string  // display name, e.g. "Gantry" or "Leaf 12"
	Unit   string  // display unit, "" when dimensionless
	Mean   float64 // mean of (actual - expected)
	StdDev float64 // standard deviation of (actual - expected)
	RMS    float64 // root mean square of (actual - expected)
	Max    float64 // largest absolute deviation
}

// Compute returns the deviation summary for one axis. Slices of unequal
// length never come out of the decoder; they are rejected here to keep the
// math honest on hand-built inputs.
func Compute(name string, axis tlog.Axis) (AxisDeviation, error) {
	if len(axis.Expected) != len(axis.Actual) {
		return AxisDeviation{}, fmt.Errorf("axis %s: %d expected vs %d actual samples",
			name, len(axis.Expected), len(axis.Actual))
	}

	d := AxisDeviation{Axis: name, Unit: units.ForAxis(name)}
	if len(axis.Expected) == 0 {
		return d, nil
	}

	diffs := make([]float64, len(axis.Expected))
	sumSq := 0.0
	for i := range diffs {
		diff := float64(axis.Actual[i]) - float64(axis.Expected[i])
		diffs[i] = diff
		sumSq += diff * diff
		if abs := math.Abs(diff); abs > d.Max {
			d.Max = abs
		}
	}
	d.Mean = stat.Mean(diffs, nil)
	d.StdDev = math.Sqrt(stat.Variance(diffs, nil))
	d.RMS = math.Sqrt(sumSq / float64(len(diffs)))
	return d, nil
}

// ComputeAll summarizes the beam-shaping axes of a log: the fixed
// mechanical and dosimetric axes followed by every MLC leaf in ascending
// leaf order.
func ComputeAll(log *tlog.TrajectoryLog) ([]AxisDeviation, error) {
	named := []struct {
		name string
		axis tlog.Axis
	}{
		{"Gantry", log.Gantry},
		{"Collimator", log.Collimator},
		{"Jaw Y1", log.JawY1},
		{"Jaw Y2", log.JawY2},
		{"Jaw X1", log.JawX1},
		{"Jaw X2", log.JawX2},
		{"Couch Vrt", log.CouchVrt},
		{"Couch Lng", log.CouchLng},
		{"Couch Lat", log.CouchLat},
		{"Couch Rtn", log.CouchRtn},
		{"MU", log.MonitorUnits},
		{"Carriage A", log.CarriageA},
		{"Carriage B", log.CarriageB},
	}

	out := make([]AxisDeviation, 0, len(named)+log.NumMLCLeaves)
	for _, n := range named {
		d, err := Compute(n.name, n.axis)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	for leaf := 1; leaf <= log.NumMLCLeaves; leaf++ {
		d, err := Compute(fmt.Sprintf("Leaf %d", leaf), log.MLC[leaf])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Package report renders decoded trajectory logs as HTML charts and PNG
// plots for visual inspection of expected-vs-actual axis traces.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/linac-data/tlog/internal/tlog"
)

// DefaultAxes are the axes charted when the caller does not pick their own.
var DefaultAxes = []string{
	"Gantry", "Collimator", "Couch Lat", "Couch Lng", "Couch Rtn",
	"MU", "Beam Hold", "Control Point",
}

// axisByName resolves a display axis name, including "Leaf N", against a
// decoded log.
func axisByName(log *tlog.TrajectoryLog, name string) (tlog.Axis, error) {
	switch name {
	case "Gantry":
		return log.Gantry, nil
	case "Collimator":
		return log.Collimator, nil
	case "Jaw Y1":
		return log.JawY1, nil
	case "Jaw Y2":
		return log.JawY2, nil
	case "Jaw X1":
		return log.JawX1, nil
	case "Jaw X2":
		return log.JawX2, nil
	case "Couch Vrt":
		return log.CouchVrt, nil
	case "Couch Lng":
		return log.CouchLng, nil
	case "Couch Lat":
		return log.CouchLat, nil
	case "Couch Rtn":
		return log.CouchRtn, nil
	case "MU":
		return log.MonitorUnits, nil
	case "Beam Hold":
		return log.BeamHold, nil
	case "Control Point":
		return log.ControlPoint, nil
	case "Carriage A":
		return log.CarriageA, nil
	case "Carriage B":
		return log.CarriageB, nil
	}
	if rest, ok := strings.CutPrefix(name, "Leaf "); ok {
		leaf, err := strconv.Atoi(rest)
		if err == nil {
			if axis, ok := log.MLC[leaf]; ok {
				return axis, nil
			}
		}
		return tlog.Axis{}, fmt.Errorf("log has no MLC leaf %q", rest)
	}
	return tlog.Axis{}, fmt.Errorf("unknown axis %q", name)
}

// fileStem turns an axis display name into a file-name-safe stem.
func fileStem(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// Package units provides the display unit labels attached to trajectory-log
// axes in CSV output and reports.
package units

// Unit constants
const (
	Degrees = "degrees"
	CM      = "cm"
	MU      = "MU"
	MS      = "ms"
	None    = ""
)

// ForAxis returns the display unit for a named axis. Dimensionless fields
// (beam hold state, control point) have no unit. MLC leaves are labelled
// "Leaf N" and report in cm.
func ForAxis(axis string) string {
	switch axis {
	case "Gantry", "Collimator", "Couch Rtn":
		return Degrees
	case "Couch Lat", "Couch Lng", "Couch Vrt", "Carriage A", "Carriage B",
		"Jaw Y1", "Jaw Y2", "Jaw X1", "Jaw X2":
		return CM
	case "MU":
		return MU
	default:
		if len(axis) > 5 && axis[:5] == "Leaf " {
			return CM
		}
		return None
	}
}

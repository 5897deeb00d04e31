package tlog

// Axis holds the time series for one recorded quantity: the planned
// (expected) and measured (actual) value at each snapshot. Both slices have
// length NumSnapshots and share an index with every other axis in the log.
type Axis struct {
	Expected []float32
	Actual   []float32
}

// Axis enumeration codes as they appear in the header's axis_enumeration
// array.
const (
	AxisCollimator int32 = 0
	AxisGantry     int32 = 1
	AxisJawY1      int32 = 2
	AxisJawY2      int32 = 3
	AxisJawX1      int32 = 4
	AxisJawX2      int32 = 5
	AxisCouchVrt   int32 = 6
	AxisCouchLng   int32 = 7
	AxisCouchLat   int32 = 8
	AxisCouchRtn   int32 = 9
	AxisMU         int32 = 40
	AxisBeamHold   int32 = 41
	AxisControlPt  int32 = 42
	AxisMLC        int32 = 50
)

// Scale modes for axis readouts.
const (
	ScaleMachine          int32 = 1
	ScaleModifiedIEC61217 int32 = 2
)

// MLC models.
const (
	MLCModelNDS120   int32 = 2
	MLCModelNDS120HD int32 = 3
)

// ScaleName returns a display label for a scale mode code.
func ScaleName(scale int32) string {
	switch scale {
	case ScaleMachine:
		return "Machine"
	case ScaleModifiedIEC61217:
		return "Modified IEC 61217"
	default:
		return "Unknown"
	}
}

// MLCModelName returns a display label for an MLC model code.
func MLCModelName(model int32) string {
	switch model {
	case MLCModelNDS120:
		return "NDS 120"
	case MLCModelNDS120HD:
		return "NDS 120 HD"
	default:
		return "Unknown"
	}
}

// TrajectoryLog is one fully decoded trajectory log. It is built in a
// single decode pass over an immutable buffer and never mutated afterwards.
type TrajectoryLog struct {
	// Header fields, in on-disk declaration order.
	Signature          string
	Version            float64
	HeaderSize         int32
	SamplingIntervalMS int32
	NumAxes            int32
	AxisEnumeration    []int32
	SamplesPerAxis     []int32
	AxisScale          int32
	NumSubbeams        int32
	IsTruncated        int32
	NumSnapshots       int32
	MLCModel           int32

	// NumMLCLeaves is derived from the last samples_per_axis entry, which
	// counts the two carriages alongside the leaves.
	NumMLCLeaves int

	// Fixed axes.
	Collimator   Axis
	Gantry       Axis
	JawY1        Axis
	JawY2        Axis
	JawX1        Axis
	JawX2        Axis
	CouchVrt     Axis
	CouchLng     Axis
	CouchLat     Axis
	CouchRtn     Axis
	MonitorUnits Axis
	BeamHold     Axis
	ControlPoint Axis
	CarriageA    Axis
	CarriageB    Axis

	// MLC maps 1-based leaf index to that leaf's axis. Leaves 1..60 are
	// bank A, 61..120 bank B on the standard 120-leaf models.
	MLC map[int]Axis
}

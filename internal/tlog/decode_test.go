package tlog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logBuilder assembles synthetic trajectory-log buffers for decoder tests.
type logBuilder struct {
	buf bytes.Buffer
}

func (b *logBuilder) text(s string, width int) {
	field := make([]byte, width)
	copy(field, s)
	b.buf.Write(field)
}

func (b *logBuilder) int32s(vs ...int32) {
	for _, v := range vs {
		var raw [4]byte
		binary.LittleEndian.PutUint32(raw[:], uint32(v))
		b.buf.Write(raw[:])
	}
}

func (b *logBuilder) float32s(vs ...float32) {
	for _, v := range vs {
		var raw [4]byte
		binary.LittleEndian.PutUint32(raw[:], math.Float32bits(v))
		b.buf.Write(raw[:])
	}
}

func (b *logBuilder) pad(n int) {
	b.buf.Write(make([]byte, n))
}

func (b *logBuilder) bytes() []byte { return b.buf.Bytes() }

// narrowHeader writes a minimal header: version 2.1, two axes with
// samples_per_axis [2, 4] (row stride 12, two MLC leaves) and a declared
// header size of 96, leaving a 16-byte reserved tail after mlc_model.
func narrowHeader(numSubbeams, numSnapshots int32) *logBuilder {
	b := &logBuilder{}
	b.text("VOSTL", 16)
	b.text("2.1", 16)
	b.int32s(96, 20, 2) // header_size, sampling_interval_ms, num_axes
	b.int32s(AxisGantry, AxisMLC)
	b.int32s(2, 4)
	b.int32s(1, numSubbeams, 0, numSnapshots) // scale, subbeams, truncated, snapshots
	b.int32s(MLCModelNDS120)
	b.pad(16) // reserved region up to header_size = 96
	return b
}

func TestDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	const rows, stride = 3, 12
	b := narrowHeader(0, rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < stride; j++ {
			b.float32s(float32(100*i + j))
		}
	}

	log, err := Decode(b.bytes())
	require.NoError(t, err)

	assert.Equal(t, "VOSTL", log.Signature)
	assert.Equal(t, 2.1, log.Version)
	assert.Equal(t, int32(96), log.HeaderSize)
	assert.Equal(t, int32(20), log.SamplingIntervalMS)
	assert.Equal(t, int32(2), log.NumAxes)
	assert.Equal(t, []int32{AxisGantry, AxisMLC}, log.AxisEnumeration)
	assert.Equal(t, []int32{2, 4}, log.SamplesPerAxis)
	assert.Equal(t, int32(1), log.AxisScale)
	assert.Equal(t, int32(0), log.NumSubbeams)
	assert.Equal(t, int32(0), log.IsTruncated)
	assert.Equal(t, int32(3), log.NumSnapshots)
	assert.Equal(t, MLCModelNDS120, log.MLCModel)
	assert.Equal(t, 2, log.NumMLCLeaves)

	// Every value must land at its documented column: collimator 0/1,
	// gantry 2/3, jaws 4..11, row r offset by r*stride.
	assert.Equal(t, []float32{0, 100, 200}, log.Collimator.Expected)
	assert.Equal(t, []float32{1, 101, 201}, log.Collimator.Actual)
	assert.Equal(t, []float32{2, 102, 202}, log.Gantry.Expected)
	assert.Equal(t, []float32{3, 103, 203}, log.Gantry.Actual)
	assert.Equal(t, []float32{4, 104, 204}, log.JawY1.Expected)
	assert.Equal(t, []float32{5, 105, 205}, log.JawY1.Actual)
	assert.Equal(t, []float32{6, 106, 206}, log.JawY2.Expected)
	assert.Equal(t, []float32{7, 107, 207}, log.JawY2.Actual)
	assert.Equal(t, []float32{8, 108, 208}, log.JawX1.Expected)
	assert.Equal(t, []float32{9, 109, 209}, log.JawX1.Actual)
	assert.Equal(t, []float32{10, 110, 210}, log.JawX2.Expected)
	assert.Equal(t, []float32{11, 111, 211}, log.JawX2.Actual)
}

func TestDecodeAxisLengths(t *testing.T) {
	t.Parallel()

	const rows = 3
	b := narrowHeader(0, rows)
	b.pad(rows * 12 * 4)

	log, err := Decode(b.bytes())
	require.NoError(t, err)

	axes := map[string]Axis{
		"collimator":    log.Collimator,
		"gantry":        log.Gantry,
		"jaw_y1":        log.JawY1,
		"jaw_y2":        log.JawY2,
		"jaw_x1":        log.JawX1,
		"jaw_x2":        log.JawX2,
		"couch_vrt":     log.CouchVrt,
		"couch_lng":     log.CouchLng,
		"couch_lat":     log.CouchLat,
		"couch_rtn":     log.CouchRtn,
		"monitor_units": log.MonitorUnits,
		"beam_hold":     log.BeamHold,
		"control_point": log.ControlPoint,
		"carriage_a":    log.CarriageA,
		"carriage_b":    log.CarriageB,
	}
	for name, axis := range axes {
		assert.Len(t, axis.Expected, rows, "%s expected", name)
		assert.Len(t, axis.Actual, rows, "%s actual", name)
	}
	require.Len(t, log.MLC, log.NumMLCLeaves)
	for leaf, axis := range log.MLC {
		assert.Len(t, axis.Expected, rows, "leaf %d expected", leaf)
		assert.Len(t, axis.Actual, rows, "leaf %d actual", leaf)
	}
}

// TestDecodeFullWidth exercises a log whose row stride covers the whole
// fixed layout plus MLC leaves, the shape real files have: 13 single-sample
// axes plus an MLC axis declaring leaves+carriages.
func TestDecodeFullWidth(t *testing.T) {
	t.Parallel()

	const (
		numAxes = 14
		leaves  = 3
		rows    = 2
		stride  = 2 * (13 + leaves + 2) // 36
	)

	b := &logBuilder{}
	b.text("VOSTL", 16)
	b.text("3.0", 16)
	b.int32s(int32(64+numAxes*8), 20, numAxes) // header_size with empty reserved tail
	b.int32s(AxisCollimator, AxisGantry, AxisJawY1, AxisJawY2, AxisJawX1, AxisJawX2,
		AxisCouchVrt, AxisCouchLng, AxisCouchLat, AxisCouchRtn,
		AxisMU, AxisBeamHold, AxisControlPt, AxisMLC)
	b.int32s(1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, leaves+2)
	b.int32s(2, 0, 0, rows)
	b.int32s(MLCModelNDS120HD)
	for i := 0; i < rows; i++ {
		for j := 0; j < stride; j++ {
			b.float32s(float32(1000*i + j))
		}
	}

	log, err := Decode(b.bytes())
	require.NoError(t, err)
	require.Equal(t, leaves, log.NumMLCLeaves)

	assert.Equal(t, []float32{12, 1012}, log.CouchVrt.Expected)
	assert.Equal(t, []float32{13, 1013}, log.CouchVrt.Actual)
	assert.Equal(t, []float32{20, 1020}, log.MonitorUnits.Expected)
	assert.Equal(t, []float32{21, 1021}, log.MonitorUnits.Actual)
	assert.Equal(t, []float32{22, 1022}, log.BeamHold.Expected)
	assert.Equal(t, []float32{24, 1024}, log.ControlPoint.Expected)
	assert.Equal(t, []float32{26, 1026}, log.CarriageA.Expected)
	assert.Equal(t, []float32{28, 1028}, log.CarriageB.Expected)

	// Leaf i (1-based) occupies columns 30+2(i-1) and 31+2(i-1).
	assert.Equal(t, []float32{30, 1030}, log.MLC[1].Expected)
	assert.Equal(t, []float32{31, 1031}, log.MLC[1].Actual)
	assert.Equal(t, []float32{32, 1032}, log.MLC[2].Expected)
	assert.Equal(t, []float32{34, 1034}, log.MLC[3].Expected)
	assert.Equal(t, []float32{35, 1035}, log.MLC[3].Actual)
}

func TestDecodeIdempotent(t *testing.T) {
	t.Parallel()

	const rows = 3
	b := narrowHeader(0, rows)
	for i := 0; i < rows*12; i++ {
		b.float32s(float32(i) / 7)
	}
	buf := b.bytes()

	first, err := Decode(buf)
	require.NoError(t, err)
	second, err := Decode(buf)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("decodes of the same buffer differ (-first +second):\n%s", diff)
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	t.Parallel()

	for n := 0; n < 16; n++ {
		_, err := Decode(make([]byte, n))
		require.Error(t, err, "length %d", n)
		ok := errors.Is(err, ErrTruncatedInput) || errors.Is(err, ErrUnrecognizedFormat)
		assert.True(t, ok, "length %d: got %v", n, err)
	}
}

func TestDecodeBadSignature(t *testing.T) {
	t.Parallel()

	b := &logBuilder{}
	b.text("NOTATLOG", 16)
	b.pad(1024)

	_, err := Decode(b.bytes())
	require.ErrorIs(t, err, ErrUnrecognizedFormat)

	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 0, derr.Offset)
}

func TestDecodeBadVersion(t *testing.T) {
	t.Parallel()

	b := &logBuilder{}
	b.text("VOSTL", 16)
	b.text("not-a-number", 16)
	b.pad(1024)

	_, err := Decode(b.bytes())
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestDecodeNegativeLeafCount(t *testing.T) {
	t.Parallel()

	b := &logBuilder{}
	b.text("VOSTL", 16)
	b.text("2.1", 16)
	b.int32s(96, 20, 2)
	b.int32s(AxisGantry, AxisMLC)
	b.int32s(2, 1) // MLC axis declares 1 sample: fewer than the 2 carriages
	b.int32s(1, 0, 0, 0)
	b.int32s(MLCModelNDS120)
	b.pad(16)

	_, err := Decode(b.bytes())
	assert.ErrorIs(t, err, ErrMalformedHeader)
}

func TestDecodeNegativeReservedRegion(t *testing.T) {
	t.Parallel()

	b := &logBuilder{}
	b.text("VOSTL", 16)
	b.text("2.1", 16)
	// header_size 64 is smaller than the 80 bytes already consumed by the
	// fixed fields plus two 2-entry axis arrays.
	b.int32s(64, 20, 2)
	b.int32s(AxisGantry, AxisMLC)
	b.int32s(2, 4)
	b.int32s(1, 0, 0, 0)
	b.int32s(MLCModelNDS120)
	b.pad(256)

	_, err := Decode(b.bytes())
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestDecodeSubbeamTableSkip(t *testing.T) {
	t.Parallel()

	// Five sub-beams means exactly 400 bytes skipped after the header; with
	// the snapshot block absent, the truncation offset pins down where
	// snapshot reading began.
	b := narrowHeader(5, 1)
	b.pad(5 * 80)

	_, err := Decode(b.bytes())
	require.ErrorIs(t, err, ErrTruncatedInput)

	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 96+400, derr.Offset)
}

func TestDecodeSnapshotGeometryOverflow(t *testing.T) {
	t.Parallel()

	// A header can declare sample counts and a snapshot count whose product
	// wraps past the largest int. The tiny buffer must be rejected as
	// truncated, not trip an allocation of a wrapped size.
	b := &logBuilder{}
	b.text("VOSTL", 16)
	b.text("2.1", 16)
	b.int32s(80, 20, 2) // header_size = 64 + 2*8, empty reserved tail
	b.int32s(AxisGantry, AxisMLC)
	b.int32s(math.MaxInt32, math.MaxInt32)
	b.int32s(1, 0, 0, math.MaxInt32)
	b.int32s(MLCModelNDS120)

	_, err := Decode(b.bytes())
	require.ErrorIs(t, err, ErrTruncatedInput)

	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 80, derr.Offset)
}

func TestDecodeTruncatedSnapshotBlock(t *testing.T) {
	t.Parallel()

	b := narrowHeader(0, 3)
	b.pad(3*12*4 - 4) // one float short

	_, err := Decode(b.bytes())
	assert.ErrorIs(t, err, ErrTruncatedInput)
}

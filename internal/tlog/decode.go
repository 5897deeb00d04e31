package tlog

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// signatureTag identifies the trajectory-log format family. Written by
	// the control system as 16 NUL-padded bytes at offset 0.
	signatureTag = "VOSTL"

	signatureBytes = 16
	versionBytes   = 16

	// subbeamRecordBytes is the fixed width of one sub-beam table entry.
	// Sub-beam content is not decoded; the table is skipped whole.
	subbeamRecordBytes = 80
)

// Fixed column offsets of the expected-value column for each axis within
// one snapshot row. The actual value sits in the following column. MLC leaf
// columns start immediately after carriage B.
const (
	colCollimator   = 0
	colGantry       = 2
	colJawY1        = 4
	colJawY2        = 6
	colJawX1        = 8
	colJawX2        = 10
	colCouchVrt     = 12
	colCouchLng     = 14
	colCouchLat     = 16
	colCouchRtn     = 18
	colMonitorUnits = 20
	colBeamHold     = 22
	colControlPoint = 24
	colCarriageA    = 26
	colCarriageB    = 28
	colMLCStart     = 30
)

// DecodeFile reads path fully into memory and decodes it.
func DecodeFile(path string) (*TrajectoryLog, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(buf)
}

// Decode interprets buf as one complete trajectory-log file and returns the
// fully populated log. Decoding is all-or-nothing: on any failure the
// returned error wraps one of the sentinel kinds and carries the byte
// offset at which decoding stopped, and no partial log is returned.
//
// The header is read in strict declared order because later field sizes
// depend on values read earlier: the two per-axis arrays are num_axes
// entries long, the reserved region after mlc_model runs to the declared
// header_size boundary, the sub-beam table is 80 bytes per declared entry,
// and the snapshot block is row_stride x num_snapshots floats where
// row_stride is twice the sum of samples_per_axis.
func Decode(buf []byte) (*TrajectoryLog, error) {
	c := NewCursor(buf)

	sig, err := c.ReadString(signatureBytes)
	if err != nil {
		return nil, err
	}
	if sig != signatureTag {
		return nil, decodeErrorf(ErrUnrecognizedFormat, 0, "signature %q, want %q", sig, signatureTag)
	}

	verStart := c.Pos()
	verText, err := c.ReadString(versionBytes)
	if err != nil {
		return nil, err
	}
	version, err := strconv.ParseFloat(strings.TrimSpace(verText), 64)
	if err != nil {
		return nil, decodeErrorf(ErrMalformedHeader, verStart, "unparsable version %q", verText)
	}

	headerSize, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	samplingInterval, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	numAxesAt := c.Pos()
	numAxes, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	if numAxes <= 0 {
		return nil, decodeErrorf(ErrMalformedHeader, numAxesAt, "num_axes %d", numAxes)
	}

	axisEnum, err := c.ReadInt32s(int(numAxes))
	if err != nil {
		return nil, err
	}
	samplesAt := c.Pos()
	samplesPerAxis, err := c.ReadInt32s(int(numAxes))
	if err != nil {
		return nil, err
	}

	// The last samples_per_axis entry covers the MLC axis: one sample per
	// leaf plus one per carriage, so the leaf count is that entry minus 2.
	numLeaves := int(samplesPerAxis[len(samplesPerAxis)-1]) - 2
	if numLeaves < 0 {
		return nil, decodeErrorf(ErrMalformedHeader, samplesAt,
			"MLC axis declares %d samples, fewer than the 2 carriages",
			samplesPerAxis[len(samplesPerAxis)-1])
	}

	axisScale, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	numSubbeams, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	isTruncated, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	snapshotsAt := c.Pos()
	numSnapshots, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}
	if numSnapshots < 0 {
		return nil, decodeErrorf(ErrMalformedHeader, snapshotsAt, "num_snapshots %d", numSnapshots)
	}

	mlcModel, err := c.ReadInt32()
	if err != nil {
		return nil, err
	}

	// Everything between mlc_model and the declared header_size boundary is
	// reserved. The fixed fields plus mlc_model span 64 bytes and the two
	// per-axis arrays span 8 bytes per axis, so the remainder is computed,
	// not constant.
	reserved := int(headerSize) - (64 + int(numAxes)*8)
	if err := c.Skip(reserved); err != nil {
		return nil, err
	}

	// Sub-beam records describe auto-sequenced beam segments; their
	// internal layout is not decoded here, so the table is skipped by its
	// declared entry count.
	if err := c.Skip(subbeamRecordBytes * int(numSubbeams)); err != nil {
		return nil, err
	}

	// The snapshot section is one contiguous float32 array. Reinterpret it
	// as a matrix: one row per snapshot, two columns (expected, actual) per
	// declared sample slot.
	rowStride := 0
	for _, s := range samplesPerAxis {
		rowStride += int(s)
	}
	rowStride *= 2
	if rowStride < 0 {
		return nil, decodeErrorf(ErrInvalidLayout, c.Pos(), "negative row stride %d", rowStride)
	}

	// Bound the declared geometry against the bytes actually present before
	// multiplying: rowStride and numSnapshots both come from the file, and
	// their product can wrap. The buffer holds Remaining()/4 floats at most,
	// so any snapshot count beyond that quotient is truncated input whether
	// or not the product still fits in an int.
	floatsRemaining := c.Remaining() / 4
	if rowStride > 0 && int(numSnapshots) > floatsRemaining/rowStride {
		return nil, decodeErrorf(ErrTruncatedInput, c.Pos(),
			"snapshot block declares %d rows of %d floats, %d floats remain",
			numSnapshots, rowStride, floatsRemaining)
	}

	flat, err := c.ReadFloat32s(rowStride * int(numSnapshots))
	if err != nil {
		return nil, err
	}

	rows := int(numSnapshots)
	log := &TrajectoryLog{
		Signature:          sig,
		Version:            version,
		HeaderSize:         headerSize,
		SamplingIntervalMS: samplingInterval,
		NumAxes:            numAxes,
		AxisEnumeration:    axisEnum,
		SamplesPerAxis:     samplesPerAxis,
		AxisScale:          axisScale,
		NumSubbeams:        numSubbeams,
		IsTruncated:        isTruncated,
		NumSnapshots:       numSnapshots,
		MLCModel:           mlcModel,
		NumMLCLeaves:       numLeaves,

		Collimator:   axisAt(flat, colCollimator, rowStride, rows),
		Gantry:       axisAt(flat, colGantry, rowStride, rows),
		JawY1:        axisAt(flat, colJawY1, rowStride, rows),
		JawY2:        axisAt(flat, colJawY2, rowStride, rows),
		JawX1:        axisAt(flat, colJawX1, rowStride, rows),
		JawX2:        axisAt(flat, colJawX2, rowStride, rows),
		CouchVrt:     axisAt(flat, colCouchVrt, rowStride, rows),
		CouchLng:     axisAt(flat, colCouchLng, rowStride, rows),
		CouchLat:     axisAt(flat, colCouchLat, rowStride, rows),
		CouchRtn:     axisAt(flat, colCouchRtn, rowStride, rows),
		MonitorUnits: axisAt(flat, colMonitorUnits, rowStride, rows),
		BeamHold:     axisAt(flat, colBeamHold, rowStride, rows),
		ControlPoint: axisAt(flat, colControlPoint, rowStride, rows),
		CarriageA:    axisAt(flat, colCarriageA, rowStride, rows),
		CarriageB:    axisAt(flat, colCarriageB, rowStride, rows),

		MLC: make(map[int]Axis, numLeaves),
	}

	for leaf := 1; leaf <= numLeaves; leaf++ {
		log.MLC[leaf] = axisAt(flat, colMLCStart+2*(leaf-1), rowStride, rows)
	}

	return log, nil
}

// axisAt slices one expected/actual column pair out of the flat snapshot
// block: the expected sequence is column col sampled at stride across all
// rows, the actual sequence is the column after it. An axis whose columns
// lie beyond the row stride (a log recorded with fewer sample slots) yields
// zero-filled sequences so every axis keeps one entry per snapshot.
func axisAt(flat []float32, col, stride, rows int) Axis {
	expected := make([]float32, rows)
	actual := make([]float32, rows)
	if col+1 < stride {
		for i := 0; i < rows; i++ {
			expected[i] = flat[i*stride+col]
			actual[i] = flat[i*stride+col+1]
		}
	}
	return Axis{Expected: expected, Actual: actual}
}

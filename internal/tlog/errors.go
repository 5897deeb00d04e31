package tlog

import (
	"errors"
	"fmt"
)

// Decode failure kinds. Every error returned by Decode wraps exactly one of
// these sentinels, so callers can classify failures with errors.Is.
var (
	// ErrUnrecognizedFormat means the signature bytes do not match the
	// trajectory-log tag; the input is not this format at all.
	ErrUnrecognizedFormat = errors.New("unrecognized format")

	// ErrMalformedHeader means a header field holds an out-of-range or
	// inconsistent value (unparsable version, negative leaf count).
	ErrMalformedHeader = errors.New("malformed header")

	// ErrInvalidLayout means a computed skip or stride is geometrically
	// impossible given the declared sizes.
	ErrInvalidLayout = errors.New("invalid layout")

	// ErrTruncatedInput means a read or skip would run past the end of the
	// buffer; the file is incomplete or corrupt.
	ErrTruncatedInput = errors.New("truncated input")
)

// DecodeError reports a decode failure together with the byte offset at
// which it occurred. It wraps one of the sentinel kinds above.
type DecodeError struct {
	Kind   error
	Offset int
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at byte %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("%v at byte %d: %s", e.Kind, e.Offset, e.Detail)
}

func (e *DecodeError) Unwrap() error { return e.Kind }

func decodeErrorf(kind error, offset int, format string, args ...any) error {
	return &DecodeError{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

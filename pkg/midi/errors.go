package midi

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedFile reports a marker mismatch, a truncated structure or a chunk whose
	// declared length doesn't match its contents.
	ErrMalformedFile = errors.New("malformed file")
	// ErrUnsupportedDivision reports an SMPTE (or zero) time division.
	ErrUnsupportedDivision = errors.New("unsupported division")
	// ErrUnsupportedEvent reports a system exclusive event inside a track.
	ErrUnsupportedEvent = errors.New("unsupported event")

	// ErrVarLenOverflow is returned when a value doesn't fit in a 4 byte variable length quantity.
	ErrVarLenOverflow = errors.New("value exceeds variable length quantity range")
)

// DecodeError carries the failure kind and the position in the buffer where it was found.
type DecodeError struct {
	Kind     error
	Offset   int
	Expected []byte
	Found    []byte
	Detail   string
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	fmt.Fprintf(&b, " at offset %d", e.Offset)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Expected != nil {
		fmt.Fprintf(&b, " - expected %q [% X], found %q [% X]", e.Expected, e.Expected, e.Found, e.Found)
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

func malformed(offset int, format string, args ...interface{}) error {
	return &DecodeError{Kind: ErrMalformedFile, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func markerMismatch(offset int, expected, found []byte) error {
	return &DecodeError{
		Kind:     ErrMalformedFile,
		Offset:   offset,
		Expected: expected,
		Found:    append([]byte(nil), found...),
		Detail:   "chunk type mismatch",
	}
}

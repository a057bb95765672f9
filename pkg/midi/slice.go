package midi

import "bytes"

// ByteRange addresses Length bytes starting at Offset of the decoded buffer.
type ByteRange struct {
	Offset int
	Length int
}

// End is the offset one past the last byte of the range.
func (r ByteRange) End() int {
	return r.Offset + r.Length
}

// ByteSlice is a read-only view into the original buffer. Offsets passed to its methods are
// relative to the start of the view; errors report absolute offsets.
type ByteSlice struct {
	buf []byte
	r   ByteRange
}

func newByteSlice(buf []byte) ByteSlice {
	return ByteSlice{buf: buf, r: ByteRange{Length: len(buf)}}
}

func (s ByteSlice) Range() ByteRange {
	return s.r
}

func (s ByteSlice) Len() int {
	return s.r.Length
}

// Bytes returns the viewed bytes without copying. Callers must not modify them.
func (s ByteSlice) Bytes() []byte {
	return s.buf[s.r.Offset:s.r.End():s.r.End()]
}

// Slice returns the sub-view of n bytes starting at off.
func (s ByteSlice) Slice(off, n int) (ByteSlice, error) {
	if off < 0 || n < 0 || off+n > s.r.Length {
		return ByteSlice{}, malformed(s.r.Offset+off, "need %d bytes, %d available", n, s.r.Length-off)
	}
	return ByteSlice{buf: s.buf, r: ByteRange{Offset: s.r.Offset + off, Length: n}}, nil
}

// From returns the view from off to the end of s.
func (s ByteSlice) From(off int) (ByteSlice, error) {
	return s.Slice(off, s.r.Length-off)
}

// Uint decodes a big-endian unsigned integer of width bytes (1..4) at off.
func (s ByteSlice) Uint(off, width int) (uint32, error) {
	if width < 1 || width > 4 {
		return 0, malformed(s.r.Offset+off, "invalid integer width %d", width)
	}
	sub, err := s.Slice(off, width)
	if err != nil {
		return 0, err
	}

	var x uint32
	for _, b := range sub.Bytes() {
		x = x<<8 | uint32(b)
	}
	return x, nil
}

// VarLen decodes the variable length quantity at off, returning its value and width.
func (s ByteSlice) VarLen(off int) (uint32, int, error) {
	rest, err := s.From(off)
	if err != nil {
		return 0, 0, err
	}

	b := rest.Bytes()
	x, n := DecodeVarLen(b)
	if !isTerminated(b, n) {
		return 0, 0, malformed(rest.r.Offset, "truncated variable length quantity")
	}
	return x, n, nil
}

// Equal reports whether the view holds exactly the bytes of lit.
func (s ByteSlice) Equal(lit []byte) bool {
	return bytes.Equal(s.Bytes(), lit)
}

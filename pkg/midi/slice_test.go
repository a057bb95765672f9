package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteSliceUint(t *testing.T) {
	s := newByteSlice([]byte{0x00, 0x01, 0xE0, 0x12, 0x34, 0x56, 0x78})

	v, err := s.Uint(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint32(480), v)

	v, err = s.Uint(3, 4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), v)

	_, err = s.Uint(5, 4)
	assert.ErrorIs(t, err, ErrMalformedFile)

	_, err = s.Uint(0, 5)
	assert.ErrorIs(t, err, ErrMalformedFile)
}

func TestByteSliceSliceIsAbsolute(t *testing.T) {
	buf := []byte("0123456789")
	s := newByteSlice(buf)

	sub, err := s.Slice(2, 6)
	require.NoError(t, err)
	assert.Equal(t, ByteRange{Offset: 2, Length: 6}, sub.Range())

	inner, err := sub.Slice(1, 3)
	require.NoError(t, err)
	assert.Equal(t, ByteRange{Offset: 3, Length: 3}, inner.Range())
	assert.Equal(t, []byte("345"), inner.Bytes())

	_, err = sub.Slice(4, 3)
	var derr *DecodeError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 6, derr.Offset)
}

func TestByteSliceVarLen(t *testing.T) {
	s := newByteSlice([]byte{0x90, 0x83, 0x60, 0x81})

	v, n, err := s.VarLen(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(480), v)
	assert.Equal(t, 2, n)

	_, _, err = s.VarLen(3)
	assert.ErrorIs(t, err, ErrMalformedFile)

	_, _, err = s.VarLen(4)
	assert.ErrorIs(t, err, ErrMalformedFile)
}

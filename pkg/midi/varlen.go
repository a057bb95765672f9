package midi

const (
	maxVarLenWidth = 4
	maxVarLenValue = 0x0FFFFFFF
)

// DecodeVarLen returns the variable length quantity at the start of buf and the number of
// bytes it occupies. At most 4 bytes are read; n is 0 when buf is empty.
func DecodeVarLen(buf []byte) (x uint32, n int) {
	for _, b := range buf {
		x = x<<7 | uint32(b&0x7F)
		n++
		if b&0x80 == 0 || n == maxVarLenWidth {
			return x, n
		}
	}

	return x, n
}

// EncodeVarLen returns the minimal variable length encoding of v.
func EncodeVarLen(v uint32) ([]byte, error) {
	if v > maxVarLenValue {
		return nil, ErrVarLenOverflow
	}

	var groups [maxVarLenWidth]byte
	i := len(groups) - 1
	groups[i] = byte(v & 0x7F)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		groups[i] = byte(v&0x7F) | 0x80
	}

	return append([]byte(nil), groups[i:]...), nil
}

func isTerminated(buf []byte, n int) bool {
	return n == maxVarLenWidth || (n > 0 && buf[n-1]&0x80 == 0)
}

package midi

import "bytes"

var (
	headerChunkID = []byte{0x4D, 0x54, 0x68, 0x64} // MThd
	trackChunkID  = []byte{0x4D, 0x54, 0x72, 0x6B} // MTrk
)

const (
	headerChunkSize  = 14
	headerDataSize   = 6
	chunkPrefixSize  = 8 // [4]byte ID + uint32 length
	chunkLengthWidth = 4
)

// SplitChunks scans region for track chunk markers and returns one absolute range per chunk.
// A marker at the very start of region opens the first chunk; every later marker closes the
// previous range and opens the next one. The last range runs to the end of region.
func SplitChunks(region ByteSlice) []ByteRange {
	b := region.Bytes()
	if len(b) == 0 {
		return nil
	}

	var ranges []ByteRange
	start := 0
	for i := 1; i+len(trackChunkID) <= len(b); i++ {
		if !bytes.HasPrefix(b[i:], trackChunkID) {
			continue
		}
		ranges = append(ranges, ByteRange{Offset: region.r.Offset + start, Length: i - start})
		start = i
	}

	return append(ranges, ByteRange{Offset: region.r.Offset + start, Length: len(b) - start})
}

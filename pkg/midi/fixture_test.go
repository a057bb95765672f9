package midi

import (
	"bytes"
	"encoding/binary"
)

func mustVarLen(v uint32) []byte {
	b, err := EncodeVarLen(v)
	if err != nil {
		panic(err)
	}
	return b
}

// ev builds one track event: delta-time followed by the raw event bytes.
func ev(delta uint32, body ...byte) []byte {
	return append(mustVarLen(delta), body...)
}

func noteOn(delta uint32, note uint8) []byte {
	return ev(delta, 0x90, note, 0x64)
}

func noteOff(delta uint32, note uint8) []byte {
	return ev(delta, 0x80, note, 0x40)
}

func meta(delta uint32, typ byte, data []byte) []byte {
	out := ev(delta, 0xFF, typ)
	out = append(out, mustVarLen(uint32(len(data)))...)
	return append(out, data...)
}

func trackName(name string) []byte {
	return meta(0, MetaTrackName, []byte(name))
}

func endOfTrack() []byte {
	return ev(0, 0xFF, 0x2F, 0x00)
}

func trackChunk(events ...[]byte) []byte {
	body := bytes.Join(events, nil)
	out := append([]byte("MTrk"), 0, 0, 0, 0)
	binary.BigEndian.PutUint32(out[4:], uint32(len(body)))
	return append(out, body...)
}

func smfHeader(tracks int, division uint16) []byte {
	out := []byte{
		'M', 'T', 'h', 'd',
		0, 0, 0, 6,
		0, 1,
		0, 0,
		0, 0,
	}
	binary.BigEndian.PutUint16(out[10:], uint16(tracks))
	binary.BigEndian.PutUint16(out[12:], division)
	return out
}

func smfFile(division uint16, tracks ...[]byte) []byte {
	return append(smfHeader(len(tracks), division), bytes.Join(tracks, nil)...)
}

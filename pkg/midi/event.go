package midi

import "fmt"

// EventKind tells how the bytes following a delta-time are framed.
type EventKind int

const (
	MetaEvent EventKind = iota + 1
	SysExEvent
	ChannelEvent
)

func (k EventKind) String() string {
	switch k {
	case MetaEvent:
		return "meta"
	case SysExEvent:
		return "sysex"
	case ChannelEvent:
		return "channel"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

const (
	metaLead       = 0xFF
	sysExLead      = 0xF0
	sysExEscape    = 0xF7
	channelEventSz = 3

	// MetaTrackName is the meta type holding a sequence or track name.
	MetaTrackName = 0x03

	NoteOff = 0x8
	NoteOn  = 0x9
)

// ClassifyEvent inspects the event at the start of s and returns its kind and its total size
// in bytes. The size is only computed, not checked against the length of s.
func ClassifyEvent(s ByteSlice) (EventKind, int, error) {
	lead, err := s.Uint(0, 1)
	if err != nil {
		return 0, 0, err
	}

	switch lead {
	case metaLead:
		// lead + type + vlq length + data
		dataLen, n, err := s.VarLen(2)
		if err != nil {
			return MetaEvent, 0, err
		}
		return MetaEvent, 2 + n + int(dataLen), nil

	case sysExLead, sysExEscape:
		// lead + vlq length + data
		dataLen, n, err := s.VarLen(1)
		if err != nil {
			return SysExEvent, 0, err
		}
		return SysExEvent, 1 + n + int(dataLen), nil
	}

	// status + 2 data bytes, running status is not detected
	return ChannelEvent, channelEventSz, nil
}

package midi

import (
	"fmt"

	"go.uber.org/zap"
)

type TimeFormat int

const (
	MetricalTF TimeFormat = iota + 1
	TimeCodeTF
)

// Header holds the fields of the MThd chunk.
type Header struct {
	Format     uint16
	TrackCount uint16
	Division   uint16
}

func (h Header) TimeFormat() TimeFormat {
	if h.Division&0x8000 == 0 {
		return MetricalTF
	}
	return TimeCodeTF
}

// TicksPerQuarterNote is zero for time code divisions.
func (h Header) TicksPerQuarterNote() uint16 {
	if h.TimeFormat() != MetricalTF {
		return 0
	}
	return h.Division & 0x7FFF
}

// Tree is the node tree of one file together with the buffer its ranges point into.
type Tree struct {
	buf  []byte
	Root *Node
}

// Build parses buf into a node tree. Only framing is interpreted: markers, lengths, delta-times
// and event sizes. The header division is checked before any track byte is read.
func Build(buf []byte) (*Tree, error) {
	s := newByteSlice(buf)

	header, hdr, err := buildHeader(s)
	if err != nil {
		return nil, err
	}

	if err := checkDivision(hdr.Division); err != nil {
		return nil, err
	}

	region, err := s.From(headerChunkSize)
	if err != nil {
		return nil, err
	}

	ranges := SplitChunks(region)
	if len(ranges) == 0 && hdr.TrackCount > 0 {
		return nil, malformed(headerChunkSize, "header declares %d tracks, no track chunk found", hdr.TrackCount)
	}
	if len(ranges) != int(hdr.TrackCount) {
		treeLog.Warn("track count mismatch", zap.Uint16("declared", hdr.TrackCount), zap.Int("found", len(ranges)))
	}

	children := make([]*Node, 0, len(ranges)+1)
	children = append(children, header)

	for i, r := range ranges {
		treeLog.Debug("track chunk", zap.Int("index", i), zap.Int("offset", r.Offset), zap.Int("size", r.Length))

		track, err := buildTrack(ByteSlice{buf: buf, r: r})
		if err != nil {
			return nil, err
		}
		children = append(children, track)
	}

	root := composite(KindFile, children...)
	root.Range = s.r

	return &Tree{buf: buf, Root: root}, nil
}

func buildHeader(s ByteSlice) (*Node, Header, error) {
	var hdr Header

	if s.Len() < headerChunkSize {
		return nil, hdr, malformed(0, "header chunk needs %d bytes, file has %d", headerChunkSize, s.Len())
	}

	if marker, _ := s.Slice(0, 4); !marker.Equal(headerChunkID) {
		return nil, hdr, markerMismatch(0, headerChunkID, marker.Bytes())
	}

	size, _ := s.Uint(4, 4)
	if size != headerDataSize {
		treeLog.Warn("unexpected header size", zap.Uint32("size", size))
	}

	format, _ := s.Uint(8, 2)
	tracks, _ := s.Uint(10, 2)
	division, _ := s.Uint(12, 2)
	hdr = Header{Format: uint16(format), TrackCount: uint16(tracks), Division: uint16(division)}

	node := composite(KindHeader,
		leaf(ByteRange{Offset: 0, Length: 4}),
		leaf(ByteRange{Offset: 4, Length: 4}),
		leaf(ByteRange{Offset: 8, Length: 2}),
		leaf(ByteRange{Offset: 10, Length: 2}),
		leaf(ByteRange{Offset: 12, Length: 2}),
	)

	return node, hdr, nil
}

func checkDivision(division uint16) error {
	h := Header{Division: division}
	switch {
	case h.TimeFormat() == TimeCodeTF:
		return &DecodeError{
			Kind:   ErrUnsupportedDivision,
			Offset: 12,
			Detail: fmt.Sprintf("time code division %#04x", division),
		}
	case h.TicksPerQuarterNote() == 0:
		return &DecodeError{Kind: ErrUnsupportedDivision, Offset: 12, Detail: "zero ticks per quarter note"}
	}
	return nil
}

func buildTrack(s ByteSlice) (*Node, error) {
	if s.Len() < chunkPrefixSize {
		return nil, malformed(s.r.Offset, "track chunk needs %d bytes, %d available", chunkPrefixSize, s.Len())
	}

	if marker, _ := s.Slice(0, 4); !marker.Equal(trackChunkID) {
		return nil, markerMismatch(s.r.Offset, trackChunkID, marker.Bytes())
	}

	declared, _ := s.Uint(4, chunkLengthWidth)
	body, _ := s.From(chunkPrefixSize)
	if uint64(declared) != uint64(body.Len()) {
		return nil, malformed(s.r.Offset+4, "track chunk declares %d bytes, contains %d", declared, body.Len())
	}

	children := []*Node{
		leaf(ByteRange{Offset: s.r.Offset, Length: 4}),
		leaf(ByteRange{Offset: s.r.Offset + 4, Length: chunkLengthWidth}),
	}

	for off := 0; off < body.Len(); {
		event, n, err := buildTrackEvent(body, off)
		if err != nil {
			return nil, err
		}
		children = append(children, event)
		off += n
	}

	return composite(KindTrack, children...), nil
}

// buildTrackEvent reads the delta-time and event at off and returns the node and its size.
func buildTrackEvent(body ByteSlice, off int) (*Node, int, error) {
	rest, err := body.From(off)
	if err != nil {
		return nil, 0, err
	}

	_, dn, err := rest.VarLen(0)
	if err != nil {
		return nil, 0, err
	}
	delta := leaf(ByteRange{Offset: rest.r.Offset, Length: dn})

	es, _ := rest.From(dn)
	kind, size, err := ClassifyEvent(es)
	if err != nil {
		return nil, 0, err
	}

	if kind == SysExEvent {
		return nil, 0, &DecodeError{Kind: ErrUnsupportedEvent, Offset: es.r.Offset, Detail: "system exclusive event"}
	}

	if size > es.Len() {
		return nil, 0, malformed(es.r.Offset, "%s event of %d bytes overruns track chunk by %d", kind, size, size-es.Len())
	}
	es, _ = es.Slice(0, size)

	var event *Node
	switch kind {
	case MetaEvent:
		event = buildMeta(es)
	case ChannelEvent:
		event = buildChannel(es)
	}

	return composite(KindTrackEvent, delta, event), dn + size, nil
}

func buildMeta(s ByteSlice) *Node {
	_, n, _ := s.VarLen(2)
	o := s.r.Offset
	return composite(KindMeta,
		leaf(ByteRange{Offset: o, Length: 1}),
		leaf(ByteRange{Offset: o + 1, Length: 1}),
		leaf(ByteRange{Offset: o + 2, Length: n}),
		leaf(ByteRange{Offset: o + 2 + n, Length: s.Len() - 2 - n}),
	)
}

func buildChannel(s ByteSlice) *Node {
	o := s.r.Offset
	return composite(KindChannel,
		leaf(ByteRange{Offset: o, Length: 1}),
		leaf(ByteRange{Offset: o + 1, Length: 1}),
		leaf(ByteRange{Offset: o + 2, Length: 1}),
	)
}

// Slice returns the bytes covered by n.
func (t *Tree) Slice(n *Node) ByteSlice {
	return ByteSlice{buf: t.buf, r: n.Range}
}

func (t *Tree) uint(n *Node) uint32 {
	v, _ := t.Slice(n).Uint(0, n.Range.Length)
	return v
}

func (t *Tree) Header() Header {
	h := t.Root.First(KindHeader)
	return Header{
		Format:     uint16(t.uint(h.Children[headerFormat])),
		TrackCount: uint16(t.uint(h.Children[headerTracks])),
		Division:   uint16(t.uint(h.Children[headerDivision])),
	}
}

func (t *Tree) Tracks() []*Node {
	return t.Root.Find(KindTrack)
}

// Delta returns the delta-time of a track event node.
func (t *Tree) Delta(event *Node) uint32 {
	v, _, _ := t.Slice(event.Children[eventDelta]).VarLen(0)
	return v
}

func (t *Tree) MetaType(meta *Node) uint8 {
	return uint8(t.uint(meta.Children[metaTypeField]))
}

func (t *Tree) MetaData(meta *Node) []byte {
	return t.Slice(meta.Children[metaDataField]).Bytes()
}

// Status returns the status byte of a channel event node.
func (t *Tree) Status(ch *Node) uint8 {
	return uint8(t.uint(ch.Children[channelStatus]))
}

func (t *Tree) Data(ch *Node) (uint8, uint8) {
	return uint8(t.uint(ch.Children[channelData1])), uint8(t.uint(ch.Children[channelData2]))
}

// VelocityOffset is the absolute offset of the second data byte of a channel event node.
func (t *Tree) VelocityOffset(ch *Node) int {
	return ch.Children[channelData2].Range.Offset
}

// TrackName returns the data of the first track name meta event in track.
func (t *Tree) TrackName(track *Node) (string, bool) {
	for _, meta := range track.Find(KindMeta) {
		if t.MetaType(meta) == MetaTrackName {
			return string(t.MetaData(meta)), true
		}
	}
	return "", false
}

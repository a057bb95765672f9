package midi

import "fmt"

// Kind tags the variant of a Node.
type Kind uint8

const (
	KindFile Kind = iota + 1
	KindHeader
	KindTrack
	KindTrackEvent
	KindMeta
	KindSysEx
	KindChannel
	KindLeaf
)

var kindNames = map[Kind]string{
	KindFile:       "file",
	KindHeader:     "header",
	KindTrack:      "track",
	KindTrackEvent: "track-event",
	KindMeta:       "meta",
	KindSysEx:      "sysex",
	KindChannel:    "channel",
	KindLeaf:       "leaf",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Field positions inside composite nodes.
const (
	headerMarker = iota
	headerLength
	headerFormat
	headerTracks
	headerDivision
)

const (
	trackMarker = iota
	trackLength
	trackFirstEvent
)

const (
	eventDelta = iota
	eventBody
)

const (
	metaLeadField = iota
	metaTypeField
	metaLengthField
	metaDataField
)

const (
	channelStatus = iota
	channelData1
	channelData2
)

// Node is one element of the decoded file. Leaves own a byte range and nothing else; composite
// nodes own their children and the range spanning them.
type Node struct {
	Kind     Kind
	Range    ByteRange
	Children []*Node
}

func leaf(r ByteRange) *Node {
	return &Node{Kind: KindLeaf, Range: r}
}

func composite(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind, Children: children}
	if len(children) > 0 {
		first, last := children[0].Range, children[len(children)-1].Range
		n.Range = ByteRange{Offset: first.Offset, Length: last.End() - first.Offset}
	}
	return n
}

// Visitor receives nodes from Walk. Returning false from a method skips the node's children.
type Visitor interface {
	File(n *Node) bool
	Header(n *Node) bool
	Track(n *Node) bool
	TrackEvent(n *Node) bool
	Meta(n *Node) bool
	SysEx(n *Node) bool
	Channel(n *Node) bool
	Leaf(n *Node)
}

// Walk visits n and its descendants depth-first in document order.
func Walk(n *Node, v Visitor) {
	var descend bool
	switch n.Kind {
	case KindFile:
		descend = v.File(n)
	case KindHeader:
		descend = v.Header(n)
	case KindTrack:
		descend = v.Track(n)
	case KindTrackEvent:
		descend = v.TrackEvent(n)
	case KindMeta:
		descend = v.Meta(n)
	case KindSysEx:
		descend = v.SysEx(n)
	case KindChannel:
		descend = v.Channel(n)
	case KindLeaf:
		v.Leaf(n)
		return
	default:
		panic(fmt.Sprintf("midi: walk over unknown node %v", n.Kind))
	}

	if !descend {
		return
	}
	for _, c := range n.Children {
		Walk(c, v)
	}
}

// kindCollector gathers nodes of one kind, stopping after limit matches when limit > 0.
type kindCollector struct {
	kind  Kind
	limit int
	found []*Node
}

func (c *kindCollector) visit(n *Node) bool {
	if c.limit > 0 && len(c.found) >= c.limit {
		return false
	}
	if n.Kind == c.kind {
		c.found = append(c.found, n)
	}
	return c.limit == 0 || len(c.found) < c.limit
}

func (c *kindCollector) File(n *Node) bool { return c.visit(n) }
func (c *kindCollector) Header(n *Node) bool { return c.visit(n) }
func (c *kindCollector) Track(n *Node) bool { return c.visit(n) }
func (c *kindCollector) TrackEvent(n *Node) bool { return c.visit(n) }
func (c *kindCollector) Meta(n *Node) bool { return c.visit(n) }
func (c *kindCollector) SysEx(n *Node) bool { return c.visit(n) }
func (c *kindCollector) Channel(n *Node) bool { return c.visit(n) }
func (c *kindCollector) Leaf(n *Node) { c.visit(n) }

// Find returns every node of kind below and including n.
func (n *Node) Find(kind Kind) []*Node {
	c := &kindCollector{kind: kind}
	Walk(n, c)
	return c.found
}

// First returns the first node of kind in document order, or nil.
func (n *Node) First(kind Kind) *Node {
	c := &kindCollector{kind: kind, limit: 1}
	Walk(n, c)
	if len(c.found) == 0 {
		return nil
	}
	return c.found[0]
}

package midi

import (
	"encoding/json"
	"math/big"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// Note is a sounding pitch reconstructed from a pair of note events.
type Note struct {
	Pitch    uint8
	Channel  uint8
	Start    uint64 // absolute tick of the opening event
	Length   uint64 // ticks between the opening and closing events
	Division uint16 // ticks per quarter note
}

// Duration is the exact length in quarter notes.
func (n Note) Duration() *big.Rat {
	return new(big.Rat).SetFrac(new(big.Int).SetUint64(n.Length), big.NewInt(int64(n.Division)))
}

func (n Note) Quarters() float64 {
	return float64(n.Length) / float64(n.Division)
}

// Beat is the quarter of a 4/4 bar the note starts in, 0 to 3.
func (n Note) Beat() int {
	return quarterPosition(n.Start, n.Division)
}

func (n Note) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Pitch    uint8   `json:"pitch"`
		Start    uint64  `json:"start"`
		Duration float64 `json:"duration"`
		Beat     int     `json:"beat"`
	}{n.Pitch, n.Start, n.Quarters(), n.Beat()})
}

type command struct {
	msgType uint8
	channel uint8
	note    uint8
	tick    uint64
}

// commands lists the note on/off events of track with their absolute tick, ordered by tick.
func (t *Tree) commands(track *Node) []command {
	var tick uint64
	var cmds []command

	for _, event := range track.Children[trackFirstEvent:] {
		tick += uint64(t.Delta(event))

		body := event.Children[eventBody]
		if body.Kind != KindChannel {
			continue
		}

		status := t.Status(body)
		msgType := status >> 4
		if msgType != NoteOn && msgType != NoteOff {
			continue
		}

		note, _ := t.Data(body)
		cmds = append(cmds, command{msgType: msgType, channel: status & 0x0F, note: note, tick: tick})
	}

	slices.SortStableFunc(cmds, func(a, b command) bool {
		return a.tick < b.tick
	})

	return cmds
}

// Notes pairs the note events of track. The first event seen for a note number opens it and
// the next one for the same number closes it, whatever their message types. Note numbers are
// compared as raw data bytes. A zero division yields no notes.
func (t *Tree) Notes(track *Node, division uint16) []Note {
	if division == 0 {
		return nil
	}
	notes, _ := t.extractNotes(track, division)
	return notes
}

func (t *Tree) extractNotes(track *Node, division uint16) ([]Note, int) {
	cmds := t.commands(track)
	open := make(map[uint8]command)
	notes := make([]Note, 0, len(cmds)/2)

	for _, c := range cmds {
		o, ok := open[c.note]
		if !ok {
			open[c.note] = c
			continue
		}

		delete(open, c.note)
		notes = append(notes, Note{
			Pitch:    c.note,
			Channel:  o.channel,
			Start:    o.tick,
			Length:   c.tick - o.tick,
			Division: division,
		})
	}

	if len(open) > 0 {
		decoderLog.Debug("unpaired note events", zap.Int("count", len(open)))
	}

	return notes, len(cmds)
}

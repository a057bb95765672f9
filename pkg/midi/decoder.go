package midi

import (
	"io"
	"io/ioutil"

	"go.uber.org/zap"
)

// Track is the decoded content of one track chunk.
type Track struct {
	Name       *string `json:"name"`
	Notes      []Note  `json:"notes"`
	NoteEvents int     `json:"-"`
}

// File is the result of decoding a complete standard MIDI file.
type File struct {
	Format              uint16  `json:"format"`
	TrackCount          uint16  `json:"-"`
	TicksPerQuarterNote uint16  `json:"division"`
	Tracks              []Track `json:"tracks"`
}

// Decode decodes a complete standard MIDI file held in buf. It keeps no state between calls
// and never modifies buf.
func Decode(buf []byte) (*File, error) {
	tree, err := Build(buf)
	if err != nil {
		return nil, err
	}

	hdr := tree.Header()
	division := hdr.TicksPerQuarterNote()
	out := &File{
		Format:              hdr.Format,
		TrackCount:          hdr.TrackCount,
		TicksPerQuarterNote: division,
	}

	for i, track := range tree.Tracks() {
		var t Track
		if name, ok := tree.TrackName(track); ok {
			t.Name = &name
		}
		t.Notes, t.NoteEvents = tree.extractNotes(track, division)

		decoderLog.Debug("track", zap.Int("index", i), zap.Stringp("name", t.Name), zap.Int("notes", len(t.Notes)))
		out.Tracks = append(out.Tracks, t)
	}

	return out, nil
}

// Decoder reads a standard MIDI file from r and exposes the decoded tracks.
type Decoder struct {
	r io.Reader

	TicksPerQuarterNote uint16
	TimeFormat          TimeFormat
	Tracks              []Track
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads r to the end and decodes its content.
func (d *Decoder) Decode() error {
	buf, err := ioutil.ReadAll(d.r)
	if err != nil {
		return err
	}

	f, err := Decode(buf)
	if err != nil {
		return err
	}

	d.TicksPerQuarterNote = f.TicksPerQuarterNote
	d.TimeFormat = MetricalTF
	d.Tracks = f.Tracks

	return nil
}

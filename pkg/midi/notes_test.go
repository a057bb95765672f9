package midi

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackNotes(t *testing.T, division uint16, events ...[]byte) []Note {
	t.Helper()

	tree, err := Build(smfFile(division, trackChunk(events...)))
	require.NoError(t, err)

	tracks := tree.Tracks()
	require.Len(t, tracks, 1)
	return tree.Notes(tracks[0], division)
}

func TestNotesSinglePair(t *testing.T) {
	notes := trackNotes(t, 480, noteOn(0, 60), noteOff(480, 60), endOfTrack())

	require.Len(t, notes, 1)
	assert.Equal(t, uint8(60), notes[0].Pitch)
	assert.Equal(t, 1.0, notes[0].Quarters())
	assert.Equal(t, 0, notes[0].Duration().Cmp(big.NewRat(1, 1)))
}

func TestNotesChord(t *testing.T) {
	orders := map[string][][]byte{
		"high off first": {noteOn(0, 60), noteOn(0, 64), noteOff(240, 64), noteOff(0, 60)},
		"low off first":  {noteOn(0, 60), noteOn(0, 64), noteOff(240, 60), noteOff(0, 64)},
	}

	for name, events := range orders {
		t.Run(name, func(t *testing.T) {
			notes := trackNotes(t, 480, append(events, endOfTrack())...)

			require.Len(t, notes, 2)
			pitches := []uint8{notes[0].Pitch, notes[1].Pitch}
			assert.ElementsMatch(t, []uint8{60, 64}, pitches)
			for _, n := range notes {
				assert.Equal(t, 0.5, n.Quarters())
				assert.Equal(t, uint64(0), n.Start)
			}
		})
	}
}

func TestNotesMetaDeltaAdvancesTime(t *testing.T) {
	notes := trackNotes(t, 96,
		meta(192, 0x01, []byte("intro")),
		noteOn(0, 48),
		meta(48, 0x06, []byte("cue")),
		noteOff(48, 48),
		endOfTrack(),
	)

	require.Len(t, notes, 1)
	assert.Equal(t, uint64(192), notes[0].Start)
	assert.Equal(t, uint64(96), notes[0].Length)
	assert.Equal(t, 2, notes[0].Beat())
}

func TestNotesVelocityZeroCloses(t *testing.T) {
	notes := trackNotes(t, 480,
		noteOn(0, 67),
		ev(240, 0x90, 67, 0x00),
		endOfTrack(),
	)

	require.Len(t, notes, 1)
	assert.Equal(t, 0.5, notes[0].Quarters())
}

func TestNotesRetriggerPairsLiterally(t *testing.T) {
	// a second note on for the same pitch closes the first one
	notes := trackNotes(t, 480,
		noteOn(0, 72),
		noteOn(480, 72),
		noteOff(480, 72),
		endOfTrack(),
	)

	require.Len(t, notes, 1)
	assert.Equal(t, uint64(0), notes[0].Start)
	assert.Equal(t, 1.0, notes[0].Quarters())
}

func TestNotesPairOnRawNoteByte(t *testing.T) {
	// 0xBC and 0x3C differ only in the high bit and stay apart
	notes := trackNotes(t, 480,
		ev(0, 0x90, 0xBC, 0x40),
		ev(480, 0x80, 0x3C, 0x40),
		endOfTrack(),
	)

	assert.Empty(t, notes)
}

func TestNotesZeroDivision(t *testing.T) {
	tree, err := Build(smfFile(480, trackChunk(noteOn(0, 60), noteOff(480, 60), endOfTrack())))
	require.NoError(t, err)

	assert.Nil(t, tree.Notes(tree.Tracks()[0], 0))
}

func TestNotesIgnoreOtherChannelMessages(t *testing.T) {
	notes := trackNotes(t, 480,
		ev(0, 0xC0, 0x05, 0x00),
		ev(0, 0xB0, 0x07, 0x64),
		ev(0, 0xA0, 0x3C, 0x20),
		noteOn(0, 60),
		ev(120, 0xE0, 0x00, 0x40),
		noteOff(120, 60),
		endOfTrack(),
	)

	require.Len(t, notes, 1)
	assert.Equal(t, 0.5, notes[0].Quarters())
}

func TestNotesChannelIsKept(t *testing.T) {
	notes := trackNotes(t, 480, ev(0, 0x93, 40, 0x50), ev(480, 0x83, 40, 0x00), endOfTrack())

	require.Len(t, notes, 1)
	assert.Equal(t, uint8(3), notes[0].Channel)
}

func TestNoteJSON(t *testing.T) {
	b, err := json.Marshal(Note{Pitch: 62, Start: 1440, Length: 240, Division: 480})
	require.NoError(t, err)
	assert.JSONEq(t, `{"pitch":62,"start":1440,"duration":0.5,"beat":3}`, string(b))
}

func TestQuarterPosition(t *testing.T) {
	assert.Equal(t, 0, quarterPosition(0, 480))
	assert.Equal(t, 0, quarterPosition(479, 480))
	assert.Equal(t, 2, quarterPosition(960, 480))
	assert.Equal(t, 0, quarterPosition(1920, 480))
	assert.Equal(t, 1, quarterPosition(90+480*5, 480))
	assert.Equal(t, 0, quarterPosition(90, 0))
}

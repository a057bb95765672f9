package main

import (
	"math/rand"
	"testing"

	"github.com/Garik-/smfnotes/pkg/midi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestHumanizeRewritesVelocities(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 36, 100))
	tr.Add(480, gomidi.NoteOff(0, 36))
	tr.Add(0, gomidi.NoteOn(0, 38, 100))
	tr.Add(480, gomidi.NoteOffVelocity(0, 38, 64))
	tr.Close(0)
	buf := smfBytes(t, tr)

	h := &humanizer{
		db: velocityMap{
			36: {midi.NoteOn: {72}},
			38: {midi.NoteOn: {10, 90}, midi.NoteOff: {55}},
		},
		min: 20,
		max: 127,
		rnd: rand.New(rand.NewSource(1)),
	}

	out, changed, err := h.apply(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, changed)
	assert.Len(t, out, len(buf))

	tree, err := midi.Build(out)
	require.NoError(t, err)

	var got [][2]uint8
	for _, ch := range tree.Root.Find(midi.KindChannel) {
		_, velocity := tree.Data(ch)
		got = append(got, [2]uint8{tree.Status(ch) >> 4, velocity})
	}
	assert.Equal(t, [][2]uint8{{9, 72}, {8, 0}, {9, 90}, {8, 55}}, got)

	// the input is left alone
	f, err := midi.Decode(buf)
	require.NoError(t, err)
	assert.Len(t, f.Tracks[0].Notes, 2)
}

func TestRandVelocity(t *testing.T) {
	h := &humanizer{min: 40, max: 80, rnd: rand.New(rand.NewSource(1))}

	_, ok := h.randVelocity([]int{10, 90})
	assert.False(t, ok)

	v, ok := h.randVelocity([]int{10, 50, 90})
	assert.True(t, ok)
	assert.Equal(t, uint8(50), v)
}

package main

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// melody plays pitches one after another, a quarter note each, at 480 ticks per quarter.
func melody(name string, pitches ...uint8) smf.Track {
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(name))
	for _, p := range pitches {
		tr.Add(0, gomidi.NoteOn(0, p, 100))
		tr.Add(480, gomidi.NoteOff(0, p))
	}
	tr.Close(0)
	return tr
}

func smfBytes(t *testing.T, tracks ...smf.Track) []byte {
	t.Helper()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	for _, tr := range tracks {
		require.NoError(t, s.Add(tr))
	}

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, data, 0644))
	return path
}

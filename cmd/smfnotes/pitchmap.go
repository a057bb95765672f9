package main

import "github.com/Garik-/smfnotes/pkg/midi"

// beat -> count
type beatMap map[int]int

// pitch -> beat -> count
type pitchMap map[uint8]beatMap

// add counts every note of f by pitch and beat and returns how many notes were added.
func (m pitchMap) add(f *midi.File) int {
	n := 0
	for _, track := range f.Tracks {
		for _, note := range track.Notes {
			beats, ok := m[note.Pitch]
			if !ok {
				beats = make(beatMap)
				m[note.Pitch] = beats
			}
			beats[note.Beat()]++
			n++
		}
	}
	return n
}

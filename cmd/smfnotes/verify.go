package main

import (
	"bytes"
	"fmt"
	"io/ioutil"

	"github.com/Garik-/smfnotes/pkg/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2/smf"
)

func init() {
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Compare the decoded note events with the gomidi reader",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := ioutil.ReadFile(args[0])
		if err != nil {
			return err
		}

		report, err := verify(buf)
		if err != nil {
			return errors.Wrapf(err, "verify %s", args[0])
		}

		out := cmd.OutOrStdout()
		if report.DecodeErr != nil {
			fmt.Fprintf(out, "decode failed: %v\n", report.DecodeErr)
			fmt.Fprintf(out, "reference tracks: %d\n", report.ReferenceTracks)
			for i, n := range report.ReferenceNoteEvents {
				fmt.Fprintf(out, "track %d: reference %d note events\n", i, n)
			}
		} else {
			fmt.Fprintf(out, "tracks: %d, reference tracks: %d\n", report.Tracks, report.ReferenceTracks)
			for _, m := range report.Mismatches {
				fmt.Fprintf(out, "track %d: %d note events, reference %d\n", m.Index, m.NoteEvents, m.Reference)
			}
		}
		if !report.ok() {
			return errors.Errorf("%s: decoded content differs from the reference reader", args[0])
		}
		return nil
	},
}

type trackCheck struct {
	Index      int
	NoteEvents int
	Reference  int
}

type verifyReport struct {
	Tracks              int
	ReferenceTracks     int
	ReferenceNoteEvents []int
	Mismatches          []trackCheck
	// DecodeErr is set when this package rejected the file and only the reference has content.
	DecodeErr error
}

func (r *verifyReport) ok() bool {
	return r.DecodeErr == nil && r.Tracks == r.ReferenceTracks && len(r.Mismatches) == 0
}

// verify decodes buf with this package and with gomidi. An error is returned only when the
// reference reader can't read buf; a local decode failure is part of the report.
func verify(buf []byte) (*verifyReport, error) {
	ours, decodeErr := midi.Decode(buf)

	ref, err := readReference(buf)
	if err != nil {
		if decodeErr != nil {
			return nil, decodeErr
		}
		return nil, err
	}

	report := &verifyReport{ReferenceTracks: len(ref.Tracks), DecodeErr: decodeErr}
	for _, track := range ref.Tracks {
		report.ReferenceNoteEvents = append(report.ReferenceNoteEvents, referenceNoteEvents(track))
	}
	if decodeErr != nil {
		return report, nil
	}

	report.Tracks = len(ours.Tracks)
	for i := 0; i < len(ours.Tracks) && i < len(report.ReferenceNoteEvents); i++ {
		want := report.ReferenceNoteEvents[i]
		if got := ours.Tracks[i].NoteEvents; got != want {
			report.Mismatches = append(report.Mismatches, trackCheck{Index: i, NoteEvents: got, Reference: want})
		}
	}

	return report, nil
}

func readReference(buf []byte) (s *smf.SMF, e error) {
	// gomidi may panic on malformed input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			e = errors.Errorf("reference reader: %v", r)
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrap(err, "reference reader")
	}
	return res, nil
}

func referenceNoteEvents(track smf.Track) int {
	n := 0
	for _, event := range track {
		var channel, key, velocity uint8
		if event.Message.GetNoteOn(&channel, &key, &velocity) || event.Message.GetNoteOff(&channel, &key, &velocity) {
			n++
		}
	}
	return n
}

package main

import (
	"context"
	"io/ioutil"

	"github.com/Garik-/smfnotes/pkg/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:          "smfnotes",
	Short:        "Extract notes from standard MIDI files",
	Long:         `Decodes standard MIDI files into per-track note lists (pitch and duration in quarter notes).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(debugFlag)
		if err != nil {
			return err
		}
		enableLogging(l, debugFlag)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = rootLog.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

func decodeFile(name string) (*midi.File, error) {
	buf, err := ioutil.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	f, err := midi.Decode(buf)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", name)
	}
	return f, nil
}

func main() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}

package main

import (
	"encoding/json"

	"github.com/Garik-/smfnotes/pkg/midi"
	"github.com/spf13/cobra"
)

var prettyFlag bool

type decodedFile struct {
	Path string `json:"path"`
	*midi.File
}

func init() {
	decodeCmd.Flags().BoolVar(&prettyFlag, "pretty", false, "Indent the JSON output")
	rootCmd.AddCommand(decodeCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <file>...",
	Short: "Print the notes of every track as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		if prettyFlag {
			enc.SetIndent("", "  ")
		}

		for _, path := range args {
			f, err := decodeFile(path)
			if err != nil {
				return err
			}
			if err := enc.Encode(decodedFile{Path: path, File: f}); err != nil {
				return err
			}
		}
		return nil
	},
}

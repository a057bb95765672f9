package main

import (
	"image/color"
	"math"

	"github.com/Garik-/smfnotes/pkg/midi"
	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	outFlag    string
	widthFlag  int
	heightFlag int
)

var trackColors = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
}

func init() {
	rollCmd.Flags().StringVarP(&outFlag, "out", "o", "roll.png", "Output PNG file")
	rollCmd.Flags().IntVar(&widthFlag, "width", 1280, "Image width in pixels")
	rollCmd.Flags().IntVar(&heightFlag, "height", 480, "Image height in pixels")
	rootCmd.AddCommand(rollCmd)
}

var rollCmd = &cobra.Command{
	Use:   "roll <file>",
	Short: "Render the notes of a file as a piano roll",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if widthFlag <= 0 || heightFlag <= 0 {
			return errors.Errorf("invalid image size %dx%d", widthFlag, heightFlag)
		}

		f, err := decodeFile(args[0])
		if err != nil {
			return err
		}

		dc := renderRoll(f, widthFlag, heightFlag)
		if err := dc.SavePNG(outFlag); err != nil {
			return errors.Wrapf(err, "write %s", outFlag)
		}

		rootLog.Info("rendered", zap.String("in", args[0]), zap.String("out", outFlag))
		return nil
	},
}

// rollBounds returns the length of the piece in quarter notes and its pitch range.
func rollBounds(f *midi.File) (end float64, low, high uint8, ok bool) {
	low, high = math.MaxUint8, 0
	for _, track := range f.Tracks {
		for _, n := range track.Notes {
			ok = true
			end = math.Max(end, noteStart(n)+n.Quarters())
			if n.Pitch < low {
				low = n.Pitch
			}
			if n.Pitch > high {
				high = n.Pitch
			}
		}
	}
	return end, low, high, ok
}

func noteStart(n midi.Note) float64 {
	return float64(n.Start) / float64(n.Division)
}

func renderRoll(f *midi.File, width, height int) *gg.Context {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	end, low, high, ok := rollBounds(f)
	if !ok || end == 0 {
		return dc
	}

	xScale := float64(width) / end
	keyHeight := float64(height) / float64(int(high)-int(low)+1)

	// bar lines
	dc.SetRGBA(0, 0, 0, 0.15)
	dc.SetLineWidth(1)
	for q := 0.0; q <= end; q += 4 {
		dc.DrawLine(q*xScale, 0, q*xScale, float64(height))
		dc.Stroke()
	}

	for i, track := range f.Tracks {
		dc.SetColor(trackColors[i%len(trackColors)])
		for _, n := range track.Notes {
			x := noteStart(n) * xScale
			y := float64(high-n.Pitch) * keyHeight
			w := math.Max(1, n.Quarters()*xScale)
			dc.DrawRectangle(x, y, w, keyHeight)
			dc.Fill()
		}
	}

	return dc
}

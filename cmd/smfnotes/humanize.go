package main

import (
	"encoding/json"
	"io/ioutil"
	"math/rand"
	"time"

	"github.com/Garik-/smfnotes/pkg/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	databaseFlag string
	humanOutFlag string
	minFlag      int
	maxFlag      int
)

func init() {
	humanizeCmd.Flags().StringVarP(&databaseFlag, "db", "d", "", "The path to the database json file")
	humanizeCmd.Flags().StringVarP(&humanOutFlag, "out", "o", "", "Output midi file")
	humanizeCmd.Flags().IntVar(&minFlag, "min", 0, "Min velocity")
	humanizeCmd.Flags().IntVar(&maxFlag, "max", 127, "Max velocity")
	_ = humanizeCmd.MarkFlagRequired("db")
	_ = humanizeCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(humanizeCmd)
}

var humanizeCmd = &cobra.Command{
	Use:   "humanize <file>",
	Short: "Rewrite note velocities with values picked from a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := importDatabase(databaseFlag)
		if err != nil {
			return err
		}

		buf, err := ioutil.ReadFile(args[0])
		if err != nil {
			return err
		}

		h := &humanizer{
			db:  data,
			min: minFlag,
			max: maxFlag,
			rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		}
		out, changed, err := h.apply(buf)
		if err != nil {
			return errors.Wrapf(err, "humanize %s", args[0])
		}

		rootLog.Info("humanized", zap.String("in", args[0]), zap.Int("changed", changed))
		return ioutil.WriteFile(humanOutFlag, out, 0644)
	},
}

// note -> message type -> velocities
type velocityMap map[uint8]map[uint8][]int

func importDatabase(name string) (velocityMap, error) {
	b, err := ioutil.ReadFile(name)
	if err != nil {
		return nil, err
	}

	var data velocityMap
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, errors.Wrapf(err, "parse %s", name)
	}
	return data, nil
}

type humanizer struct {
	db       velocityMap
	min, max int
	rnd      *rand.Rand
}

// randVelocity picks one of velocities inside (min, max), reporting false when none fits.
func (h *humanizer) randVelocity(velocities []int) (uint8, bool) {
	var fit []int
	for _, v := range velocities {
		if v > h.min && v < h.max && v > 0 && v <= 127 {
			fit = append(fit, v)
		}
	}
	if len(fit) == 0 {
		return 0, false
	}
	return uint8(fit[h.rnd.Intn(len(fit))]), true
}

// apply returns a copy of buf with the velocity of every sounding note event replaced.
func (h *humanizer) apply(buf []byte) ([]byte, int, error) {
	tree, err := midi.Build(buf)
	if err != nil {
		return nil, 0, err
	}

	out := append([]byte(nil), buf...)
	changed := 0

	for _, ch := range tree.Root.Find(midi.KindChannel) {
		msgType := tree.Status(ch) >> 4
		if msgType != midi.NoteOn && msgType != midi.NoteOff {
			continue
		}

		note, velocity := tree.Data(ch)
		if velocity == 0 {
			continue
		}

		v, ok := h.randVelocity(h.db[note][msgType])
		if !ok {
			continue
		}
		out[tree.VelocityOffset(ch)] = v
		changed++
	}

	return out, changed, nil
}

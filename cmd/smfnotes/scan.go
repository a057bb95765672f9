package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/Garik-/smfnotes/pkg/midi"
	"github.com/bep/debounce"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	maxGoroutines = 10
)

var (
	listFlag     string
	workersFlag  int
	failFastFlag bool
)

func init() {
	scanCmd.Flags().StringVarP(&listFlag, "list", "l", "", "The path to the list of midi files,\nfind . -type f -name \"*.mid\" > midi_list.txt")
	scanCmd.Flags().IntVarP(&workersFlag, "workers", "p", maxGoroutines, "Number of files processed in parallel, must be > 0")
	scanCmd.Flags().BoolVar(&failFastFlag, "fail-fast", false, "Stop at the first file that fails to decode")
	_ = scanCmd.MarkFlagRequired("list")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Decode a list of files in parallel and report a pitch histogram",
	RunE: func(cmd *cobra.Command, args []string) error {
		if workersFlag <= 0 {
			return errors.Errorf("invalid number of workers %d", workersFlag)
		}

		f, err := os.Open(listFlag)
		if err != nil {
			return err
		}
		defer f.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		report, err := newScanReport(ctx, readList(ctx, f), workersFlag, failFastFlag)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

type result struct {
	name string
	file *midi.File
	err  error
}

func decodeResult(name string) *result {
	f, err := decodeFile(name)
	return &result{name: name, file: f, err: err}
}

func readList(ctx context.Context, r io.Reader) <-chan string {
	out := make(chan string)

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)

	go func() {
		defer close(out)
		for scanner.Scan() {
			if scanner.Text() == "" {
				continue
			}
			select {
			case out <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			scanLog.Error("read list", zap.Error(err))
		}
	}()

	return out
}

func decodeWorker(ctx context.Context, paths <-chan string, cntRoutines int) (<-chan *result, <-chan struct{}) {
	log := scanLog.Named("decodeWorker")
	out := make(chan *result)
	done := make(chan struct{}, 1)

	go func() {
		var wg sync.WaitGroup
		goroutines := make(chan struct{}, cntRoutines)

	loop:
		for path := range paths {
			select {
			case goroutines <- struct{}{}:
			case <-ctx.Done():
				log.Debug("context done")
				break loop
			}
			wg.Add(1)
			go func(ctx context.Context, path string, goroutines <-chan struct{}, out chan<- *result, wg *sync.WaitGroup) {
				defer wg.Done()

				select {
				case out <- decodeResult(path):
				case <-ctx.Done():
					log.Debug("decodeFile context done", zap.String("path", path))
				}
				<-goroutines

			}(ctx, path, goroutines, out, &wg)
		}

		wg.Wait()
		close(goroutines)
		close(out)

		done <- struct{}{}
		close(done)
	}()

	return out, done
}

type scanReport struct {
	Files   int               `json:"files"`
	Notes   int               `json:"notes"`
	Failed  map[string]string `json:"failed,omitempty"`
	Pitches pitchMap          `json:"pitches"`
}

func newScanReport(parent context.Context, paths <-chan string, cntRoutines int, failFast bool) (*scanReport, error) {
	log := scanLog.Named("newScanReport")
	ctx, cancel := context.WithCancel(parent)
	results, done := decodeWorker(ctx, paths, cntRoutines)

	defer func() {
		log.Debug("cancel")
		cancel()
		for range results {
			// drain so the workers can exit
		}
		<-done // wait decodeWorker closed
	}()

	progress := debounce.New(500 * time.Millisecond)
	report := &scanReport{Pitches: make(pitchMap)}

	for result := range results {
		report.Files++
		files := report.Files
		progress(func() {
			log.Info("progress", zap.Int("files", files))
		})

		if result.err != nil {
			if failFast {
				return nil, result.err
			}
			log.Warn("skip", zap.String("name", result.name), zap.Error(result.err))
			if report.Failed == nil {
				report.Failed = make(map[string]string)
			}
			report.Failed[result.name] = result.err.Error()
			continue
		}

		log.Debug("result", zap.String("name", result.name), zap.Int("tracks", len(result.file.Tracks)))
		report.Notes += report.Pitches.add(result.file)
	}

	return report, nil
}

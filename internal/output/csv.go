// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output appends trait rows to per-experiment CSV files. Several
// extractor containers can share one output volume, so opening the file
// retries with a jittered backoff instead of failing outright.
package output

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/cct-datascience/drone-pipeline/internal/traits"
)

const (
	// maxOpenTries is how many times to attempt opening the CSV file.
	maxOpenTries = 10

	// maxOpenSleep caps a single wait between open attempts.
	maxOpenSleep = 30 * time.Second
)

// Writer appends rows to CSV files. The zero value is not usable; call
// NewWriter.
type Writer struct {
	maxTries int
	sleep    func(time.Duration)
	random   func() float64
}

// NewWriter returns a Writer with production retry behavior.
func NewWriter() *Writer {
	return &Writer{
		maxTries: maxOpenTries,
		sleep:    time.Sleep,
		random:   rand.Float64,
	}
}

// nextBackoff returns how long to wait before the next open attempt. The
// first wait (prev == 0) is a deterministic one second; afterwards the
// wait scales the previous one by a random factor, capped near
// maxOpenSleep.
func (w *Writer) nextBackoff(prev time.Duration) time.Duration {
	if prev == 0 {
		return time.Second
	}

	multiplier := w.random()
	sleep := math.Trunc(prev.Seconds()*multiplier*100) / 10.0
	if sleep > maxOpenSleep.Seconds() {
		sleep = math.Max(0.1, math.Trunc(multiplier*100)/10)
	}
	return time.Duration(sleep * float64(time.Second))
}

// Append opens path for appending, writing header first when the file is
// empty, then row. Open failures back off and retry; running out of tries
// is an error. Backoff waits are noted on log.
func (w *Writer) Append(path, header, row string, log io.Writer) error {
	if path == "" || row == "" {
		return fmt.Errorf("empty path or row passed to CSV writer")
	}

	var file *os.File
	var lastErr error
	backoff := time.Duration(0)
	for try := 0; try < w.maxTries; try++ {
		file, lastErr = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if lastErr == nil {
			break
		}
		if try < w.maxTries-1 {
			backoff = w.nextBackoff(backoff)
			fmt.Fprintf(log, "waiting %v before trying to open CSV file again\n", backoff)
			w.sleep(backoff)
		}
	}
	if lastErr != nil {
		return fmt.Errorf("opening CSV file %s: %w", path, lastErr)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("checking CSV file %s: %w", path, err)
	}
	if stat.Size() == 0 && header != "" {
		if _, err := fmt.Fprintln(file, header); err != nil {
			return fmt.Errorf("writing CSV header to %s: %w", path, err)
		}
	}
	if _, err := fmt.Fprintln(file, row); err != nil {
		return fmt.Errorf("writing CSV row to %s: %w", path, err)
	}
	return nil
}

// CSVPath returns the traits CSV path for an experiment and sensor,
// alongside the image that produced the values.
func CSVPath(imagePath, experiment, sensor string) string {
	name := traits.PathSafe(experiment) + "_" + sensor + ".csv"
	return filepath.Join(filepath.Dir(imagePath), name)
}

// MetadataPath returns the sidecar metadata path matching a traits CSV.
func MetadataPath(csvPath string) string {
	ext := filepath.Ext(csvPath)
	return csvPath[:len(csvPath)-len(ext)] + ".json"
}

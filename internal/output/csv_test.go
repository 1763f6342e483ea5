// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_HeaderOnlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exp_sensor.csv")
	w := NewWriter()
	var log bytes.Buffer

	require.NoError(t, w.Append(path, "a,b", "1,2", &log))
	require.NoError(t, w.Append(path, "a,b", "3,4", &log))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(data))
	assert.Empty(t, log.String())
}

func TestAppend_NoHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := NewWriter()

	require.NoError(t, w.Append(path, "", "1,2", os.Stderr))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,2\n", string(data))
}

func TestAppend_EmptyArguments(t *testing.T) {
	w := NewWriter()
	assert.Error(t, w.Append("", "h", "r", os.Stderr))
	assert.Error(t, w.Append("x.csv", "h", "", os.Stderr))
}

func TestAppend_RetriesThenFails(t *testing.T) {
	// A path whose parent does not exist never opens.
	path := filepath.Join(t.TempDir(), "missing", "out.csv")

	var waits []time.Duration
	w := &Writer{
		maxTries: 3,
		sleep:    func(d time.Duration) { waits = append(waits, d) },
		random:   func() float64 { return 0.5 },
	}

	var log bytes.Buffer
	err := w.Append(path, "h", "r", &log)
	require.Error(t, err)
	// maxTries-1 waits, first one the deterministic second.
	require.Len(t, waits, 2)
	assert.Equal(t, time.Second, waits[0])
	assert.Contains(t, log.String(), "trying to open CSV file again")
}

func TestNextBackoff(t *testing.T) {
	w := &Writer{random: func() float64 { return 0.5 }}

	first := w.nextBackoff(0)
	assert.Equal(t, time.Second, first)

	// 1s * 0.5 * 100 truncated / 10 = 5s.
	second := w.nextBackoff(first)
	assert.Equal(t, 5*time.Second, second)

	// Oversized previous waits fall back under the cap.
	capped := w.nextBackoff(120 * time.Second)
	assert.LessOrEqual(t, capped, maxOpenSleep)
	assert.Greater(t, capped, time.Duration(0))
}

func TestCSVPath(t *testing.T) {
	got := CSVPath("/data/flight1/plot.tif", "Season 9: Field(2)", "greenness")
	assert.Equal(t, "/data/flight1/Season_9__Field_2__greenness.csv", got)
}

func TestMetadataPath(t *testing.T) {
	assert.Equal(t, "/data/exp_sensor.json", MetadataPath("/data/exp_sensor.csv"))
}

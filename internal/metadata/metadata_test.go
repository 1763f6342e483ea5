// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMerge_LaterFilesWin(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `{"flight": "f1", "camera": "rgb"}`)
	b := writeFile(t, dir, "b.json", `{"camera": "nir", "altitude": 30}`)

	var warnings bytes.Buffer
	merged := Merge([]string{a, b}, &warnings)

	assert.Equal(t, "f1", merged["flight"])
	assert.Equal(t, "nir", merged["camera"])
	assert.Equal(t, float64(30), merged["altitude"])
	assert.Empty(t, warnings.String())
}

func TestMerge_SkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"flight": "f1"}`)
	bad := writeFile(t, dir, "bad.json", `{not json`)
	missing := filepath.Join(dir, "missing.json")

	var warnings bytes.Buffer
	merged := Merge([]string{good, bad, missing}, &warnings)

	assert.Equal(t, map[string]any{"flight": "f1"}, merged)
	assert.Contains(t, warnings.String(), "bad.json")
	assert.Contains(t, warnings.String(), "missing.json")
}

func TestMerge_NoFiles(t *testing.T) {
	var warnings bytes.Buffer
	assert.Empty(t, Merge(nil, &warnings))
}

func TestWrite_MergesSensorSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	loaded := map[string]any{"flight": "f1"}
	section := NewSensorSection("Calculated greenness value.", "127.5000", "plot.tif")

	require.NoError(t, Write(path, "greenness", section, loaded))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "f1", doc["flight"])

	sensor, ok := doc["greenness"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "127.5000", sensor["calculated_value"])
	assert.Equal(t, "plot.tif", sensor["file"])
	assert.NotEmpty(t, sensor["timestamp"])

	// Four-space indent, like the registration record.
	assert.Contains(t, string(data), "\n    \"flight\"")
}

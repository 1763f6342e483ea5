// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata loads, merges, and writes the JSON sidecar files that
// accompany plot imagery.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Merge loads every JSON file in paths into a single document. Later files
// overwrite keys from earlier ones. Unparseable or unreadable files warn
// on w and are skipped; loading nothing is not an error.
func Merge(paths []string, w io.Writer) map[string]any {
	merged := map[string]any{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "warning: unable to read metadata file %s: %v\n", path, err)
			continue
		}
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			fmt.Fprintf(w, "warning: unable to parse metadata file %s: %v\n", path, err)
			continue
		}
		for key, value := range doc {
			merged[key] = value
		}
	}
	return merged
}

// SensorSection is the record a processing run adds to the plot metadata
// under the sensor's name.
type SensorSection struct {
	Comment         string `json:"comment"`
	CalculatedValue any    `json:"calculated_value"`
	Timestamp       string `json:"timestamp"`
	File            string `json:"file"`
}

// NewSensorSection builds the metadata record for a computed value.
func NewSensorSection(comment string, value any, imageFile string) SensorSection {
	return SensorSection{
		Comment:         comment,
		CalculatedValue: value,
		Timestamp:       time.Now().Format(time.RFC3339),
		File:            imageFile,
	}
}

// Write merges the sensor section into the loaded metadata under
// sensorName and writes the document to path with four-space indentation.
func Write(path, sensorName string, section SensorSection, loaded map[string]any) error {
	doc := map[string]any{}
	for key, value := range loaded {
		doc[key] = value
	}
	doc[sensorName] = section

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing metadata %s: %w", path, err)
	}
	return nil
}

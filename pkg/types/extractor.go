// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Citation identifies the publication an extractor's method comes from.
// The values end up as citation_* columns in every trait row.
type Citation struct {
	Author string `json:"author" yaml:"author"`
	Title  string `json:"title" yaml:"title"`
	Year   string `json:"year" yaml:"year"`
}

// Author identifies the person maintaining an extractor.
type Author struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// ExtractorConfig is the on-disk record (extractor.yaml) describing one
// plot-level extractor. It drives registration metadata and Dockerfile
// generation as well as the trait rows written during processing.
type ExtractorConfig struct {
	// Name is the human-readable extractor name (e.g. "Canopy Cover").
	Name string `json:"name" yaml:"name"`

	// Method optionally names the scientific method the algorithm implements.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// Version is the extractor version string.
	Version string `json:"version" yaml:"version"`

	// Description is a one-line summary for the registration record.
	Description string `json:"description" yaml:"description"`

	// Author is the extractor maintainer.
	Author Author `json:"author" yaml:"author"`

	// Repository is the URI of the extractor's source repository.
	Repository string `json:"repository" yaml:"repository"`

	// Variables lists the output field names the algorithm produces, in
	// order. When empty, a single field named after the sensor is assumed.
	Variables []string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Citation feeds the citation_* trait columns.
	Citation Citation `json:"citation,omitempty" yaml:"citation,omitempty"`

	// NeverWriteBETYdb disables trait uploads for this extractor.
	NeverWriteBETYdb bool `json:"never_write_betydb,omitempty" yaml:"never_write_betydb,omitempty"`

	// NeverWriteCSV disables CSV output for this extractor.
	NeverWriteCSV bool `json:"never_write_csv,omitempty" yaml:"never_write_csv,omitempty"`
}

// SensorName derives the sensor identifier from the extractor name: trimmed,
// internal whitespace replaced with underscores, lowercased.
func (c ExtractorConfig) SensorName() string {
	name := strings.TrimSpace(c.Name)
	for _, ws := range []string{" ", "\t", "\n", "\r"} {
		name = strings.ReplaceAll(name, ws, "_")
	}
	return strings.ToLower(name)
}

// QueueName returns the message queue the extractor's container listens on.
func (c ExtractorConfig) QueueName() string {
	return "terra.dronepipeline." + c.SensorName()
}

// FieldNames returns the configured output field names, defaulting to a
// single field named after the sensor.
func (c ExtractorConfig) FieldNames() []string {
	if len(c.Variables) == 0 {
		return []string{c.SensorName()}
	}
	return c.Variables
}

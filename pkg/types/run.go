// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunRecord is one produced value from a plot-level processing run, as stored
// in the run-history database. A run that produces several output fields
// yields one record per field.
type RunRecord struct {
	// ID is a generated UUID for the record.
	ID string `json:"id" yaml:"id"`

	// Extractor is the sensor name of the extractor that produced the value.
	Extractor string `json:"extractor" yaml:"extractor"`

	// Plot is the plot (site) the value was computed for.
	Plot string `json:"plot" yaml:"plot"`

	// Experiment is the experiment name supplied for the run.
	Experiment string `json:"experiment" yaml:"experiment"`

	// Germplasm is the species/germplasm name supplied for the run.
	Germplasm string `json:"germplasm" yaml:"germplasm"`

	// LocalDatetime is the site-local capture time of the imagery.
	LocalDatetime string `json:"local_datetime" yaml:"local_datetime"`

	// Field is the output field name the value belongs to.
	Field string `json:"field" yaml:"field"`

	// Value is the computed value, already formatted as text.
	Value string `json:"value" yaml:"value"`

	// CSVPath is the traits CSV file the value was appended to, if any.
	CSVPath string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`

	// CreatedAt is when the record was stored.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

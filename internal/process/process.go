// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package process orchestrates a plot-level extraction run: discover the
// files, run the algorithm over the plot imagery, and fan the values out
// to CSV, sidecar metadata, BETYdb, and the run history.
package process

import (
	"context"
	"fmt"
	"io"

	"github.com/cct-datascience/drone-pipeline/internal/extractor"
	"github.com/cct-datascience/drone-pipeline/internal/imagery"
	"github.com/cct-datascience/drone-pipeline/internal/metadata"
	"github.com/cct-datascience/drone-pipeline/internal/output"
	"github.com/cct-datascience/drone-pipeline/internal/traits"
	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

// Uploader sends trait rows to BETYdb. *betydb.Client satisfies this; a
// nil Uploader skips uploads.
type Uploader interface {
	UploadTraits(ctx context.Context, header string, rows []string, log io.Writer) ([]int64, error)
}

// Recorder stores run records. *results.Store satisfies this; a nil
// Recorder skips run history.
type Recorder interface {
	Insert(rec *types.RunRecord) error
}

// Run identifies one plot-level extraction: what was surveyed, when, and
// which files to work on.
type Run struct {
	// Germplasm is the species/germplasm name for the plot.
	Germplasm string

	// Experiment is the experiment name; it becomes part of the CSV
	// filename.
	Experiment string

	// Timestamp is the ISO-8601 capture time of the imagery.
	Timestamp string

	// PlotName is the plot being processed. When empty it is derived
	// from dataset names in the sidecar metadata.
	PlotName string

	// Paths are the image files, metadata files, and folders to process.
	Paths []string
}

// Processor wires an algorithm to its outputs.
type Processor struct {
	Config    *types.ExtractorConfig
	Algorithm extractor.Algorithm
	CSV       *output.Writer
	Uploader  Uploader
	Recorder  Recorder

	// Include optionally narrows which image files are picked up.
	Include string
}

// Result summarizes one run.
type Result struct {
	// Values holds the computed field values in field order.
	Values []string

	// CSVPath is the traits CSV written to, when CSV output is enabled.
	CSVPath string

	// TraitIDs are the BETYdb IDs of uploaded traits, when uploading.
	TraitIDs []int64

	// Skipped counts valid images beyond the first, which are not
	// processed.
	Skipped int
}

// Execute performs the run, writing progress and warnings to log.
func (p *Processor) Execute(ctx context.Context, run Run, log io.Writer) (*Result, error) {
	if run.Germplasm == "" || run.Experiment == "" || run.Timestamp == "" {
		return nil, fmt.Errorf("a germplasm name, experiment name, and timestamp must be specified")
	}

	found, err := imagery.Discover(run.Paths, p.Include)
	if err != nil {
		return nil, err
	}
	for _, path := range found.Unavailable {
		fmt.Fprintf(log, "warning: unable to access %s\n", path)
	}
	if len(found.Images) == 0 {
		return nil, fmt.Errorf("image files must be specified")
	}

	meta := metadata.Merge(found.Metadata, log)
	localTime := traits.LocalTime(run.Timestamp)

	plotName := run.PlotName
	if plotName == "" {
		plotName = traits.PlotName(datasetNames(meta))
	}
	if plotName == "" {
		return nil, fmt.Errorf("a plot name must be specified or derivable from metadata")
	}

	sensor := p.Config.SensorName()
	fields := p.Config.FieldNames()

	table := traits.NewTable(p.Config)
	table.Set("species", run.Germplasm)
	table.Set("site", plotName)
	table.Set("local_datetime", localTime)

	// Compute values from the first image that decodes and calculates
	// cleanly; the remaining valid images are noted and skipped.
	var values []string
	var usedImage string
	for _, image := range found.Images {
		vals, err := p.calculateOne(image, fields)
		if err != nil {
			fmt.Fprintf(log, "error generating %s for %s: %v\n", sensor, plotName, err)
			continue
		}
		values = vals
		usedImage = image
		break
	}
	if usedImage == "" {
		return nil, fmt.Errorf("no image produced a value for plot %s", plotName)
	}
	if len(found.Images) > 1 {
		fmt.Fprintf(log, "multiple image files were found, only using first processed\n")
	}

	for i, field := range fields {
		table.Set(field, values[i])
	}
	row := table.Row()

	result := &Result{
		Values:  values,
		Skipped: len(found.Images) - 1,
	}

	if !p.Config.NeverWriteCSV {
		result.CSVPath = output.CSVPath(usedImage, run.Experiment, sensor)
		fmt.Fprintf(log, "writing CSV to %s\n", result.CSVPath)
		if err := p.CSV.Append(result.CSVPath, table.Header(), row, log); err != nil {
			return nil, err
		}

		section := metadata.NewSensorSection(p.comment(), values, usedImage)
		metaPath := output.MetadataPath(result.CSVPath)
		fmt.Fprintf(log, "writing metadata to %s\n", metaPath)
		if err := metadata.Write(metaPath, sensor, section, meta); err != nil {
			fmt.Fprintf(log, "warning: unable to update metadata: %v\n", err)
		}
	}

	if p.Uploader != nil && !p.Config.NeverWriteBETYdb {
		ids, err := p.Uploader.UploadTraits(ctx, table.Header(), []string{row}, log)
		if err != nil {
			return nil, fmt.Errorf("submitting traits to BETYdb: %w", err)
		}
		result.TraitIDs = ids
	}

	if p.Recorder != nil {
		for i, field := range fields {
			rec := &types.RunRecord{
				Extractor:     sensor,
				Plot:          plotName,
				Experiment:    run.Experiment,
				Germplasm:     run.Germplasm,
				LocalDatetime: localTime,
				Field:         field,
				Value:         values[i],
				CSVPath:       result.CSVPath,
			}
			if err := p.Recorder.Insert(rec); err != nil {
				fmt.Fprintf(log, "warning: unable to record run: %v\n", err)
			}
		}
	}

	return result, nil
}

// calculateOne decodes one image and runs the algorithm over it.
func (p *Processor) calculateOne(image string, fields []string) ([]string, error) {
	grid, err := imagery.Load(image)
	if err != nil {
		return nil, err
	}
	value, err := p.Algorithm.Calculate(grid)
	if err != nil {
		return nil, err
	}
	return value.Expand(fields)
}

// comment describes what the run did, for the metadata record.
func (p *Processor) comment() string {
	c := "Calculated " + p.Config.SensorName() + " value"
	if !p.Config.NeverWriteCSV {
		c += ", and wrote values to CSV file"
	}
	if p.Uploader != nil && !p.Config.NeverWriteBETYdb {
		c += ", and wrote values to BETYdb"
	}
	return c + "."
}

// datasetNames pulls candidate dataset names out of merged metadata, where
// the plot naming convention may appear.
func datasetNames(meta map[string]any) []string {
	var names []string
	switch v := meta["dataset"].(type) {
	case string:
		names = append(names, v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
	}
	if s, ok := meta["dataset_name"].(string); ok {
		names = append(names, s)
	}
	return names
}

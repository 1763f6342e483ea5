// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package traits assembles the trait rows a processing run emits: the
// BETYdb column set, per-extractor defaults, and the helpers that derive
// plot names and site-local timestamps.
package traits

import (
	"strings"

	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

// baseFields are the BETYdb columns every extractor writes, in column
// order, ahead of the extractor's own output fields.
var baseFields = []string{
	"local_datetime",
	"access_level",
	"species",
	"site",
	"citation_author",
	"citation_year",
	"citation_title",
	"method",
}

// GeoFields is the column set for geostreams-style output.
var GeoFields = []string{"site", "trait", "lat", "lon", "dp_time", "source", "value", "timestamp"}

// Table holds the field order and current values for one run's trait rows.
type Table struct {
	Fields []string
	values map[string]string
}

// NewTable builds a trait table for cfg: the base BETYdb columns followed
// by the extractor's output fields, with defaults filled from the
// configuration.
func NewTable(cfg *types.ExtractorConfig) *Table {
	fields := append([]string{}, baseFields...)
	fields = append(fields, cfg.FieldNames()...)

	t := &Table{
		Fields: fields,
		values: map[string]string{
			"access_level":    "2",
			"species":         "Unknown",
			"citation_author": "Unknown",
			"citation_year":   "Unknown",
			"citation_title":  "Unknown",
		},
	}
	if cfg.Citation.Author != "" {
		t.values["citation_author"] = cfg.Citation.Author
	}
	if cfg.Citation.Year != "" {
		t.values["citation_year"] = cfg.Citation.Year
	}
	if cfg.Citation.Title != "" {
		t.values["citation_title"] = cfg.Citation.Title
	}
	if cfg.Method != "" {
		t.values["method"] = cfg.Method
	}
	return t
}

// Set assigns a field value for subsequent rows.
func (t *Table) Set(field, value string) {
	t.values[field] = value
}

// Header returns the CSV header line.
func (t *Table) Header() string {
	return strings.Join(t.Fields, ",")
}

// Row returns the current values as a CSV line in field order. Unset
// fields render as empty columns.
func (t *Table) Row() string {
	cols := make([]string, len(t.Fields))
	for i, field := range t.Fields {
		cols[i] = t.values[field]
	}
	return strings.Join(cols, ",")
}

const (
	plotSignature = "by plot"
	plotSeparator = " - "
)

// PlotName scans dataset names for the plot naming convention: a name
// containing "By Plot" carries the plot name between " - " separators.
// The plot name is returned with its original casing, or "" when no name
// matches. The original name is split directly; lowercasing can change a
// name's byte length, so only the case-insensitive signature check uses
// the lowered copy.
func PlotName(names []string) string {
	for _, name := range names {
		if !strings.Contains(strings.ToLower(name), plotSignature) {
			continue
		}
		parts := strings.Split(name, plotSeparator)
		if len(parts) < 2 {
			continue
		}
		return parts[1]
	}
	return ""
}

// LocalTime normalizes an ISO-8601 timestamp to site-local form. A date
// without a time component gets T12:00:00 appended; a trailing negative
// UTC offset is stripped, since site definitions already carry their time
// offsets.
func LocalTime(timestamp string) string {
	if !strings.Contains(timestamp, "T") {
		timestamp += "T12:00:00"
	}
	tPos := strings.Index(timestamp, "T")
	dashPos := strings.LastIndex(timestamp, "-")
	if tPos > 0 && dashPos > tPos {
		return timestamp[:dashPos]
	}
	return timestamp
}

// pathUnsafe lists the characters PathSafe replaces with underscores.
const pathUnsafe = " :;.,/\\'\"(){}"

// PathSafe converts a free-form name (an experiment name, typically) into
// a string usable inside a filename.
func PathSafe(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(pathUnsafe, r) {
			return '_'
		}
		return r
	}, name)
}

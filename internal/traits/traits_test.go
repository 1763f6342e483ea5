// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package traits

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

func TestNewTable_FieldsAndDefaults(t *testing.T) {
	cfg := &types.ExtractorConfig{
		Name:      "Canopy Cover",
		Method:    "visible fraction",
		Variables: []string{"canopy_cover"},
		Citation: types.Citation{
			Author: "Doe et al.",
			Title:  "Canopy cover from RGB imagery",
			Year:   "2024",
		},
	}

	table := NewTable(cfg)
	assert.Equal(t,
		"local_datetime,access_level,species,site,citation_author,citation_year,citation_title,method,canopy_cover",
		table.Header())

	cols := strings.Split(table.Row(), ",")
	assert.Equal(t, "", cols[0])               // local_datetime unset
	assert.Equal(t, "2", cols[1])              // access_level default
	assert.Equal(t, "Unknown", cols[2])        // species until germplasm set
	assert.Equal(t, "Doe et al.", cols[4])     // citation_author
	assert.Equal(t, "2024", cols[5])           // citation_year
	assert.Equal(t, "visible fraction", cols[7])
}

func TestNewTable_UnknownCitationDefaults(t *testing.T) {
	table := NewTable(&types.ExtractorConfig{Name: "Greenness"})
	cols := strings.Split(table.Row(), ",")
	assert.Equal(t, "Unknown", cols[4])
	assert.Equal(t, "Unknown", cols[5])
	assert.Equal(t, "Unknown", cols[6])
	assert.Equal(t, "", cols[7]) // no method configured
	// Output field defaults to the sensor name.
	assert.True(t, strings.HasSuffix(table.Header(), ",greenness"))
}

func TestTable_SetAndRow(t *testing.T) {
	table := NewTable(&types.ExtractorConfig{Name: "Greenness"})
	table.Set("species", "Sorghum bicolor")
	table.Set("site", "Plot 12")
	table.Set("greenness", "127.5000")

	row := table.Row()
	assert.Contains(t, row, "Sorghum bicolor")
	assert.Contains(t, row, "Plot 12")
	assert.True(t, strings.HasSuffix(row, ",127.5000"))
}

func TestPlotName(t *testing.T) {
	names := []string{
		"Season 9 full field",
		"Scan By Plot - Field 2 Plot 108 - 2024-05-01",
	}
	assert.Equal(t, "Field 2 Plot 108", PlotName(names))

	assert.Equal(t, "", PlotName([]string{"no signature here"}))
	assert.Equal(t, "", PlotName(nil))
	assert.Equal(t, "", PlotName([]string{"by plot without separator"}))
}

func TestPlotName_CaseFoldLengthChange(t *testing.T) {
	// "Ⱥ" (U+023A) lowercases to "ⱥ" (U+2C65), which is one byte longer in
	// UTF-8; the plot name must still come back intact.
	names := []string{"Ⱥ Scan By Plot - Field 2 Plot 108 - 2024-05-01"}
	assert.Equal(t, "Field 2 Plot 108", PlotName(names))
}

func TestLocalTime(t *testing.T) {
	// Date only: noon appended.
	assert.Equal(t, "2024-05-01T12:00:00", LocalTime("2024-05-01"))
	// Trailing offset stripped.
	assert.Equal(t, "2024-05-01T14:30:00", LocalTime("2024-05-01T14:30:00-07:00"))
	// No offset: unchanged.
	assert.Equal(t, "2024-05-01T14:30:00", LocalTime("2024-05-01T14:30:00"))
}

func TestPathSafe(t *testing.T) {
	assert.Equal(t, "Season_9__Field_2_", PathSafe("Season 9: Field(2)"))
	assert.Equal(t, "plain", PathSafe("plain"))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads and validates the extractor.yaml record that
// describes a plot-level extractor.
package config

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

// DefaultFile is the extractor configuration filename looked for in the
// working directory.
const DefaultFile = "extractor.yaml"

// Load reads an ExtractorConfig from path. Missing version defaults to "1.0".
func Load(path string) (*types.ExtractorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading extractor config %s: %w", path, err)
	}

	var cfg types.ExtractorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing extractor config %s: %w", path, err)
	}
	if cfg.Version == "" {
		cfg.Version = "1.0"
	}
	return &cfg, nil
}

// Validate checks that every field required for registration is set. All
// missing fields are reported in a single error so the author can fix the
// file in one pass.
func Validate(cfg *types.ExtractorConfig) error {
	var missing []string
	if cfg.Name == "" {
		missing = append(missing, "extractor name")
	}
	if cfg.Version == "" {
		missing = append(missing, "extractor version")
	}
	if cfg.Description == "" {
		missing = append(missing, "extractor description")
	}
	if cfg.Author.Name == "" {
		missing = append(missing, "author name")
	}
	if cfg.Author.Email == "" {
		missing = append(missing, "author email")
	}
	if cfg.Repository == "" {
		missing = append(missing, "repository")
	}
	if len(missing) > 0 {
		return fmt.Errorf("one or more fields aren't defined in the extractor configuration: %s",
			strings.Join(missing, ", "))
	}
	return nil
}

// template is the commented starting point written by `drone-pipeline init`.
const template = `# Extractor configuration. Fill in every field before running
# "drone-pipeline generate".

# The name of the extractor (e.g. "Canopy Cover").
name: ""

# Name of the scientific method for this extractor. Remove if unknown.
#method: ""

# The version number of the extractor.
version: "1.0"

# A one-line description of what the extractor computes.
description: ""

# The extractor maintainer.
author:
  name: ""
  email: ""

# Repository URI for the extractor source.
repository: ""

# Output field names, in the order the algorithm returns them. When omitted,
# a single field named after the sensor is assumed.
#variables:
#  - canopy_cover

# Citation for the method; written to every trait row.
citation:
  author: ""
  title: ""
  year: ""
`

// WriteTemplate writes the starter extractor.yaml to path. It refuses to
// overwrite an existing file.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, not overwriting", path)
	}
	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

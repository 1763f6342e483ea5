// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scaffold renders the registration and build artifacts an extractor
// needs: extractor_info.json for the Clowder registry and a Dockerfile for
// the extractor image.
package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cct-datascience/drone-pipeline/internal/config"
	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

// InfoFile is the registration metadata filename expected by the registry.
const InfoFile = "extractor_info.json"

const jsonldContext = "http://clowder.ncsa.illinois.edu/contexts/extractors.jsonld"

// repository is the repository block of the registration record.
type repository struct {
	RepType string `json:"repType"`
	RepURL  string `json:"repUrl"`
}

// process declares which dataset events trigger the extractor.
type process struct {
	Dataset []string `json:"dataset"`
}

// info is the registration record shape. Field order matters only for
// readability of the generated file; the registry parses it as JSON.
type info struct {
	Context          string     `json:"@context"`
	Name             string     `json:"name"`
	Version          string     `json:"version"`
	Description      string     `json:"description"`
	Author           string     `json:"author"`
	Contributors     []string   `json:"contributors"`
	Contexts         []string   `json:"contexts"`
	Repository       repository `json:"repository"`
	Process          process    `json:"process"`
	ExternalServices []string   `json:"external_services"`
	Dependencies     []string   `json:"dependencies"`
	Bibtex           []string   `json:"bibtex"`
}

// RenderInfo produces the extractor_info.json contents for cfg. The
// configuration is validated first; nothing is rendered for an incomplete
// record.
func RenderInfo(cfg *types.ExtractorConfig) ([]byte, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	rec := info{
		Context:      jsonldContext,
		Name:         cfg.Name,
		Version:      cfg.Version,
		Description:  cfg.Description,
		Author:       fmt.Sprintf("%s <%s>", cfg.Author.Name, cfg.Author.Email),
		Contributors: []string{},
		Contexts:     []string{},
		Repository: repository{
			RepType: "git",
			RepURL:  cfg.Repository,
		},
		Process:          process{Dataset: []string{"file.added"}},
		ExternalServices: []string{},
		Dependencies:     []string{},
		Bibtex:           []string{},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // the author field carries "Name <email>"
	enc.SetIndent("", "    ")
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("encoding registration record: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteInfo renders the registration record and writes it to path.
func WriteInfo(cfg *types.ExtractorConfig, path string) error {
	data, err := RenderInfo(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

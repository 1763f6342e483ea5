// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scaffold

import (
	"fmt"
	"os"
	"strings"

	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

// TemplateFile is the Dockerfile template consumed by RenderDockerfile.
const TemplateFile = "Dockerfile.template"

// DockerfileName is the rendered build file.
const DockerfileName = "Dockerfile"

// RenderDockerfile rewrites the Dockerfile template for cfg. MAINTAINER
// lines get the configured author; RABBITMQ_QUEUE assignments get the
// extractor's queue name with their original indentation preserved. Every
// other line is copied through untouched.
func RenderDockerfile(cfg *types.ExtractorConfig, template string) (string, error) {
	var missing []string
	if cfg.Name == "" {
		missing = append(missing, "extractor name")
	}
	if cfg.Author.Name == "" {
		missing = append(missing, "author name")
	}
	if cfg.Author.Email == "" {
		missing = append(missing, "author email")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("one or more fields aren't defined in the extractor configuration: %s",
			strings.Join(missing, ", "))
	}

	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(template, "\n"), "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimLeft(line, " \t")
		switch {
		case strings.HasPrefix(line, "MAINTAINER"):
			fmt.Fprintf(&b, "MAINTAINER %s <%s>\n", cfg.Author.Name, cfg.Author.Email)
		case strings.HasPrefix(trimmed, "RABBITMQ_QUEUE"):
			indent := line[:len(line)-len(trimmed)]
			fmt.Fprintf(&b, "%sRABBITMQ_QUEUE=%q \\\n", indent, cfg.QueueName())
		default:
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// WriteDockerfile reads templatePath, renders it for cfg, and writes the
// result to destPath.
func WriteDockerfile(cfg *types.ExtractorConfig, templatePath, destPath string) error {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("reading Dockerfile template %s: %w", templatePath, err)
	}
	rendered, err := RenderDockerfile(cfg, string(data))
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", destPath, err)
	}
	return nil
}

// defaultTemplate is the Dockerfile.template written by `drone-pipeline init`.
// It builds on the plot-level base image; generate rewrites the MAINTAINER
// and RABBITMQ_QUEUE lines from extractor.yaml.
const defaultTemplate = `FROM terraref/drone-pipeline-plot-base:latest
MAINTAINER Someone <someone@example.org>

COPY extractor_info.json extractor.yaml /home/extractor/

USER root
RUN chown -R extractor /home/extractor

USER extractor
ENV RABBITMQ_EXCHANGE="terra" \
    RABBITMQ_VHOST="%2F" \
    RABBITMQ_QUEUE="terra.dronepipeline.unnamed" \
    MAIN_SCRIPT="extractor.py"
`

// WriteDefaultTemplate writes the starter Dockerfile.template to path,
// refusing to overwrite an existing file.
func WriteDefaultTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, not overwriting", path)
	}
	if err := os.WriteFile(path, []byte(defaultTemplate), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "drone-pipeline/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// BETYdbConfig holds settings for uploading trait rows to a BETYdb instance.
type BETYdbConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the base API URL (e.g. "https://terraref.ncsa.illinois.edu/bety/api/v1").
	URL string `json:"url" yaml:"url"`

	// APIKey authenticates trait uploads. Usually loaded from .secrets/betydb-api-key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on rate-limited uploads (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ResultsConfig holds settings for the local run-history store.
type ResultsConfig struct {
	// DataDir is the base directory for pipeline data (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ProcessConfig groups the settings a plot-level processing run needs.
type ProcessConfig struct {
	BETYdb  BETYdbConfig  `json:"betydb" yaml:"betydb"`
	Results ResultsConfig `json:"results" yaml:"results"`

	// Include is an optional glob narrowing which image files are processed
	// (matched against the base filename, e.g. "*_rgb.tif").
	Include string `json:"include,omitempty" yaml:"include,omitempty"`
}

// WatchConfig holds settings for the inbox watcher.
type WatchConfig struct {
	// InboxDir is the directory monitored for newly dropped imagery.
	InboxDir string `json:"inbox_dir" yaml:"inbox_dir"`

	// Settle is how long a file must be quiet before it is picked up.
	// Drone imagery arrives over slow links; half-written TIFFs decode badly.
	Settle time.Duration `json:"settle" yaml:"settle"`
}

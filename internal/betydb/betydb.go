// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package betydb uploads trait rows to a BETYdb instance.
package betydb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cct-datascience/drone-pipeline/internal/httputil"
	"github.com/cct-datascience/drone-pipeline/pkg/types"
)

// Client talks to one BETYdb instance.
type Client struct {
	cfg    types.BETYdbConfig
	client *http.Client
}

// NewClient builds a Client for cfg.
func NewClient(cfg types.BETYdbConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("BETYdb URL is not configured")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("BETYdb API key is not configured")
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// traitsResponse is the upload response shape; only the new trait IDs are
// of interest.
type traitsResponse struct {
	Data struct {
		IDsOfNewTraits []int64 `json:"ids_of_new_traits"`
	} `json:"data"`
}

// UploadTraits POSTs the header and rows as CSV to the traits endpoint and
// returns the IDs of the created traits. Progress and retry notes go to log.
func (c *Client) UploadTraits(ctx context.Context, header string, rows []string, log io.Writer) ([]int64, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no trait rows to upload")
	}

	query := url.Values{"key": {c.cfg.APIKey}}
	uploadURL := strings.TrimRight(c.cfg.URL, "/") + "/traits.csv?" + query.Encode()

	body := strings.Join(append([]string{header}, rows...), "\n")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries, log)
	if err != nil {
		return nil, fmt.Errorf("uploading traits: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("BETYdb returned HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	var tr traitsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing BETYdb response: %w", err)
	}

	fmt.Fprintf(log, "submitted %d trait row(s) to BETYdb\n", len(rows))
	return tr.Data.IDsOfNewTraits, nil
}

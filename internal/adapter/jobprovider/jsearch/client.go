// Package jsearch implements domain.JobProvider for the JSearch RapidAPI.
package jsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/jobprovider"
	"github.com/fairyhunter13/ai-job-matcher/internal/config"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/observability"
)

// Client queries the JSearch job search API.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a JSearch client with the configured provider timeout.
func New(cfg config.Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{Timeout: cfg.ProviderTimeout}}
}

// Name identifies the provider in cache keys and logs.
func (c *Client) Name() string { return "jsearch" }

// Search fetches one page of postings matching query in location. Errors
// are wrapped as ErrUpstreamUnavailable; the retrieval orchestrator always
// has a non-throwing fallback.
func (c *Client) Search(ctx context.Context, query, location string, page, _ int) ([]domain.Job, error) {
	if c.cfg.RapidAPIKey == "" {
		return nil, fmt.Errorf("%w: RAPID_API_KEY missing", domain.ErrUpstreamUnavailable)
	}
	if page < 1 {
		page = 1
	}

	q := url.Values{}
	q.Set("query", query+" in "+location)
	q.Set("page", strconv.Itoa(page))
	q.Set("num_pages", "1")
	q.Set("date_posted", "all")

	// The host is scheme-less in RapidAPI docs; an explicit scheme is
	// honored so local stubs can be targeted.
	base := c.cfg.RapidAPIHost
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	endpoint := base + "/search?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("x-rapidapi-key", c.cfg.RapidAPIKey)
	req.Header.Set("x-rapidapi-host", c.cfg.RapidAPIHost)

	start := time.Now()
	resp, err := c.hc.Do(req)
	observability.ProviderFetchDuration.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.ProviderFetchesTotal.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("%w: jsearch: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		observability.ProviderFetchesTotal.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("%w: jsearch status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var out struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		observability.ProviderFetchesTotal.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("%w: jsearch decode: %v", domain.ErrUpstreamUnavailable, err)
	}

	jobs := make([]domain.Job, 0, len(out.Data))
	for _, raw := range out.Data {
		jobs = append(jobs, jobprovider.Normalize(raw))
	}
	observability.ProviderFetchesTotal.WithLabelValues(c.Name(), "ok").Inc()
	return jobs, nil
}

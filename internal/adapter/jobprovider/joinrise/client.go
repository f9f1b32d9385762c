// Package joinrise implements domain.JobProvider for the JoinRise public API.
package joinrise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/jobprovider"
	"github.com/fairyhunter13/ai-job-matcher/internal/config"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/observability"
)

// Client queries the JoinRise public jobs feed. The feed is paginated and
// unauthenticated; query and location are not supported.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New constructs a JoinRise client with the configured provider timeout.
func New(cfg config.Config) *Client {
	return &Client{baseURL: cfg.JoinRiseBaseURL, hc: &http.Client{Timeout: cfg.ProviderTimeout}}
}

// Name identifies the provider in cache keys and logs.
func (c *Client) Name() string { return "joinrise" }

// Search fetches one page of the public feed. The response envelope has
// shifted between API revisions, so several envelope shapes are accepted.
func (c *Client) Search(ctx context.Context, _, _ string, page, limit int) ([]domain.Job, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrUpstreamUnavailable, err)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	observability.ProviderFetchDuration.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.ProviderFetchesTotal.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("%w: joinrise: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		observability.ProviderFetchesTotal.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("%w: joinrise status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var envelope map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		observability.ProviderFetchesTotal.WithLabelValues(c.Name(), "error").Inc()
		return nil, fmt.Errorf("%w: joinrise decode: %v", domain.ErrUpstreamUnavailable, err)
	}

	raws := rawJobs(envelope)
	jobs := make([]domain.Job, 0, len(raws))
	for _, raw := range raws {
		jobs = append(jobs, jobprovider.Normalize(raw))
	}
	observability.ProviderFetchesTotal.WithLabelValues(c.Name(), "ok").Inc()
	return jobs, nil
}

// rawJobs digs the job array out of whichever envelope shape the API used:
// result.jobs, data, or jobs.
func rawJobs(envelope map[string]any) []map[string]any {
	var arr []any
	if result, ok := envelope["result"].(map[string]any); ok {
		arr, _ = result["jobs"].([]any)
	}
	if arr == nil {
		arr, _ = envelope["data"].([]any)
	}
	if arr == nil {
		arr, _ = envelope["jobs"].([]any)
	}
	out := make([]map[string]any, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Package groq implements domain.AIClient against the Groq chat
// completions API (OpenAI-compatible).
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/ai-job-matcher/internal/config"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/observability"
)

// Client calls Groq chat completions with retry on transient failures.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a Groq client with the configured AI timeout.
func New(cfg config.Config) *Client {
	return &Client{cfg: cfg, hc: &http.Client{Timeout: cfg.AITimeout}}
}

func (c *Client) backoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsed, initial, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsed
	expo.InitialInterval = initial
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}

// ChatJSON sends system and user prompts and returns the raw message
// content. Transport failures, non-2xx statuses and empty choice lists are
// all reported as ErrUpstreamUnavailable so callers can take their
// deterministic fallback.
func (c *Client) ChatJSON(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if c.cfg.GroqAPIKey == "" {
		return "", fmt.Errorf("%w: GROQ_API_KEY missing", domain.ErrUpstreamUnavailable)
	}

	body, _ := json.Marshal(map[string]any{
		"model":       c.cfg.GroqModel,
		"temperature": 0.3,
		"max_tokens":  maxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	})

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	op := func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GroqBaseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)

		resp, err := c.hc.Do(req)
		observability.AIRequestDuration.WithLabelValues("chat").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			slog.Warn("groq transient failure, retrying",
				slog.Int("status", resp.StatusCode),
				slog.String("body", string(snippet)))
			return fmt.Errorf("groq status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return backoff.Permanent(fmt.Errorf("groq status %d: %s", resp.StatusCode, snippet))
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(fmt.Errorf("groq decode: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(c.backoffConfig(), ctx)); err != nil {
		observability.AIRequestsTotal.WithLabelValues("chat", "error").Inc()
		return "", fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	if len(out.Choices) == 0 {
		observability.AIRequestsTotal.WithLabelValues("chat", "error").Inc()
		return "", fmt.Errorf("%w: groq returned no choices", domain.ErrUpstreamUnavailable)
	}
	observability.AIRequestsTotal.WithLabelValues("chat", "ok").Inc()
	return out.Choices[0].Message.Content, nil
}

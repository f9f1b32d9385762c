// Package tika provides Apache Tika integration for text extraction.
//
// It extracts text content from uploaded resume documents (PDF, Word).
// Plain text files are read directly without a round trip to the server.
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/pkg/textx"
)

// Client is a minimal Apache Tika HTTP client implementing domain.TextExtractor.
// It performs PUT /tika with Accept: text/plain to retrieve extracted text.
// See: https://tika.apache.org/server/ for API details.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Tika client with a default timeout.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// ExtractPath reads the file at path and returns sanitized plain text.
// Callers own the file's lifecycle; this method never deletes it.
func (c *Client) ExtractPath(ctx context.Context, fileName, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read upload: %v", domain.ErrInvalidArgument, err)
	}

	mime := mimetype.Detect(data)
	if mime.Is("text/plain") {
		return textx.SanitizeText(string(data)), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("Content-Type", mime.String())
	if fileName != "" {
		req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: tika: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return "", fmt.Errorf("%w: unsupported file type %s", domain.ErrInvalidArgument, mime.String())
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: tika status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	out, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("%w: tika read: %v", domain.ErrUpstreamUnavailable, err)
	}
	text := textx.SanitizeText(string(out))
	if text == "" {
		return "", fmt.Errorf("%w: no text extracted", domain.ErrInvalidArgument)
	}
	return text, nil
}

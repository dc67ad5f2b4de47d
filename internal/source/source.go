package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrEmptyLocation is returned when no résumé location is configured.
var ErrEmptyLocation = errors.New("resume source location is empty")

// Fetcher returns the raw résumé Markdown.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// New picks a fetcher for location: http(s) URLs are fetched over the
// network, anything else is read from disk.
func New(location, token string) (Fetcher, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPFetcher(location, token), nil
	}
	return &FileFetcher{Path: strings.TrimPrefix(location, "file://")}, nil
}

// FileFetcher reads the résumé from a local file.
type FileFetcher struct {
	Path string
}

func (f *FileFetcher) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}
	return string(b), nil
}

// HTTPFetcher downloads the résumé over HTTP.
type HTTPFetcher struct {
	url        string
	token      string
	maxBytes   int64
	httpClient *http.Client
}

func NewHTTPFetcher(url, token string) *HTTPFetcher {
	return &HTTPFetcher{
		url:      url,
		token:    token,
		maxBytes: 4 << 20,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch performs a GET against the configured URL. 429 and 5xx responses
// come back as *RetryableError.
func (c *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("fetch resume: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return "", &RetryableError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch resume %s: status %d: %s", c.url, resp.StatusCode, truncate(string(body), 200))
	}
	if int64(len(body)) > c.maxBytes {
		return "", fmt.Errorf("fetch resume %s: body exceeds %d bytes", c.url, c.maxBytes)
	}
	return string(body), nil
}

// Close releases idle connections.
func (c *HTTPFetcher) Close() {
	c.httpClient.CloseIdleConnections()
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nestorwheelock/osint-search/internal/logger"
)

// DuckDuckGoAdapter scrapes the DuckDuckGo HTML endpoint over plain HTTP.
type DuckDuckGoAdapter struct {
	client    *http.Client
	endpoint  string
	userAgent string
	limiter   *throttle
}

// NewDuckDuckGoAdapter creates a new DuckDuckGo search adapter.
func NewDuckDuckGoAdapter() *DuckDuckGoAdapter {
	return &DuckDuckGoAdapter{
		client:    &http.Client{Timeout: 30 * time.Second},
		endpoint:  duckDuckGoEndpoint,
		userAgent: defaultUserAgent,
		limiter:   newThrottle(2 * time.Second), // be respectful between calls
	}
}

// Name returns the stable identifier of this adapter.
func (d *DuckDuckGoAdapter) Name() string {
	return string(AdapterDuckDuckGo)
}

// Available reports whether the adapter can run. The HTTP client is always
// present, so this is constant.
func (d *DuckDuckGoAdapter) Available() bool {
	return true
}

// Search performs a DuckDuckGo search and returns parsed results.
func (d *DuckDuckGoAdapter) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	d.limiter.wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, buildSearchURL(d.endpoint, query, limit), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")

	resp, err := d.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	results, err := parseDuckDuckGoHTML(string(body), limit, d.Name())
	if err != nil {
		return nil, err
	}

	logger.Debug("duckduckgo search completed", "query", query, "results", len(results))
	return results, nil
}

// classifyStatus maps challenge-style HTTP responses onto the adapter error
// taxonomy.
func classifyStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrBlocked, code)
	default:
		return fmt.Errorf("search request failed with status %d", code)
	}
}

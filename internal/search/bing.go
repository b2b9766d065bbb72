package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nestorwheelock/osint-search/internal/logger"
)

// BingAdapter searches Bing, preferring the Web Search API when a key is
// configured and falling back to scraping otherwise.
type BingAdapter struct {
	apiKey    string
	client    *http.Client
	userAgent string
	limiter   *throttle
}

// NewBingAdapter creates a Bing search adapter. An empty key selects the
// scraping fallback.
func NewBingAdapter(apiKey string) *BingAdapter {
	return &BingAdapter{
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 30 * time.Second},
		userAgent: defaultUserAgent,
		limiter:   newThrottle(500 * time.Millisecond),
	}
}

// Name returns the stable identifier of this adapter.
func (b *BingAdapter) Name() string {
	return string(AdapterBing)
}

// Available reports whether the adapter can run.
func (b *BingAdapter) Available() bool {
	return true
}

// Search performs a Bing search via the Web Search API or scraping.
func (b *BingAdapter) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	b.limiter.wait()

	if b.apiKey != "" {
		return b.searchAPI(ctx, query, limit)
	}
	return b.searchScraping(ctx, query, limit)
}

// bingAPIResponse mirrors the subset of the Bing Web Search v7 response the
// adapter consumes.
type bingAPIResponse struct {
	WebPages struct {
		Value []struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}

func (b *BingAdapter) searchAPI(ctx context.Context, query string, limit int) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	count := limit
	if count > 50 {
		count = 50 // API cap per request
	}
	params.Set("count", fmt.Sprintf("%d", count))
	params.Set("responseFilter", "Webpages")

	endpoint := "https://api.cognitive.microsoft.com/bing/v7.0/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", b.apiKey)

	resp, err := b.client.Do(req)
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

	var payload bingAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	results := make([]Result, 0, len(payload.WebPages.Value))
	for i, item := range payload.WebPages.Value {
		if i >= limit {
			break
		}
		results = append(results, Result{
			Title:   cleanText(item.Name),
			URL:     item.URL,
			Snippet: cleanText(item.Snippet),
			Source:  b.Name(),
			Rank:    i + 1,
		})
	}

	logger.Debug("bing api search completed", "query", query, "results", len(results))
	return results, nil
}

func (b *BingAdapter) searchScraping(ctx context.Context, query string, limit int) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", fmt.Sprintf("%d", limit))
	searchURL := "https://www.bing.com/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := b.client.Do(req)
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
	if isBlockedBody(string(body)) {
		return nil, ErrBlocked
	}

	return parseBingHTML(string(body), limit, b.Name())
}

// parseBingHTML extracts results from a Bing result page.
func parseBingHTML(body string, limit int, source string) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var results []Result
	doc.Find("li.b_algo").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(results) >= limit {
			return false
		}

		link := sel.Find("h2 a").First()
		href, ok := link.Attr("href")
		if !ok || !strings.HasPrefix(href, "http") {
			return true
		}
		title := cleanText(link.Text())
		if title == "" {
			return true
		}

		results = append(results, Result{
			Title:   title,
			URL:     href,
			Snippet: cleanText(sel.Find("p").First().Text()),
			Source:  source,
			Rank:    len(results) + 1,
		})
		return true
	})

	return results, nil
}

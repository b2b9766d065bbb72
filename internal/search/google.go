package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/nestorwheelock/osint-search/internal/logger"
)

// GoogleAdapter searches Google, preferring the Custom Search API when
// credentials are configured and falling back to scraping otherwise. The
// scraping path is the most bot-detection-prone back-end in the set.
type GoogleAdapter struct {
	apiKey    string
	searchID  string
	client    *http.Client
	userAgent string
	limiter   *throttle
}

// NewGoogleAdapter creates a Google search adapter. Empty credentials select
// the scraping fallback.
func NewGoogleAdapter(apiKey, searchID string) *GoogleAdapter {
	return &GoogleAdapter{
		apiKey:    apiKey,
		searchID:  searchID,
		client:    &http.Client{Timeout: 30 * time.Second},
		userAgent: defaultUserAgent,
		limiter:   newThrottle(500 * time.Millisecond),
	}
}

// Name returns the stable identifier of this adapter.
func (g *GoogleAdapter) Name() string {
	return string(AdapterGoogle)
}

// Available reports whether the adapter can run. Both the API and scraping
// paths need only the HTTP client.
func (g *GoogleAdapter) Available() bool {
	return true
}

// Search performs a Google search via the Custom Search API or scraping.
func (g *GoogleAdapter) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	g.limiter.wait()

	if g.apiKey != "" && g.searchID != "" {
		return g.searchAPI(ctx, query, limit)
	}
	return g.searchScraping(ctx, query, limit)
}

func (g *GoogleAdapter) searchAPI(ctx context.Context, query string, limit int) ([]Result, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	num := int64(limit)
	if num > 10 {
		num = 10 // CSE caps a single request at 10 items
	}

	resp, err := svc.Cse.List().Cx(g.searchID).Q(query).Num(num).Context(ctx).Do()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("custom search request failed: %w", err)
	}

	results := make([]Result, 0, len(resp.Items))
	for i, item := range resp.Items {
		if i >= limit {
			break
		}
		results = append(results, Result{
			Title:   cleanText(item.Title),
			URL:     item.Link,
			Snippet: cleanText(item.Snippet),
			Source:  g.Name(),
			Rank:    i + 1,
		})
	}

	logger.Debug("google api search completed", "query", query, "results", len(results))
	return results, nil
}

func (g *GoogleAdapter) searchScraping(ctx context.Context, query string, limit int) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("num", fmt.Sprintf("%d", limit))
	searchURL := "https://www.google.com/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := g.client.Do(req)
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

	return parseGoogleHTML(string(body), limit, g.Name())
}

// parseGoogleHTML extracts results from a Google result page.
func parseGoogleHTML(body string, limit int, source string) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var results []Result
	doc.Find("div.g").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(results) >= limit {
			return false
		}

		link := sel.Find("a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		finalURL := decodeGoogleRedirect(href)
		title := cleanText(sel.Find("h3").First().Text())
		if finalURL == "" || title == "" {
			return true
		}

		results = append(results, Result{
			Title:   title,
			URL:     finalURL,
			Snippet: cleanText(sel.Find("div.VwiC3b, div.s3v9rd").First().Text()),
			Source:  source,
			Rank:    len(results) + 1,
		})
		return true
	})

	return results, nil
}

// decodeGoogleRedirect extracts the destination from Google's /url?q=
// redirect links.
func decodeGoogleRedirect(href string) string {
	if strings.HasPrefix(href, "/url?") {
		parsed, err := url.Parse(href)
		if err != nil {
			return ""
		}
		return parsed.Query().Get("q")
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return ""
}

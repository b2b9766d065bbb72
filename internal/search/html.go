package search

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// rotatingUserAgents is used by the curl adapter to vary its fingerprint
// between calls.
var rotatingUserAgents = []string{
	"Mozilla/5.0 (X11; Linux x86_64; rv:91.0) Gecko/20100101 Firefox/91.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
}

var whitespace = regexp.MustCompile(`\s+`)

// cleanText collapses whitespace and trims text extracted from HTML.
func cleanText(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// isBlockedBody reports whether an HTML body carries CAPTCHA or challenge
// markers signalling bot detection.
func isBlockedBody(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "captcha") ||
		strings.Contains(lower, "unusual traffic") ||
		strings.Contains(lower, "are you a robot")
}

// duckDuckGoEndpoint is the HTML (non-JS) interface every scraping adapter
// targets. It is materially less aggressive about bot detection than the
// main site.
const duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

func buildDuckDuckGoURL(query string, limit int) string {
	return buildSearchURL(duckDuckGoEndpoint, query, limit)
}

func buildSearchURL(endpoint, query string, limit int) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("s", "0")
	params.Set("kl", "us-en")
	params.Set("dc", fmt.Sprintf("%d", limit))
	return endpoint + "?" + params.Encode()
}

// decodeDuckDuckGoRedirect extracts the destination URL from DuckDuckGo's
// redirect links (/l/?uddg=https%3A//example.com&rut=...). Direct URLs pass
// through unchanged; anything else yields "".
func decodeDuckDuckGoRedirect(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if uddg := parsed.Query().Get("uddg"); uddg != "" {
		return uddg
	}
	if strings.HasPrefix(parsed.Scheme, "http") {
		return href
	}
	return ""
}

// parseDuckDuckGoHTML extracts results from the DuckDuckGo HTML endpoint.
// Shared by the duckduckgo and curl adapters, which reach the same page
// over different transports.
func parseDuckDuckGoHTML(body string, limit int, source string) ([]Result, error) {
	if isBlockedBody(body) {
		return nil, ErrBlocked
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var results []Result
	doc.Find("div.result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(results) >= limit {
			return false
		}

		titleLink := sel.Find("a.result__a").First()
		href, ok := titleLink.Attr("href")
		if !ok {
			return true
		}

		finalURL := decodeDuckDuckGoRedirect(href)
		title := cleanText(titleLink.Text())
		if finalURL == "" || title == "" {
			return true
		}

		results = append(results, Result{
			Title:   title,
			URL:     finalURL,
			Snippet: cleanText(sel.Find("a.result__snippet").First().Text()),
			Source:  source,
			Rank:    len(results) + 1,
		})
		return true
	})

	return results, nil
}

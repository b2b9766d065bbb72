// Package search provides uniform adapters over independent web search
// back-ends. Each adapter wraps one engine behind the Adapter interface and
// normalizes its responses into Result values for the metasearch
// orchestrator.
package search

import (
	"context"
)

// Adapter defines the unified interface for search back-ends.
type Adapter interface {
	// Search performs one blocking round-trip to the back-end and returns
	// up to limit results. It honors the deadline carried by ctx.
	Search(ctx context.Context, query string, limit int) ([]Result, error)

	// Name returns the stable identifier of this adapter, used as the
	// statistics key and as Result.Source.
	Name() string

	// Available reports whether the adapter can run at all (required
	// executable or library present). It performs no network I/O.
	Available() bool
}

// Result represents a unified search result.
type Result struct {
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	CanonicalURL string  `json:"canonical_url,omitempty"`
	Snippet      string  `json:"snippet"`
	Source       string  `json:"source"`
	Score        float64 `json:"score,omitempty"`
	Rank         int     `json:"rank"`
}

// AdapterType identifies a search adapter variant.
type AdapterType string

const (
	AdapterDuckDuckGo AdapterType = "duckduckgo"
	AdapterGoogle     AdapterType = "google"
	AdapterBing       AdapterType = "bing"
	AdapterLynx       AdapterType = "lynx"
	AdapterCurl       AdapterType = "curl"
	AdapterMock       AdapterType = "mock"
)

// Credentials holds optional API credentials consumed by adapters that have
// an API path. Adapters without credentials fall back to scraping.
type Credentials struct {
	GoogleAPIKey   string
	GoogleSearchID string
	BingAPIKey     string
}

// Factory creates search adapters by type.
type Factory struct {
	creds Credentials
}

// NewFactory creates an adapter factory with the given credentials.
func NewFactory(creds Credentials) *Factory {
	return &Factory{creds: creds}
}

// Create builds an adapter of the specified type. Unknown types return
// ErrUnknownAdapter.
func (f *Factory) Create(adapterType AdapterType) (Adapter, error) {
	switch adapterType {
	case AdapterDuckDuckGo:
		return NewDuckDuckGoAdapter(), nil
	case AdapterGoogle:
		return NewGoogleAdapter(f.creds.GoogleAPIKey, f.creds.GoogleSearchID), nil
	case AdapterBing:
		return NewBingAdapter(f.creds.BingAPIKey), nil
	case AdapterLynx:
		return NewLynxAdapter(), nil
	case AdapterCurl:
		return NewCurlAdapter(), nil
	case AdapterMock:
		return NewMockAdapter(), nil
	default:
		return nil, ErrUnknownAdapter
	}
}

// CreateByName builds an adapter from its string name.
func (f *Factory) CreateByName(name string) (Adapter, error) {
	return f.Create(AdapterType(name))
}

// AvailableTypes returns every adapter type the factory can build, in the
// reliability order documented for OSINT queries (terminal-browser paths
// before direct HTTP engines).
func (f *Factory) AvailableTypes() []AdapterType {
	return []AdapterType{
		AdapterDuckDuckGo,
		AdapterLynx,
		AdapterCurl,
		AdapterGoogle,
		AdapterBing,
	}
}

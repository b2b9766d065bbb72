package search

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAdapterTypeConstants(t *testing.T) {
	expected := map[AdapterType]string{
		AdapterDuckDuckGo: "duckduckgo",
		AdapterGoogle:     "google",
		AdapterBing:       "bing",
		AdapterLynx:       "lynx",
		AdapterCurl:       "curl",
		AdapterMock:       "mock",
	}

	for adapterType, want := range expected {
		if string(adapterType) != want {
			t.Errorf("Expected %s, got %s", want, string(adapterType))
		}
	}
}

func TestFactoryCreate(t *testing.T) {
	factory := NewFactory(Credentials{})

	for _, adapterType := range []AdapterType{
		AdapterDuckDuckGo, AdapterGoogle, AdapterBing,
		AdapterLynx, AdapterCurl, AdapterMock,
	} {
		adapter, err := factory.Create(adapterType)
		if err != nil {
			t.Fatalf("Expected no error creating %s, got %v", adapterType, err)
		}
		if adapter == nil {
			t.Fatalf("Expected non-nil %s adapter", adapterType)
		}
		if adapter.Name() != string(adapterType) {
			t.Errorf("Expected name %s, got %s", adapterType, adapter.Name())
		}
	}
}

func TestFactoryCreateUnknown(t *testing.T) {
	factory := NewFactory(Credentials{})

	adapter, err := factory.CreateByName("altavista")
	if err == nil {
		t.Error("Expected error for unknown adapter")
	}
	if adapter != nil {
		t.Error("Expected nil adapter when creation fails")
	}
	if !errors.Is(err, ErrUnknownAdapter) {
		t.Errorf("Expected ErrUnknownAdapter, got %v", err)
	}
}

func TestFactoryAvailableTypes(t *testing.T) {
	factory := NewFactory(Credentials{})
	types := factory.AvailableTypes()

	if len(types) != 5 {
		t.Fatalf("Expected 5 adapter types, got %d", len(types))
	}
	// terminal-browser paths are listed before the direct HTTP engines
	if types[0] != AdapterDuckDuckGo || types[1] != AdapterLynx || types[2] != AdapterCurl {
		t.Errorf("Expected bot-resistant adapters first, got %v", types)
	}
}

const sampleDuckDuckGoHTML = `
<html><body>
<div class="result results_links results_links_deep web-result">
  <a class="result__a" href="/l/?uddg=https%3A%2F%2Fexample.com%2Fpage1&amp;rut=abc">First Result Title</a>
  <a class="result__snippet" href="/l/?uddg=https%3A%2F%2Fexample.com%2Fpage1">A snippet describing the first result in some detail.</a>
</div>
<div class="result results_links">
  <a class="result__a" href="https://direct.example.org/page2">Second Result Title</a>
  <a class="result__snippet" href="https://direct.example.org/page2">Second snippet text here.</a>
</div>
<div class="result results_links">
  <a class="result__a" href="/l/?uddg=https%3A%2F%2Fthird.example.net%2F">Third Result Title</a>
</div>
</body></html>`

func TestParseDuckDuckGoHTML(t *testing.T) {
	results, err := parseDuckDuckGoHTML(sampleDuckDuckGoHTML, 10, "duckduckgo")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	if results[0].URL != "https://example.com/page1" {
		t.Errorf("Expected redirect to be decoded, got %q", results[0].URL)
	}
	if results[0].Title != "First Result Title" {
		t.Errorf("Unexpected title %q", results[0].Title)
	}
	if results[0].Snippet == "" {
		t.Error("Expected non-empty snippet for first result")
	}
	if results[1].URL != "https://direct.example.org/page2" {
		t.Errorf("Expected direct URL to pass through, got %q", results[1].URL)
	}
	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("Expected rank %d, got %d", i+1, r.Rank)
		}
		if r.Source != "duckduckgo" {
			t.Errorf("Expected source duckduckgo, got %q", r.Source)
		}
	}
}

func TestParseDuckDuckGoHTMLRespectsLimit(t *testing.T) {
	results, err := parseDuckDuckGoHTML(sampleDuckDuckGoHTML, 2, "duckduckgo")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected limit of 2 to be respected, got %d results", len(results))
	}
}

func TestParseDuckDuckGoHTMLBlocked(t *testing.T) {
	body := `<html><body><div class="anomaly">Please complete the CAPTCHA to continue.</div></body></html>`

	results, err := parseDuckDuckGoHTML(body, 10, "duckduckgo")
	if !errors.Is(err, ErrBlocked) {
		t.Errorf("Expected ErrBlocked, got %v", err)
	}
	if results != nil {
		t.Error("Expected no results from a blocked page")
	}
}

func TestDecodeDuckDuckGoRedirect(t *testing.T) {
	tests := []struct {
		href     string
		expected string
	}{
		{"/l/?uddg=https%3A%2F%2Fexample.com%2Fa&rut=xyz", "https://example.com/a"},
		{"https://example.com/direct", "https://example.com/direct"},
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fb", "https://example.com/b"},
		{"javascript:void(0)", ""},
	}

	for _, tt := range tests {
		got := decodeDuckDuckGoRedirect(tt.href)
		if got != tt.expected {
			t.Errorf("decodeDuckDuckGoRedirect(%q) = %q, want %q", tt.href, got, tt.expected)
		}
	}
}

func TestDecodeGoogleRedirect(t *testing.T) {
	tests := []struct {
		href     string
		expected string
	}{
		{"/url?q=https://example.com/a&sa=U", "https://example.com/a"},
		{"https://example.com/direct", "https://example.com/direct"},
		{"#", ""},
	}

	for _, tt := range tests {
		got := decodeGoogleRedirect(tt.href)
		if got != tt.expected {
			t.Errorf("decodeGoogleRedirect(%q) = %q, want %q", tt.href, got, tt.expected)
		}
	}
}

func TestParseBingHTML(t *testing.T) {
	body := `
<html><body><ol id="b_results">
<li class="b_algo">
  <h2><a href="https://example.com/bing1">Bing Result One</a></h2>
  <p>Snippet for the first bing result.</p>
</li>
<li class="b_algo">
  <h2><a href="https://example.com/bing2">Bing Result Two</a></h2>
  <p>Snippet for the second bing result.</p>
</li>
</ol></body></html>`

	results, err := parseBingHTML(body, 10, "bing")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Title != "Bing Result One" {
		t.Errorf("Unexpected title %q", results[0].Title)
	}
	if results[1].Snippet != "Snippet for the second bing result." {
		t.Errorf("Unexpected snippet %q", results[1].Snippet)
	}
}

func TestClassifyStatus(t *testing.T) {
	if err := classifyStatus(200); err != nil {
		t.Errorf("Expected nil for 200, got %v", err)
	}
	for _, code := range []int{429, 503, 403} {
		if err := classifyStatus(code); !errors.Is(err, ErrBlocked) {
			t.Errorf("Expected ErrBlocked for %d, got %v", code, err)
		}
	}
	if err := classifyStatus(500); err == nil || errors.Is(err, ErrBlocked) {
		t.Errorf("Expected generic error for 500, got %v", err)
	}
}

func TestIsBlockedBody(t *testing.T) {
	if !isBlockedBody("please solve this CAPTCHA") {
		t.Error("Expected captcha marker to be detected")
	}
	if !isBlockedBody("We detected unusual traffic from your network") {
		t.Error("Expected challenge marker to be detected")
	}
	if isBlockedBody("<html><body>ordinary results page</body></html>") {
		t.Error("Expected plain page to not be flagged")
	}
}

func TestCleanText(t *testing.T) {
	got := cleanText("  Hello   \n\t world  ")
	if got != "Hello world" {
		t.Errorf("cleanText() = %q, want %q", got, "Hello world")
	}
}

func TestMockAdapterSearch(t *testing.T) {
	adapter := NewMockAdapter()

	results, err := adapter.Search(context.Background(), "test query", 2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected limit of 2 to be respected, got %d", len(results))
	}
	if results[0].Source != "mock" {
		t.Errorf("Expected source mock, got %q", results[0].Source)
	}
}

func TestMockAdapterError(t *testing.T) {
	adapter := NewMockAdapter().SetError(ErrBlocked)

	_, err := adapter.Search(context.Background(), "test", 10)
	if !errors.Is(err, ErrBlocked) {
		t.Errorf("Expected ErrBlocked, got %v", err)
	}
}

func TestMockAdapterDelayHonorsContext(t *testing.T) {
	adapter := NewMockAdapter().SetDelay(5 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := adapter.Search(ctx, "test", 10)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Expected ErrTimeout, got %v", err)
	}
	if elapsed > time.Second {
		t.Errorf("Expected search to abort on context expiry, took %v", elapsed)
	}
}

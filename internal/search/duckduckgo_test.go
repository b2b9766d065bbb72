package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestDuckDuckGoAdapter(endpoint string) *DuckDuckGoAdapter {
	adapter := NewDuckDuckGoAdapter()
	adapter.endpoint = endpoint
	adapter.limiter = newThrottle(0)
	return adapter
}

func TestDuckDuckGoAdapterSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "test query" {
			t.Errorf("Expected query 'test query', got %q", got)
		}
		w.Write([]byte(sampleDuckDuckGoHTML))
	}))
	defer server.Close()

	adapter := newTestDuckDuckGoAdapter(server.URL)
	results, err := adapter.Search(context.Background(), "test query", 10)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].URL != "https://example.com/page1" {
		t.Errorf("Expected decoded redirect URL, got %s", results[0].URL)
	}
	if results[0].Source != "duckduckgo" {
		t.Errorf("Expected source duckduckgo, got %s", results[0].Source)
	}
}

func TestDuckDuckGoAdapterBlockedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	adapter := newTestDuckDuckGoAdapter(server.URL)
	_, err := adapter.Search(context.Background(), "test", 10)
	if !errors.Is(err, ErrBlocked) {
		t.Errorf("Expected ErrBlocked for 429 response, got %v", err)
	}
}

func TestDuckDuckGoAdapterBlockedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Please complete the CAPTCHA to continue</body></html>"))
	}))
	defer server.Close()

	adapter := newTestDuckDuckGoAdapter(server.URL)
	_, err := adapter.Search(context.Background(), "test", 10)
	if !errors.Is(err, ErrBlocked) {
		t.Errorf("Expected ErrBlocked for CAPTCHA body, got %v", err)
	}
}

func TestDuckDuckGoAdapterServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := newTestDuckDuckGoAdapter(server.URL)
	_, err := adapter.Search(context.Background(), "test", 10)
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
	if errors.Is(err, ErrBlocked) {
		t.Error("A plain server error should not be classified as blocked")
	}
}

func TestDuckDuckGoAdapterContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(sampleDuckDuckGoHTML))
	}))
	defer server.Close()

	adapter := newTestDuckDuckGoAdapter(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := adapter.Search(ctx, "test", 10)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Expected ErrTimeout when context deadline passes, got %v", err)
	}
}

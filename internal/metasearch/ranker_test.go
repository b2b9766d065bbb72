package metasearch

import (
	"context"
	"testing"

	"github.com/nestorwheelock/osint-search/internal/search"
)

func TestRankerPrefersQueryOverlap(t *testing.T) {
	cfg := DefaultConfig()
	ranker := NewRanker(cfg)

	results := []search.Result{
		{Title: "Completely unrelated pages", URL: "https://example.com/a", Snippet: longSnippet, Source: "duckduckgo", Rank: 1},
		{Title: "open source intelligence gathering", URL: "https://example.com/b", Snippet: "A guide to open source intelligence gathering techniques.", Source: "duckduckgo", Rank: 2},
	}

	ranked := ranker.Rank(results, "open source intelligence", cfg)
	if ranked[0].URL != "https://example.com/b" {
		t.Errorf("Expected the overlapping result first, got %q", ranked[0].URL)
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Errorf("Expected descending scores, got %f then %f", ranked[0].Score, ranked[1].Score)
	}
}

func TestRankerPrefersPreferredSourceOnOtherwiseEqualResults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PreferredAdapters = []string{"lynx"}
	cfg.FallbackAdapters = []string{"bing"}
	ranker := NewRanker(cfg)

	results := []search.Result{
		{Title: "Same title", URL: "https://example.com/one", Snippet: longSnippet, Source: "bing", Rank: 1},
		{Title: "Same title", URL: "https://example.com/two", Snippet: longSnippet, Source: "lynx", Rank: 1},
	}

	ranked := ranker.Rank(results, "query words", cfg)
	if ranked[0].Source != "lynx" {
		t.Errorf("Expected preferred source ranked first, got %q", ranked[0].Source)
	}
}

func TestRankerTieBreaksByOriginalPosition(t *testing.T) {
	cfg := DefaultConfig()
	ranker := NewRanker(cfg)

	results := []search.Result{
		{Title: "Same title", URL: "https://example.com/pos3", Snippet: longSnippet, Source: "duckduckgo", Rank: 3},
		{Title: "Same title", URL: "https://example.com/pos1", Snippet: longSnippet, Source: "duckduckgo", Rank: 1},
	}

	ranked := ranker.Rank(results, "query", cfg)
	if ranked[0].URL != "https://example.com/pos1" {
		t.Errorf("Expected earlier original position first, got %q", ranked[0].URL)
	}
}

func TestRankerReassignsSequentialRanks(t *testing.T) {
	cfg := DefaultConfig()
	ranker := NewRanker(cfg)

	results := []search.Result{
		{Title: "one", URL: "https://example.com/1", Snippet: longSnippet, Source: "duckduckgo", Rank: 7},
		{Title: "two", URL: "https://example.com/2", Snippet: longSnippet, Source: "duckduckgo", Rank: 4},
		{Title: "three", URL: "https://example.com/3", Snippet: longSnippet, Source: "duckduckgo", Rank: 9},
	}

	ranked := ranker.Rank(results, "query", cfg)
	for i, r := range ranked {
		if r.Rank != i+1 {
			t.Errorf("Expected rank %d at position %d, got %d", i+1, i, r.Rank)
		}
	}
}

func TestRankerDoesNotModifyInput(t *testing.T) {
	cfg := DefaultConfig()
	ranker := NewRanker(cfg)

	results := []search.Result{
		{Title: "untouched", URL: "https://example.com/1", Snippet: longSnippet, Source: "duckduckgo", Rank: 1},
	}

	_ = ranker.Rank(results, "query", cfg)
	if results[0].Score != 0 {
		t.Errorf("Expected input slice untouched, score is %f", results[0].Score)
	}
}

func TestSnippetLengthScore(t *testing.T) {
	if got := snippetLengthScore("short", 20); got != 0 {
		t.Errorf("Expected 0 below minimum, got %f", got)
	}
	mid := snippetLengthScore(longSnippet, 20)
	if mid <= 0 || mid > 1 {
		t.Errorf("Expected score in (0, 1], got %f", mid)
	}
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	if got := snippetLengthScore(string(long), 20); got != 1 {
		t.Errorf("Expected saturation at 1, got %f", got)
	}
}

func TestAuthorityScore(t *testing.T) {
	gov := authorityScore("https://www.nasa.gov/page")
	plain := authorityScore("https://randomblog.example.com/page")
	if gov <= plain {
		t.Errorf("Expected .gov to outrank an unknown domain, got %f vs %f", gov, plain)
	}
}

func TestQuickSearchBypassesOrchestration(t *testing.T) {
	results, err := QuickSearch(context.Background(), "test query", "mock")
	if err != nil {
		t.Fatalf("QuickSearch failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected mock results")
	}
	for _, r := range results {
		if r.CanonicalURL != "" {
			t.Error("Expected no canonicalization in quick search")
		}
		if r.Score != 0 {
			t.Error("Expected no scoring in quick search")
		}
	}
}

func TestQuickSearchUnknownAdapter(t *testing.T) {
	if _, err := QuickSearch(context.Background(), "test", "altavista"); err == nil {
		t.Error("Expected error for unknown adapter")
	}
}

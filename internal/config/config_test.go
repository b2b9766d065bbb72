package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	Reset()
	defer Reset()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Search.DefaultStrategy != "adaptive" {
		t.Errorf("Expected default strategy adaptive, got %q", cfg.Search.DefaultStrategy)
	}
	if cfg.Search.MaxResultsPerAdapter != 10 {
		t.Errorf("Expected default per-adapter cap 10, got %d", cfg.Search.MaxResultsPerAdapter)
	}
	if cfg.Search.MaxTotalResults != 50 {
		t.Errorf("Expected default total cap 50, got %d", cfg.Search.MaxTotalResults)
	}
	if !cfg.Search.EnableDeduplication || !cfg.Search.EnableRanking {
		t.Error("Expected deduplication and ranking enabled by default")
	}

	expected := []string{"duckduckgo", "lynx", "curl"}
	if len(cfg.Search.PreferredAdapters) != len(expected) {
		t.Fatalf("Expected %d preferred adapters, got %d", len(expected), len(cfg.Search.PreferredAdapters))
	}
	for i, name := range expected {
		if cfg.Search.PreferredAdapters[i] != name {
			t.Errorf("Expected preferred adapter %q at %d, got %q", name, i, cfg.Search.PreferredAdapters[i])
		}
	}
}

func TestTimeoutDuration(t *testing.T) {
	s := Search{Timeout: "5s"}
	if s.TimeoutDuration().Seconds() != 5 {
		t.Errorf("Expected 5s, got %v", s.TimeoutDuration())
	}

	s = Search{Timeout: "garbage"}
	if s.TimeoutDuration().Seconds() != 30 {
		t.Errorf("Expected 30s fallback, got %v", s.TimeoutDuration())
	}
}

func TestGetCachesConfig(t *testing.T) {
	Reset()
	defer Reset()

	first := Get()
	second := Get()
	if first != second {
		t.Error("Expected Get to return the cached configuration")
	}
}

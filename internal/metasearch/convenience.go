package metasearch

import (
	"context"

	"github.com/nestorwheelock/osint-search/internal/search"
)

// SearchOSINT is the convenience entry point for OSINT queries. It runs the
// adaptive strategy with defaults tuned for completeness under bot
// detection: terminal-browser adapters preferred, direct engines as
// fallback.
func SearchOSINT(ctx context.Context, query string, maxResults int, adapterNames []string) ([]search.Result, error) {
	cfg := DefaultConfig()
	if maxResults > 0 {
		cfg.MaxTotalResults = maxResults
		if per := maxResults / 2; per > 0 {
			cfg.MaxResultsPerAdapter = per
		}
	}
	if len(adapterNames) > 0 {
		cfg.PreferredAdapters = adapterNames
	}

	orchestrator, err := New(cfg, search.NewFactory(search.Credentials{}))
	if err != nil {
		return nil, err
	}
	names := adapterNames
	if len(names) == 0 {
		names = append(cfg.PreferredAdapters, cfg.FallbackAdapters...)
	}
	if err := orchestrator.LoadAdapters(names); err != nil {
		return nil, err
	}
	return orchestrator.Search(ctx, query, StrategyAdaptive)
}

// QuickSearch bypasses orchestration and calls a single adapter directly.
// Results keep their raw form: no canonical URL, no score.
func QuickSearch(ctx context.Context, query string, adapterName string) ([]search.Result, error) {
	factory := search.NewFactory(search.Credentials{})
	adapter, err := factory.CreateByName(adapterName)
	if err != nil {
		return nil, err
	}
	if !adapter.Available() {
		return nil, search.ErrUnavailable
	}

	cfg := DefaultConfig()
	callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	return adapter.Search(callCtx, query, cfg.MaxResultsPerAdapter)
}

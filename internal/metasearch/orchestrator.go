package metasearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nestorwheelock/osint-search/internal/logger"
	"github.com/nestorwheelock/osint-search/internal/search"
	"github.com/nestorwheelock/osint-search/internal/urlcanon"
)

// collectionGrace is how long a parallel collection phase waits beyond the
// per-adapter timeout before abandoning outstanding calls. Abandoned calls
// finish in their own goroutines purely to record latency statistics.
const collectionGrace = 500 * time.Millisecond

// Orchestrator coordinates searches across multiple adapters: dispatch per
// strategy, canonicalization, deduplication, ranking, and reliability
// statistics. Statistics accumulate for the lifetime of one instance.
type Orchestrator struct {
	config  Config
	factory *search.Factory
	stats   *statsTracker

	mu       sync.RWMutex
	adapters []search.Adapter
}

// New creates an orchestrator with the given configuration and adapter
// factory.
func New(cfg Config, factory *search.Factory) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Orchestrator{
		config:  cfg,
		factory: factory,
		stats:   newStatsTracker(),
	}, nil
}

// LoadAdapters resolves and loads the named adapter variants. The list must
// be non-empty and every name must be known; adapters whose backing
// executable is missing are skipped with a warning, without being invoked.
func (o *Orchestrator) LoadAdapters(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: adapter list is empty", ErrInvalidConfig)
	}

	loaded := make([]search.Adapter, 0, len(names))
	for _, name := range names {
		adapter, err := o.factory.CreateByName(name)
		if err != nil {
			return fmt.Errorf("%w: adapter %q: %v", ErrInvalidConfig, name, err)
		}
		if !adapter.Available() {
			logger.Warn("skipping unavailable adapter", "adapter", name)
			continue
		}
		loaded = append(loaded, adapter)
	}
	if len(loaded) == 0 {
		return fmt.Errorf("%w: none of the requested adapters are available", ErrInvalidConfig)
	}

	o.mu.Lock()
	o.adapters = loaded
	o.mu.Unlock()

	logger.Info("loaded search adapters", "count", len(loaded))
	return nil
}

// UseAdapters installs pre-built adapters directly, bypassing the factory.
func (o *Orchestrator) UseAdapters(adapters ...search.Adapter) error {
	if len(adapters) == 0 {
		return fmt.Errorf("%w: adapter list is empty", ErrInvalidConfig)
	}

	loaded := make([]search.Adapter, 0, len(adapters))
	for _, adapter := range adapters {
		if !adapter.Available() {
			logger.Warn("skipping unavailable adapter", "adapter", adapter.Name())
			continue
		}
		loaded = append(loaded, adapter)
	}
	if len(loaded) == 0 {
		return fmt.Errorf("%w: none of the given adapters are available", ErrInvalidConfig)
	}

	o.mu.Lock()
	o.adapters = loaded
	o.mu.Unlock()
	return nil
}

// LoadedAdapters returns the names of the currently loaded adapters in
// load order.
func (o *Orchestrator) LoadedAdapters() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	names := make([]string, len(o.adapters))
	for i, adapter := range o.adapters {
		names[i] = adapter.Name()
	}
	return names
}

// Search executes a meta-search with the orchestrator's own configuration.
func (o *Orchestrator) Search(ctx context.Context, query string, strategy Strategy) ([]search.Result, error) {
	return o.SearchWithConfig(ctx, query, strategy, o.config)
}

// SearchWithConfig executes one meta-search: dispatch per strategy, then
// canonicalize, deduplicate, rank, and truncate. Partial adapter failure
// still yields results; only total failure returns *AllFailedError.
func (o *Orchestrator) SearchWithConfig(ctx context.Context, query string, strategy Strategy, cfg Config) ([]search.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrInvalidConfig)
	}
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}

	adapters := o.snapshotAdapters()
	if len(adapters) == 0 {
		return nil, ErrNoAdapters
	}

	searchID := uuid.NewString()
	start := time.Now()
	logger.Info("meta-search started",
		"search_id", searchID, "query", query, "strategy", string(strategy), "adapters", len(adapters))

	var (
		merged   []search.Result
		failures map[string]error
		tried    int
	)
	switch strategy {
	case StrategyParallel:
		merged, failures = o.runParallel(ctx, adapters, query, cfg)
		tried = len(adapters)
	case StrategySequential:
		merged, failures, tried = o.runSequential(ctx, adapters, query, cfg)
	case StrategyAdaptive:
		merged, failures, tried = o.runAdaptive(ctx, adapters, query, cfg)
	}

	if tried > 0 && len(failures) == tried {
		o.stats.recordSearch(false, time.Since(start))
		logger.Warn("meta-search failed", "search_id", searchID, "adapters_tried", tried)
		return nil, &AllFailedError{Reasons: failures}
	}

	results := o.finalize(merged, query, cfg)
	o.stats.recordSearch(true, time.Since(start))
	logger.Info("meta-search completed",
		"search_id", searchID, "results", len(results), "failed_adapters", len(failures),
		"elapsed", time.Since(start).String())
	return results, nil
}

func (o *Orchestrator) snapshotAdapters() []search.Adapter {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]search.Adapter, len(o.adapters))
	copy(out, o.adapters)
	return out
}

type adapterOutcome struct {
	name    string
	results []search.Result
	err     error
}

// runParallel dispatches every adapter on its own goroutine with its own
// deadline. Collection stops once every adapter reports or the collection
// window elapses; late finishers keep running detached so their latency
// still lands in the statistics, but their results are discarded.
func (o *Orchestrator) runParallel(ctx context.Context, adapters []search.Adapter, query string, cfg Config) ([]search.Result, map[string]error) {
	ch := make(chan adapterOutcome, len(adapters))
	pending := make(map[string]struct{}, len(adapters))
	for _, adapter := range adapters {
		pending[adapter.Name()] = struct{}{}
		go func(a search.Adapter) {
			results, err := o.searchWithAdapter(ctx, a, query, cfg)
			ch <- adapterOutcome{name: a.Name(), results: results, err: err}
		}(adapter)
	}

	var merged []search.Result
	failures := make(map[string]error)
	window := time.NewTimer(cfg.Timeout + collectionGrace)
	defer window.Stop()

	for range adapters {
		select {
		case out := <-ch:
			delete(pending, out.name)
			if out.err != nil {
				failures[out.name] = out.err
				logger.Warn("adapter failed", "adapter", out.name, "error", out.err.Error())
				continue
			}
			merged = append(merged, out.results...)
		case <-window.C:
			for name := range pending {
				failures[name] = search.ErrTimeout
				logger.Warn("adapter abandoned after collection window", "adapter", name)
			}
			return merged, failures
		}
	}
	return merged, failures
}

// runSequential tries adapters one at a time in preference order, stopping
// early once the raw result count reaches the final cap.
func (o *Orchestrator) runSequential(ctx context.Context, adapters []search.Adapter, query string, cfg Config) ([]search.Result, map[string]error, int) {
	var merged []search.Result
	failures := make(map[string]error)
	tried := 0

	for _, adapter := range orderByPreference(adapters, cfg) {
		if len(merged) >= cfg.MaxTotalResults {
			break
		}
		tried++
		results, err := o.searchWithAdapter(ctx, adapter, query, cfg)
		if err != nil {
			failures[adapter.Name()] = err
			logger.Warn("adapter failed", "adapter", adapter.Name(), "error", err.Error())
			continue
		}
		merged = append(merged, results...)
	}
	return merged, failures, tried
}

// runAdaptive dispatches the preferred adapters in parallel with a short
// timeout, then walks fallback adapters sequentially while the merged count
// stays below the completeness threshold.
func (o *Orchestrator) runAdaptive(ctx context.Context, adapters []search.Adapter, query string, cfg Config) ([]search.Result, map[string]error, int) {
	preferred, fallback := partitionAdapters(adapters, cfg)
	if len(preferred) == 0 {
		// Nothing matches the preferred list; treat the whole load as
		// the quick phase so adaptive still searches something.
		preferred = adapters
		fallback = nil
	}

	merged, failures := o.runParallel(ctx, preferred, query, cfg.quickPhase())
	tried := len(preferred)

	for _, adapter := range fallback {
		if len(merged) >= cfg.adaptiveThreshold() {
			break
		}
		tried++
		results, err := o.searchWithAdapter(ctx, adapter, query, cfg)
		if err != nil {
			failures[adapter.Name()] = err
			logger.Warn("adapter failed", "adapter", adapter.Name(), "error", err.Error())
			continue
		}
		merged = append(merged, results...)
	}
	return merged, failures, tried
}

// searchWithAdapter runs one adapter call under its own deadline, records
// the attempt in the statistics whenever the call finishes, and filters out
// results with undersized snippets.
func (o *Orchestrator) searchWithAdapter(ctx context.Context, adapter search.Adapter, query string, cfg Config) ([]search.Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	start := time.Now()
	results, err := adapter.Search(callCtx, query, cfg.MaxResultsPerAdapter)
	latency := time.Since(start)

	if err != nil && (errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded)) {
		err = search.ErrTimeout
	}
	o.stats.recordAttempt(adapter.Name(), err == nil, latency)
	if err != nil {
		return nil, err
	}

	filtered := results[:0:0]
	for _, r := range results {
		if len(r.Snippet) >= cfg.MinSnippetLength {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// finalize canonicalizes, deduplicates, ranks, and truncates the merged
// set. Canonical URLs are always populated, even when grouping is skipped.
func (o *Orchestrator) finalize(results []search.Result, query string, cfg Config) []search.Result {
	opts := urlcanon.DefaultOptions()
	for i := range results {
		results[i].CanonicalURL = urlcanon.Canonicalize(results[i].URL, opts)
	}

	ranker := NewRanker(cfg)
	if cfg.EnableRanking {
		ranker.Score(results, query, cfg)
	}
	if cfg.EnableDeduplication {
		results = dedupByCanonical(results)
	}
	if cfg.EnableRanking {
		ranker.Order(results)
	}
	if len(results) > cfg.MaxTotalResults {
		results = results[:cfg.MaxTotalResults]
	}
	return results
}

// dedupByCanonical keeps one result per canonical URL. The first reporter
// fixes the position and provenance; a higher-scoring later duplicate
// replaces the content but keeps the original source credit.
func dedupByCanonical(results []search.Result) []search.Result {
	index := make(map[string]int, len(results))
	out := make([]search.Result, 0, len(results))
	for _, r := range results {
		at, seen := index[r.CanonicalURL]
		if !seen {
			index[r.CanonicalURL] = len(out)
			out = append(out, r)
			continue
		}
		if r.Score > out[at].Score {
			firstSource := out[at].Source
			out[at] = r
			out[at].Source = firstSource
		}
	}
	return out
}

// orderByPreference returns adapters sorted so that names on the preferred
// list come first in list order, with the rest keeping their load order.
func orderByPreference(adapters []search.Adapter, cfg Config) []search.Adapter {
	byName := make(map[string]search.Adapter, len(adapters))
	for _, adapter := range adapters {
		byName[adapter.Name()] = adapter
	}

	ordered := make([]search.Adapter, 0, len(adapters))
	taken := make(map[string]struct{}, len(adapters))
	for _, name := range cfg.PreferredAdapters {
		if adapter, ok := byName[name]; ok {
			ordered = append(ordered, adapter)
			taken[name] = struct{}{}
		}
	}
	for _, adapter := range adapters {
		if _, ok := taken[adapter.Name()]; !ok {
			ordered = append(ordered, adapter)
		}
	}
	return ordered
}

// partitionAdapters splits loaded adapters into preferred and fallback sets
// per the configured lists, preserving list order.
func partitionAdapters(adapters []search.Adapter, cfg Config) (preferred, fallback []search.Adapter) {
	byName := make(map[string]search.Adapter, len(adapters))
	for _, adapter := range adapters {
		byName[adapter.Name()] = adapter
	}
	for _, name := range cfg.PreferredAdapters {
		if adapter, ok := byName[name]; ok {
			preferred = append(preferred, adapter)
		}
	}
	for _, name := range cfg.FallbackAdapters {
		if adapter, ok := byName[name]; ok {
			fallback = append(fallback, adapter)
		}
	}
	return preferred, fallback
}

// Stats returns a point-in-time snapshot of the running counters. It is
// safe to call concurrently with in-flight searches and never mutates
// state.
func (o *Orchestrator) Stats() Statistics {
	return o.stats.snapshot()
}

// ResetStatistics clears every counter.
func (o *Orchestrator) ResetStatistics() {
	o.stats.reset()
}

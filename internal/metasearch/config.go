// Package metasearch orchestrates concurrent searches across multiple
// unreliable back-ends, merging their results through URL canonicalization,
// deduplication, and ranking while tracking per-adapter reliability.
package metasearch

import (
	"fmt"
	"time"
)

// Strategy is the policy governing how adapters are dispatched.
type Strategy string

const (
	// StrategyParallel dispatches every loaded adapter concurrently and
	// waits up to the per-adapter timeout for each.
	StrategyParallel Strategy = "parallel"

	// StrategySequential tries adapters one at a time, stopping early once
	// enough raw results have accumulated.
	StrategySequential Strategy = "sequential"

	// StrategyAdaptive runs preferred adapters in parallel with a short
	// timeout, then walks the fallback list sequentially if the merged
	// count is still below the completeness threshold.
	StrategyAdaptive Strategy = "adaptive"
)

// ParseStrategy resolves a strategy name, rejecting unknown values before
// any I/O happens.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case StrategyParallel, StrategySequential, StrategyAdaptive:
		return Strategy(name), nil
	default:
		return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, name)
	}
}

// Config holds the orchestration options for one or more searches. It is
// treated as an immutable value; methods never modify it.
type Config struct {
	// MaxResultsPerAdapter caps how many results a single adapter may
	// contribute per call.
	MaxResultsPerAdapter int

	// Timeout is the deadline applied to each individual adapter call,
	// not a shared global budget.
	Timeout time.Duration

	// EnableDeduplication groups results by canonical URL and keeps one
	// representative per group.
	EnableDeduplication bool

	// EnableRanking scores and reorders the merged result set. When
	// false, results keep their strategy-determined arrival order.
	EnableRanking bool

	// PreferredAdapters are tried first, in order. They also receive the
	// highest source-reliability weight during ranking.
	PreferredAdapters []string

	// FallbackAdapters are tried only when the preferred set
	// underdelivers.
	FallbackAdapters []string

	// MinSnippetLength drops results whose snippet is shorter.
	MinSnippetLength int

	// MaxTotalResults caps the final merged result set.
	MaxTotalResults int
}

// DefaultConfig returns the OSINT-tuned defaults: terminal-browser paths
// preferred over the direct HTTP engines.
func DefaultConfig() Config {
	return Config{
		MaxResultsPerAdapter: 10,
		Timeout:              30 * time.Second,
		EnableDeduplication:  true,
		EnableRanking:        true,
		PreferredAdapters:    []string{"duckduckgo", "lynx", "curl"},
		FallbackAdapters:     []string{"google", "bing"},
		MinSnippetLength:     20,
		MaxTotalResults:      50,
	}
}

// Validate rejects configurations that could never produce a meaningful
// search. It runs before any adapter I/O.
func (c Config) Validate() error {
	if c.MaxResultsPerAdapter <= 0 {
		return fmt.Errorf("%w: max results per adapter must be positive, got %d", ErrInvalidConfig, c.MaxResultsPerAdapter)
	}
	if c.MaxTotalResults <= 0 {
		return fmt.Errorf("%w: max total results must be positive, got %d", ErrInvalidConfig, c.MaxTotalResults)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidConfig, c.Timeout)
	}
	if c.MinSnippetLength < 0 {
		return fmt.Errorf("%w: min snippet length must not be negative, got %d", ErrInvalidConfig, c.MinSnippetLength)
	}
	return nil
}

// adaptiveThreshold is the merged-result count below which the adaptive
// strategy falls back to the secondary adapter list. Half the final cap is
// a tunable default, not an invariant.
func (c Config) adaptiveThreshold() int {
	return c.MaxTotalResults / 2
}

// quickPhase derives the short-timeout configuration used for the parallel
// phase of the adaptive strategy.
func (c Config) quickPhase() Config {
	quick := c
	quick.Timeout = c.Timeout / 2
	if quick.Timeout <= 0 {
		quick.Timeout = c.Timeout
	}
	quick.MaxResultsPerAdapter = c.MaxResultsPerAdapter / 2
	if quick.MaxResultsPerAdapter <= 0 {
		quick.MaxResultsPerAdapter = 1
	}
	return quick
}

package metasearch

import (
	"sync"
	"time"
)

// AdapterPerformance holds the running reliability counters for one
// adapter. Latency accumulates for every attempt; the derived average is
// computed over successful calls.
type AdapterPerformance struct {
	Attempts     int64         `json:"attempts"`
	Successes    int64         `json:"successes"`
	Failures     int64         `json:"failures"`
	TotalLatency time.Duration `json:"total_latency"`
}

// SuccessRate returns successes/attempts, or 0 before any attempt.
func (p AdapterPerformance) SuccessRate() float64 {
	if p.Attempts == 0 {
		return 0
	}
	return float64(p.Successes) / float64(p.Attempts)
}

// AverageResponseTime returns the mean latency per successful call, or 0
// when nothing has succeeded yet.
func (p AdapterPerformance) AverageResponseTime() time.Duration {
	if p.Successes == 0 {
		return 0
	}
	return p.TotalLatency / time.Duration(p.Successes)
}

// Statistics is an aggregate snapshot of orchestrator activity. It
// accumulates across every search performed by one orchestrator instance
// and resets only on re-instantiation or an explicit reset.
type Statistics struct {
	TotalSearches      int64                         `json:"total_searches"`
	SuccessfulSearches int64                         `json:"successful_searches"`
	FailedSearches     int64                         `json:"failed_searches"`
	TotalLatency       time.Duration                 `json:"total_latency"`
	Adapters           map[string]AdapterPerformance `json:"adapters"`
}

// SuccessRate returns the fraction of searches that produced results.
func (s Statistics) SuccessRate() float64 {
	if s.TotalSearches == 0 {
		return 0
	}
	return float64(s.SuccessfulSearches) / float64(s.TotalSearches)
}

// AverageResponseTime returns the mean wall-clock time per search.
func (s Statistics) AverageResponseTime() time.Duration {
	if s.TotalSearches == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(s.TotalSearches)
}

// statsTracker synchronizes the shared counters. Adapter attempts may be
// recorded concurrently by in-flight dispatch goroutines, including
// detached ones finishing after their phase was abandoned.
type statsTracker struct {
	mu    sync.Mutex
	stats Statistics
}

func newStatsTracker() *statsTracker {
	return &statsTracker{
		stats: Statistics{Adapters: make(map[string]AdapterPerformance)},
	}
}

func (t *statsTracker) recordSearch(success bool, latency time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.TotalSearches++
	t.stats.TotalLatency += latency
	if success {
		t.stats.SuccessfulSearches++
	} else {
		t.stats.FailedSearches++
	}
}

func (t *statsTracker) recordAttempt(adapter string, success bool, latency time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	perf := t.stats.Adapters[adapter]
	perf.Attempts++
	perf.TotalLatency += latency
	if success {
		perf.Successes++
	} else {
		perf.Failures++
	}
	t.stats.Adapters[adapter] = perf
}

// snapshot returns a deep copy that later updates cannot mutate.
func (t *statsTracker) snapshot() Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.stats
	out.Adapters = make(map[string]AdapterPerformance, len(t.stats.Adapters))
	for name, perf := range t.stats.Adapters {
		out.Adapters[name] = perf
	}
	return out
}

func (t *statsTracker) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = Statistics{Adapters: make(map[string]AdapterPerformance)}
}

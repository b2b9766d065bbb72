package search

import (
	"context"
	"time"
)

// MockAdapter implements Adapter for testing. Its results, name, latency,
// and failure mode are all configurable.
type MockAdapter struct {
	name      string
	results   []Result
	delay     time.Duration
	err       error
	available bool
}

// NewMockAdapter creates a mock adapter with a small default result set.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{
		name:      string(AdapterMock),
		available: true,
		results: []Result{
			{
				Title:   "Example Article 1",
				URL:     "https://example.com/article1",
				Snippet: "This is a mock search result used in tests.",
				Source:  string(AdapterMock),
				Rank:    1,
			},
			{
				Title:   "Test Article 2",
				URL:     "https://test.org/article2",
				Snippet: "Another mock search result with different content.",
				Source:  string(AdapterMock),
				Rank:    2,
			},
			{
				Title:   "Demo Article 3",
				URL:     "https://demo.net/article3",
				Snippet: "Third mock result to simulate multiple search results.",
				Source:  string(AdapterMock),
				Rank:    3,
			},
		},
	}
}

// Name returns the configured adapter name.
func (m *MockAdapter) Name() string {
	return m.name
}

// Available returns the configured availability.
func (m *MockAdapter) Available() bool {
	return m.available
}

// Search returns the configured results after the configured delay, or the
// configured error. It aborts early if ctx expires during the delay.
func (m *MockAdapter) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ErrTimeout
		}
	}
	if m.err != nil {
		return nil, m.err
	}

	n := len(m.results)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]Result, n)
	copy(out, m.results[:n])
	for i := range out {
		out[i].Source = m.name
	}
	return out, nil
}

// SetName overrides the adapter name reported in results and statistics.
func (m *MockAdapter) SetName(name string) *MockAdapter {
	m.name = name
	return m
}

// SetResults overrides the result set.
func (m *MockAdapter) SetResults(results []Result) *MockAdapter {
	m.results = results
	return m
}

// SetDelay makes Search block for d before responding.
func (m *MockAdapter) SetDelay(d time.Duration) *MockAdapter {
	m.delay = d
	return m
}

// SetError makes Search fail with err.
func (m *MockAdapter) SetError(err error) *MockAdapter {
	m.err = err
	return m
}

// SetAvailable overrides the availability check.
func (m *MockAdapter) SetAvailable(available bool) *MockAdapter {
	m.available = available
	return m
}

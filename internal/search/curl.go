package search

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os/exec"
	"strings"
	"sync"

	"github.com/nestorwheelock/osint-search/internal/logger"
)

// CurlAdapter shells out to curl with rotating user agents. Like lynx, the
// subprocess path sidesteps the TLS and header fingerprinting that flags
// Go's own HTTP client on hostile back-ends.
type CurlAdapter struct {
	curlPath string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCurlAdapter creates a curl-backed search adapter.
func NewCurlAdapter() *CurlAdapter {
	path, err := exec.LookPath("curl")
	if err != nil {
		path = ""
	}
	return &CurlAdapter{
		curlPath: path,
		rng:      rand.New(rand.NewSource(rand.Int63())),
	}
}

// Name returns the stable identifier of this adapter.
func (c *CurlAdapter) Name() string {
	return string(AdapterCurl)
}

// Available reports whether the curl executable was found on PATH.
func (c *CurlAdapter) Available() bool {
	return c.curlPath != ""
}

// Search fetches the DuckDuckGo HTML endpoint via curl and parses the page.
func (c *CurlAdapter) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if !c.Available() {
		return nil, fmt.Errorf("%w: curl executable not found", ErrUnavailable)
	}

	c.mu.Lock()
	userAgent := rotatingUserAgents[c.rng.Intn(len(rotatingUserAgents))]
	c.mu.Unlock()

	cmd := exec.CommandContext(ctx, c.curlPath,
		"-s",
		"-L",
		"--compressed",
		"-H", "User-Agent: "+userAgent,
		"-H", "Accept: text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"-H", "Accept-Language: en-US,en;q=0.5",
		"-H", "Connection: keep-alive",
		buildDuckDuckGoURL(query, limit),
	)

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: curl exited: %s", ErrUnavailable, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	results, err := parseDuckDuckGoHTML(string(output), limit, c.Name())
	if err != nil {
		return nil, err
	}

	logger.Debug("curl search completed", "query", query, "results", len(results))
	return results, nil
}

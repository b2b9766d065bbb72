package search

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/nestorwheelock/osint-search/internal/logger"
)

// LynxAdapter drives the lynx terminal browser as a subprocess. Terminal
// browsers present a fingerprint that rarely trips bot detection, which
// makes this one of the more reliable paths for OSINT queries.
type LynxAdapter struct {
	lynxPath string
}

// NewLynxAdapter creates a lynx-backed search adapter.
func NewLynxAdapter() *LynxAdapter {
	path, err := exec.LookPath("lynx")
	if err != nil {
		path = ""
	}
	return &LynxAdapter{lynxPath: path}
}

// Name returns the stable identifier of this adapter.
func (l *LynxAdapter) Name() string {
	return string(AdapterLynx)
}

// Available reports whether the lynx executable was found on PATH.
func (l *LynxAdapter) Available() bool {
	return l.lynxPath != ""
}

// Search runs lynx -dump against the DuckDuckGo HTML endpoint and parses
// the text output.
func (l *LynxAdapter) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if !l.Available() {
		return nil, fmt.Errorf("%w: lynx executable not found", ErrUnavailable)
	}

	cmd := exec.CommandContext(ctx, l.lynxPath,
		"-dump",
		"-listonly=off",
		"-nolist",
		"-width=200",
		"-user_agent=Lynx/2.8.9rel.1 libwww-FM/2.14 SSL-MM/1.4.1",
		buildDuckDuckGoURL(query, limit),
	)

	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: lynx exited: %s", ErrUnavailable, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	text := string(output)
	if isBlockedBody(text) {
		return nil, ErrBlocked
	}

	results := parseLynxDump(text, limit, l.Name())
	logger.Debug("lynx search completed", "query", query, "results", len(results))
	return results, nil
}

// parseLynxDump extracts results from lynx text output. The dump carries a
// title line followed within a few lines by the destination URL and an
// optional snippet line.
func parseLynxDump(text string, limit int, source string) []Result {
	var results []Result
	lines := strings.Split(text, "\n")

	for i := 0; i < len(lines) && len(results) < limit; i++ {
		line := strings.TrimSpace(lines[i])
		if !looksLikeTitle(line) {
			continue
		}

		var resultURL, snippet string
		urlIdx := -1
		for j := i + 1; j < len(lines) && j <= i+4; j++ {
			next := strings.TrimSpace(lines[j])
			if strings.HasPrefix(next, "http") {
				resultURL = next
				urlIdx = j
				break
			}
			if len(next) > 20 {
				snippet = truncateOnRuneBoundary(next, 200)
			}
		}

		if resultURL == "" || strings.Contains(resultURL, "duckduckgo.com") {
			continue
		}

		results = append(results, Result{
			Title:   cleanText(line),
			URL:     resultURL,
			Snippet: cleanText(snippet),
			Source:  source,
			Rank:    len(results) + 1,
		})
		i = urlIdx // lines up to the URL belong to this result
	}

	return results
}

// truncateOnRuneBoundary cuts s to at most max bytes without splitting a
// multibyte rune.
func truncateOnRuneBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// looksLikeTitle filters dump lines down to plausible result titles,
// skipping navigation chrome, link markers, and the search form itself.
func looksLikeTitle(line string) bool {
	if len(line) <= 10 {
		return false
	}
	if strings.HasPrefix(line, "_") || strings.HasPrefix(line, "[") || strings.HasPrefix(line, "http") {
		return false
	}
	if strings.HasPrefix(line, "Search") || strings.Contains(line, "DuckDuckGo") {
		return false
	}
	return true
}

package metasearch

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidConfig is returned for bad strategy names, empty or
	// unknown adapter lists, and non-positive limits. It is raised before
	// any I/O.
	ErrInvalidConfig = errors.New("invalid search configuration")

	// ErrNoAdapters is returned when a search is attempted before any
	// adapters have been loaded.
	ErrNoAdapters = errors.New("no search adapters loaded")
)

// AllFailedError is returned when every dispatched adapter errored. It
// carries the per-adapter failure reasons for diagnosis; partial failure
// never produces it.
type AllFailedError struct {
	Reasons map[string]error
}

// Error lists each failed adapter with its reason.
func (e *AllFailedError) Error() string {
	names := make([]string, 0, len(e.Reasons))
	for name := range e.Reasons {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %v", name, e.Reasons[name]))
	}
	return "all search adapters failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the individual adapter errors to errors.Is/As.
func (e *AllFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Reasons))
	for _, err := range e.Reasons {
		errs = append(errs, err)
	}
	return errs
}

package search

import "errors"

var (
	// ErrUnknownAdapter is returned when an adapter name does not resolve
	// to a known variant.
	ErrUnknownAdapter = errors.New("unknown search adapter")

	// ErrUnavailable is returned when the executable or service backing an
	// adapter is unreachable.
	ErrUnavailable = errors.New("search adapter is unavailable")

	// ErrTimeout is returned when an adapter exceeds its allotted deadline.
	ErrTimeout = errors.New("search adapter timed out")

	// ErrBlocked is returned when the back-end signals bot detection, such
	// as a CAPTCHA page or a challenge response.
	ErrBlocked = errors.New("search blocked by bot detection")

	// ErrMalformed is returned when the result page cannot be parsed.
	ErrMalformed = errors.New("malformed search response")

	// ErrNoResults is returned when a search completes but yields nothing.
	ErrNoResults = errors.New("no search results found")
)

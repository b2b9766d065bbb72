// Package urlcanon normalizes URLs into a stable canonical form so that
// results pointing at the same page through different tracking decorations,
// mobile subdomains, or trailing slashes compare equal. All functions are
// pure; none perform I/O.
package urlcanon

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// trackingParams is the deny-list of query parameters stripped during
// canonicalization. Matching is case-insensitive and exact, except for the
// utm_ prefix which is matched as a family.
var trackingParams = map[string]struct{}{
	// Google Analytics / Ads
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {}, "utm_term": {},
	"utm_content": {}, "utm_id": {}, "utm_source_platform": {},
	"utm_creative_format": {}, "utm_marketing_tactic": {},
	"gclid": {}, "gclsrc": {}, "dclid": {},
	// Facebook
	"fbclid": {}, "fb_action_ids": {}, "fb_action_types": {}, "fb_ref": {},
	"fb_source": {},
	// Twitter
	"ref_src": {}, "ref_url": {}, "twclid": {},
	// Affiliate networks
	"zanpid": {}, "ranmid": {}, "raneaid": {}, "ransiteid": {}, "spm": {},
	// HubSpot / Mailchimp / Matomo
	"_hsenc": {}, "_hsmi": {}, "hsctatracking": {},
	"mc_cid": {}, "mc_eid": {},
	"pk_campaign": {}, "pk_kwd": {}, "pk_medium": {}, "pk_source": {},
	// Session and referrer noise
	"ref": {}, "referer": {}, "referrer": {}, "source": {}, "campaign": {},
	"medium": {},
	// Time-based and cache-busting noise
	"t": {}, "timestamp": {}, "_t": {},
	"v": {}, "version": {}, "ver": {}, "cache": {}, "random": {}, "r": {},
	"_": {},
}

// hostPrefixes matches www (including www2, www3...), m. and mobile.
// subdomain prefixes removed during domain normalization.
var hostPrefixes = regexp.MustCompile(`^(www\d*|m|mobile)\.`)

var multiSlash = regexp.MustCompile(`/{2,}`)

// Options controls individual canonicalization rules. The zero value is not
// useful; use DefaultOptions as the starting point.
type Options struct {
	RemoveFragment  bool // drop #fragment
	RemoveTracking  bool // strip the tracking-parameter deny-list
	NormalizeDomain bool // strip www/m/mobile prefixes
	SortParams      bool // sort surviving query parameters by key
}

// DefaultOptions enables every rule. This is the form the orchestrator uses
// for deduplication.
func DefaultOptions() Options {
	return Options{
		RemoveFragment:  true,
		RemoveTracking:  true,
		NormalizeDomain: true,
		SortParams:      true,
	}
}

// Canonicalize normalizes rawURL according to opts. Unparseable or
// schemeless-and-hostless input is returned unchanged so callers never lose
// a URL to a canonicalization failure. Canonicalize is idempotent:
// Canonicalize(Canonicalize(u)) == Canonicalize(u).
func Canonicalize(rawURL string, opts Options) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if u.Scheme == "" && u.Host == "" {
		return rawURL
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "https"
	}

	host := strings.ToLower(u.Host)
	host = stripDefaultPort(host, scheme)
	if opts.NormalizeDomain {
		host = hostPrefixes.ReplaceAllString(host, "")
	}

	path := normalizePath(u.Path)
	query := normalizeQuery(u, opts)

	canonical := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     path,
		RawQuery: query,
	}
	if !opts.RemoveFragment {
		canonical.Fragment = u.Fragment
	}
	return canonical.String()
}

func stripDefaultPort(host, scheme string) string {
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		return strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		return strings.TrimSuffix(host, ":443")
	}
	return host
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	path = multiSlash.ReplaceAllString(path, "/")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func normalizeQuery(u *url.URL, opts Options) string {
	values := u.Query()
	if len(values) == 0 {
		return ""
	}

	// Walk the raw query rather than the decoded map so that the unsorted
	// path keeps the parameter order of the input.
	keys := make([]string, 0, len(values))
	for _, key := range queryKeyOrder(u.RawQuery) {
		lower := strings.ToLower(key)
		if opts.RemoveTracking {
			if _, denied := trackingParams[lower]; denied {
				continue
			}
			if strings.HasPrefix(lower, "utm_") {
				continue
			}
		}
		if !hasNonBlankValue(values[key]) {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return ""
	}
	if opts.SortParams {
		sort.Strings(keys)
	}

	var b strings.Builder
	for _, key := range keys {
		vals := values[key]
		if opts.SortParams {
			vals = append([]string(nil), vals...)
			sort.Strings(vals)
		}
		for _, val := range vals {
			if strings.TrimSpace(val) == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(val))
		}
	}
	return b.String()
}

// queryKeyOrder returns the distinct decoded query keys in first-appearance
// order. Keys that fail to decode are kept verbatim, matching url.Values.
func queryKeyOrder(rawQuery string) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key = pair[:i]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

func hasNonBlankValue(vals []string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// ExtractDomain returns the normalized host of rawURL with www/mobile
// prefixes removed, or "" when the URL cannot be parsed.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return hostPrefixes.ReplaceAllString(host, "")
}

// AreEquivalent reports whether two URLs canonicalize to the same form.
func AreEquivalent(url1, url2 string) bool {
	opts := DefaultOptions()
	return Canonicalize(url1, opts) == Canonicalize(url2, opts)
}

// GroupByCanonical groups raw URLs by their canonical form. Group members
// keep their input order.
func GroupByCanonical(urls []string) map[string][]string {
	opts := DefaultOptions()
	groups := make(map[string][]string)
	for _, u := range urls {
		canonical := Canonicalize(u, opts)
		groups[canonical] = append(groups[canonical], u)
	}
	return groups
}

// Deduplicate removes URLs whose canonical form was already seen. The
// first-encountered raw URL of each group is kept, in input order.
func Deduplicate(urls []string) []string {
	opts := DefaultOptions()
	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		canonical := Canonicalize(u, opts)
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		unique = append(unique, u)
	}
	return unique
}

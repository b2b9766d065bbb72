package metasearch

import (
	"sort"
	"strings"

	"github.com/nestorwheelock/osint-search/internal/search"
	"github.com/nestorwheelock/osint-search/internal/urlcanon"
)

// Ranking weights. These are tunable defaults validated through relative
// ordering, not exact score values.
const (
	weightTitleRelevance    = 0.30
	weightSnippetRelevance  = 0.25
	weightURLQuality        = 0.15
	weightSourceReliability = 0.15
	weightSnippetLength     = 0.10
	weightDomainAuthority   = 0.05

	sourceWeightPreferred = 0.9
	sourceWeightFallback  = 0.7
	sourceWeightUnranked  = 0.5

	// snippetLengthCap is the snippet length at which the length factor
	// saturates.
	snippetLengthCap = 200
)

// domainAuthority holds simple authority hints keyed by substring match.
var domainAuthority = []struct {
	marker string
	score  float64
}{
	{".gov", 0.95},
	{".edu", 0.9},
	{"wikipedia", 0.85},
	{".org", 0.8},
	{"github", 0.8},
	{"stackoverflow", 0.8},
}

// Ranker scores and orders merged result sets. Adapter reliability comes
// from the configured preference lists, not from adapter logic.
type Ranker struct {
	sourceWeight map[string]float64
	sourceOrder  map[string]int
}

// NewRanker builds a ranker from the adapter preference lists in cfg.
func NewRanker(cfg Config) *Ranker {
	r := &Ranker{
		sourceWeight: make(map[string]float64),
		sourceOrder:  make(map[string]int),
	}
	order := 0
	for _, name := range cfg.PreferredAdapters {
		r.sourceWeight[name] = sourceWeightPreferred
		r.sourceOrder[name] = order
		order++
	}
	for _, name := range cfg.FallbackAdapters {
		if _, ok := r.sourceWeight[name]; ok {
			continue
		}
		r.sourceWeight[name] = sourceWeightFallback
		r.sourceOrder[name] = order
		order++
	}
	return r
}

// Rank returns results ordered descending by combined score. Ties break by
// adapter preference order, then by the result's original position within
// its adapter's raw list. The input slice is not modified.
func (r *Ranker) Rank(results []search.Result, query string, cfg Config) []search.Result {
	if len(results) == 0 {
		return results
	}

	ranked := make([]search.Result, len(results))
	copy(ranked, results)
	r.Score(ranked, query, cfg)
	r.Order(ranked)
	return ranked
}

// Score computes and stores the combined score of every result in place.
func (r *Ranker) Score(results []search.Result, query string, cfg Config) {
	queryTerms := termSet(query)
	for i := range results {
		results[i].Score = r.scoreResult(results[i], queryTerms, cfg)
	}
}

// Order sorts already-scored results into their final order and reassigns
// sequential ranks.
func (r *Ranker) Order(results []search.Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		oi, oj := r.preferenceOrder(results[i].Source), r.preferenceOrder(results[j].Source)
		if oi != oj {
			return oi < oj
		}
		return results[i].Rank < results[j].Rank
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}

func (r *Ranker) preferenceOrder(source string) int {
	if order, ok := r.sourceOrder[source]; ok {
		return order
	}
	return len(r.sourceOrder)
}

func (r *Ranker) scoreResult(result search.Result, queryTerms map[string]struct{}, cfg Config) float64 {
	score := overlapFraction(result.Title, queryTerms) * weightTitleRelevance
	score += overlapFraction(result.Snippet, queryTerms) * weightSnippetRelevance

	// Shorter, cleaner URLs score higher.
	urlQuality := 1 - float64(len(result.URL))/100
	if urlQuality < 0 {
		urlQuality = 0
	}
	score += urlQuality * weightURLQuality

	reliability, ok := r.sourceWeight[result.Source]
	if !ok {
		reliability = sourceWeightUnranked
	}
	score += reliability * weightSourceReliability

	score += snippetLengthScore(result.Snippet, cfg.MinSnippetLength) * weightSnippetLength
	score += authorityScore(result.URL) * weightDomainAuthority

	return score
}

// snippetLengthScore is 0 below the configured minimum, then grows with
// length up to the saturation cap.
func snippetLengthScore(snippet string, minLength int) float64 {
	n := len(snippet)
	if n < minLength {
		return 0
	}
	score := float64(n) / snippetLengthCap
	if score > 1 {
		score = 1
	}
	return score
}

func authorityScore(rawURL string) float64 {
	target := strings.ToLower(urlcanon.ExtractDomain(rawURL))
	if target == "" {
		target = strings.ToLower(rawURL)
	}
	for _, entry := range domainAuthority {
		if strings.Contains(target, entry.marker) {
			return entry.score
		}
	}
	return 0.5
}

// overlapFraction is the fraction of query terms appearing in text.
func overlapFraction(text string, queryTerms map[string]struct{}) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	matches := 0
	for term := range termSet(text) {
		if _, ok := queryTerms[term]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(queryTerms))
}

func termSet(text string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(text)) {
		terms[field] = struct{}{}
	}
	return terms
}

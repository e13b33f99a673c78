package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mbrus062/corpus/internal/core/domain"
	"github.com/mbrus062/corpus/internal/core/ports/driven"
	"github.com/mbrus062/corpus/internal/core/ports/driving"
	"github.com/mbrus062/corpus/internal/logger"
)

// Query planning defaults.
const (
	DefaultAnswerCount       = 6
	DefaultMaxORTerms        = 12
	DefaultAnswerFetchFactor = 60
	DefaultSearchFetchFactor = 8
)

var (
	defaultAnchorTerms = []string{
		"predestination", "predestinate", "election", "elect",
		"reprobate", "reprobation", "grace", "faith",
		"justification", "providence", "will", "free",
		"responsibility", "sin", "corruption", "merit",
		"works", "calling",
	}

	defaultBaselineTerms = []string{
		"predestination", "election", "grace", "justification", "faith",
	}

	defaultStopwords = []string{
		"the", "a", "an", "and", "or", "not", "to", "of", "in", "on",
		"for", "with", "by", "as", "at", "from",
		"is", "are", "was", "were", "be", "been", "being",
		"does", "do", "did", "that", "this", "these", "those",
		"it", "its", "he", "she", "they", "them", "his", "her",
		"their", "you", "your", "i", "we", "our", "us",
		"what", "how", "why", "who", "whom", "which", "when", "where",
		"volume", "volumes", "book", "books", "chapter", "chapters",
		"argue", "argues", "connect", "connection",
		"summarize", "summary", "doctrine",
		"relate", "relates", "relation", "within", "about",
	}

	defaultBoilerplateMarkers = []string{
		"project gutenberg",
		"start of the project gutenberg ebook",
		"transcriber's note",
		"gutenberg license",
	}
)

var (
	nonWordRuns = regexp.MustCompile(`[^\w]+`)
	bareTerm    = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// Ensure QueryPlanner implements the interface.
var _ driving.QueryService = (*QueryPlanner)(nil)

// QueryPlanner turns natural-language questions into ranked full-text
// queries. Questions fall through three tiers: domain anchor terms
// found in the question, a broad OR over its informative tokens, and
// finally the single longest token. The first tier that produces
// results wins.
type QueryPlanner struct {
	store driven.DocumentStore

	anchorTerms   []string
	baselineTerms []string
	stopwords     map[string]struct{}
	boilerplate   []string

	maxORTerms        int
	answerFetchFactor int
	searchFetchFactor int
}

// QueryOption configures a QueryPlanner.
type QueryOption func(*QueryPlanner)

// WithAnchorTerms replaces the anchor vocabulary.
func WithAnchorTerms(terms []string) QueryOption {
	return func(p *QueryPlanner) {
		if len(terms) > 0 {
			p.anchorTerms = terms
		}
	}
}

// WithBaselineTerms replaces the baseline terms appended to every
// anchor-tier query.
func WithBaselineTerms(terms []string) QueryOption {
	return func(p *QueryPlanner) {
		if len(terms) > 0 {
			p.baselineTerms = terms
		}
	}
}

// WithStopwords replaces the token-filter stopword list.
func WithStopwords(words []string) QueryOption {
	return func(p *QueryPlanner) {
		if len(words) > 0 {
			p.stopwords = stringSet(words)
		}
	}
}

// WithBoilerplateMarkers replaces the markers that disqualify a chunk
// from results.
func WithBoilerplateMarkers(markers []string) QueryOption {
	return func(p *QueryPlanner) {
		if len(markers) > 0 {
			p.boilerplate = markers
		}
	}
}

// WithMaxORTerms caps the broad-OR tier's term count.
func WithMaxORTerms(n int) QueryOption {
	return func(p *QueryPlanner) {
		if n > 0 {
			p.maxORTerms = n
		}
	}
}

// WithFetchFactors sets the over-fetch multipliers used to compensate
// for rows dropped by the boilerplate filter.
func WithFetchFactors(answer, search int) QueryOption {
	return func(p *QueryPlanner) {
		if answer > 0 {
			p.answerFetchFactor = answer
		}
		if search > 0 {
			p.searchFetchFactor = search
		}
	}
}

// NewQueryPlanner creates a query planner backed by the given store.
func NewQueryPlanner(store driven.DocumentStore, opts ...QueryOption) *QueryPlanner {
	p := &QueryPlanner{
		store:             store,
		anchorTerms:       defaultAnchorTerms,
		baselineTerms:     defaultBaselineTerms,
		stopwords:         stringSet(defaultStopwords),
		boilerplate:       defaultBoilerplateMarkers,
		maxORTerms:        DefaultMaxORTerms,
		answerFetchFactor: DefaultAnswerFetchFactor,
		searchFetchFactor: DefaultSearchFetchFactor,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Answer returns up to k ranked, boilerplate-filtered results for a
// question, falling through the query tiers until one produces hits.
func (p *QueryPlanner) Answer(
	ctx context.Context, question string, filters domain.SearchFilters, k int,
) ([]domain.SearchResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrInvalidInput
	}
	if k <= 0 {
		k = DefaultAnswerCount
	}

	var attempts []domain.QueryAttempt

	run := func(tier domain.QueryTier, ftsQuery string) ([]domain.SearchResult, error) {
		// Empty tiers are still recorded so an exhausted fallthrough
		// reports every tier it considered.
		attempts = append(attempts, domain.QueryAttempt{Tier: tier, Query: ftsQuery})
		if ftsQuery == "" {
			return nil, nil
		}
		logger.Debug("query tier %s: %s", tier, ftsQuery)
		return p.fetch(ctx, ftsQuery, filters, k, k*p.answerFetchFactor, true)
	}

	results, err := run(domain.TierAnchor, p.anchorFirstQuery(question))
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		results, err = run(domain.TierBroadOR, p.broadORQuery(question))
		if err != nil {
			return nil, err
		}
	}

	if len(results) == 0 {
		results, err = run(domain.TierSingle, p.singleTermQuery(question))
		if err != nil {
			return nil, err
		}
	}

	if len(results) == 0 {
		return nil, &domain.NoResultsError{Question: question, Attempts: attempts}
	}
	return results, nil
}

// Search executes a literal full-text query with the same filtering
// pipeline. The query syntax is passed through to the index verbatim.
func (p *QueryPlanner) Search(
	ctx context.Context, ftsQuery string, filters domain.SearchFilters,
	limit int, skipBoilerplate bool,
) ([]domain.SearchResult, error) {
	if limit <= 0 {
		limit = 10
	}
	return p.fetch(ctx, ftsQuery, filters, limit, limit*p.searchFetchFactor, skipBoilerplate)
}

// fetch over-fetches ranked rows, drops boilerplate chunks, and
// truncates to want. fetchN > want keeps the filter from starving the
// result set.
func (p *QueryPlanner) fetch(
	ctx context.Context, ftsQuery string, filters domain.SearchFilters,
	want, fetchN int, skipBoilerplate bool,
) ([]domain.SearchResult, error) {
	if fetchN < want {
		fetchN = want
	}

	rows, err := p.store.Search(ctx, ftsQuery, filters, fetchN)
	if err != nil {
		return nil, fmt.Errorf("full-text search: %w", err)
	}

	out := make([]domain.SearchResult, 0, want)
	for _, r := range rows {
		if skipBoilerplate && p.isBoilerplate(r.Chunk.Text) {
			continue
		}
		out = append(out, r)
		if len(out) >= want {
			break
		}
	}
	return out, nil
}

// isBoilerplate reports whether a chunk is publisher apparatus rather
// than source text.
func (p *QueryPlanner) isBoilerplate(text string) bool {
	low := strings.ToLower(text)
	for _, marker := range p.boilerplate {
		if strings.Contains(low, marker) {
			return true
		}
	}
	return false
}

// anchorFirstQuery ORs together the anchor terms present in the
// question, then the baseline terms. Never empty: the baseline always
// contributes.
func (p *QueryPlanner) anchorFirstQuery(question string) string {
	qlow := strings.ToLower(question)

	var hits []string
	for _, t := range p.anchorTerms {
		if strings.Contains(qlow, t) {
			hits = append(hits, t)
		}
	}
	hits = append(hits, p.baselineTerms...)

	seen := make(map[string]struct{}, len(hits))
	var terms []string
	for _, h := range hits {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		terms = append(terms, ftsTerm(h))
	}
	return strings.Join(terms, " OR ")
}

// broadORQuery ORs the question's informative tokens, longest first,
// capped at maxORTerms.
func (p *QueryPlanner) broadORQuery(question string) string {
	words := p.tokenize(question)
	if len(words) == 0 {
		return ""
	}

	words = uniqueSortedByLength(words)
	if len(words) > p.maxORTerms {
		words = words[:p.maxORTerms]
	}

	terms := make([]string, 0, len(words))
	for _, w := range words {
		terms = append(terms, ftsTerm(w))
	}
	return strings.Join(terms, " OR ")
}

// singleTermQuery is the last-resort tier: just the longest token.
func (p *QueryPlanner) singleTermQuery(question string) string {
	words := p.tokenize(question)
	if len(words) == 0 {
		return ""
	}
	return ftsTerm(uniqueSortedByLength(words)[0])
}

// tokenize lowercases, folds typographic quotes and dashes to ASCII,
// strips everything non-word, and drops stopwords.
func (p *QueryPlanner) tokenize(text string) []string {
	t := strings.ToLower(text)
	t = strings.NewReplacer(
		"’", "'",
		"“", `"`,
		"”", `"`,
		"—", " ",
		"–", " ",
	).Replace(t)
	t = nonWordRuns.ReplaceAllString(t, " ")

	var words []string
	for _, w := range strings.Fields(t) {
		if _, stop := p.stopwords[w]; !stop {
			words = append(words, w)
		}
	}
	return words
}

// ftsTerm renders a token safely for the full-text query language.
// Plain alphanumeric tokens pass through; anything else is quoted.
func ftsTerm(tok string) string {
	if bareTerm.MatchString(tok) {
		return tok
	}
	return `"` + strings.ReplaceAll(tok, `"`, `""`) + `"`
}

// uniqueSortedByLength dedupes and orders tokens longest first, ties
// broken lexicographically. Deterministic query plans make result sets
// reproducible.
func uniqueSortedByLength(words []string) []string {
	set := stringSet(words)
	out := make([]string, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

func stringSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

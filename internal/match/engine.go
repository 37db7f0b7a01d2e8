// Package match implements the fuzzy-matching engine that ranks
// knowledge-base entries against a student question.
package match

import (
	"sort"
	"strings"

	"github.com/studyhall-ai/studyhall/internal/domain"
	"github.com/studyhall-ai/studyhall/internal/textutil"
)

const (
	// DefaultFuzzyWeight and DefaultKeywordWeight split the final score
	// between string similarity and keyword overlap.
	DefaultFuzzyWeight   = 0.7
	DefaultKeywordWeight = 0.3

	// DefaultMinScore discards entries that are only incidentally similar.
	DefaultMinScore = 0.3

	// DefaultTopN bounds how many matches a single question returns.
	DefaultTopN = 3
)

// Config controls scoring weights and result selection.
type Config struct {
	FuzzyWeight   float64
	KeywordWeight float64
	MinScore      float64
	TopN          int
}

// DefaultConfig returns the recommended engine configuration.
func DefaultConfig() Config {
	return Config{
		FuzzyWeight:   DefaultFuzzyWeight,
		KeywordWeight: DefaultKeywordWeight,
		MinScore:      DefaultMinScore,
		TopN:          DefaultTopN,
	}
}

// Engine scores and ranks entries for a query. It holds no mutable state, so
// a single Engine serves concurrent requests.
type Engine struct {
	cfg Config
}

// NewEngine creates an Engine. An explicit zero weight disables that scoring
// component; weights default only when both are zero, since a no-weight
// engine can never match anything. Negative values and a non-positive TopN
// fall back to the defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.FuzzyWeight == 0 && cfg.KeywordWeight == 0 {
		cfg.FuzzyWeight = DefaultFuzzyWeight
		cfg.KeywordWeight = DefaultKeywordWeight
	}
	if cfg.FuzzyWeight < 0 {
		cfg.FuzzyWeight = DefaultFuzzyWeight
	}
	if cfg.KeywordWeight < 0 {
		cfg.KeywordWeight = DefaultKeywordWeight
	}
	if cfg.MinScore < 0 {
		cfg.MinScore = DefaultMinScore
	}
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	return &Engine{cfg: cfg}
}

type scoredEntry struct {
	match domain.Match
}

// Rank scores every entry against the query and returns at most TopN matches
// with score >= MinScore, highest score first. Ties resolve by matched
// keyword count, then by knowledge-base order, so the ranking is
// deterministic for a given snapshot.
func (e *Engine) Rank(query domain.Query, entries []domain.Entry) []domain.Match {
	queryText := textutil.Normalize(query.EffectiveText())
	if queryText == "" {
		return []domain.Match{}
	}
	sortedQuery := sortTokens(queryText)

	scored := make([]scoredEntry, 0, len(entries))
	for _, entry := range entries {
		entryText := textutil.Normalize(entry.SearchableText)
		if entryText == "" {
			continue
		}

		fuzzy := PartialRatio(queryText, entryText)
		// Second pass over sorted tokens tolerates word-order differences.
		if r := PartialRatio(sortedQuery, sortTokens(entryText)); r > fuzzy {
			fuzzy = r
		}

		keywords := normalizeKeywords(entry.Keywords)
		matched := matchedKeywords(queryText, keywords)
		overlap := 0.0
		if len(keywords) > 0 {
			overlap = float64(len(matched)) / float64(len(keywords))
		}

		score := e.cfg.FuzzyWeight*fuzzy + e.cfg.KeywordWeight*overlap
		if score > 1 {
			score = 1
		}
		// Zero similarity is never a match, even with MinScore set to 0.
		if score <= 0 || score < e.cfg.MinScore {
			continue
		}

		scored = append(scored, scoredEntry{
			match: domain.Match{
				EntryID:         entry.ID,
				Score:           score,
				MatchedKeywords: matched,
			},
		})
	}

	// Stable sort keeps knowledge-base order as the final tie-breaker.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].match.Score != scored[j].match.Score {
			return scored[i].match.Score > scored[j].match.Score
		}
		return len(scored[i].match.MatchedKeywords) > len(scored[j].match.MatchedKeywords)
	})

	if len(scored) > e.cfg.TopN {
		scored = scored[:e.cfg.TopN]
	}

	matches := make([]domain.Match, len(scored))
	for i, s := range scored {
		matches[i] = s.match
	}
	return matches
}

func sortTokens(text string) string {
	tokens := strings.Fields(text)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if k := textutil.Normalize(kw); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func matchedKeywords(queryText string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(queryText, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// Package match ranks candidate labels against a typed query. One
// parameterized matcher serves every suggestion surface (payees,
// categories, accounts); behavior differences are Options, not forks.
package match

import (
	"sort"
	"strings"
	"unicode"
)

// Candidate is one suggestible entry.
type Candidate struct {
	ID    string
	Label string
}

// Options tunes a ranking call.
type Options struct {
	// Limit caps the number of results. Zero means no cap.
	Limit int
	// EmptyQueryAll returns every candidate in input order when the
	// query is empty; otherwise an empty query yields no results.
	EmptyQueryAll bool
}

// Match scores for the tiers of match quality. Subsequence is the floor:
// anything below it does not match at all.
const (
	scoreExact       = 1000
	scorePrefix      = 500
	scoreWordPrefix  = 300
	scoreSubstring   = 200
	scoreSubsequence = 100
)

// Rank returns the candidates matching the query, best first. Matching is
// case-insensitive; a candidate matches when the query is a subsequence of
// its label. Exact, prefix, word-boundary and substring hits outrank plain
// subsequences; ties prefer shorter labels, then input order.
func Rank(query string, candidates []Candidate, opts Options) []Candidate {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		if !opts.EmptyQueryAll {
			return nil
		}
		return truncate(candidates, opts.Limit)
	}

	type scored struct {
		Candidate
		score int
		pos   int
	}

	var matched []scored
	for i, c := range candidates {
		score, ok := scoreLabel(query, c.Label)
		if !ok {
			continue
		}
		matched = append(matched, scored{Candidate: c, score: score, pos: i})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].score != matched[j].score {
			return matched[i].score > matched[j].score
		}
		if len(matched[i].Label) != len(matched[j].Label) {
			return len(matched[i].Label) < len(matched[j].Label)
		}
		return matched[i].pos < matched[j].pos
	})

	results := make([]Candidate, len(matched))
	for i, m := range matched {
		results[i] = m.Candidate
	}
	return truncate(results, opts.Limit)
}

func scoreLabel(query, label string) (int, bool) {
	folded := strings.ToLower(label)

	switch {
	case folded == query:
		return scoreExact, true
	case strings.HasPrefix(folded, query):
		return scorePrefix, true
	}

	for _, word := range strings.FieldsFunc(folded, isWordGap) {
		if strings.HasPrefix(word, query) {
			return scoreWordPrefix, true
		}
	}

	if strings.Contains(folded, query) {
		return scoreSubstring, true
	}
	if isSubsequence(query, folded) {
		return scoreSubsequence, true
	}
	return 0, false
}

func isWordGap(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}

func isSubsequence(query, label string) bool {
	runes := []rune(query)
	i := 0
	for _, r := range label {
		if i < len(runes) && r == runes[i] {
			i++
		}
	}
	return i == len(runes)
}

func truncate(results []Candidate, limit int) []Candidate {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

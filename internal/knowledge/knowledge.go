// Package knowledge implements the built-in study-technique knowledge base
// and its keyword relevance scoring.
package knowledge

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultLimit is the number of entries rendered when no limit is given.
	DefaultLimit = 3

	titleMatchBonus = 0.5
	tagMatchBonus   = 0.3
)

// Base is an immutable, ordered set of entries. It is safe for concurrent use.
type Base struct {
	entries []Entry
	// tokens caches the token set of each entry's searchable text.
	tokens []map[string]struct{}
}

// New builds a Base over entries. Order matters: it breaks score ties.
func New(entries []Entry) *Base {
	b := &Base{
		entries: make([]Entry, len(entries)),
		tokens:  make([]map[string]struct{}, len(entries)),
	}
	copy(b.entries, entries)
	for i, e := range b.entries {
		set := make(map[string]struct{})
		for _, tok := range Tokenize(searchableText(e)) {
			set[tok] = struct{}{}
		}
		b.tokens[i] = set
	}
	return b
}

// Default returns the knowledge base with the built-in entries.
func Default() *Base {
	return New(builtinEntries)
}

// Entries returns a copy of the entries in corpus order.
func (b *Base) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

func searchableText(e Entry) string {
	return e.Title + " " + e.Summary + " " + e.Content + " " + strings.Join(e.Tags, " ")
}

// Normalize applies NFKC, lowercases, and replaces every rune that is not an
// ASCII letter or digit, a common CJK ideograph, or whitespace with a space.
// Whitespace runs collapse to one space and the result is trimmed.
func Normalize(text string) string {
	text = strings.ToLower(norm.NFKC.String(text))
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 0x4e00 && r <= 0x9fa5:
			return r
		case unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, text)
	return strings.Join(strings.Fields(mapped), " ")
}

// Tokenize splits normalized text on spaces. Empty text yields no tokens.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}

// score rates entry i. queryTokens must be Tokenize(query).
func (b *Base) score(i int, query string, queryTokens []string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}

	matches := 0
	for _, tok := range queryTokens {
		if _, ok := b.tokens[i][tok]; ok {
			matches++
		}
	}
	score := float64(matches) / float64(len(queryTokens))

	e := b.entries[i]
	lowerQuery := strings.ToLower(query)
	if strings.Contains(strings.ToLower(e.Title), strings.TrimSpace(lowerQuery)) {
		score += titleMatchBonus
	}
	for _, tag := range e.Tags {
		if strings.Contains(lowerQuery, strings.ToLower(tag)) {
			score += tagMatchBonus
			break
		}
	}
	return score
}

// Score returns the relevance of entry for query. Queries that tokenize to
// nothing score zero.
func Score(entry Entry, query string) float64 {
	return New([]Entry{entry}).score(0, query, Tokenize(query))
}

// Search returns up to limit entries with a positive score, best first.
// Equal scores keep corpus order. A non-positive limit means DefaultLimit.
func (b *Base) Search(query string, limit int) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	queryTokens := Tokenize(query)
	var matches []Match
	for i, e := range b.entries {
		if s := b.score(i, query, queryTokens); s > 0 {
			matches = append(matches, Match{Entry: e, Score: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// BuildContext renders the best matches for query as a numbered list. The
// second return value is false when the query is blank or nothing matched.
func (b *Base) BuildContext(query string, limit int) (string, bool) {
	matches := b.Search(query, limit)
	if len(matches) == 0 {
		return "", false
	}

	blocks := make([]string, 0, len(matches))
	for i, m := range matches {
		lines := []string{
			fmt.Sprintf("%d. %s", i+1, m.Entry.Title),
			"摘要：" + m.Entry.Summary,
		}
		if len(m.Entry.KeyPoints) > 0 {
			lines = append(lines, "要点："+strings.Join(m.Entry.KeyPoints, "；"))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n"), true
}

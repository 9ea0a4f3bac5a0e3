// Package capture finds candidate time expressions in free-form chat
// text. A cascade of increasingly permissive tiers trades recall for
// precision: strict regexes first, then keyword and digit gates, and a
// bilingual natural-language search only when the cheap tiers allow it.
// Silence is preferred over a false positive.
package capture

import (
	"regexp"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/antlbn/Timezone-bot/internal/config"
	"github.com/antlbn/Timezone-bot/internal/nlp"
)

// Searcher is the natural-language tier. Implemented by *nlp.Parser;
// swappable in tests.
type Searcher interface {
	Search(text string, base time.Time) []nlp.Match
}

// Extractor runs the tiered capture pipeline. Immutable after New;
// safe for concurrent use.
type Extractor struct {
	patterns []*regexp.Regexp
	keywords []string // lowercased trigger words, all languages merged
	strong   []string // words that justify the NLP tier without a digit
	searcher Searcher
	now      func() time.Time

	nlpCalls atomic.Int64
}

// New compiles the configured tables into an Extractor. The searcher
// defaults to the shared bilingual parser when nil.
func New(tables config.CaptureTables, searcher Searcher) (*Extractor, error) {
	patterns := make([]*regexp.Regexp, 0, len(tables.Patterns))
	for _, p := range tables.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, re)
	}

	var keywords, strong []string
	for _, lang := range tables.Languages {
		for _, kw := range lang.Keywords {
			keywords = append(keywords, strings.ToLower(kw))
		}
		for _, s := range lang.Strong {
			strong = append(strong, strings.ToLower(s))
		}
	}

	if searcher == nil {
		searcher = nlp.Default()
	}
	return &Extractor{
		patterns: patterns,
		keywords: keywords,
		strong:   strong,
		searcher: searcher,
		now:      time.Now,
	}, nil
}

// ExtractTimes returns candidate time substrings in first-seen order
// with exact-match duplicates removed. An empty result is the normal
// outcome for text without a recognizable time; no failure inside the
// pipeline reaches the caller.
func (e *Extractor) ExtractTimes(text string) []string {
	// Tier 1: strict patterns. Any hit ends the pipeline — a message
	// that contains a real "14:00" never reaches the slower tiers,
	// whatever else it says.
	var matches []string
	for _, re := range e.patterns {
		matches = append(matches, re.FindAllString(text, -1)...)
	}
	if len(matches) > 0 {
		return dedupe(matches)
	}

	// Tier 2: trigger keyword gate.
	lower := strings.ToLower(text)
	if !containsAny(lower, e.keywords) {
		return nil
	}

	// Tier 3: anti-spam gate. A trigger word alone ("wait a minute",
	// "man of the hour") is not a time; require a digit or a strong
	// keyword (noon, midnight and translations).
	if !hasDigit(text) && !containsAny(lower, e.strong) {
		return nil
	}

	// Tier 4: natural-language search over a normalized working copy.
	// Matched strings come from the working copy, not the original.
	e.nlpCalls.Add(1)
	for _, m := range e.searcher.Search(normalizeForNLP(lower), e.now()) {
		matches = append(matches, m.Text)
	}
	return dedupe(matches)
}

// NLPCalls reports how many times the natural-language tier ran.
func (e *Extractor) NLPCalls() int64 {
	return e.nlpCalls.Load()
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	unique := make([]string, 0, len(items))
	for _, m := range items {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		unique = append(unique, m)
	}
	return unique
}

// Package nlp wraps the natural-language date/time parser used as the
// slow tier of time recognition. English and Russian rule sets are
// registered; relative expressions resolve forward from the base instant.
package nlp

import (
	"strings"
	"sync"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/olebedev/when/rules/ru"
)

// maxMatches bounds one Search call; chat messages never legitimately
// carry more time mentions than this.
const maxMatches = 8

// Match is one recognized expression: the matched text and the absolute
// time it was interpreted as.
type Match struct {
	Text string
	Time time.Time
}

// Parser is a bilingual natural-language time parser. Safe for
// concurrent use once constructed.
type Parser struct {
	w *when.Parser
}

// New builds a parser with en + ru + common rules.
func New() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(ru.All...)
	w.Add(common.All...)
	return &Parser{w: w}
}

var (
	defaultOnce   sync.Once
	defaultParser *Parser
)

// Default returns the shared parser, initialized on first use.
func Default() *Parser {
	defaultOnce.Do(func() { defaultParser = New() })
	return defaultParser
}

// ParseTime resolves a single expression to an absolute time.
// Returns false when the text contains no recognizable expression or
// the underlying parser errors.
func (p *Parser) ParseTime(s string, base time.Time) (time.Time, bool) {
	r, err := p.w.Parse(s, base)
	if err != nil || r == nil {
		return time.Time{}, false
	}
	return r.Time, true
}

// Search walks text left to right collecting successive matches. The
// underlying parser yields one match per call, so the remainder of the
// text is re-scanned after each hit. Errors end the walk; whatever was
// accumulated so far is returned.
func (p *Parser) Search(text string, base time.Time) []Match {
	var out []Match
	rest := text
	for i := 0; i < maxMatches; i++ {
		r, err := p.w.Parse(rest, base)
		if err != nil || r == nil {
			break
		}
		if t := strings.TrimSpace(r.Text); t != "" {
			out = append(out, Match{Text: t, Time: r.Time})
		}
		next := r.Index + len(r.Text)
		if next <= 0 || next >= len(rest) {
			break
		}
		rest = rest[next:]
	}
	return out
}

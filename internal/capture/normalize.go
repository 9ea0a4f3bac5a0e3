package capture

import "regexp"

// The natural-language tier receives a lowercased working copy of the
// message with colloquialisms rewritten into forms the parser handles.
// RE2 treats \b as an ASCII word boundary, so Cyrillic words are fenced
// with explicit letter/digit classes instead.

type substitution struct {
	re   *regexp.Regexp
	repl string
}

// Rules are order-sensitive: day-part words become am/pm markers before
// the bare-hour rule adds ":00", so "в 9 вечера" ends up "в 9:00 pm".
var nlpSubstitutions = []substitution{
	// Russian day-part words → 12h markers.
	{wordRe(`вечера|вечером`), "${1}pm${3}"},
	{wordRe(`утра|утром`), "${1}am${3}"},
	{wordRe(`дня|днём`), "${1}pm${3}"},
	{wordRe(`ночи|ночью`), "${1}am${3}"},
	// Noon and midnight → literal clock times.
	{wordRe(`полдень`), "${1}12:00${3}"},
	{wordRe(`полночь`), "${1}00:00${3}"},
	{wordRe(`noon`), "${1}12:00${3}"},
	{wordRe(`midnight`), "${1}00:00${3}"},
	// Bare prepositional hour: "в 8" / "at 8" → "в 8:00" / "at 8:00".
	// Without this "завтра в 8" collapses to just "tomorrow".
	{regexp.MustCompile(`(^|[^\p{L}\p{N}])(в|at)\s+(\d{1,2})([^0-9:]|$)`), "${1}${2} ${3}:00${4}"},
	// Rushed phrasing: "2 evening" → "2 pm", "9:30 morning" → "9:30 am".
	{regexp.MustCompile(`\b(\d{1,2}(:\d{2})?)\s*evening\b`), "${1} pm"},
	{regexp.MustCompile(`\b(\d{1,2}(:\d{2})?)\s*morning\b`), "${1} am"},
	{regexp.MustCompile(`\bmins\b`), "minutes"},
}

// wordRe fences an alternation with non-letter/non-digit boundaries,
// keeping the boundary characters in capture groups 1 and 3.
func wordRe(alt string) *regexp.Regexp {
	return regexp.MustCompile(`(^|[^\p{L}\p{N}])(` + alt + `)($|[^\p{L}\p{N}])`)
}

// normalizeForNLP applies the substitutions to an already-lowercased
// working copy. The original message is never mutated.
func normalizeForNLP(lower string) string {
	t := lower
	for _, s := range nlpSubstitutions {
		t = s.re.ReplaceAllString(t, s.repl)
	}
	return t
}

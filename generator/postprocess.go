package generator

import (
	"strings"
	"unicode/utf8"
)

// quote pairs a whole response may be wrapped in
var quotePairs = [][2]string{
	{`"`, `"`},
	{"“", "”"},
	{"'", "'"},
	{"«", "»"},
}

// PostProcess trims the model reply and strips one pair of quotes wrapping
// the whole text. A reply that is empty after trimming returns
// ErrEmptyCompletion, which Agent.Generate reports as a *GenerationError,
// so an empty reply fails the request even though the model call succeeded.
func PostProcess(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	text = stripEnclosingQuotes(text)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// stripEnclosingQuotes removes one pair of quotes only when the opening and
// closing marks are the sole occurrences, so quoted phrases inside the text survive.
func stripEnclosingQuotes(s string) string {
	for _, q := range quotePairs {
		open, closing := q[0], q[1]
		if utf8.RuneCountInString(s) < 2 || !strings.HasPrefix(s, open) || !strings.HasSuffix(s, closing) {
			continue
		}
		inner := s[len(open) : len(s)-len(closing)]
		if strings.Contains(inner, open) || strings.Contains(inner, closing) {
			continue
		}
		return strings.TrimSpace(inner)
	}
	return s
}

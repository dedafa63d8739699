// Package keyword turns raw model output into search tokens.
package keyword

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// parenthetical matches a "( ... )" run on a single line, shortest first.
var parenthetical = regexp.MustCompile(`\(.*?\)`)

var markup = strings.NewReplacer("-", "", ":", "", "*", "")

// Tokenize normalizes extracted text into an ordered token list.
// Parentheticals and the characters "-", ":", "*" are removed, newlines act as
// separators, and the result is split on commas. Tokens are trimmed and empty
// ones dropped; order, duplicates and casing are kept.
func Tokenize(raw string) []string {
	s := parenthetical.ReplaceAllString(raw, "")
	s = markup.Replace(s)
	s = strings.ReplaceAll(s, "\n", ",")

	parts := strings.Split(s, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// LeadingInt parses the integer prefix of a token: optional sign, then decimal
// digits up to the first non-digit. "5000 naira" yields 5000; "$5000" and "" do not parse.
func LeadingInt(token string) (int64, bool) {
	s := strings.TrimLeft(token, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	var n int64
	digits := 0
	for ; digits < len(s); digits++ {
		c := s[digits]
		if c < '0' || c > '9' {
			break
		}
		d := int64(c - '0')
		if n > (math.MaxInt64-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// HasSpace reports whether a token holds more than one word.
func HasSpace(token string) bool {
	return strings.IndexFunc(token, unicode.IsSpace) >= 0
}

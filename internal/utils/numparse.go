// Package utils holds small parsing helpers shared across the service.
package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var rxPlainNumber = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)

// ParseFloatLoose parses sheet cells like "1 234,50", "(3.3)" or "4.7" into
// a float. It strips regular and non-breaking spaces, unifies comma decimals
// and accepts parenthesized negatives, but only when the remainder is one
// clean number: range and tolerance strings ("-55 ~ 125", "±10%") must stay
// textual for the specialized parsers downstream.
func ParseFloatLoose(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		neg = true
		s = s[1 : len(s)-1]
	}
	repl := strings.NewReplacer(" ", "", " ", "", " ", "", " ", "", "\t", "", ",", ".")
	s = repl.Replace(s)
	if !rxPlainNumber.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

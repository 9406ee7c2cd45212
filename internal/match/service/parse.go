package service

import (
	"regexp"
	"strconv"
	"strings"

	"crossref-service/internal/match/model"
)

// Value parsing helpers. All of them are total: unparseable input reports
// ok=false (or false for booleans), never an error or panic. The comparison
// strategies degrade to review / string equality on ok=false.

// first signed numeric token, e.g. "100" in "100 kΩ" or "-55" in "-55°C"
var reNumToken = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// percent figure, e.g. "10" in "±10%" or "0.5" in "0.5 %"
var rePercent = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// first digit, for moisture sensitivity levels like "MSL 3" or "2a"
var reDigit = regexp.MustCompile(`\d`)

// valueRange is a parsed {min,max} pair, e.g. an operating temperature span.
type valueRange struct {
	min float64
	max float64
}

// numericOf prefers the pre-parsed NumericValue and otherwise extracts the
// first numeric token from the textual value.
func numericOf(attr *model.ParametricAttribute) (float64, bool) {
	if attr == nil {
		return 0, false
	}
	if attr.NumericValue != nil {
		return *attr.NumericValue, true
	}
	return firstNumber(attr.Value)
}

func firstNumber(s string) (float64, bool) {
	tok := reNumToken.FindString(s)
	if tok == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseTolerance extracts the percent from patterns like "±10%". Signs and
// surrounding text are ignored; asymmetric specs yield the first figure.
func parseTolerance(s string) (float64, bool) {
	m := rePercent.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseTempRange extracts {min,max} from "-55°C ~ 125°C"-style strings: the
// first two signed numeric tokens, in order.
func parseTempRange(s string) (valueRange, bool) {
	toks := reNumToken.FindAllString(s, 2)
	if len(toks) < 2 {
		return valueRange{}, false
	}
	lo, err1 := strconv.ParseFloat(toks[0], 64)
	hi, err2 := strconv.ParseFloat(toks[1], 64)
	if err1 != nil || err2 != nil {
		return valueRange{}, false
	}
	return valueRange{min: lo, max: hi}, true
}

// parseMSL extracts the level digit from strings like "MSL 3", "3" or "2a".
func parseMSL(s string) (int, bool) {
	d := reDigit.FindString(s)
	if d == "" {
		return 0, false
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseBoolean maps yes/true/1/required (case-insensitive) to true and
// everything else, including the empty string, to false.
func parseBoolean(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "required":
		return true
	}
	return false
}

// normalizeValue upper-cases, trims and collapses whitespace for string
// equality checks.
func normalizeValue(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

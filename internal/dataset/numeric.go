package dataset

import (
	"math"
	"strconv"
	"strings"
)

var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(s string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// ParseNumber parses a numeric cell. Surrounding spaces are ignored and a
// single ',' followed by one or two digits is read as a decimal separator
// ("5,5"). Thousands separators are not accepted: "1,200" is ambiguous and
// fails. Missing or unparseable cells return NaN and false.
func ParseNumber(s string) (float64, bool) {
	if IsMissing(s) {
		return math.NaN(), false
	}
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00A0", " "))
	if i := strings.IndexByte(raw, ','); i >= 0 {
		frac := raw[i+1:]
		if strings.ContainsAny(frac, ",") || strings.Contains(raw, ".") || len(frac) < 1 || len(frac) > 2 {
			return math.NaN(), false
		}
		raw = raw[:i] + "." + frac
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return math.NaN(), false
	}
	return f, true
}

package stats

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	packageNumber = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
	nonAlnum      = regexp.MustCompile(`[^a-zA-Z0-9]`)
	// longer tokens first so "corporation" is not cut down to "oration"
	legalSuffix = regexp.MustCompile(`(?i)corporation|limited|private|corp|ltd|pvt|inc`)
)

// ParsePackage coerces a raw package cell ("₹12.5 LPA", "6", "3-4") to a
// number. Everything but digits, '.' and '-' is discarded and the longest
// leading decimal is parsed; empty or unparseable input yields 0.
func ParsePackage(raw string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0
	}

	m := packageNumber.FindString(cleaned)
	if m == "" {
		return 0
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NormalizeCompanyName returns the grouping key for a company: alphanumerics
// only, legal-entity tokens removed, uppercased. "ABC Pvt. Ltd." and
// "ABC Corporation" both become "ABC".
func NormalizeCompanyName(raw string) string {
	s := nonAlnum.ReplaceAllString(raw, "")
	s = legalSuffix.ReplaceAllString(s, "")
	return strings.ToUpper(s)
}

// roundHalfUp rounds to the nearest integer with halves going up.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

func round2(v float64) float64 {
	return roundHalfUp(v*100) / 100
}

func rate(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(roundHalfUp(float64(part) / float64(total) * 100))
}

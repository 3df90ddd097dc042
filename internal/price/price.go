// Package price normalizes raw price strings and search queries.
package price

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Normalize parses a raw price string into a whole-unit integer amount by
// stripping every non-digit character. Currency symbols, thousands
// separators and decimal markers are all discarded, so "₹64,999" becomes
// 64999. Empty or all-non-digit input yields 0: a missing price must not
// abort extraction of an otherwise valid record.
func Normalize(raw string) int {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// NormalizeQuery canonicalizes a search query for use as a cache key:
// leading/trailing whitespace trimmed, runs of whitespace collapsed to a
// single space, and Unicode case folding applied. Equivalent queries map
// to the same key, and the function is idempotent.
func NormalizeQuery(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	return cases.Fold().String(q)
}

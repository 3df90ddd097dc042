package match

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// indelParams makes substitutions cost two so that Distance counts pure
// insertions and deletions, matching the classic edit-ratio formula
// (lenA + lenB - distance) / (lenA + lenB).
var indelParams = levenshtein.NewParams().SubCost(2)

// TokenSetRatio scores the similarity of two product names on a 0-100
// scale, insensitive to token order and to tokens repeated on one side.
// Both names are normalized, tokenized and deduplicated; the score is the
// best edit ratio among the three pairings of the sorted token
// intersection and each side's full sorted token set. A shared core like
// "iphone 16" scores high even when one side carries extra marketing
// tokens.
func TokenSetRatio(a, b string) int {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return 0
	}

	inter, onlyA, onlyB := intersectDiff(tokens(na), tokens(nb))

	base := strings.Join(inter, " ")
	full := func(rest []string) string {
		if len(rest) == 0 {
			return base
		}
		if base == "" {
			return strings.Join(rest, " ")
		}
		return base + " " + strings.Join(rest, " ")
	}
	fullA := full(onlyA)
	fullB := full(onlyB)

	best := editRatio(base, fullA)
	if r := editRatio(base, fullB); r > best {
		best = r
	}
	if r := editRatio(fullA, fullB); r > best {
		best = r
	}
	return best
}

// editRatio is the normalized indel similarity of two strings, 0-100.
func editRatio(a, b string) int {
	lensum := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if lensum == 0 {
		return 0
	}
	dist := levenshtein.Distance(a, b, indelParams)
	return int(math.Round(100 * float64(lensum-dist) / float64(lensum)))
}

package match

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

var nonAlnum = regexp.MustCompile(`[^\pL\pN]+`)

// NormalizeName standardizes a product name for similarity scoring:
// punctuation replaced with spaces, whitespace collapsed, Unicode case
// folding applied. "Apple iPhone 16 (128 GB)" becomes
// "apple iphone 16 128 gb".
func NormalizeName(name string) string {
	name = nonAlnum.ReplaceAllString(name, " ")
	name = strings.Join(strings.Fields(name), " ")
	return cases.Fold().String(name)
}

// tokens returns the sorted unique word tokens of a normalized name.
func tokens(normalized string) []string {
	fields := strings.Fields(normalized)
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// intersectDiff splits two sorted token slices into their intersection and
// the tokens unique to each side. All outputs remain sorted.
func intersectDiff(a, b []string) (inter, onlyA, onlyB []string) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			inter = append(inter, a[i])
			i++
			j++
		case a[i] < b[j]:
			onlyA = append(onlyA, a[i])
			i++
		default:
			onlyB = append(onlyB, b[j])
			j++
		}
	}
	onlyA = append(onlyA, a[i:]...)
	onlyB = append(onlyB, b[j:]...)
	return inter, onlyA, onlyB
}

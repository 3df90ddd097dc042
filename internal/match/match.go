// Package match pairs product records from two sources by name similarity
// and computes the price delta for each matched pair.
package match

import "github.com/pricepulse/compare-cli/internal/model"

// DefaultThreshold is the minimum similarity score (exclusive) for a pair
// to be reported as a match.
const DefaultThreshold = 80

// Match pairs every left record with its best-scoring right record. A pair
// is emitted only when the best score is strictly greater than threshold;
// on an exact score tie the earlier right record wins. Left records with no
// match above threshold are omitted: absence of a cross-source match is a
// normal outcome, not an error. Records never influence each other's
// outcome, so the result is deterministic for fixed inputs.
func Match(left, right []model.Record, threshold int) []model.Comparison {
	comparisons := make([]model.Comparison, 0, len(left))
	for _, l := range left {
		var best *model.Record
		bestScore := 0
		for i := range right {
			if score := TokenSetRatio(l.Name, right[i].Name); score > bestScore {
				bestScore = score
				best = &right[i]
			}
		}
		if best == nil || bestScore <= threshold {
			continue
		}

		diff := l.PriceValue - best.PriceValue
		cheaper := model.CheaperSame
		switch {
		case diff > 0:
			cheaper = model.CheaperRight
		case diff < 0:
			cheaper = model.CheaperLeft
		}

		comparisons = append(comparisons, model.Comparison{
			Left:       l,
			Right:      *best,
			Score:      bestScore,
			Difference: diff,
			Cheaper:    cheaper,
		})
	}
	return comparisons
}

// Package fetch retrieves raw product listings from configured external
// sources. Site specifics (search URL, CSS selectors, render mode) live in
// per-source configuration, so the rest of the pipeline never assumes a
// particular extraction mechanism.
package fetch

import (
	"context"

	"github.com/pricepulse/compare-cli/internal/model"
)

// Fetcher produces raw product records for a search query from one source.
// Implementations must respect ctx for cancellation and be idempotent with
// respect to the query.
type Fetcher interface {
	Fetch(ctx context.Context, query string) ([]model.RawRecord, error)
	Name() string
}

// Package orchestrator fans a search query out to every configured source,
// running each source's cache/retry/fetch/normalize pipeline concurrently
// and joining the results. A failing source never aborts or blocks its
// siblings; its failure is returned as data in that source's result.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pricepulse/compare-cli/internal/cache"
	"github.com/pricepulse/compare-cli/internal/fetch"
	"github.com/pricepulse/compare-cli/internal/model"
	"github.com/pricepulse/compare-cli/internal/price"
	"github.com/pricepulse/compare-cli/internal/resilience"
)

// DefaultSourceTimeout bounds a single source's whole pipeline, retries
// included, so one hung fetch cannot stall the join indefinitely.
const DefaultSourceTimeout = 60 * time.Second

// Options configures an Orchestrator.
type Options struct {
	Retry         resilience.RetryConfig
	SourceTimeout time.Duration // default DefaultSourceTimeout
	MaxConcurrent int           // 0 = one goroutine per source
}

// Orchestrator coordinates the per-source fetch pipelines. The cache is the
// only state shared across pipelines; records themselves are immutable once
// constructed.
type Orchestrator struct {
	store    *cache.Store
	fetchers []fetch.Fetcher
	opts     Options
}

// New creates an Orchestrator over the given cache and fetchers.
func New(store *cache.Store, fetchers []fetch.Fetcher, opts Options) *Orchestrator {
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = DefaultSourceTimeout
	}
	return &Orchestrator{store: store, fetchers: fetchers, opts: opts}
}

// Sources returns the configured source names in registration order.
func (o *Orchestrator) Sources() []string {
	names := make([]string, 0, len(o.fetchers))
	for _, f := range o.fetchers {
		names = append(names, f.Name())
	}
	return names
}

// FetchAll runs every source pipeline concurrently for query and waits for
// all of them: this is a join, not a race. The returned map always holds
// exactly one SourceResult per configured source, regardless of completion
// order or failures.
func (o *Orchestrator) FetchAll(ctx context.Context, query string) map[string]model.SourceResult {
	normalized := price.NormalizeQuery(query)

	var mu sync.Mutex
	results := make(map[string]model.SourceResult, len(o.fetchers))

	g, gCtx := errgroup.WithContext(ctx)
	if o.opts.MaxConcurrent > 0 {
		g.SetLimit(o.opts.MaxConcurrent)
	}
	for _, f := range o.fetchers {
		g.Go(func() error {
			res := o.fetchOne(gCtx, f, normalized)
			mu.Lock()
			results[f.Name()] = res
			mu.Unlock()
			// Per-source failures are data in the result map, never an
			// error that would cancel sibling pipelines.
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (o *Orchestrator) fetchOne(ctx context.Context, f fetch.Fetcher, normalized string) model.SourceResult {
	source := f.Name()

	if records, ok := o.store.Get(source, normalized); ok {
		zap.L().Debug("serving source from cache",
			zap.String("source", source),
			zap.Int("records", len(records)),
		)
		return model.SourceResult{
			Source:    source,
			Records:   records,
			FetchedAt: time.Now(),
			Cached:    true,
		}
	}

	sctx, cancel := context.WithTimeout(ctx, o.opts.SourceTimeout)
	defer cancel()

	retryCfg := o.opts.Retry
	if retryCfg.OnRetry == nil {
		retryCfg.OnRetry = resilience.RetryLogger(source)
	}

	raw, err := resilience.DoVal(sctx, retryCfg, func(ctx context.Context) ([]model.RawRecord, error) {
		return f.Fetch(ctx, normalized)
	})
	fetchedAt := time.Now()
	if err != nil {
		kind := model.ErrorPermanent
		if resilience.IsTransient(err) {
			kind = model.ErrorTransient
		}
		zap.L().Warn("source fetch failed",
			zap.String("source", source),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return model.SourceResult{
			Source:    source,
			Records:   []model.Record{},
			FetchedAt: fetchedAt,
			Err:       err,
			ErrKind:   kind,
		}
	}

	records := normalizeRecords(raw)
	o.store.Put(source, normalized, records)
	zap.L().Debug("source fetch complete",
		zap.String("source", source),
		zap.Int("extracted", len(raw)),
		zap.Int("valid", len(records)),
	)
	return model.SourceResult{
		Source:    source,
		Records:   records,
		FetchedAt: fetchedAt,
	}
}

// normalizeRecords derives each record's integer price and drops records
// failing extraction validation (empty name, price or link). Source order
// is preserved.
func normalizeRecords(raw []model.RawRecord) []model.Record {
	records := make([]model.Record, 0, len(raw))
	for _, r := range raw {
		if r.Name == "" || r.Price == "" || r.Link == "" {
			continue
		}
		records = append(records, model.Record{
			Name:       r.Name,
			RawPrice:   r.Price,
			Link:       r.Link,
			PriceValue: price.Normalize(r.Price),
		})
	}
	return records
}

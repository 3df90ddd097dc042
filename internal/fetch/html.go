package fetch

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pricepulse/compare-cli/internal/model"
	"github.com/pricepulse/compare-cli/internal/resilience"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115 Safari/537.36"

// HTMLOption configures an HTMLFetcher.
type HTMLOption func(*HTMLFetcher)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(hc *http.Client) HTMLOption {
	return func(f *HTMLFetcher) {
		f.client = hc
	}
}

// HTMLFetcher retrieves listings from sources whose search results render
// server-side, using a plain HTTP GET and selector-based extraction.
type HTMLFetcher struct {
	spec    SourceSpec
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTMLFetcher creates an HTMLFetcher for the given source spec.
func NewHTMLFetcher(spec SourceSpec, opts ...HTMLOption) *HTMLFetcher {
	f := &HTMLFetcher{
		spec: spec,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	if spec.RatePerSec > 0 {
		burst := spec.Burst
		if burst <= 0 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(spec.RatePerSec), burst)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the configured source name.
func (f *HTMLFetcher) Name() string { return f.spec.Name }

// Fetch retrieves the search results page for query and extracts raw
// records. Failures with retryable HTTP statuses (429, 5xx) are returned as
// TransientError so downstream failure markers carry the right kind.
func (f *HTMLFetcher) Fetch(ctx context.Context, query string) ([]model.RawRecord, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrapf(err, "fetch: %s: rate limit wait", f.spec.Name)
		}
	}

	target := searchURL(f.spec, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: %s: build request", f.spec.Name)
	}
	ua := f.spec.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept-Language", "en")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: %s: request", f.spec.Name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("fetch: %s: unexpected status %d from %s", f.spec.Name, resp.StatusCode, target)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	records, err := parseListings(resp.Body, f.spec)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		// Selector drift on the target site is the usual cause.
		zap.L().Warn("no listings extracted",
			zap.String("source", f.spec.Name),
			zap.String("url", target),
		)
	}
	return records, nil
}

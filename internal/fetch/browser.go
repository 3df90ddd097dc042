package fetch

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pricepulse/compare-cli/internal/model"
)

// BrowserFetcher retrieves listings from sources that render results
// client-side, driving a headless browser and extracting from the settled
// DOM. Each fetch launches and tears down its own browser so a failed
// attempt leaves no state behind for the next one.
type BrowserFetcher struct {
	spec SourceSpec
}

// NewBrowserFetcher creates a BrowserFetcher for the given source spec.
func NewBrowserFetcher(spec SourceSpec) *BrowserFetcher {
	return &BrowserFetcher{spec: spec}
}

// Name returns the configured source name.
func (f *BrowserFetcher) Name() string { return f.spec.Name }

// Fetch renders the search results page for query and extracts raw records.
func (f *BrowserFetcher) Fetch(ctx context.Context, query string) ([]model.RawRecord, error) {
	browser, err := launchBrowser()
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: %s: launch browser", f.spec.Name)
	}
	defer browser.MustClose()

	html, err := f.renderSearchPage(ctx, browser, query)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: %s: render search page", f.spec.Name)
	}
	return parseListings(strings.NewReader(html), f.spec)
}

func launchBrowser() (*rod.Browser, error) {
	l := launcher.New().Headless(true).NoSandbox(true)
	u, err := l.Launch()
	if err != nil {
		return nil, err
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, err
	}
	return browser, nil
}

func (f *BrowserFetcher) renderSearchPage(ctx context.Context, browser *rod.Browser, query string) (string, error) {
	page, err := stealth.Page(browser)
	if err != nil {
		return "", err
	}
	page = page.Context(ctx)

	var html string
	err = rod.Try(func() {
		page.MustNavigate(searchURL(f.spec, query))
		page.MustWaitStable()

		// Some sources gate listings behind a location/pincode popup.
		if in, apply := f.spec.Selectors.LocationInput, f.spec.Selectors.LocationApply; in != "" && f.spec.Pincode != "" {
			if popupErr := rod.Try(func() {
				page.Timeout(5 * time.Second).MustElement(in).MustInput(f.spec.Pincode)
				if apply != "" {
					page.MustElement(apply).MustClick()
				}
				page.MustWaitStable()
			}); popupErr != nil {
				zap.L().Debug("no location popup",
					zap.String("source", f.spec.Name),
				)
			}
		}

		if wait := f.spec.Selectors.Wait; wait != "" {
			page.MustWaitElementsMoreThan(wait, 0)
		}

		f.settle()

		html = page.MustHTML()
	})
	if err != nil {
		return "", err
	}
	return html, nil
}

// settle sleeps for a randomized interval so lazily loaded listings finish
// rendering before extraction.
func (f *BrowserFetcher) settle() {
	if f.spec.SettleMaxMS <= 0 {
		return
	}
	min := f.spec.SettleMinMS
	if min < 0 {
		min = 0
	}
	span := f.spec.SettleMaxMS - min
	ms := min
	if span > 0 {
		ms += rand.IntN(span + 1)
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

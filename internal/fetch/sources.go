package fetch

import (
	"net/url"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Selectors holds the CSS selectors for extracting listings from a source's
// search results page.
type Selectors struct {
	Item  string `yaml:"item"`  // one element per product
	Name  string `yaml:"name"`  // product title, relative to item
	Price string `yaml:"price"` // price text, relative to item
	Link  string `yaml:"link"`  // anchor carrying the product href

	// Browser-mode extras.
	Wait          string `yaml:"wait"`           // element to wait for before extracting
	LocationInput string `yaml:"location_input"` // optional location/pincode popup
	LocationApply string `yaml:"location_apply"`
}

// SourceSpec configures one external listing source. Loaded once at startup
// and immutable thereafter.
type SourceSpec struct {
	Name        string    `yaml:"name"`
	Kind        string    `yaml:"kind"`       // "html" or "browser"
	SearchURL   string    `yaml:"search_url"` // template with a {query} placeholder
	LinkBase    string    `yaml:"link_base"`  // prepended to relative product links
	UserAgent   string    `yaml:"user_agent"`
	RatePerSec  float64   `yaml:"rate_per_sec"` // html mode request rate, 0 = unlimited
	Burst       int       `yaml:"burst"`
	Pincode     string    `yaml:"pincode"` // typed into the location popup when present
	SettleMinMS int       `yaml:"settle_min_ms"`
	SettleMaxMS int       `yaml:"settle_max_ms"`
	Selectors   Selectors `yaml:"selectors"`
}

type sourcesFile struct {
	Sources []SourceSpec `yaml:"sources"`
}

// LoadSources reads source specs from a YAML file.
func LoadSources(path string) ([]SourceSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: read sources file %s", path)
	}
	var fileCfg sourcesFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, eris.Wrapf(err, "fetch: parse sources file %s", path)
	}
	if len(fileCfg.Sources) == 0 {
		return nil, eris.Errorf("fetch: no sources defined in %s", path)
	}
	for i := range fileCfg.Sources {
		if err := fileCfg.Sources[i].validate(); err != nil {
			return nil, err
		}
	}
	return fileCfg.Sources, nil
}

func (s *SourceSpec) validate() error {
	switch {
	case s.Name == "":
		return eris.New("fetch: source missing name")
	case s.SearchURL == "":
		return eris.Errorf("fetch: source %s missing search_url", s.Name)
	case !strings.Contains(s.SearchURL, "{query}"):
		return eris.Errorf("fetch: source %s search_url missing {query} placeholder", s.Name)
	case s.Kind != "html" && s.Kind != "browser":
		return eris.Errorf("fetch: source %s has unknown kind %q", s.Name, s.Kind)
	case s.Selectors.Item == "" || s.Selectors.Name == "" || s.Selectors.Price == "" || s.Selectors.Link == "":
		return eris.Errorf("fetch: source %s missing item/name/price/link selectors", s.Name)
	}
	return nil
}

// Build constructs the fetcher implementation a source spec declares.
func Build(spec SourceSpec) (Fetcher, error) {
	switch spec.Kind {
	case "html":
		return NewHTMLFetcher(spec), nil
	case "browser":
		return NewBrowserFetcher(spec), nil
	default:
		return nil, eris.Errorf("fetch: source %s has unknown kind %q", spec.Name, spec.Kind)
	}
}

// searchURL expands a source's search URL template for a query.
func searchURL(spec SourceSpec, query string) string {
	return strings.ReplaceAll(spec.SearchURL, "{query}", url.QueryEscape(query))
}

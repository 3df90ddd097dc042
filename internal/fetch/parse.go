package fetch

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/pricepulse/compare-cli/internal/model"
)

// parseListings extracts raw records from a search results page using the
// spec's selectors. Entries missing a name, price or link are skipped at
// extraction time; document order is preserved.
func parseListings(r io.Reader, spec SourceSpec) ([]model.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: %s: parse listing page", spec.Name)
	}

	var records []model.RawRecord
	doc.Find(spec.Selectors.Item).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Find(spec.Selectors.Name).First().Text())
		price := strings.TrimSpace(s.Find(spec.Selectors.Price).First().Text())
		link, _ := s.Find(spec.Selectors.Link).First().Attr("href")
		if name == "" || price == "" || link == "" {
			return
		}
		records = append(records, model.RawRecord{
			Name:  name,
			Price: price,
			Link:  absoluteLink(spec.LinkBase, link),
		})
	})
	return records, nil
}

func absoluteLink(base, link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return base + link
}

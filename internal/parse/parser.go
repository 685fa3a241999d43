// Package parse extracts structured listings from estatesales.net markup
// and from RSS feeds.
package parse

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/antique-scout/sale-scout/internal/model"
)

// saleRowMarker is the Angular component tag estatesales.net renders one
// sale per instance of. Matching on the component tag is stabler than
// positional selectors.
const saleRowMarker = "app-sale-row"

var monthAbbrs = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// PageListings is the result of parsing one search result page.
type PageListings struct {
	Listings []model.Listing
	Skipped  int // rows present in the markup but unusable
}

// ParsePage extracts all sale rows from one page of markup. Rows missing a
// title or link are skipped and counted; missing optional fields (address,
// dates, description) are left empty. Zero matching rows is not an error.
// Document order is preserved.
func ParsePage(r io.Reader, baseURL string) (*PageListings, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "parse: read document")
	}

	result := &PageListings{}

	rows := doc.Find(saleRowMarker)
	if rows.Length() == 0 {
		// Either genuinely zero results or the site layout changed; the
		// markup doesn't let us tell these apart, so log and move on.
		zap.L().Warn("parse: no sale row markers found", zap.String("url", baseURL))
	}

	rows.Each(func(_ int, row *goquery.Selection) {
		listing, ok := parseRow(row, baseURL)
		if !ok {
			result.Skipped++
			return
		}
		result.Listings = append(result.Listings, listing)
	})

	return result, nil
}

func parseRow(row *goquery.Selection, baseURL string) (model.Listing, bool) {
	title := strings.TrimSpace(row.Find("h3").First().Text())

	href, _ := row.Find("a.sale-row").First().Attr("href")
	link := absolutize(href, baseURL)

	if title == "" || link == "" {
		return model.Listing{}, false
	}

	return model.Listing{
		Title:       title,
		Address:     parseAddress(row),
		DateRange:   parseDateRange(row),
		Description: strings.TrimSpace(row.Find(".sale-row__recent-info").First().Text()),
		Company:     parseCompany(row),
		URL:         link,
		Source:      model.SourceEstateSalesNet,
	}, true
}

// parseAddress joins the text lines of the app-sale-address component with
// commas, mirroring how the site stacks street / city / state lines.
func parseAddress(row *goquery.Selection) string {
	addr := row.Find("app-sale-address").First()
	if addr.Length() == 0 {
		return ""
	}

	var parts []string
	addr.Find("div, span").Each(func(_ int, line *goquery.Selection) {
		if line.Children().Length() > 0 {
			return // only leaf lines carry text of their own
		}
		if text := strings.TrimSpace(line.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return strings.TrimSpace(addr.Text())
	}
	return strings.Join(parts, ", ")
}

// parseDateRange collects the spans inside app-sale-date that mention a
// month name, falling back to the element's full text.
func parseDateRange(row *goquery.Selection) string {
	dateEl := row.Find("app-sale-date").First()
	if dateEl.Length() == 0 {
		return ""
	}

	var parts []string
	dateEl.Find("span, div").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		for _, m := range monthAbbrs {
			if strings.Contains(text, m) {
				parts = append(parts, text)
				return
			}
		}
	})
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return strings.TrimSpace(dateEl.Text())
}

func parseCompany(row *goquery.Selection) string {
	text := strings.TrimSpace(row.Find(".sale-row__listed-by").First().Text())
	if text == "" {
		return ""
	}
	// The site renders "Listed by Acme Estate Services".
	if _, after, found := strings.Cut(text, "by "); found {
		return strings.TrimSpace(after)
	}
	return text
}

func absolutize(href, baseURL string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(href, "/")
}

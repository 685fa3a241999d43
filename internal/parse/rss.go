package parse

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rotisserie/eris"

	"github.com/antique-scout/sale-scout/internal/model"
)

// Craigslist-style "Title (Location)" plus a few looser fallbacks.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(([^)]+)\)\s*$`),
	regexp.MustCompile(`(?i)in\s+([A-Za-z\s]+,\s*[A-Z]{2})`),
	regexp.MustCompile(`([A-Za-z\s]+,\s*[A-Z]{2})`),
}

var (
	pricePattern    = regexp.MustCompile(`\$\d+(?:,\d{3})*(?:\.\d{2})?`)
	trailingParens  = regexp.MustCompile(`\s*\([^)]+\)\s*$`)
	innerWhitespace = regexp.MustCompile(`\s+`)
)

// ParseFeed fetches and parses an RSS/Atom feed of sale announcements into
// listings. Feed entries are looser than scraped rows: the address comes
// from patterns in the title and the publication date stands in for the
// sale date range. Entries without a link are skipped.
func ParseFeed(ctx context.Context, feedURL string, limit int) ([]model.Listing, error) {
	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, eris.Wrap(err, "parse: fetch feed")
	}

	var listings []model.Listing
	for _, item := range feed.Items {
		if limit > 0 && len(listings) >= limit {
			break
		}
		if item.Link == "" {
			continue
		}

		title := strings.TrimSpace(item.Title)
		listings = append(listings, model.Listing{
			Title:       cleanFeedTitle(title),
			Address:     locationFromTitle(title),
			DateRange:   feedItemDate(item),
			Description: strings.TrimSpace(item.Description),
			URL:         item.Link,
			Source:      model.SourceRSS,
		})
	}

	return listings, nil
}

// locationFromTitle extracts a location fragment from a feed entry title.
// Returns the empty string when no pattern matches.
func locationFromTitle(title string) string {
	for _, re := range locationPatterns {
		if m := re.FindStringSubmatch(title); m != nil {
			loc := strings.TrimSpace(m[1])
			if len(loc) > 2 {
				return loc
			}
		}
	}
	return ""
}

// cleanFeedTitle strips embedded prices and trailing "(Location)" suffixes
// and collapses whitespace.
func cleanFeedTitle(title string) string {
	title = pricePattern.ReplaceAllString(title, "")
	title = trailingParens.ReplaceAllString(title, "")
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(title, " "))
}

func feedItemDate(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.Format(time.DateOnly)
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.Format(time.DateOnly)
	case item.Published != "":
		return item.Published
	default:
		return ""
	}
}

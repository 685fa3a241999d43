package notion

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/antique-scout/sale-scout/internal/model"
)

// SyncResult reports what a sync run did.
type SyncResult struct {
	Created int
	Updated int
	Skipped int
}

// SyncListings upserts listings into a Notion database keyed by the URL
// property. Listings without a URL are skipped. Existing pages are updated
// in place so re-running a scrape never duplicates rows.
func SyncListings(ctx context.Context, c Client, dbID string, listings []model.Listing) (*SyncResult, error) {
	res := &SyncResult{}

	for _, l := range listings {
		if ctx.Err() != nil {
			return res, eris.Wrap(ctx.Err(), "notion: sync cancelled")
		}
		if l.URL == "" {
			res.Skipped++
			continue
		}

		pageID, err := findPageByURL(ctx, c, dbID, l.URL)
		if err != nil {
			return res, err
		}

		props := listingProperties(l)
		if pageID == "" {
			req := &notionapi.PageCreateRequest{
				Parent: notionapi.Parent{
					Type:       notionapi.ParentTypeDatabaseID,
					DatabaseID: notionapi.DatabaseID(dbID),
				},
				Properties: props,
			}
			if _, err := c.CreatePage(ctx, req); err != nil {
				return res, eris.Wrap(err, "notion: create listing page")
			}
			res.Created++
		} else {
			req := &notionapi.PageUpdateRequest{Properties: props}
			if _, err := c.UpdatePage(ctx, pageID, req); err != nil {
				return res, eris.Wrap(err, "notion: update listing page")
			}
			res.Updated++
		}
	}

	zap.L().Info("notion: sync complete",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

// findPageByURL returns the ID of the page whose URL property matches, or
// the empty string when no page matches.
func findPageByURL(ctx context.Context, c Client, dbID, pageURL string) (string, error) {
	req := &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: "URL",
			RichText: &notionapi.TextFilterCondition{
				Equals: pageURL,
			},
		},
		PageSize: 1,
	}

	resp, err := c.QueryDatabase(ctx, dbID, req)
	if err != nil {
		return "", eris.Wrap(err, fmt.Sprintf("notion: look up page for %s", pageURL))
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return string(resp.Results[0].ID), nil
}

// listingProperties maps a listing onto the sale database's columns. Name is
// the title property; the score becomes a number plus a comma-joined
// category list.
func listingProperties(l model.Listing) notionapi.Properties {
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Type: notionapi.PropertyTypeTitle,
			Title: []notionapi.RichText{
				{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: l.Title}},
			},
		},
		"URL": notionapi.URLProperty{
			Type: notionapi.PropertyTypeURL,
			URL:  l.URL,
		},
		"Address": richText(l.Address),
		"Dates":   richText(l.DateRange),
		"Company": richText(l.Company),
		"Source":  richText(string(l.Source)),
	}

	if l.HasCoordinates() {
		coords := strconv.FormatFloat(l.Coordinates.Latitude, 'f', 6, 64) +
			", " + strconv.FormatFloat(l.Coordinates.Longitude, 'f', 6, 64)
		props["Coordinates"] = richText(coords)
	}
	if l.Score != nil {
		props["Score"] = notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: float64(l.Score.Value),
		}
		props["Categories"] = richText(strings.Join(l.Score.Categories, ", "))
		props["Summary"] = richText(l.Score.Summary)
	}

	return props
}

func richText(s string) notionapi.RichTextProperty {
	return notionapi.RichTextProperty{
		Type: notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{
			{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
		},
	}
}

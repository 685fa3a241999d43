// Package pipeline orchestrates one scrape run: fetch, parse, geocode,
// score, write, and the optional downstream hand-offs.
package pipeline

import (
	"bytes"
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/antique-scout/sale-scout/internal/config"
	"github.com/antique-scout/sale-scout/internal/fetch"
	"github.com/antique-scout/sale-scout/internal/location"
	"github.com/antique-scout/sale-scout/internal/model"
	"github.com/antique-scout/sale-scout/internal/notify"
	"github.com/antique-scout/sale-scout/internal/output"
	"github.com/antique-scout/sale-scout/internal/parse"
	"github.com/antique-scout/sale-scout/pkg/geocode"
	"github.com/antique-scout/sale-scout/pkg/notion"
	"github.com/antique-scout/sale-scout/pkg/scorer"
)

// PageFetcher retrieves the search result pages for a query.
type PageFetcher interface {
	FetchAll(ctx context.Context, q location.Query) ([]fetch.Page, error)
}

// Geocoder resolves an address to coordinates. Implementations never fail a
// listing; an unresolvable address is an unmatched result.
type Geocoder interface {
	Geocode(ctx context.Context, address string) *geocode.Result
}

// Pipeline runs one scrape end to end. Optional collaborators are nil when
// the corresponding stage is disabled.
type Pipeline struct {
	cfg      *config.Config
	fetcher  PageFetcher
	geocoder Geocoder
	scorer   scorer.Scorer
	notion   notion.Client
	notifier *notify.Notifier
}

// New creates a Pipeline. fetcher is required; the rest may be nil.
func New(
	cfg *config.Config,
	fetcher PageFetcher,
	geocoder Geocoder,
	sc scorer.Scorer,
	notionClient notion.Client,
	notifier *notify.Notifier,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		fetcher:  fetcher,
		geocoder: geocoder,
		scorer:   sc,
		notion:   notionClient,
		notifier: notifier,
	}
}

// Run executes the scrape for a resolved location query. Stages run
// strictly in sequence; the per-listing stages (geocode, score) degrade
// individual listings on failure while fetch failure on the first page
// aborts the run before any output file is touched.
func (p *Pipeline) Run(ctx context.Context, q location.Query) (*model.RunSummary, []model.Listing, error) {
	summary := &model.RunSummary{
		RunID:    uuid.NewString(),
		Location: q.String(),
	}
	log := zap.L().With(zap.String("run_id", summary.RunID), zap.String("location", summary.Location))
	log.Info("pipeline: starting scrape")

	// Fetch.
	pages, err := p.fetcher.FetchAll(ctx, q)
	if err != nil {
		return summary, nil, eris.Wrap(err, "pipeline: fetch")
	}
	summary.PagesFetched = len(pages)

	// Parse. Each page is parsed independently; duplicates across page
	// boundaries collapse to the first occurrence.
	var listings []model.Listing
	for _, page := range pages {
		parsed, err := parse.ParsePage(bytes.NewReader(page.Body), p.cfg.Fetch.BaseURL)
		if err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			log.Warn("pipeline: page parse failed", zap.Int("page", page.Number), zap.Error(err))
			continue
		}
		listings = append(listings, parsed.Listings...)
		summary.RowsSkipped += parsed.Skipped
	}
	listings = model.Deduplicate(listings)

	if limit := q.Limit; limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}
	summary.ListingsFound = len(listings)
	log.Info("pipeline: listings parsed",
		zap.Int("listings", summary.ListingsFound),
		zap.Int("skipped", summary.RowsSkipped),
	)

	// Geocode.
	if p.geocoder != nil {
		for i := range listings {
			if listings[i].Address == "" {
				continue
			}
			r := p.geocoder.Geocode(ctx, listings[i].Address)
			if r != nil && r.Matched {
				listings[i].Coordinates = &model.Coordinates{
					Latitude:  r.Latitude,
					Longitude: r.Longitude,
				}
				summary.Geocoded++
			}
		}
	}

	// Score.
	if p.scorer != nil {
		for i := range listings {
			score, err := p.scorer.Score(ctx, listings[i])
			if err != nil {
				summary.Errors = append(summary.Errors, err.Error())
				log.Warn("pipeline: scoring failed",
					zap.String("title", listings[i].Title),
					zap.Error(err),
				)
				continue
			}
			listings[i].Score = score
			summary.Scored++
		}
	}

	// Write outputs. A write failure is fatal; partial side effects past
	// this point are the downstream hand-offs, which only see listings
	// that made it to disk.
	if err := p.writeOutputs(listings); err != nil {
		return summary, listings, err
	}

	// Notion sync.
	if p.notion != nil && p.cfg.Notion.ListingDB != "" {
		if _, err := notion.SyncListings(ctx, p.notion, p.cfg.Notion.ListingDB, listings); err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			log.Warn("pipeline: notion sync failed", zap.Error(err))
		}
	}

	// Email digest.
	if p.notifier != nil {
		if err := p.notifier.Notify(summary.Location, listings); err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			log.Warn("pipeline: notification failed", zap.Error(err))
		}
	}

	log.Info("pipeline: scrape complete",
		zap.Int("pages", summary.PagesFetched),
		zap.Int("listings", summary.ListingsFound),
		zap.Int("geocoded", summary.Geocoded),
		zap.Int("scored", summary.Scored),
	)
	return summary, listings, nil
}

func (p *Pipeline) writeOutputs(listings []model.Listing) error {
	out := p.cfg.Output
	if out.JSONPath != "" {
		if err := output.WriteJSON(out.JSONPath, listings); err != nil {
			return eris.Wrap(err, "pipeline: write json")
		}
	}
	if out.TextPath != "" {
		if err := output.WriteText(out.TextPath, listings); err != nil {
			return eris.Wrap(err, "pipeline: write text")
		}
	}
	if out.XLSXPath != "" {
		if err := output.WriteXLSX(out.XLSXPath, listings); err != nil {
			return eris.Wrap(err, "pipeline: write xlsx")
		}
	}
	return nil
}

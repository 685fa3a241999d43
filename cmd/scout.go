package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/antique-scout/sale-scout/internal/fetch"
	"github.com/antique-scout/sale-scout/internal/location"
	"github.com/antique-scout/sale-scout/internal/notify"
	"github.com/antique-scout/sale-scout/internal/pipeline"
	"github.com/antique-scout/sale-scout/pkg/geocode"
	"github.com/antique-scout/sale-scout/pkg/notion"
	"github.com/antique-scout/sale-scout/pkg/scorer"
)

var (
	scoutLimit      int
	scoutMaxPages   int
	scoutJSONOut    string
	scoutTextOut    string
	scoutXLSXOut    string
	scoutDebugDump  string
	scoutNoGeocode  bool
	scoutScore      bool
	scoutNotionSync bool
	scoutNotify     bool
)

var scoutCmd = &cobra.Command{
	Use:   "scout <location>",
	Short: "Scrape estate sale listings for a location",
	Long: `Scrapes estatesales.net search results for a free-form location such as
"Grand Blanc, MI 48439", "New York NY", or "90210".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		q, err := location.Resolve(strings.Join(args, " "))
		if err != nil {
			return err
		}
		if scoutLimit > 0 {
			q.Limit = scoutLimit
		} else {
			q.Limit = cfg.Search.Limit
		}
		q.RadiusMiles = cfg.Search.RadiusMiles

		// Flag overrides on top of config.
		if scoutMaxPages > 0 {
			cfg.Fetch.MaxPages = scoutMaxPages
		}
		if scoutDebugDump != "" {
			cfg.Fetch.DebugDumpDir = scoutDebugDump
		}
		if scoutJSONOut != "" {
			cfg.Output.JSONPath = scoutJSONOut
		}
		if scoutTextOut != "" {
			cfg.Output.TextPath = scoutTextOut
		}
		if scoutXLSXOut != "" {
			cfg.Output.XLSXPath = scoutXLSXOut
		}

		fetcher := fetch.New(cfg.Fetch, nil)

		var geocoder pipeline.Geocoder
		if cfg.Geocode.Enabled && !scoutNoGeocode {
			geocoder, err = newGeocoder()
			if err != nil {
				return err
			}
		}

		var sc scorer.Scorer
		if scoutScore {
			if cfg.Anthropic.Key == "" {
				return eris.New("scoring requested but anthropic.key is not configured")
			}
			sc = scorer.NewAnthropic(cfg.Anthropic.Key, cfg.Anthropic.Model,
				scorer.WithMaxTokens(cfg.Anthropic.MaxTokens))
		}

		var notionClient notion.Client
		if scoutNotionSync {
			if cfg.Notion.Token == "" || cfg.Notion.ListingDB == "" {
				return eris.New("notion sync requested but notion.token or notion.listing_db is not configured")
			}
			notionClient = notion.NewClient(cfg.Notion.Token)
		}

		var notifier *notify.Notifier
		if scoutNotify {
			notifier = notify.New(cfg.Email, nil)
		}

		p := pipeline.New(cfg, fetcher, geocoder, sc, notionClient, notifier)
		summary, listings, err := p.Run(ctx, q)
		if err != nil {
			return eris.Wrap(err, "scout")
		}

		fmt.Print(pipeline.FormatReport(summary, listings))
		return nil
	},
}

// newGeocoder builds the cache-fronted Nominatim client from config.
func newGeocoder() (*geocode.Client, error) {
	cache, err := geocode.LoadCache(cfg.Geocode.CachePath)
	if err != nil {
		return nil, err
	}
	provider := geocode.NewNominatim(cfg.Geocode.Contact,
		geocode.WithBaseURL(cfg.Geocode.BaseURL),
		geocode.WithMinInterval(minInterval()),
		geocode.WithTimeout(time.Duration(cfg.Geocode.TimeoutSecs)*time.Second),
	)
	zap.L().Debug("geocode cache loaded",
		zap.String("path", cache.Path()),
		zap.Int("entries", cache.Len()),
	)
	return geocode.NewClient(cache, provider), nil
}

func minInterval() time.Duration {
	return time.Duration(cfg.Geocode.MinDelayMS) * time.Millisecond
}

func init() {
	scoutCmd.Flags().IntVar(&scoutLimit, "limit", 0, "maximum listings to keep (0 = config default)")
	scoutCmd.Flags().IntVar(&scoutMaxPages, "max-pages", 0, "search result pages to fetch (0 = config default)")
	scoutCmd.Flags().StringVar(&scoutJSONOut, "json-out", "", "JSON output path (overrides config)")
	scoutCmd.Flags().StringVar(&scoutTextOut, "txt-out", "", "text output path (overrides config)")
	scoutCmd.Flags().StringVar(&scoutXLSXOut, "xlsx-out", "", "XLSX output path (overrides config)")
	scoutCmd.Flags().StringVar(&scoutDebugDump, "debug-dump", "", "directory for raw HTML dumps")
	scoutCmd.Flags().BoolVar(&scoutNoGeocode, "no-geocode", false, "skip address geocoding")
	scoutCmd.Flags().BoolVar(&scoutScore, "score", false, "rate each listing with the Anthropic API")
	scoutCmd.Flags().BoolVar(&scoutNotionSync, "notion-sync", false, "upsert listings into the Notion database")
	scoutCmd.Flags().BoolVar(&scoutNotify, "notify", false, "email a digest of high-scoring listings")
	rootCmd.AddCommand(scoutCmd)
}

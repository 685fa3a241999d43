package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/antique-scout/sale-scout/internal/model"
	"github.com/antique-scout/sale-scout/internal/output"
	"github.com/antique-scout/sale-scout/internal/parse"
)

var (
	rssLimit   int
	rssJSONOut string
	rssGeocode bool
)

var rssCmd = &cobra.Command{
	Use:   "rss <feed-url>",
	Short: "Pull sale listings from an RSS/Atom feed",
	Long:  "Parses a garage/estate sale feed (Craigslist search feeds work) into the same listing format the scraper produces.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		listings, err := parse.ParseFeed(ctx, args[0], rssLimit)
		if err != nil {
			return eris.Wrap(err, "rss")
		}
		listings = model.Deduplicate(listings)

		if rssGeocode {
			geocoder, err := newGeocoder()
			if err != nil {
				return err
			}
			for i := range listings {
				if listings[i].Address == "" {
					continue
				}
				if r := geocoder.Geocode(ctx, listings[i].Address); r.Matched {
					listings[i].Coordinates = &model.Coordinates{
						Latitude:  r.Latitude,
						Longitude: r.Longitude,
					}
				}
			}
		}

		if rssJSONOut != "" {
			if err := output.WriteJSON(rssJSONOut, listings); err != nil {
				return err
			}
		}

		fmt.Printf("%d listing(s) from feed\n", len(listings))
		for _, l := range listings {
			fmt.Printf("  %s\n", l.Title)
			if l.Address != "" {
				fmt.Printf("    %s\n", l.Address)
			}
			fmt.Printf("    %s\n", l.URL)
		}
		return nil
	},
}

func init() {
	rssCmd.Flags().IntVar(&rssLimit, "limit", 0, "maximum entries to keep (0 = all)")
	rssCmd.Flags().StringVar(&rssJSONOut, "json-out", "", "also write listings to a JSON file")
	rssCmd.Flags().BoolVar(&rssGeocode, "geocode", false, "geocode feed addresses before writing")
	rootCmd.AddCommand(rssCmd)
}

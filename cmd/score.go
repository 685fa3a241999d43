package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/antique-scout/sale-scout/internal/model"
	"github.com/antique-scout/sale-scout/internal/output"
	"github.com/antique-scout/sale-scout/pkg/scorer"
)

var (
	scoreIn      string
	scoreOut     string
	scoreRescore bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rate previously scraped listings",
	Long:  "Reads a listings JSON file produced by scout, rates each listing with the Anthropic API, and writes the file back with scores attached.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic.key is not configured")
		}

		data, err := os.ReadFile(scoreIn)
		if err != nil {
			return eris.Wrap(err, "score: read input")
		}
		var listings []model.Listing
		if err := json.Unmarshal(data, &listings); err != nil {
			return eris.Wrap(err, "score: parse input")
		}

		sc := scorer.NewAnthropic(cfg.Anthropic.Key, cfg.Anthropic.Model,
			scorer.WithMaxTokens(cfg.Anthropic.MaxTokens))

		scored := 0
		for i := range listings {
			if listings[i].Score != nil && !scoreRescore {
				continue
			}
			s, err := sc.Score(ctx, listings[i])
			if err != nil {
				zap.L().Warn("score: listing failed",
					zap.String("title", listings[i].Title),
					zap.Error(err),
				)
				continue
			}
			listings[i].Score = s
			scored++
		}

		outPath := scoreOut
		if outPath == "" {
			outPath = scoreIn
		}
		if err := output.WriteJSON(outPath, listings); err != nil {
			return err
		}

		fmt.Printf("scored %d of %d listing(s), wrote %s\n", scored, len(listings), outPath)
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreIn, "in", "", "listings JSON file to score (required)")
	scoreCmd.Flags().StringVar(&scoreOut, "out", "", "output path (defaults to overwriting the input)")
	scoreCmd.Flags().BoolVar(&scoreRescore, "rescore", false, "re-rate listings that already carry a score")
	_ = scoreCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(scoreCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Geocode a single address",
	Long:  "Resolves one address through the cache-fronted Nominatim client and prints the coordinates.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newGeocoder()
		if err != nil {
			return err
		}

		r := client.Geocode(cmd.Context(), args[0])
		if !r.Matched {
			fmt.Println("no match")
			return nil
		}
		fmt.Printf("%.6f, %.6f\n", r.Latitude, r.Longitude)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}

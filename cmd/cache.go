package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/antique-scout/sale-scout/pkg/geocode"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the geocode cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show geocode cache size and location",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := geocode.LoadCache(cfg.Geocode.CachePath)
		if err != nil {
			return err
		}
		fmt.Printf("path:    %s\n", cache.Path())
		fmt.Printf("entries: %d\n", cache.Len())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached geocode results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := geocode.LoadCache(cfg.Geocode.CachePath)
		if err != nil {
			return err
		}
		n := cache.Len()
		if err := cache.Clear(); err != nil {
			return err
		}
		fmt.Printf("removed %d cached address(es)\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

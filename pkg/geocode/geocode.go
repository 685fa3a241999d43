// Package geocode resolves free-form addresses to coordinates via
// OpenStreetMap Nominatim, with a persistent disk cache so repeated runs
// never re-query the same address.
package geocode

import (
	"context"

	"go.uber.org/zap"
)

// Result holds the outcome of one lookup. An address Nominatim cannot place
// is an unmatched Result, not an error; errors are reserved for transport
// and decoding failures.
type Result struct {
	Latitude  float64
	Longitude float64
	Matched   bool
}

// Provider is a single geocoding backend.
type Provider interface {
	Name() string
	Geocode(ctx context.Context, address string) (*Result, error)
}

// Client is the cache-fronted geocoder handed to the pipeline.
type Client struct {
	cache    *Cache
	provider Provider
}

// NewClient creates a Client. cache may be nil to disable caching.
func NewClient(cache *Cache, provider Provider) *Client {
	return &Client{cache: cache, provider: provider}
}

// Geocode resolves an address, consulting the cache first. A cache hit
// issues no network call. Provider failures and unmatched lookups degrade
// to an unmatched Result and are NOT cached, so a later run can retry.
func (c *Client) Geocode(ctx context.Context, address string) *Result {
	if address == "" {
		return &Result{Matched: false}
	}

	if c.cache != nil {
		if r, ok := c.cache.Get(address); ok {
			zap.L().Debug("geocode: cache hit", zap.String("address", address))
			return r
		}
	}

	r, err := c.provider.Geocode(ctx, address)
	if err != nil {
		zap.L().Warn("geocode: lookup failed",
			zap.String("provider", c.provider.Name()),
			zap.String("address", address),
			zap.Error(err),
		)
		return &Result{Matched: false}
	}
	if !r.Matched {
		zap.L().Debug("geocode: no match", zap.String("address", address))
		return r
	}

	if c.cache != nil {
		if err := c.cache.Put(address, r); err != nil {
			zap.L().Warn("geocode: cache store failed", zap.Error(err))
		}
	}
	return r
}

package geocode

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider records how many lookups reach the network layer.
type countingProvider struct {
	calls  int
	result *Result
	err    error
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Geocode(_ context.Context, _ string) (*Result, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := LoadCache(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)
	return cache
}

func TestGeocodeCacheHitSkipsProvider(t *testing.T) {
	cache := newTestCache(t)
	provider := &countingProvider{result: &Result{Latitude: 42.9, Longitude: -83.6, Matched: true}}
	client := NewClient(cache, provider)
	ctx := context.Background()

	first := client.Geocode(ctx, "123 Main St, Grand Blanc, MI")
	require.True(t, first.Matched)
	assert.Equal(t, 1, provider.calls)

	second := client.Geocode(ctx, "123 Main St, Grand Blanc, MI")
	assert.True(t, second.Matched)
	assert.Equal(t, 1, provider.calls, "second lookup must come from cache")
	assert.Equal(t, first.Latitude, second.Latitude)
}

func TestGeocodeCacheKeyNormalization(t *testing.T) {
	cache := newTestCache(t)
	provider := &countingProvider{result: &Result{Latitude: 1, Longitude: 2, Matched: true}}
	client := NewClient(cache, provider)
	ctx := context.Background()

	client.Geocode(ctx, "123 Main St, Grand Blanc, MI")
	client.Geocode(ctx, "  123  MAIN st,  grand blanc, mi ")
	assert.Equal(t, 1, provider.calls)
}

func TestGeocodeFailureNotCached(t *testing.T) {
	cache := newTestCache(t)
	provider := &countingProvider{err: errors.New("service down")}
	client := NewClient(cache, provider)
	ctx := context.Background()

	r := client.Geocode(ctx, "456 Oak Ave")
	assert.False(t, r.Matched)
	assert.Zero(t, cache.Len())

	// The next run must retry rather than trust a cached failure.
	client.Geocode(ctx, "456 Oak Ave")
	assert.Equal(t, 2, provider.calls)
}

func TestGeocodeUnmatchedNotCached(t *testing.T) {
	cache := newTestCache(t)
	provider := &countingProvider{result: &Result{Matched: false}}
	client := NewClient(cache, provider)

	r := client.Geocode(context.Background(), "nowhere at all")
	assert.False(t, r.Matched)
	assert.Zero(t, cache.Len())
}

func TestGeocodeEmptyAddress(t *testing.T) {
	provider := &countingProvider{}
	client := NewClient(newTestCache(t), provider)

	r := client.Geocode(context.Background(), "")
	assert.False(t, r.Matched)
	assert.Zero(t, provider.calls)
}

func TestGeocodeNilCache(t *testing.T) {
	provider := &countingProvider{result: &Result{Latitude: 1, Longitude: 2, Matched: true}}
	client := NewClient(nil, provider)

	r := client.Geocode(context.Background(), "123 Main St")
	assert.True(t, r.Matched)
	client.Geocode(context.Background(), "123 Main St")
	assert.Equal(t, 2, provider.calls)
}

package parse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antique-scout/sale-scout/internal/model"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>garage &amp; moving sales</title>
  <item>
    <title>Estate Sale - everything must go $5 (Grand Blanc)</title>
    <link>https://example.test/sale/1</link>
    <description>Furniture, tools, antiques.</description>
    <pubDate>Fri, 22 Aug 2025 09:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Huge Moving Sale in Flint, MI</title>
    <link>https://example.test/sale/2</link>
    <description>Everything priced to sell.</description>
  </item>
  <item>
    <title>Entry without a link</title>
    <description>Should be skipped.</description>
  </item>
</channel>
</rss>`

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestParseFeed(t *testing.T) {
	srv := feedServer(t)

	listings, err := ParseFeed(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "Estate Sale - everything must go", first.Title)
	assert.Equal(t, "Grand Blanc", first.Address)
	assert.Equal(t, "2025-08-22", first.DateRange)
	assert.Equal(t, "Furniture, tools, antiques.", first.Description)
	assert.Equal(t, "https://example.test/sale/1", first.URL)
	assert.Equal(t, model.SourceRSS, first.Source)

	second := listings[1]
	assert.Equal(t, "Huge Moving Sale in Flint, MI", second.Title)
	assert.Equal(t, "Flint, MI", second.Address)
	assert.Empty(t, second.DateRange)
}

func TestParseFeedLimit(t *testing.T) {
	srv := feedServer(t)

	listings, err := ParseFeed(context.Background(), srv.URL, 1)
	require.NoError(t, err)
	assert.Len(t, listings, 1)
}

func TestParseFeedBadURL(t *testing.T) {
	_, err := ParseFeed(context.Background(), "http://127.0.0.1:1/feed", 0)
	require.Error(t, err)
}

func TestCleanFeedTitle(t *testing.T) {
	assert.Equal(t, "Estate Sale", cleanFeedTitle("Estate Sale $1,200.00 (Flint)"))
	assert.Equal(t, "Plain title", cleanFeedTitle("  Plain   title  "))
}

func TestLocationFromTitle(t *testing.T) {
	assert.Equal(t, "Grand Blanc", locationFromTitle("Big Sale (Grand Blanc)"))
	assert.Equal(t, "Flint, MI", locationFromTitle("Sale in Flint, MI this weekend"))
	assert.Empty(t, locationFromTitle("No location here"))
}

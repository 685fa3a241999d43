// Package fetch retrieves estatesales.net search result pages, with
// randomized user agents and inter-request delays to stay under the radar
// of the site's request filtering.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/antique-scout/sale-scout/internal/config"
	"github.com/antique-scout/sale-scout/internal/location"
	"github.com/antique-scout/sale-scout/internal/resilience"
)

// Page is one fetched search result page.
type Page struct {
	Number int
	URL    string
	Body   []byte
}

// Fetcher issues the search page requests for a resolved query.
type Fetcher struct {
	cfg    config.FetchConfig
	client *http.Client
	policy Policy
}

// New creates a Fetcher. A nil policy gets the configured RandomPolicy.
func New(cfg config.FetchConfig, policy Policy) *Fetcher {
	if policy == nil {
		policy = NewRandomPolicy(cfg.MinDelayMS, cfg.MaxDelayMS)
	}
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		policy: policy,
	}
}

// SearchURL builds the estatesales.net search URL for a query and page
// number. The site addresses locations by path: /MI/Grand-Blanc/48439,
// /MI/Grand-Blanc, /MI. Queries without a usable path (ZIP only, or city
// with no state) fall back to the search endpoint with query parameters.
func (f *Fetcher) SearchURL(q location.Query, page int) string {
	base := strings.TrimRight(f.cfg.BaseURL, "/")

	var raw string
	switch {
	case q.State != "" && q.City != "" && q.Zip != "":
		raw = fmt.Sprintf("%s/%s/%s/%s", base, q.State, citySlug(q.City), q.Zip)
	case q.State != "" && q.City != "":
		raw = fmt.Sprintf("%s/%s/%s", base, q.State, citySlug(q.City))
	case q.State != "":
		raw = fmt.Sprintf("%s/%s", base, q.State)
	default:
		v := url.Values{}
		if q.Zip != "" {
			v.Set("zip", q.Zip)
		}
		if q.City != "" {
			v.Set("city", q.City)
		}
		if q.RadiusMiles > 0 {
			v.Set("radius", fmt.Sprint(q.RadiusMiles))
		}
		raw = base + "/estate-sales?" + v.Encode()
	}

	if page > 1 {
		sep := "?"
		if strings.Contains(raw, "?") {
			sep = "&"
		}
		raw += sep + "page=" + fmt.Sprint(page)
	}
	return raw
}

// FetchAll retrieves search pages 1..MaxPages for the query. A failure on
// the first page is an error; a failure on a later page ends pagination and
// returns the pages collected so far. Each request sleeps for the policy's
// delay first and carries a policy-chosen user agent.
func (f *Fetcher) FetchAll(ctx context.Context, q location.Query) ([]Page, error) {
	maxPages := f.cfg.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}

	var pages []Page
	for n := 1; n <= maxPages; n++ {
		page, err := f.fetchPage(ctx, q, n)
		if err != nil {
			if n == 1 {
				return nil, eris.Wrap(err, "fetch: first page")
			}
			zap.L().Info("fetch: page failed, treating as end of results",
				zap.Int("page", n),
				zap.Error(err),
			)
			break
		}
		pages = append(pages, *page)
	}
	return pages, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, q location.Query, n int) (*Page, error) {
	if delay := f.policy.Delay(); delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	pageURL := f.SearchURL(q, n)
	log := zap.L().With(zap.String("url", pageURL), zap.Int("page", n))

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.MaxAttempts = f.cfg.MaxAttempts
	retryCfg.OnRetry = resilience.RetryLogger("estatesales", "fetch_page")

	body, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) ([]byte, error) {
		return f.get(ctx, pageURL)
	})
	if err != nil {
		return nil, err
	}

	log.Debug("fetch: page retrieved", zap.Int("bytes", len(body)))
	f.dumpDebug(q, n, body)

	return &Page{Number: n, URL: pageURL, Body: body}, nil
}

func (f *Fetcher) get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: build request")
	}
	req.Header.Set("User-Agent", f.policy.UserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("fetch: status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: read body")
	}
	return body, nil
}

// dumpDebug writes the raw page body to the debug directory under a name
// derived deterministically from the query. Dump failures are logged and
// never affect the returned data.
func (f *Fetcher) dumpDebug(q location.Query, page int, body []byte) {
	if f.cfg.DebugDumpDir == "" {
		return
	}
	if err := os.MkdirAll(f.cfg.DebugDumpDir, 0o755); err != nil {
		zap.L().Warn("fetch: create debug dir", zap.Error(err))
		return
	}
	name := fmt.Sprintf("%s_p%d.html", querySlug(q), page)
	path := filepath.Join(f.cfg.DebugDumpDir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		zap.L().Warn("fetch: write debug dump", zap.String("path", path), zap.Error(err))
		return
	}
	zap.L().Debug("fetch: debug dump written", zap.String("path", path))
}

// citySlug converts "Grand Blanc" to "Grand-Blanc" for path URLs.
func citySlug(city string) string {
	return strings.ReplaceAll(strings.TrimSpace(city), " ", "-")
}

// querySlug builds a filesystem-safe identifier for a query, used for debug
// dump names.
func querySlug(q location.Query) string {
	s := strings.ToLower(q.String())
	s = strings.ReplaceAll(s, " ", "-")
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "search"
	}
	return b.String()
}

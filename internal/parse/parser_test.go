package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antique-scout/sale-scout/internal/model"
)

const baseURL = "https://www.estatesales.net"

const searchPageHTML = `<!doctype html>
<html><body>
<app-sale-row>
  <a class="sale-row" href="/MI/Grand-Blanc/48439/sale/1"></a>
  <h3>Whole House Estate Sale</h3>
  <app-sale-address>
    <div>123 Main St</div>
    <div>Grand Blanc, MI 48439</div>
  </app-sale-address>
  <app-sale-date><span>Aug 22, 23</span></app-sale-date>
  <div class="sale-row__recent-info">Antiques, tools, and glassware throughout.</div>
  <div class="sale-row__listed-by">Listed by Blue Moon Estate Sales</div>
</app-sale-row>
<app-sale-row>
  <a class="sale-row" href="https://www.estatesales.net/MI/Flint/48503/sale/2"></a>
  <h3>Downsizing Sale</h3>
  <app-sale-address><span>456 Oak Ave</span><span>Flint, MI</span></app-sale-address>
  <app-sale-date><span>Aug 23</span></app-sale-date>
</app-sale-row>
<app-sale-row>
  <h3>Row Without A Link</h3>
</app-sale-row>
</body></html>`

func TestParsePage(t *testing.T) {
	result, err := ParsePage(strings.NewReader(searchPageHTML), baseURL)
	require.NoError(t, err)

	require.Len(t, result.Listings, 2)
	assert.Equal(t, 1, result.Skipped)

	first := result.Listings[0]
	assert.Equal(t, "Whole House Estate Sale", first.Title)
	assert.Equal(t, "123 Main St, Grand Blanc, MI 48439", first.Address)
	assert.Equal(t, "Aug 22, 23", first.DateRange)
	assert.Equal(t, "Antiques, tools, and glassware throughout.", first.Description)
	assert.Equal(t, "Blue Moon Estate Sales", first.Company)
	assert.Equal(t, "https://www.estatesales.net/MI/Grand-Blanc/48439/sale/1", first.URL)
	assert.Equal(t, model.SourceEstateSalesNet, first.Source)

	second := result.Listings[1]
	assert.Equal(t, "Downsizing Sale", second.Title)
	assert.Equal(t, "456 Oak Ave, Flint, MI", second.Address)
	assert.Empty(t, second.Description)
	assert.Empty(t, second.Company)
	// Absolute hrefs pass through untouched.
	assert.Equal(t, "https://www.estatesales.net/MI/Flint/48503/sale/2", second.URL)
}

func TestParsePageThreeRowsOneMissingDescription(t *testing.T) {
	html := `<html><body>
	<app-sale-row><a class="sale-row" href="/sale/1"></a><h3>One</h3>
		<div class="sale-row__recent-info">Full of antiques.</div></app-sale-row>
	<app-sale-row><a class="sale-row" href="/sale/2"></a><h3>Two</h3>
		<div class="sale-row__recent-info">Tools and glassware.</div></app-sale-row>
	<app-sale-row><a class="sale-row" href="/sale/3"></a><h3>Three</h3></app-sale-row>
	</body></html>`

	result, err := ParsePage(strings.NewReader(html), baseURL)
	require.NoError(t, err)
	require.Len(t, result.Listings, 3)
	assert.Zero(t, result.Skipped)
	assert.Equal(t, "Full of antiques.", result.Listings[0].Description)
	assert.Equal(t, "Tools and glassware.", result.Listings[1].Description)
	assert.Empty(t, result.Listings[2].Description)
}

func TestParsePageNoRows(t *testing.T) {
	result, err := ParsePage(strings.NewReader("<html><body><p>nothing here</p></body></html>"), baseURL)
	require.NoError(t, err)
	assert.Empty(t, result.Listings)
	assert.Zero(t, result.Skipped)
}

func TestParsePagePreservesDocumentOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		b.WriteString(`<app-sale-row><a class="sale-row" href="/sale/` + title + `"></a><h3>` + title + `</h3></app-sale-row>`)
	}
	b.WriteString("</body></html>")

	result, err := ParsePage(strings.NewReader(b.String()), baseURL)
	require.NoError(t, err)
	require.Len(t, result.Listings, 3)
	assert.Equal(t, "Alpha", result.Listings[0].Title)
	assert.Equal(t, "Beta", result.Listings[1].Title)
	assert.Equal(t, "Gamma", result.Listings[2].Title)
}

func TestParsePageMissingTitleSkipped(t *testing.T) {
	html := `<html><body><app-sale-row><a class="sale-row" href="/sale/1"></a></app-sale-row></body></html>`
	result, err := ParsePage(strings.NewReader(html), baseURL)
	require.NoError(t, err)
	assert.Empty(t, result.Listings)
	assert.Equal(t, 1, result.Skipped)
}

func TestParseCompanyWithoutPrefix(t *testing.T) {
	html := `<html><body><app-sale-row>
		<a class="sale-row" href="/sale/1"></a>
		<h3>Sale</h3>
		<div class="sale-row__listed-by">Acme Estate Services</div>
	</app-sale-row></body></html>`
	result, err := ParsePage(strings.NewReader(html), baseURL)
	require.NoError(t, err)
	require.Len(t, result.Listings, 1)
	assert.Equal(t, "Acme Estate Services", result.Listings[0].Company)
}

package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/antique-scout/sale-scout/internal/model"
)

func sampleListings() []model.Listing {
	return []model.Listing{
		{
			Title:       "Whole House Estate Sale",
			Address:     "123 Main St, Grand Blanc, MI 48439",
			DateRange:   "Aug 22, 23",
			Description: "Antiques, tools, glassware.",
			Company:     "Blue Moon Estate Sales",
			URL:         "https://www.estatesales.net/sale/1",
			Source:      model.SourceEstateSalesNet,
			Coordinates: &model.Coordinates{Latitude: 42.9275, Longitude: -83.6299},
			Score: &model.ListingScore{
				Value:      4,
				Categories: []string{"antiques", "glassware"},
				Summary:    "Worth the drive.",
			},
		},
		{
			Title:  "Moving Sale",
			URL:    "https://www.estatesales.net/sale/2",
			Source: model.SourceEstateSalesNet,
		},
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.json")
	listings := sampleListings()

	require.NoError(t, WriteJSON(path, listings))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), data[len(data)-1])

	var got []model.Listing
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, listings, got)
}

func TestWriteJSONIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.json")
	listings := sampleListings()

	require.NoError(t, WriteJSON(path, listings))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteJSON(path, listings))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriteJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.json")
	require.NoError(t, WriteJSON(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriteJSONLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.json")
	require.NoError(t, WriteJSON(path, sampleListings()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sales.json", entries[0].Name())
}

func TestWriteTextFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.txt")
	require.NoError(t, WriteText(path, sampleListings()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Title: Whole House Estate Sale")
	assert.Contains(t, text, "Score: 4/5")
	assert.Contains(t, text, "Categories: antiques, glassware")
	assert.Contains(t, text, "Coordinates: 42.927500, -83.629900")
	// The second listing has no address; the label must not appear for it.
	assert.Contains(t, text, "Title: Moving Sale\nURL: https://www.estatesales.net/sale/2")
}

func TestWriteXLSXLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.xlsx")
	require.NoError(t, WriteXLSX(path, sampleListings()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sales.xlsx", entries[0].Name())
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, WriteXLSX(path, sampleListings()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Sales", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Title", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Whole House Estate Sale", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "Moving Sale", sheet.Rows[2].Cells[0].String())
}

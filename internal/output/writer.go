// Package output renders a run's listings to disk. Writers are idempotent:
// the same listings produce byte-identical files, and every write goes
// through a temp file and rename.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/antique-scout/sale-scout/internal/model"
)

// WriteJSON writes listings as an indented JSON array with a trailing
// newline. An empty slice writes "[]".
func WriteJSON(path string, listings []model.Listing) error {
	if listings == nil {
		listings = []model.Listing{}
	}
	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return eris.Wrap(err, "output: encode json")
	}
	data = append(data, '\n')
	return writeAtomic(path, data)
}

// WriteText writes listings as labeled human-readable blocks separated by a
// dashed rule.
func WriteText(path string, listings []model.Listing) error {
	var b strings.Builder
	for i, l := range listings {
		if i > 0 {
			b.WriteString(strings.Repeat("-", 60) + "\n")
		}
		writeField(&b, "Title", l.Title)
		writeField(&b, "Address", l.Address)
		writeField(&b, "Dates", l.DateRange)
		writeField(&b, "Company", l.Company)
		if l.HasCoordinates() {
			writeField(&b, "Coordinates", formatCoords(l.Coordinates))
		}
		if l.Score != nil {
			writeField(&b, "Score", strconv.Itoa(l.Score.Value)+"/5")
			writeField(&b, "Categories", strings.Join(l.Score.Categories, ", "))
			writeField(&b, "Summary", l.Score.Summary)
		}
		writeField(&b, "Description", l.Description)
		writeField(&b, "URL", l.URL)
		b.WriteString("\n")
	}
	return writeAtomic(path, []byte(b.String()))
}

var xlsxHeader = []string{
	"Title", "Address", "Dates", "Company", "Latitude", "Longitude",
	"Score", "Categories", "Summary", "Description", "URL", "Source",
}

// WriteXLSX writes listings to a single-sheet workbook with a header row.
func WriteXLSX(path string, listings []model.Listing) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sales")
	if err != nil {
		return eris.Wrap(err, "output: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().SetString(h)
	}

	for _, l := range listings {
		row := sheet.AddRow()
		row.AddCell().SetString(l.Title)
		row.AddCell().SetString(l.Address)
		row.AddCell().SetString(l.DateRange)
		row.AddCell().SetString(l.Company)
		if l.HasCoordinates() {
			row.AddCell().SetFloat(l.Coordinates.Latitude)
			row.AddCell().SetFloat(l.Coordinates.Longitude)
		} else {
			row.AddCell().SetString("")
			row.AddCell().SetString("")
		}
		if l.Score != nil {
			row.AddCell().SetInt(l.Score.Value)
			row.AddCell().SetString(strings.Join(l.Score.Categories, ", "))
			row.AddCell().SetString(l.Score.Summary)
		} else {
			row.AddCell().SetString("")
			row.AddCell().SetString("")
			row.AddCell().SetString("")
		}
		row.AddCell().SetString(l.Description)
		row.AddCell().SetString(l.URL)
		row.AddCell().SetString(string(l.Source))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "output: create dir")
		}
	}
	tmp := path + ".tmp"
	if err := f.Save(tmp); err != nil {
		_ = os.Remove(tmp)
		return eris.Wrap(err, "output: save xlsx")
	}
	if err := os.Rename(tmp, path); err != nil {
		return eris.Wrap(err, "output: replace xlsx")
	}
	return nil
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func formatCoords(c *model.Coordinates) string {
	return strconv.FormatFloat(c.Latitude, 'f', 6, 64) + ", " +
		strconv.FormatFloat(c.Longitude, 'f', 6, 64)
}

// writeAtomic writes data through a temp file and rename so readers never
// observe a partial file.
func writeAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "output: create dir")
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrap(err, "output: write file")
	}
	if err := os.Rename(tmp, path); err != nil {
		return eris.Wrap(err, "output: replace file")
	}
	return nil
}

package pipeline

import (
	"fmt"
	"strings"

	"github.com/antique-scout/sale-scout/internal/model"
)

// FormatReport renders a run summary for the terminal.
func FormatReport(summary *model.RunSummary, listings []model.Listing) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Scrape complete: %s\n", summary.Location)
	fmt.Fprintf(&b, "  Pages fetched:  %d\n", summary.PagesFetched)
	fmt.Fprintf(&b, "  Listings found: %d\n", summary.ListingsFound)
	if summary.RowsSkipped > 0 {
		fmt.Fprintf(&b, "  Rows skipped:   %d\n", summary.RowsSkipped)
	}
	fmt.Fprintf(&b, "  Geocoded:       %d\n", summary.Geocoded)
	fmt.Fprintf(&b, "  Scored:         %d\n", summary.Scored)

	if len(summary.Errors) > 0 {
		fmt.Fprintf(&b, "  Errors:         %d\n", len(summary.Errors))
		for _, e := range summary.Errors {
			fmt.Fprintf(&b, "    - %s\n", e)
		}
	}

	if len(listings) > 0 {
		b.WriteString("\n")
		for _, l := range listings {
			if l.Score != nil {
				fmt.Fprintf(&b, "  [%d/5] %s\n", l.Score.Value, l.Title)
			} else {
				fmt.Fprintf(&b, "  [   ] %s\n", l.Title)
			}
			if l.DateRange != "" {
				fmt.Fprintf(&b, "        %s\n", l.DateRange)
			}
			fmt.Fprintf(&b, "        %s\n", l.URL)
		}
	}

	return b.String()
}

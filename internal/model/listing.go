// Package model holds the domain types shared across the pipeline.
package model

// Source identifies where a listing came from.
type Source string

const (
	SourceEstateSalesNet Source = "estatesales.net"
	SourceRSS            Source = "rss"
)

// Coordinates is a geocoded point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ListingScore is a model-assigned rating of how promising a sale looks.
type ListingScore struct {
	Value      int      `json:"value"` // 1 (skip) to 5 (must visit)
	Categories []string `json:"categories,omitempty"`
	Summary    string   `json:"summary,omitempty"`
}

// Listing is one estate sale. Title and URL are always present on listings
// the parser emits; everything else is best effort.
type Listing struct {
	Title       string        `json:"title"`
	Address     string        `json:"address,omitempty"`
	DateRange   string        `json:"date_range,omitempty"`
	Description string        `json:"description,omitempty"`
	Company     string        `json:"company,omitempty"`
	URL         string        `json:"url"`
	Source      Source        `json:"source"`
	Coordinates *Coordinates  `json:"coordinates,omitempty"`
	Score       *ListingScore `json:"score,omitempty"`
}

// HasCoordinates reports whether the listing was successfully geocoded.
func (l Listing) HasCoordinates() bool {
	return l.Coordinates != nil
}

// Deduplicate removes listings whose URL was already seen, keeping the first
// occurrence and preserving document order. Listings with an empty URL are
// kept; there is nothing to key them on.
func Deduplicate(listings []Listing) []Listing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if l.URL != "" {
			if _, dup := seen[l.URL]; dup {
				continue
			}
			seen[l.URL] = struct{}{}
		}
		out = append(out, l)
	}
	return out
}

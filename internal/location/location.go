// Package location turns a free-form location string into the structured
// query the estatesales.net search expects.
package location

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Query is a resolved search location. At least one of City, State, or Zip
// is always set on a successfully resolved query.
type Query struct {
	City        string
	State       string // two-letter USPS abbreviation, upper case
	Zip         string // five digits
	RadiusMiles int
	Limit       int
}

// IsZipOnly reports whether the query carries only a postal code.
func (q Query) IsZipOnly() bool {
	return q.Zip != "" && q.City == "" && q.State == ""
}

// String renders the query the way a person would write it.
func (q Query) String() string {
	var parts []string
	if q.City != "" {
		parts = append(parts, q.City)
	}
	if q.State != "" {
		parts = append(parts, q.State)
	}
	if q.Zip != "" {
		parts = append(parts, q.Zip)
	}
	return strings.Join(parts, " ")
}

// stateAbbrs is the set of USPS state abbreviations accepted as a trailing
// state token. A trailing two-letter word not in this set is treated as part
// of the city name.
var stateAbbrs = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true,
	"CT": true, "DE": true, "FL": true, "GA": true, "HI": true, "ID": true,
	"IL": true, "IN": true, "IA": true, "KS": true, "KY": true, "LA": true,
	"ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true,
	"NM": true, "NY": true, "NC": true, "ND": true, "OH": true, "OK": true,
	"OR": true, "PA": true, "RI": true, "SC": true, "SD": true, "TN": true,
	"TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true, "DC": true,
}

// Resolve parses a free-form location string such as "Grand Blanc, MI 48439",
// "New York NY", or "90210" into a Query. Parsing is purely pattern based:
// a trailing 5-digit token is the ZIP, a trailing known 2-letter token is the
// state, and whatever remains is the city. It returns an error when the input
// contains no recognizable city, state, or ZIP token; the caller should treat
// that as unusable input rather than issue a malformed search.
func Resolve(input string) (Query, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(input, ",", " "))
	tokens := strings.Fields(cleaned)
	if len(tokens) == 0 {
		return Query{}, eris.Errorf("location: no recognizable location in %q", input)
	}

	var q Query

	// Trailing ZIP.
	if last := tokens[len(tokens)-1]; isZip(last) {
		q.Zip = last
		tokens = tokens[:len(tokens)-1]
	}

	// Trailing state abbreviation.
	if len(tokens) > 0 {
		if last := strings.ToUpper(tokens[len(tokens)-1]); len(last) == 2 && stateAbbrs[last] {
			q.State = last
			tokens = tokens[:len(tokens)-1]
		}
	}

	// Remainder is the city, multi-word names included.
	if len(tokens) > 0 {
		city := strings.Join(tokens, " ")
		if !isAlphabetic(city) {
			return Query{}, eris.Errorf("location: no recognizable location in %q", input)
		}
		q.City = city
	}

	if q.City == "" && q.State == "" && q.Zip == "" {
		return Query{}, eris.Errorf("location: no recognizable location in %q", input)
	}

	return q, nil
}

func isZip(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isAlphabetic accepts letters plus the separators that appear in real city
// names (spaces, hyphens, periods, apostrophes).
func isAlphabetic(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r == ' ', r == '-', r == '.', r == '\'':
		default:
			return false
		}
	}
	return true
}

package model

// RunSummary is what one pipeline run reports back to the CLI.
type RunSummary struct {
	RunID         string
	Location      string
	PagesFetched  int
	ListingsFound int
	Geocoded      int
	Scored        int
	RowsSkipped   int
	Errors        []string
}

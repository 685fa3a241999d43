// Package scorer rates listings with a language model. The pipeline only
// sees the narrow Scorer interface; failures degrade a single listing to
// unscored, never the run.
package scorer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/antique-scout/sale-scout/internal/model"
)

// Scorer rates one listing from its text fields.
type Scorer interface {
	Score(ctx context.Context, listing model.Listing) (*model.ListingScore, error)
}

// scorePayload is the JSON object the model is instructed to return.
type scorePayload struct {
	Score      int      `json:"score"`
	Categories []string `json:"categories"`
	Summary    string   `json:"summary"`
}

// parseScoreResponse decodes the model's reply into a ListingScore. The
// model sometimes wraps JSON in markdown fences; those are stripped first.
// A score outside 1-5 is rejected.
func parseScoreResponse(text string) (*model.ListingScore, error) {
	cleaned := stripFences(text)

	var payload scorePayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, eris.Wrap(err, "scorer: parse response")
	}
	if payload.Score < 1 || payload.Score > 5 {
		return nil, eris.Errorf("scorer: score %d out of range", payload.Score)
	}

	return &model.ListingScore{
		Value:      payload.Score,
		Categories: payload.Categories,
		Summary:    strings.TrimSpace(payload.Summary),
	}, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

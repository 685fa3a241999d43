package scorer

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/antique-scout/sale-scout/internal/model"
)

const systemPrompt = `You rate estate sale listings for an antique hunter.
Given a listing, respond with ONLY a JSON object, no prose:
{"score": <1-5>, "categories": ["..."], "summary": "<one sentence>"}
Score 5 means a must-visit sale full of antiques, vintage items, or
collectibles; score 1 means nothing of interest. Categories name the
item kinds that drove the score.`

// AnthropicScorer rates listings with a single Messages call per listing.
type AnthropicScorer struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

// Option configures the scorer.
type Option func(*AnthropicScorer)

// WithMaxTokens overrides the response token budget.
func WithMaxTokens(n int64) Option {
	return func(s *AnthropicScorer) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// NewAnthropic creates a scorer backed by the Anthropic API.
func NewAnthropic(apiKey, modelID string, opts ...Option) *AnthropicScorer {
	s := &AnthropicScorer{
		client:    sdk.NewClient(option.WithAPIKey(apiKey)),
		model:     modelID,
		maxTokens: 512,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score implements Scorer.
func (s *AnthropicScorer) Score(ctx context.Context, listing model.Listing) (*model.ListingScore, error) {
	prompt := buildPrompt(listing)

	resp, err := s.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(s.model),
		MaxTokens: s.maxTokens,
		System: []sdk.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "scorer: create message")
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, eris.New("scorer: empty response")
	}

	score, err := parseScoreResponse(text.String())
	if err != nil {
		return nil, err
	}

	zap.L().Debug("scorer: listing rated",
		zap.String("title", listing.Title),
		zap.Int("score", score.Value),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)
	return score, nil
}

// buildPrompt flattens the listing's text fields into the user message.
// Empty fields are omitted so the model never sees blank labels.
func buildPrompt(listing model.Listing) string {
	var b strings.Builder
	writeField := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	writeField("Title", listing.Title)
	writeField("Address", listing.Address)
	writeField("Dates", listing.DateRange)
	writeField("Company", listing.Company)
	writeField("Description", listing.Description)
	return b.String()
}

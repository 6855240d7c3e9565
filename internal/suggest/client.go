package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/logger"
)

// maxResponseTokens bounds the model response; the expected JSON is tiny.
const maxResponseTokens = 256

const promptTemplate = `Analyze this user description and generate a structured summary.
Context (Project Nexus): a system to capture inspiration.

User Description: %q

Task:
1. Generate a concise Title (max 15 chars, capture the essence).
2. Suggest a Primary Tag and a Secondary Tag.
   Prefer matching these Predefined Tags: %s.
   If no match, suggest a new relevant tag.

Respond with a single JSON object and nothing else:
{"title": "...", "primary_tag": "...", "secondary_tag": "..."}`

// MessagesAPI is the subset of the Anthropic client the suggestion client
// uses. *anthropic.MessageService satisfies it.
type MessagesAPI interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Client calls the Anthropic Messages API for title/tag suggestions. The
// service is treated as unreliable and optional: every failure collapses to
// ErrSuggestionUnavailable and is never retried.
type Client struct {
	messages MessagesAPI
	model    anthropic.Model
	log      logger.Logger
}

// NewClient creates a suggestion client. An empty API key yields a disabled
// client whose calls always report no suggestion available.
func NewClient(apiKey, model string, log logger.Logger) *Client {
	if apiKey == "" {
		log.Warn("Suggestion API key not set, suggestions disabled")
		return &Client{log: log}
	}

	api := anthropic.NewClient(option.WithAPIKey(apiKey))
	return NewClientWithAPI(&api.Messages, model, log)
}

// NewClientWithAPI creates a suggestion client over an existing messages API.
func NewClientWithAPI(messages MessagesAPI, model string, log logger.Logger) *Client {
	return &Client{
		messages: messages,
		model:    anthropic.Model(model),
		log:      log,
	}
}

// Suggest generates a title and up to two tags for a description, biased
// toward the known tag vocabulary.
func (c *Client) Suggest(ctx context.Context, description string, knownTags []string) (Suggestion, error) {
	if c.messages == nil {
		return Suggestion{}, domain.ErrSuggestionUnavailable
	}

	vocab, err := json.Marshal(knownTags)
	if err != nil {
		return Suggestion{}, fmt.Errorf("%w: encode vocabulary: %w", domain.ErrSuggestionUnavailable, err)
	}

	prompt := fmt.Sprintf(promptTemplate, description, string(vocab))

	message, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxResponseTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		c.log.Warn("Suggestion call failed", logger.Error(err))
		return Suggestion{}, fmt.Errorf("%w: %w", domain.ErrSuggestionUnavailable, err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	suggestion, err := parseSuggestion(text.String())
	if err != nil {
		c.log.Warn("Unparseable suggestion response", logger.Error(err))
		return Suggestion{}, fmt.Errorf("%w: %w", domain.ErrSuggestionUnavailable, err)
	}

	return suggestion, nil
}

// parseSuggestion decodes the model's JSON response, tolerating markdown code
// fences around the object.
func parseSuggestion(raw string) (Suggestion, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var s Suggestion
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Suggestion{}, fmt.Errorf("decode suggestion: %w", err)
	}

	if s.Title == "" && s.PrimaryTag == "" && s.SecondaryTag == "" {
		return Suggestion{}, fmt.Errorf("empty suggestion")
	}

	return s, nil
}

package suggest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuslab/capture/internal/domain"
	"github.com/nexuslab/capture/internal/logger"
	"github.com/nexuslab/capture/internal/suggest"
)

// fakeMessages returns a canned text response and records the prompt.
type fakeMessages struct {
	response string
	err      error
	prompt   string
}

func (f *fakeMessages) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	if len(params.Messages) > 0 {
		for _, block := range params.Messages[0].Content {
			if block.OfText != nil {
				f.prompt = block.OfText.Text
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{{Type: "text", Text: f.response}},
	}, nil
}

func newTestClient(api *fakeMessages) *suggest.Client {
	return suggest.NewClientWithAPI(api, "test-model", logger.NewNop())
}

func TestSuggest_ParsesResponse(t *testing.T) {
	api := &fakeMessages{response: `{"title":"Kyoto Alley","primary_tag":"Travel","secondary_tag":"Design"}`}
	c := newTestClient(api)

	s, err := c.Suggest(context.Background(), "a narrow alley in kyoto", []string{"Travel"})
	require.NoError(t, err)
	assert.Equal(t, "Kyoto Alley", s.Title)
	assert.Equal(t, "Travel", s.PrimaryTag)
	assert.Equal(t, "Design", s.SecondaryTag)
}

func TestSuggest_ToleratesCodeFences(t *testing.T) {
	api := &fakeMessages{response: "```json\n{\"title\":\"Alley\",\"primary_tag\":\"Travel\",\"secondary_tag\":\"\"}\n```"}
	c := newTestClient(api)

	s, err := c.Suggest(context.Background(), "a narrow alley", nil)
	require.NoError(t, err)
	assert.Equal(t, "Alley", s.Title)
	assert.Empty(t, s.SecondaryTag)
}

func TestSuggest_PromptCarriesVocabulary(t *testing.T) {
	api := &fakeMessages{response: `{"title":"Alley","primary_tag":"Travel","secondary_tag":""}`}
	c := newTestClient(api)

	_, err := c.Suggest(context.Background(), "a narrow alley", []string{"Travel", "Design"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(api.prompt, `["Travel","Design"]`),
		"known tags must reach the model, got prompt: %s", api.prompt)
	assert.True(t, strings.Contains(api.prompt, "a narrow alley"))
}

func TestSuggest_GarbageResponseUnavailable(t *testing.T) {
	api := &fakeMessages{response: "sorry, I cannot help with that"}
	c := newTestClient(api)

	_, err := c.Suggest(context.Background(), "anything", nil)
	assert.ErrorIs(t, err, domain.ErrSuggestionUnavailable)
}

func TestSuggest_EmptyObjectUnavailable(t *testing.T) {
	api := &fakeMessages{response: "{}"}
	c := newTestClient(api)

	_, err := c.Suggest(context.Background(), "anything", nil)
	assert.ErrorIs(t, err, domain.ErrSuggestionUnavailable)
}

func TestSuggest_APIFailureUnavailable(t *testing.T) {
	api := &fakeMessages{err: errors.New("rate limited")}
	c := newTestClient(api)

	_, err := c.Suggest(context.Background(), "anything", nil)
	assert.ErrorIs(t, err, domain.ErrSuggestionUnavailable)
}

func TestSuggest_DisabledWithoutAPIKey(t *testing.T) {
	c := suggest.NewClient("", "some-model", logger.NewNop())

	_, err := c.Suggest(context.Background(), "a narrow alley in kyoto", nil)
	assert.ErrorIs(t, err, domain.ErrSuggestionUnavailable)
}

package openai

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brain-battle/notes-server/llm/providers/shared"
)

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider(Config{})
	require.Error(t, err)

	var pe *shared.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, shared.ErrAuth, pe.Code)
}

func TestToOpenAIRequest(t *testing.T) {
	req := &shared.CompletionRequest{
		Messages: []shared.Message{
			{Role: shared.RoleSystem, Content: "system"},
			{Role: shared.RoleUser, Content: "user"},
		},
		Options: shared.CompletionOptions{
			Model:          "gpt-4o-mini",
			MaxTokens:      256,
			Temperature:    0.3,
			Stop:           []string{"END"},
			ResponseFormat: shared.ResponseFormatJSON,
		},
	}

	out := toOpenAIRequest(req)

	assert.Equal(t, "gpt-4o-mini", out.Model)
	assert.Equal(t, 256, out.MaxTokens)
	assert.Equal(t, float32(0.3), out.Temperature)
	assert.Equal(t, []string{"END"}, out.Stop)
	require.Len(t, out.Messages, 2)
	assert.Equal(t, "system", out.Messages[0].Role)
	require.NotNil(t, out.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, out.ResponseFormat.Type)
}

func TestToOpenAIRequest_TextFormatOmitted(t *testing.T) {
	out := toOpenAIRequest(&shared.CompletionRequest{
		Messages: []shared.Message{{Role: shared.RoleUser, Content: "hi"}},
		Options:  shared.CompletionOptions{Model: "gpt-4o-mini"},
	})
	assert.Nil(t, out.ResponseFormat)
}

func TestNormalizeOpenAIError(t *testing.T) {
	assert.Nil(t, normalizeOpenAIError(nil))

	apiErr := &openai.APIError{HTTPStatusCode: 429, Message: "rate limit reached"}
	pe := normalizeOpenAIError(apiErr)
	assert.Equal(t, shared.ErrRateLimited, pe.Code)
	assert.Equal(t, 429, pe.HTTPStatus)

	reqErr := &openai.RequestError{HTTPStatusCode: 503, Err: errors.New("bad gateway")}
	pe = normalizeOpenAIError(reqErr)
	assert.Equal(t, shared.ErrUnavailable, pe.Code)

	pe = normalizeOpenAIError(context.DeadlineExceeded)
	assert.Equal(t, shared.ErrTimeout, pe.Code)

	pe = normalizeOpenAIError(errors.New("mystery"))
	assert.Equal(t, shared.ErrUnknown, pe.Code)
}

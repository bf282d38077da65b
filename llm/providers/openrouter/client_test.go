package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brain-battle/notes-server/llm/providers/shared"
)

func validRequest() *shared.CompletionRequest {
	return &shared.CompletionRequest{
		Messages: []shared.Message{
			{Role: shared.RoleSystem, Content: "system"},
			{Role: shared.RoleUser, Content: "hello"},
		},
		Options: shared.CompletionOptions{
			Model:          "openai/gpt-4o-mini",
			ResponseFormat: shared.ResponseFormatJSON,
		},
	}
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider(Config{})
	require.Error(t, err)

	var pe *shared.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, shared.ErrAuth, pe.Code)
}

func TestComplete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "openai/gpt-4o-mini", body.Model)
		require.NotNil(t, body.ResponseFormat)
		assert.Equal(t, "json_object", body.ResponseFormat.Type)

		_ = json.NewEncoder(w).Encode(chatCompletionResponse{
			ID: "gen-1",
			Choices: []choice{{
				FinishReason: "stop",
				Message:      chatMessage{Role: "assistant", Content: `{"ok":true}`},
			}},
			Usage: &usage{PromptTokens: 12, CompletionTokens: 8, TotalTokens: 20},
		})
	}))
	defer srv.Close()

	p, err := NewProvider(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Content)
	assert.Equal(t, "stop", resp.StopReason)
	assert.Equal(t, 20, resp.Usage.TotalTokens)
}

func TestComplete_MissingUsageTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []choice{{FinishReason: "stop", Message: chatMessage{Content: "hi"}}},
		})
	}))
	defer srv.Close()

	p, err := NewProvider(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, shared.TokenUsage{}, resp.Usage)
}

func TestComplete_HTTPErrorMapsCode(t *testing.T) {
	tests := []struct {
		status int
		want   shared.ErrorCode
	}{
		{http.StatusUnauthorized, shared.ErrAuth},
		{http.StatusTooManyRequests, shared.ErrRateLimited},
		{http.StatusServiceUnavailable, shared.ErrUnavailable},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream says no", tt.status)
		}))

		p, err := NewProvider(Config{APIKey: "sk-test", BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = p.Complete(context.Background(), validRequest())
		require.Error(t, err)

		var pe *shared.ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, tt.want, pe.Code, "status %d", tt.status)
		assert.Equal(t, tt.status, pe.HTTPStatus)

		srv.Close()
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatCompletionResponse{})
	}))
	defer srv.Close()

	p, err := NewProvider(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), validRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestComplete_InvalidRequestRejectedLocally(t *testing.T) {
	p, err := NewProvider(Config{APIKey: "sk-test", BaseURL: "http://127.0.0.1:0"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), &shared.CompletionRequest{})
	require.Error(t, err)

	var pe *shared.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, shared.ErrInvalidRequest, pe.Code)
}

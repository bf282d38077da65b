// Package openrouter implements the unified LLMProvider interface against
// the OpenRouter chat completions API (OpenAI-compatible wire format).
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/brain-battle/notes-server/llm/providers/shared"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Per-request ceiling; a slow generation call fails here rather than
// hanging the whole pipeline run.
const defaultTimeout = 2 * time.Minute

// Config holds OpenRouter provider configuration
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Provider implements the unified LLMProvider interface for OpenRouter
type Provider struct {
	httpClient *http.Client
	config     Config
}

// NewProvider creates a new OpenRouter provider
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, &shared.ProviderError{
			Code:    shared.ErrAuth,
			Message: "openrouter: api key is required",
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Provider{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string { return "openrouter" }

// CountTokens estimates token count for the given messages and model
func (p *Provider) CountTokens(messages []shared.Message, model string) (int, error) {
	totalTokens := 0
	for _, msg := range messages {
		totalTokens += len(msg.Content) / 4
		totalTokens += 4
	}
	return totalTokens, nil
}

// Chat API types (OpenAI-compatible)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Stop           []string        `json:"stop,omitempty"`
	Temperature    float32         `json:"temperature,omitempty"`
}

type choice struct {
	Index        int         `json:"index"`
	FinishReason string      `json:"finish_reason"`
	Message      chatMessage `json:"message"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

// Complete performs a completion request
func (p *Provider) Complete(ctx context.Context, req *shared.CompletionRequest) (*shared.CompletionResponse, error) {
	if err := shared.ValidateCompletionRequest(req); err != nil {
		return nil, err
	}

	body := chatCompletionRequest{
		Model:       req.Options.Model,
		MaxTokens:   req.Options.MaxTokens,
		Stop:        req.Options.Stop,
		Temperature: req.Options.Temperature,
	}
	for _, msg := range req.Messages {
		body.Messages = append(body.Messages, chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	if req.Options.ResponseFormat == shared.ResponseFormatJSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return nil, shared.NormalizeError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/chat/completions", buf)
	if err != nil {
		return nil, shared.NormalizeError(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := p.httpClient.Do(httpReq)
	if err != nil {
		code := shared.ErrUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			code = shared.ErrTimeout
		}
		return nil, &shared.ProviderError{Code: code, Message: err.Error()}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return nil, &shared.ProviderError{
			Code:       shared.CodeForStatus(res.StatusCode),
			Message:    "openrouter: " + string(b),
			HTTPStatus: res.StatusCode,
		}
	}

	var cr chatCompletionResponse
	if err := json.NewDecoder(res.Body).Decode(&cr); err != nil {
		return nil, shared.NormalizeError(err)
	}
	if len(cr.Choices) == 0 {
		return nil, &shared.ProviderError{
			Code:    shared.ErrUnknown,
			Message: "openrouter: response contained no choices",
		}
	}

	out := &shared.CompletionResponse{
		Content:    cr.Choices[0].Message.Content,
		StopReason: cr.Choices[0].FinishReason,
	}
	// Not all routed providers report usage.
	if cr.Usage != nil {
		out.Usage = shared.TokenUsage{
			PromptTokens:     cr.Usage.PromptTokens,
			CompletionTokens: cr.Usage.CompletionTokens,
			TotalTokens:      cr.Usage.TotalTokens,
		}
	}
	return out, nil
}

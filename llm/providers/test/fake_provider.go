// Package test provides a scripted LLMProvider for exercising agents and
// the orchestrator without network calls.
package test

import (
	"context"
	"strings"
	"sync"

	"github.com/brain-battle/notes-server/llm/providers/shared"
)

type cannedReply struct {
	match    string
	response *shared.CompletionResponse
	err      error
}

// FakeProvider implements LLMProvider for testing purposes. Replies are
// matched by substring against the request's message contents, in
// registration order; unmatched requests get a default empty-JSON reply.
type FakeProvider struct {
	mu        sync.Mutex
	replies   []cannedReply
	callCount int
	requests  []*shared.CompletionRequest
}

// NewFakeProvider creates a new fake provider for testing
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{}
}

// AddResponse adds a canned response for requests containing match
func (fp *FakeProvider) AddResponse(match string, response *shared.CompletionResponse) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.replies = append(fp.replies, cannedReply{match: match, response: response})
}

// AddJSONResponse adds a canned JSON-content response with the given usage
func (fp *FakeProvider) AddJSONResponse(match, content string, totalTokens int) {
	fp.AddResponse(match, &shared.CompletionResponse{
		Content:    content,
		Usage:      shared.TokenUsage{TotalTokens: totalTokens},
		StopReason: "stop",
	})
}

// AddError adds a canned error for requests containing match
func (fp *FakeProvider) AddError(match string, err error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.replies = append(fp.replies, cannedReply{match: match, err: err})
}

// CallCount returns the number of Complete calls made to the provider
func (fp *FakeProvider) CallCount() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return fp.callCount
}

// Requests returns every request made to the provider, in order
func (fp *FakeProvider) Requests() []*shared.CompletionRequest {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	out := make([]*shared.CompletionRequest, len(fp.requests))
	copy(out, fp.requests)
	return out
}

// Name returns the provider name
func (fp *FakeProvider) Name() string { return "fake" }

// CountTokens returns a mock token count
func (fp *FakeProvider) CountTokens(messages []shared.Message, model string) (int, error) {
	totalTokens := 0
	for _, msg := range messages {
		totalTokens += len(msg.Content) / 4
		totalTokens += 4
	}
	return totalTokens, nil
}

// Complete performs a mock completion request
func (fp *FakeProvider) Complete(ctx context.Context, req *shared.CompletionRequest) (*shared.CompletionResponse, error) {
	fp.mu.Lock()
	fp.callCount++
	fp.requests = append(fp.requests, req)
	replies := make([]cannedReply, len(fp.replies))
	copy(replies, fp.replies)
	fp.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, reply := range replies {
		if reply.match == "" || containsMatch(req, reply.match) {
			if reply.err != nil {
				return nil, reply.err
			}
			return reply.response, nil
		}
	}

	// Default: valid empty JSON object so agents parse into zero values.
	return &shared.CompletionResponse{
		Content: "{}",
		Usage: shared.TokenUsage{
			PromptTokens:     10,
			CompletionTokens: 20,
			TotalTokens:      30,
		},
		StopReason: "stop",
	}, nil
}

func containsMatch(req *shared.CompletionRequest, match string) bool {
	for _, msg := range req.Messages {
		if strings.Contains(msg.Content, match) {
			return true
		}
	}
	return false
}

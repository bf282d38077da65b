// Package agents holds the shared completion plumbing used by the five
// notes-generation agents.
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/brain-battle/notes-server/llm/providers/shared"
	"github.com/brain-battle/notes-server/notes"
)

// Base carries the dependencies every concrete agent needs: the LLM
// backend, the model to request, and a logger.
type Base struct {
	LLM    shared.LLMProvider
	Model  string
	Logger zerolog.Logger
}

// NewBase creates the shared agent plumbing.
func NewBase(llm shared.LLMProvider, model string, logger zerolog.Logger) Base {
	return Base{LLM: llm, Model: model, Logger: logger}
}

// CompleteJSON issues one chat completion in strict JSON-object mode and
// unmarshals the reply into out. Transport and parse failures come back
// as plain errors for the caller to fold into a failed AgentOutput.
func (b *Base) CompleteJSON(ctx context.Context, system, user string, temperature float32, out any) (shared.TokenUsage, error) {
	req := &shared.CompletionRequest{
		Messages: []shared.Message{
			{Role: shared.RoleSystem, Content: system},
			{Role: shared.RoleUser, Content: user},
		},
		Options: shared.CompletionOptions{
			Model:          b.Model,
			Temperature:    temperature,
			ResponseFormat: shared.ResponseFormatJSON,
		},
	}

	resp, err := b.LLM.Complete(ctx, req)
	if err != nil {
		return shared.TokenUsage{}, err
	}

	if err := json.Unmarshal([]byte(StripJSONFence(resp.Content)), out); err != nil {
		return resp.Usage, fmt.Errorf("parse completion JSON: %w", err)
	}
	return resp.Usage, nil
}

// StripJSONFence removes a surrounding markdown code fence, which some
// models emit even in JSON mode.
func StripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// TruncateLines bounds text to its first max lines to respect model
// context limits.
func TruncateLines(text string, max int) string {
	if max <= 0 {
		return text
	}
	count := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			count++
			if count == max {
				return text[:i]
			}
		}
	}
	return text
}

// PromptHints appends the caller-supplied hints shared by every agent
// prompt: topic, target difficulty, free-text instructions, study
// context.
func PromptHints(sb *strings.Builder, input *notes.AgentInput) {
	if input.Topic != "" {
		fmt.Fprintf(sb, "Topic focus: %s\n", input.Topic)
	}
	if input.Difficulty != "" {
		fmt.Fprintf(sb, "Target difficulty: %s\n", input.Difficulty)
	}
	if input.Instructions != "" {
		fmt.Fprintf(sb, "Additional instructions: %s\n", input.Instructions)
	}
	if input.StudyContext != "" {
		fmt.Fprintf(sb, "Study context: %s\n", input.StudyContext)
	}
}

// RelevantChunks appends pre-computed relevant excerpts, when present.
func RelevantChunks(sb *strings.Builder, input *notes.AgentInput) {
	if len(input.RelevantChunks) == 0 {
		return
	}
	sb.WriteString("\nMost relevant excerpts:\n")
	for i, chunk := range input.RelevantChunks {
		fmt.Fprintf(sb, "Excerpt %d:\n%s\n\n", i+1, chunk.Text)
	}
}

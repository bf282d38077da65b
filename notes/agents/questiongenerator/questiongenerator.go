// Package questiongenerator writes practice questions over the uploaded
// material, spanning multiple question-type variants.
package questiongenerator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/brain-battle/notes-server/llm/providers/shared"
	"github.com/brain-battle/notes-server/notes"
	"github.com/brain-battle/notes-server/notes/agents"
)

// AgentName identifies this agent in orchestrator results and errors.
const AgentName = "QuestionGenerator"

const (
	maxPromptLines = 8000
	temperature    = 0.4

	minQuestions = 8
	maxQuestions = 15
)

const systemPrompt = `You are an exam author writing practice questions from study material.

Respond with a single JSON object with one field:
- "questions": array of question objects, each with "type" (one of "multiple_choice", "open_ended", "true_false", "fill_blank"), "question", "options" (multiple choice only, exactly 4), "answer", "explanation", and "page" (the page the question is drawn from).

Write between 8 and 15 questions. Mix the question types. Every question must be answerable from the document alone, every explanation must teach why the answer is correct, and every question must carry its page citation. Use confident non-hedging language.`

// Agent generates practice questions. Runs in phase two, parallel to the
// concept organizer, and consumes the content extraction when available.
type Agent struct {
	agents.Base
}

// New creates a question generator agent.
func New(llm shared.LLMProvider, model string, logger zerolog.Logger) *Agent {
	return &Agent{Base: agents.NewBase(llm, model, logger.With().Str("agent", AgentName).Logger())}
}

// Name returns the agent name.
func (a *Agent) Name() string { return AgentName }

// Description returns a one-line description.
func (a *Agent) Description() string {
	return "Generates 8-15 typed practice questions with explanations and page citations"
}

// Dependencies returns the upstream agents this agent consumes.
func (a *Agent) Dependencies() []string { return []string{"ContentExtractor"} }

// Execute runs the generation step. A missing content extraction is
// tolerated: questions are then drawn from the raw text alone.
func (a *Agent) Execute(ctx context.Context, input *notes.AgentInput) *notes.AgentOutput {
	start := time.Now()

	var payload notes.QuestionSet
	usage, err := a.CompleteJSON(ctx, systemPrompt, a.buildPrompt(input), temperature, &payload)
	if err != nil {
		a.Logger.Error().Err(err).Msg("question generation failed")
		return notes.FailedOutput(start, err)
	}

	if n := len(payload.Questions); n < minQuestions || n > maxQuestions {
		a.Logger.Warn().Int("count", n).Msg("question count outside requested range")
	}

	return &notes.AgentOutput{
		Success: true,
		Data:    &payload,
		Stats: notes.AgentStats{
			TokensUsed: usage.TotalTokens,
			Duration:   time.Since(start),
		},
	}
}

func (a *Agent) buildPrompt(input *notes.AgentInput) string {
	var sb strings.Builder

	agents.PromptHints(&sb, input)
	agents.RelevantChunks(&sb, input)

	if ce := input.Upstream.ContentExtraction; ce != nil && len(ce.KeyTerms) > 0 {
		terms, _ := json.Marshal(ce.KeyTerms)
		fmt.Fprintf(&sb, "Key terms to cover:\n%s\n", terms)
	}

	sb.WriteString("\nWrite practice questions for this document:\n")
	sb.WriteString(agents.TruncateLines(input.DocumentText, maxPromptLines))

	return sb.String()
}

// Package contentextractor extracts key terms, document structure,
// examples, and formulas verbatim from the uploaded source text.
package contentextractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/brain-battle/notes-server/llm/providers/shared"
	"github.com/brain-battle/notes-server/notes"
	"github.com/brain-battle/notes-server/notes/agents"
)

// AgentName identifies this agent in orchestrator results and errors.
const AgentName = "ContentExtractor"

const (
	maxPromptLines = 10000
	temperature    = 0.2
)

const systemPrompt = `You are a meticulous study content extractor. You read source documents and pull out their content verbatim, with page references.

Respond with a single JSON object with these fields:
- "key_terms": array of {"term", "definition", "importance"} objects. Quote exact phrases from the document for definitions and append the page citation to the definition string, e.g. "... (p. 12)".
- "structure": array of strings naming the document's sections in order.
- "examples": array of strings quoting worked examples from the document.
- "formulas": array of {"name", "formula", "variables", "page", "worked_example"} objects where "variables" maps each symbol to its meaning and "formula" is the exact formula text.

Rules: quote exact phrases, include page references, never invent content not present in the document, and use confident non-hedging language.`

// Agent extracts content verbatim from the source documents. Runs in
// phase one with no upstream dependencies.
type Agent struct {
	agents.Base
}

// New creates a content extractor agent.
func New(llm shared.LLMProvider, model string, logger zerolog.Logger) *Agent {
	return &Agent{Base: agents.NewBase(llm, model, logger.With().Str("agent", AgentName).Logger())}
}

// Name returns the agent name.
func (a *Agent) Name() string { return AgentName }

// Description returns a one-line description.
func (a *Agent) Description() string {
	return "Extracts key terms, structure, examples, and formulas verbatim from source documents"
}

// Dependencies returns the upstream agents this agent consumes.
func (a *Agent) Dependencies() []string { return nil }

// Execute runs the extraction. All failures are folded into the output.
func (a *Agent) Execute(ctx context.Context, input *notes.AgentInput) *notes.AgentOutput {
	start := time.Now()

	var payload notes.ContentExtraction
	usage, err := a.CompleteJSON(ctx, systemPrompt, a.buildPrompt(input), temperature, &payload)
	if err != nil {
		a.Logger.Error().Err(err).Msg("content extraction failed")
		return notes.FailedOutput(start, err)
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

	if len(input.FileNames) > 0 {
		fmt.Fprintf(&sb, "Source files: %s\n", strings.Join(input.FileNames, ", "))
	}
	agents.PromptHints(&sb, input)
	agents.RelevantChunks(&sb, input)

	sb.WriteString("\nDocument text:\n")
	sb.WriteString(agents.TruncateLines(input.DocumentText, maxPromptLines))

	return sb.String()
}

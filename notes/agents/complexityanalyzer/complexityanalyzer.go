// Package complexityanalyzer classifies how demanding the source
// material is and infers education and difficulty levels.
package complexityanalyzer

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/brain-battle/notes-server/llm/providers/shared"
	"github.com/brain-battle/notes-server/notes"
	"github.com/brain-battle/notes-server/notes/agents"
)

// AgentName identifies this agent in orchestrator results and errors.
const AgentName = "ComplexityAnalyzer"

const (
	maxPromptLines = 8000
	temperature    = 0.2
)

const systemPrompt = `You are an expert at assessing the complexity of study material for learners.

Respond with a single JSON object with these fields:
- "vocabulary_level": one of "basic", "intermediate", "advanced", "technical".
- "concept_sophistication": short phrase describing how sophisticated the concepts are.
- "reasoning_level": the dominant reasoning demand, e.g. "recall", "application", "analysis", "synthesis".
- "prerequisites": array of strings naming knowledge the reader is assumed to have.
- "education_level": the inferred audience, e.g. "middle school", "high school", "college", "graduate".
- "difficulty": one of "easy", "medium", "hard".

Base every classification on evidence in the document and state it with confident non-hedging language.`

// Agent classifies the material's complexity. Runs in phase one,
// parallel to the content extractor.
type Agent struct {
	agents.Base
}

// New creates a complexity analyzer agent.
func New(llm shared.LLMProvider, model string, logger zerolog.Logger) *Agent {
	return &Agent{Base: agents.NewBase(llm, model, logger.With().Str("agent", AgentName).Logger())}
}

// Name returns the agent name.
func (a *Agent) Name() string { return AgentName }

// Description returns a one-line description.
func (a *Agent) Description() string {
	return "Classifies vocabulary, concept sophistication, prerequisites, and inferred education level"
}

// Dependencies returns the upstream agents this agent consumes.
func (a *Agent) Dependencies() []string { return nil }

// Execute runs the analysis. All failures are folded into the output.
func (a *Agent) Execute(ctx context.Context, input *notes.AgentInput) *notes.AgentOutput {
	start := time.Now()

	var payload notes.ComplexityAnalysis
	usage, err := a.CompleteJSON(ctx, systemPrompt, a.buildPrompt(input), temperature, &payload)
	if err != nil {
		a.Logger.Error().Err(err).Msg("complexity analysis failed")
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

	agents.PromptHints(&sb, input)

	sb.WriteString("\nAssess the complexity of this document:\n")
	sb.WriteString(agents.TruncateLines(input.DocumentText, maxPromptLines))

	return sb.String()
}

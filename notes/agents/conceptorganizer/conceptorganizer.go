// Package conceptorganizer orders the extracted material into an
// outline, concept blocks, study tips, and common misconceptions.
package conceptorganizer

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
const AgentName = "ConceptOrganizer"

const (
	maxPromptLines = 8000
	temperature    = 0.3
)

const systemPrompt = `You are a curriculum designer organizing study material into a learnable progression.

Respond with a single JSON object with these fields:
- "outline": ordered array of {"title", "subtopics"} objects covering the document from first principles to advanced points. Append page citations in parentheses to titles, e.g. "Laws of Motion (p. 4)".
- "concepts": array of {"heading", "bullets", "examples", "related_concepts"} objects, one per major concept.
- "study_tips": array of strings with concrete, actionable study advice for this specific material.
- "misconceptions": array of {"misconception", "correction", "why_common"} objects.

Ground every entry in the document and any extracted terms provided. Use confident non-hedging language.`

// Agent organizes concepts for study. Runs in phase two and consumes the
// phase-one payloads when they are available.
type Agent struct {
	agents.Base
}

// New creates a concept organizer agent.
func New(llm shared.LLMProvider, model string, logger zerolog.Logger) *Agent {
	return &Agent{Base: agents.NewBase(llm, model, logger.With().Str("agent", AgentName).Logger())}
}

// Name returns the agent name.
func (a *Agent) Name() string { return AgentName }

// Description returns a one-line description.
func (a *Agent) Description() string {
	return "Produces an ordered outline, concept blocks, study tips, and common misconceptions"
}

// Dependencies returns the upstream agents this agent consumes.
func (a *Agent) Dependencies() []string {
	return []string{"ContentExtractor", "ComplexityAnalyzer"}
}

// Execute runs the organization step. Missing upstream payloads are
// tolerated: the prompt simply carries less context.
func (a *Agent) Execute(ctx context.Context, input *notes.AgentInput) *notes.AgentOutput {
	start := time.Now()

	var payload notes.ConceptOrganization
	usage, err := a.CompleteJSON(ctx, systemPrompt, a.buildPrompt(input), temperature, &payload)
	if err != nil {
		a.Logger.Error().Err(err).Msg("concept organization failed")
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

	if ce := input.Upstream.ContentExtraction; ce != nil {
		if len(ce.KeyTerms) > 0 {
			terms, _ := json.Marshal(ce.KeyTerms)
			fmt.Fprintf(&sb, "Previously extracted key terms:\n%s\n", terms)
		}
		if len(ce.Structure) > 0 {
			fmt.Fprintf(&sb, "Document structure: %s\n", strings.Join(ce.Structure, " > "))
		}
	}
	if ca := input.Upstream.ComplexityAnalysis; ca != nil {
		fmt.Fprintf(&sb, "Assessed education level: %s, difficulty: %s\n", ca.EducationLevel, ca.Difficulty)
	}

	sb.WriteString("\nOrganize this document for study:\n")
	sb.WriteString(agents.TruncateLines(input.DocumentText, maxPromptLines))

	return sb.String()
}

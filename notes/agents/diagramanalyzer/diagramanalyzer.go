// Package diagramanalyzer describes images extracted from the uploaded
// documents and links them back to the surrounding content.
package diagramanalyzer

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
const AgentName = "DiagramAnalyzer"

const (
	maxPromptLines = 8000
	temperature    = 0.2
)

const systemPrompt = `You are an expert at describing educational diagrams and figures anchored in their document context.

You are given the pages and dimensions of images extracted from a study document, plus the document text. For each image, respond with definitive, non-hedging descriptions grounded in what the surrounding text discusses on that page.

Respond with a single JSON object with one field:
- "diagrams": array of objects, one per image in the given order, each with "page" (the image's page number), "title", "caption", "source_type" (e.g. "chart", "figure", "illustration", "equation"), "keywords" (array of strings), and "related_concept" (the document concept this image illustrates).`

// Agent analyzes extracted images. Runs in phase two and short-circuits
// to an empty success result, with no completion call, when the input
// carries no images.
type Agent struct {
	agents.Base
}

// New creates a diagram analyzer agent.
func New(llm shared.LLMProvider, model string, logger zerolog.Logger) *Agent {
	return &Agent{Base: agents.NewBase(llm, model, logger.With().Str("agent", AgentName).Logger())}
}

// Name returns the agent name.
func (a *Agent) Name() string { return AgentName }

// Description returns a one-line description.
func (a *Agent) Description() string {
	return "Produces titles, captions, and concept links for extracted document images"
}

// Dependencies returns the upstream agents this agent consumes.
func (a *Agent) Dependencies() []string { return []string{"ContentExtractor"} }

// Execute runs the analysis and matches each result back to its source
// image. All failures are folded into the output.
func (a *Agent) Execute(ctx context.Context, input *notes.AgentInput) *notes.AgentOutput {
	start := time.Now()

	if len(input.Images) == 0 {
		return &notes.AgentOutput{
			Success: true,
			Data:    &notes.DiagramSet{Diagrams: []notes.Diagram{}},
			Stats:   notes.AgentStats{Duration: time.Since(start)},
		}
	}

	var payload notes.DiagramSet
	usage, err := a.CompleteJSON(ctx, systemPrompt, a.buildPrompt(input), temperature, &payload)
	if err != nil {
		a.Logger.Error().Err(err).Msg("diagram analysis failed")
		return notes.FailedOutput(start, err)
	}

	payload.Diagrams = a.matchImages(payload.Diagrams, input.Images)

	return &notes.AgentOutput{
		Success: true,
		Data:    &payload,
		Stats: notes.AgentStats{
			TokensUsed: usage.TotalTokens,
			Duration:   time.Since(start),
		},
	}
}

// matchImages attaches each analyzed diagram to its source image,
// preferring a page-number match and falling back to positional index.
// The fallback can mis-attribute an image when the model misreports an
// early page number; the page/index precedence here is deliberate and
// the warning log is the observability hook for it.
func (a *Agent) matchImages(diagrams []notes.Diagram, images []notes.SourceImage) []notes.Diagram {
	used := make([]bool, len(images))

	for i := range diagrams {
		idx := -1
		for j := range images {
			if !used[j] && images[j].Page == diagrams[i].Page {
				idx = j
				break
			}
		}
		if idx < 0 {
			if i >= len(images) {
				a.Logger.Warn().Int("index", i).Int("page", diagrams[i].Page).
					Msg("diagram has no matching source image")
				continue
			}
			idx = i
			diagrams[i].Page = images[idx].Page
			a.Logger.Warn().Int("index", i).Int("page", diagrams[i].Page).
				Msg("no page match for diagram, falling back to positional index")
		}
		used[idx] = true
		diagrams[i].ImageData = images[idx].Data
		if diagrams[i].SourceType == "" {
			diagrams[i].SourceType = "image"
		}
	}

	return diagrams
}

func (a *Agent) buildPrompt(input *notes.AgentInput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "The document contains %d extracted images:\n", len(input.Images))
	for i, img := range input.Images {
		fmt.Fprintf(&sb, "Image %d: page %d, %dx%d pixels\n", i+1, img.Page, img.Width, img.Height)
	}

	agents.PromptHints(&sb, input)

	if ce := input.Upstream.ContentExtraction; ce != nil && len(ce.KeyTerms) > 0 {
		terms, _ := json.Marshal(ce.KeyTerms)
		fmt.Fprintf(&sb, "Key terms in the document:\n%s\n", terms)
	}

	sb.WriteString("\nDocument text for context:\n")
	sb.WriteString(agents.TruncateLines(input.DocumentText, maxPromptLines))

	return sb.String()
}

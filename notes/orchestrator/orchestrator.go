// Package orchestrator sequences the five notes-generation agents into a
// two-phase pipeline and assembles their outputs into one StudyNotes
// document, tolerating partial agent failure.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/brain-battle/notes-server/llm/providers/shared"
	"github.com/brain-battle/notes-server/notes"
	"github.com/brain-battle/notes-server/notes/agents/complexityanalyzer"
	"github.com/brain-battle/notes-server/notes/agents/conceptorganizer"
	"github.com/brain-battle/notes-server/notes/agents/contentextractor"
	"github.com/brain-battle/notes-server/notes/agents/diagramanalyzer"
	"github.com/brain-battle/notes-server/notes/agents/questiongenerator"
)

// Orchestrator coordinates the generation pipeline. Phase membership is
// a reviewed constant here rather than derived from the agents' declared
// dependencies at runtime.
type Orchestrator struct {
	contentExtractor   notes.Agent
	complexityAnalyzer notes.Agent
	conceptOrganizer   notes.Agent
	questionGenerator  notes.Agent
	diagramAnalyzer    notes.Agent
	logger             zerolog.Logger
}

// New wires the five agents against one LLM backend and model.
func New(llm shared.LLMProvider, model string, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		contentExtractor:   contentextractor.New(llm, model, logger),
		complexityAnalyzer: complexityanalyzer.New(llm, model, logger),
		conceptOrganizer:   conceptorganizer.New(llm, model, logger),
		questionGenerator:  questiongenerator.New(llm, model, logger),
		diagramAnalyzer:    diagramanalyzer.New(llm, model, logger),
		logger:             logger.With().Str("component", "orchestrator").Logger(),
	}
}

// runState accumulates accounting over one run. It is only touched from
// the collecting goroutine, so it needs no locking.
type runState struct {
	agentDurations map[string]time.Duration
	agentsExecuted []string
	tokens         int
	errors         []string
}

func newRunState() *runState {
	return &runState{agentDurations: make(map[string]time.Duration)}
}

func (rs *runState) metadata(start time.Time) notes.RunMetadata {
	return notes.RunMetadata{
		TotalDuration:  time.Since(start),
		AgentDurations: rs.agentDurations,
		TokensUsed:     rs.tokens,
		AgentsExecuted: rs.agentsExecuted,
	}
}

// GenerateNotes runs the full pipeline. It always returns a result and
// never panics out: agent failures are folded into Errors with the run
// proceeding to assembly, and an unexpected defect inside the
// orchestrator itself yields a fatal result with Success false.
func (o *Orchestrator) GenerateNotes(ctx context.Context, input *notes.AgentInput) (result *notes.OrchestratorResult) {
	start := time.Now()
	run := newRunState()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().Interface("panic", r).Msg("notes generation failed")
			result = &notes.OrchestratorResult{
				Success:  false,
				Metadata: run.metadata(start),
				Errors:   append(run.errors, fmt.Sprintf("notes generation failed: %v", r)),
			}
		}
	}()

	// Phase 1: unconditional fan-out, barrier before phase 2.
	o.logger.Debug().Msg("phase 1 starting")
	phase1 := o.runPhase(ctx, run, input, o.contentExtractor, o.complexityAnalyzer)

	upstream := notes.Upstream{}
	if out := phase1[contentextractor.AgentName]; out != nil && out.Success {
		upstream.ContentExtraction, _ = out.Data.(*notes.ContentExtraction)
	}
	if out := phase1[complexityanalyzer.AgentName]; out != nil && out.Success {
		upstream.ComplexityAnalysis, _ = out.Data.(*notes.ComplexityAnalysis)
	}

	// Phase 2: conditional fan-out. The diagram analyzer only joins the
	// phase when there are images to analyze; otherwise its slot is an
	// empty success result and no model call is spent.
	o.logger.Debug().Msg("phase 2 starting")
	phase2Input := input.WithUpstream(upstream)
	members := []notes.Agent{o.conceptOrganizer, o.questionGenerator}
	if len(input.Images) > 0 {
		members = append(members, o.diagramAnalyzer)
	}
	phase2 := o.runPhase(ctx, run, phase2Input, members...)
	if _, ok := phase2[diagramanalyzer.AgentName]; !ok {
		phase2[diagramanalyzer.AgentName] = &notes.AgentOutput{
			Success: true,
			Data:    &notes.DiagramSet{Diagrams: []notes.Diagram{}},
		}
	}

	// Phase 3: assembly, synchronous, no agent calls.
	doc, defaulted := assemble(input, upstream, phase2)

	meta := run.metadata(start)
	meta.DefaultedSections = defaulted

	return &notes.OrchestratorResult{
		Success:  true,
		Notes:    doc,
		Metadata: meta,
		Errors:   run.errors,
	}
}

type agentRun struct {
	name    string
	output  *notes.AgentOutput
	elapsed time.Duration
}

// runPhase fans the members out concurrently and blocks until every one
// settles. Elapsed time is measured from the phase start, and results
// are recorded in completion order.
func (o *Orchestrator) runPhase(ctx context.Context, run *runState, input *notes.AgentInput, members ...notes.Agent) map[string]*notes.AgentOutput {
	phaseStart := time.Now()
	results := make(chan agentRun, len(members))

	for _, member := range members {
		go func(agent notes.Agent) {
			defer func() {
				// Agents are contracted never to panic; this guard keeps
				// a defect in one agent from taking down its siblings.
				if r := recover(); r != nil {
					results <- agentRun{
						name: agent.Name(),
						output: &notes.AgentOutput{
							Success: false,
							Errors:  []string{fmt.Sprintf("agent panic: %v", r)},
						},
						elapsed: time.Since(phaseStart),
					}
				}
			}()
			out := agent.Execute(ctx, input)
			results <- agentRun{name: agent.Name(), output: out, elapsed: time.Since(phaseStart)}
		}(member)
	}

	outputs := make(map[string]*notes.AgentOutput, len(members))
	for range members {
		r := <-results
		outputs[r.name] = r.output
		run.agentsExecuted = append(run.agentsExecuted, r.name)
		run.agentDurations[r.name] = r.elapsed
		run.tokens += r.output.Stats.TokensUsed
		if !r.output.Success {
			run.errors = append(run.errors, fmt.Sprintf("%s: %s", r.name, strings.Join(r.output.Errors, "; ")))
			o.logger.Warn().Str("agent", r.name).Strs("errors", r.output.Errors).Msg("agent failed")
		}
	}
	return outputs
}

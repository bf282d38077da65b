package notes

import (
	"context"
	"time"
)

// SourceImage is one image extracted from an uploaded document by the
// PDF-extraction collaborator.
type SourceImage struct {
	Page   int    `json:"page"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   string `json:"data"` // base64-encoded bitmap
}

// TextChunk is a pre-computed relevant excerpt, typically the result of a
// semantic search over the uploaded documents.
type TextChunk struct {
	Source string  `json:"source,omitempty"`
	Text   string  `json:"text"`
	Score  float64 `json:"score,omitempty"`
}

// AgentInput is the shared task descriptor passed to every agent. It is
// never mutated in place; each phase derives a fresh copy via
// WithUpstream.
type AgentInput struct {
	DocumentText   string        `json:"document_text"`
	FileNames      []string      `json:"file_names,omitempty"`
	Topic          string        `json:"topic,omitempty"`
	Difficulty     string        `json:"difficulty,omitempty"`
	Instructions   string        `json:"instructions,omitempty"`
	StudyContext   string        `json:"study_context,omitempty"`
	Images         []SourceImage `json:"images,omitempty"`
	RelevantChunks []TextChunk   `json:"relevant_chunks,omitempty"`

	// Upstream carries earlier phases' payloads into later phases.
	Upstream Upstream `json:"-"`
}

// Upstream holds phase-one payloads for phase-two agents. A nil field
// means that agent failed or has not run; downstream agents must treat
// nil fields as absent rather than erroring.
type Upstream struct {
	ContentExtraction  *ContentExtraction
	ComplexityAnalysis *ComplexityAnalysis
}

// WithUpstream returns a shallow copy of the input carrying up.
func (in *AgentInput) WithUpstream(up Upstream) *AgentInput {
	out := *in
	out.Upstream = up
	return &out
}

// ContentExtraction is the content extractor's payload.
type ContentExtraction struct {
	KeyTerms  []KeyTerm `json:"key_terms"`
	Structure []string  `json:"structure,omitempty"`
	Examples  []string  `json:"examples,omitempty"`
	Formulas  []Formula `json:"formulas,omitempty"`
}

// ConceptOrganization is the concept organizer's payload.
type ConceptOrganization struct {
	Outline        []OutlineEntry  `json:"outline"`
	Concepts       []ConceptBlock  `json:"concepts,omitempty"`
	StudyTips      []string        `json:"study_tips,omitempty"`
	Misconceptions []Misconception `json:"misconceptions,omitempty"`
}

// QuestionSet is the question generator's payload.
type QuestionSet struct {
	Questions []Question `json:"questions"`
}

// DiagramSet is the diagram analyzer's payload.
type DiagramSet struct {
	Diagrams []Diagram `json:"diagrams"`
}

// AgentStats records per-execution accounting.
type AgentStats struct {
	TokensUsed int           `json:"tokens_used"`
	Duration   time.Duration `json:"duration"`
}

// AgentOutput is the result of one agent execution. When Success is
// false, Data is nil and Errors holds at least one message.
type AgentOutput struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Errors  []string   `json:"errors,omitempty"`
	Stats   AgentStats `json:"stats"`
}

// FailedOutput builds a failure result from an error.
func FailedOutput(start time.Time, err error) *AgentOutput {
	return &AgentOutput{
		Success: false,
		Errors:  []string{err.Error()},
		Stats:   AgentStats{Duration: time.Since(start)},
	}
}

// Agent is a single-responsibility unit that transforms the shared input
// into a failure-tolerant output via one completion call. Execute never
// returns an error: all failures are reported inside the AgentOutput.
type Agent interface {
	Name() string
	Description() string
	// Dependencies names the agents whose payloads this agent consumes.
	// It documents phase ordering; the orchestrator's phase table is the
	// authority at runtime.
	Dependencies() []string
	Execute(ctx context.Context, input *AgentInput) *AgentOutput
}

// RunMetadata aggregates accounting across one orchestration run.
type RunMetadata struct {
	TotalDuration time.Duration `json:"total_duration"`
	// AgentDurations maps agent name to elapsed time measured from the
	// start of the agent's containing phase.
	AgentDurations map[string]time.Duration `json:"agent_durations"`
	TokensUsed     int                      `json:"tokens_used"`
	// AgentsExecuted lists the agents actually invoked, in completion
	// order.
	AgentsExecuted []string `json:"agents_executed"`
	// DefaultedSections names assembled sections that fell back to
	// defaults because the contributing agent failed or was absent.
	DefaultedSections []string `json:"defaulted_sections,omitempty"`
}

// OrchestratorResult is the top-level return value of a run. Success is
// false only when the orchestrator itself failed; individual agent
// failures surface through Errors while Success stays true.
type OrchestratorResult struct {
	Success  bool        `json:"success"`
	Notes    *StudyNotes `json:"notes,omitempty"`
	Metadata RunMetadata `json:"metadata"`
	Errors   []string    `json:"errors,omitempty"`
}

package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brain-battle/notes-server/notes"
	"github.com/brain-battle/notes-server/notes/agents/conceptorganizer"
	"github.com/brain-battle/notes-server/notes/agents/diagramanalyzer"
	"github.com/brain-battle/notes-server/notes/agents/questiongenerator"
)

func emptyPhase2() map[string]*notes.AgentOutput {
	return map[string]*notes.AgentOutput{}
}

func TestAssemble_AllDefaults(t *testing.T) {
	doc, defaulted := assemble(&notes.AgentInput{}, notes.Upstream{}, emptyPhase2())

	assert.Equal(t, "Study Notes", doc.Title)
	assert.Equal(t, "General", doc.Subject)
	assert.Equal(t, "college", doc.EducationLevel)
	assert.Equal(t, "medium", doc.Difficulty)

	// Every slice is present and empty, never nil.
	assert.NotNil(t, doc.Outline)
	assert.NotNil(t, doc.KeyTerms)
	assert.NotNil(t, doc.Concepts)
	assert.NotNil(t, doc.Diagrams)
	assert.NotNil(t, doc.Formulas)
	assert.NotNil(t, doc.Questions)
	assert.NotNil(t, doc.StudyTips)
	assert.NotNil(t, doc.Misconceptions)

	for _, section := range []string{
		"key_terms", "formulas", "complexity", "outline", "concepts",
		"study_tips", "misconceptions", "questions",
	} {
		assert.Contains(t, defaulted, section)
	}
	assert.NotContains(t, defaulted, "diagrams")
}

func TestAssemble_PayloadsWin(t *testing.T) {
	upstream := notes.Upstream{
		ContentExtraction: &notes.ContentExtraction{
			KeyTerms: []notes.KeyTerm{{Term: "entropy", Definition: "disorder (p. 7)"}},
			Formulas: []notes.Formula{{Name: "Ideal gas law", Formula: "PV = nRT"}},
		},
		ComplexityAnalysis: &notes.ComplexityAnalysis{
			EducationLevel: "graduate",
			Difficulty:     "hard",
		},
	}
	phase2 := map[string]*notes.AgentOutput{
		conceptorganizer.AgentName: {
			Success: true,
			Data: &notes.ConceptOrganization{
				Outline:   []notes.OutlineEntry{{Title: "Heat Engines (p. 12)"}},
				StudyTips: []string{"Work the cycle diagrams by hand"},
			},
		},
		questiongenerator.AgentName: {
			Success: true,
			Data: &notes.QuestionSet{
				Questions: []notes.Question{{Type: notes.QuestionTrueFalse, Question: "Entropy can decrease locally.", Answer: "true"}},
			},
		},
	}

	doc, defaulted := assemble(&notes.AgentInput{}, upstream, phase2)

	assert.Equal(t, "Heat Engines", doc.Title)
	assert.Equal(t, "graduate", doc.EducationLevel)
	assert.Equal(t, "hard", doc.Difficulty)
	assert.Len(t, doc.KeyTerms, 1)
	assert.Len(t, doc.Formulas, 1)
	assert.Len(t, doc.Questions, 1)
	assert.Equal(t, []string{"Work the cycle diagrams by hand"}, doc.StudyTips)
	assert.Empty(t, defaulted)
}

func TestAssemble_FailedPhase2OutputIsIgnored(t *testing.T) {
	phase2 := map[string]*notes.AgentOutput{
		conceptorganizer.AgentName: {
			Success: false,
			Errors:  []string{"rate limited"},
		},
	}

	doc, defaulted := assemble(&notes.AgentInput{}, notes.Upstream{}, phase2)

	assert.Empty(t, doc.Outline)
	assert.Contains(t, defaulted, "outline")
}

func TestAssembleDiagrams_PlaceholdersFromImages(t *testing.T) {
	input := &notes.AgentInput{
		Images: []notes.SourceImage{
			{Page: 2, Data: "AA=="},
			{Page: 9, Data: "BB=="},
		},
	}

	doc, defaulted := assemble(input, notes.Upstream{}, emptyPhase2())

	require.Len(t, doc.Diagrams, 2)
	assert.Equal(t, "image", doc.Diagrams[0].SourceType)
	assert.Equal(t, "Diagram 1", doc.Diagrams[0].Title)
	assert.Equal(t, "Extracted from page 2", doc.Diagrams[0].Caption)
	assert.Equal(t, "AA==", doc.Diagrams[0].ImageData)
	assert.Equal(t, "Diagram 2", doc.Diagrams[1].Title)
	assert.Equal(t, 9, doc.Diagrams[1].Page)
	assert.Contains(t, defaulted, "diagrams")
}

func TestAssembleDiagrams_AnalyzedOutputPreferred(t *testing.T) {
	input := &notes.AgentInput{
		Images: []notes.SourceImage{{Page: 2, Data: "AA=="}},
	}
	phase2 := map[string]*notes.AgentOutput{
		diagramanalyzer.AgentName: {
			Success: true,
			Data: &notes.DiagramSet{
				Diagrams: []notes.Diagram{{Title: "Carnot cycle", Page: 2, ImageData: "AA=="}},
			},
		},
	}

	doc, defaulted := assemble(input, notes.Upstream{}, phase2)

	require.Len(t, doc.Diagrams, 1)
	assert.Equal(t, "Carnot cycle", doc.Diagrams[0].Title)
	assert.NotContains(t, defaulted, "diagrams")
}

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		outline []notes.OutlineEntry
		want    string
	}{
		{name: "topic wins", topic: "Thermodynamics", outline: []notes.OutlineEntry{{Title: "Heat"}}, want: "Thermodynamics"},
		{name: "outline strips page citation", outline: []notes.OutlineEntry{{Title: "Heat Engines (p. 12)"}}, want: "Heat Engines"},
		{name: "outline strips multiple parentheticals", outline: []notes.OutlineEntry{{Title: "Entropy (intro) (p. 3)"}}, want: "Entropy"},
		{name: "purely parenthetical falls through", outline: []notes.OutlineEntry{{Title: "(p. 12)"}}, want: "Study Notes"},
		{name: "empty outline", want: "Study Notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, documentTitle(tt.topic, tt.outline))
		})
	}
}

func TestAssemble_CallerDifficultyBeatsComplexity(t *testing.T) {
	upstream := notes.Upstream{
		ComplexityAnalysis: &notes.ComplexityAnalysis{Difficulty: "hard"},
	}

	doc, _ := assemble(&notes.AgentInput{Difficulty: "easy"}, upstream, emptyPhase2())
	assert.Equal(t, "easy", doc.Difficulty)
}

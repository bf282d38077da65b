package orchestrator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/brain-battle/notes-server/notes"
	"github.com/brain-battle/notes-server/notes/agents/conceptorganizer"
	"github.com/brain-battle/notes-server/notes/agents/diagramanalyzer"
	"github.com/brain-battle/notes-server/notes/agents/questiongenerator"
)

const (
	defaultSubject        = "General"
	defaultEducationLevel = "college"
	defaultDifficulty     = "medium"
	defaultTitle          = "Study Notes"
)

// assemble merges every available payload into the StudyNotes shape,
// substituting safe defaults for any agent whose output failed or is
// absent. It returns the document and the names of sections that were
// defaulted, so callers can tell genuine empty content from fallback.
func assemble(input *notes.AgentInput, upstream notes.Upstream, phase2 map[string]*notes.AgentOutput) (*notes.StudyNotes, []string) {
	doc := &notes.StudyNotes{
		Subject:        defaultSubject,
		EducationLevel: defaultEducationLevel,
		Difficulty:     defaultDifficulty,
		Outline:        []notes.OutlineEntry{},
		KeyTerms:       []notes.KeyTerm{},
		Concepts:       []notes.ConceptBlock{},
		Diagrams:       []notes.Diagram{},
		Formulas:       []notes.Formula{},
		Questions:      []notes.Question{},
		StudyTips:      []string{},
		Misconceptions: []notes.Misconception{},
	}
	var defaulted []string

	if input.Difficulty != "" {
		doc.Difficulty = input.Difficulty
	}

	if ce := upstream.ContentExtraction; ce != nil {
		if ce.KeyTerms != nil {
			doc.KeyTerms = ce.KeyTerms
		}
		if ce.Formulas != nil {
			doc.Formulas = ce.Formulas
		}
	} else {
		defaulted = append(defaulted, "key_terms", "formulas")
	}

	if ca := upstream.ComplexityAnalysis; ca != nil {
		doc.Complexity = *ca
		if ca.EducationLevel != "" {
			doc.EducationLevel = ca.EducationLevel
		}
		if input.Difficulty == "" && ca.Difficulty != "" {
			doc.Difficulty = ca.Difficulty
		}
	} else {
		defaulted = append(defaulted, "complexity")
	}

	if org := organizationFrom(phase2); org != nil {
		if org.Outline != nil {
			doc.Outline = org.Outline
		}
		if org.Concepts != nil {
			doc.Concepts = org.Concepts
		}
		if org.StudyTips != nil {
			doc.StudyTips = org.StudyTips
		}
		if org.Misconceptions != nil {
			doc.Misconceptions = org.Misconceptions
		}
	} else {
		defaulted = append(defaulted, "outline", "concepts", "study_tips", "misconceptions")
	}

	if qs := questionsFrom(phase2); qs != nil && qs.Questions != nil {
		doc.Questions = qs.Questions
	} else {
		defaulted = append(defaulted, "questions")
	}

	doc.Diagrams = assembleDiagrams(input, phase2, &defaulted)
	doc.Title = documentTitle(input.Topic, doc.Outline)

	return doc, defaulted
}

// assembleDiagrams prefers the diagram analyzer's output; when images
// were supplied but no analysis survived, it builds one placeholder
// entry per raw image so the image data is not lost.
func assembleDiagrams(input *notes.AgentInput, phase2 map[string]*notes.AgentOutput, defaulted *[]string) []notes.Diagram {
	if ds := diagramsFrom(phase2); ds != nil && len(ds.Diagrams) > 0 {
		return ds.Diagrams
	}

	if len(input.Images) == 0 {
		return []notes.Diagram{}
	}

	*defaulted = append(*defaulted, "diagrams")
	placeholders := make([]notes.Diagram, 0, len(input.Images))
	for i, img := range input.Images {
		placeholders = append(placeholders, notes.Diagram{
			SourceType: "image",
			Title:      fmt.Sprintf("Diagram %d", i+1),
			Caption:    fmt.Sprintf("Extracted from page %d", img.Page),
			Page:       img.Page,
			ImageData:  img.Data,
		})
	}
	return placeholders
}

var parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)

// documentTitle picks the document title: the caller's topic, else the
// outline's first entry stripped of parenthetical page citations, else
// the literal default.
func documentTitle(topic string, outline []notes.OutlineEntry) string {
	if topic != "" {
		return topic
	}
	if len(outline) > 0 {
		title := strings.TrimSpace(parentheticalRe.ReplaceAllString(outline[0].Title, ""))
		if title != "" {
			return title
		}
	}
	return defaultTitle
}

func organizationFrom(phase2 map[string]*notes.AgentOutput) *notes.ConceptOrganization {
	if out := phase2[conceptorganizer.AgentName]; out != nil && out.Success {
		if org, ok := out.Data.(*notes.ConceptOrganization); ok {
			return org
		}
	}
	return nil
}

func questionsFrom(phase2 map[string]*notes.AgentOutput) *notes.QuestionSet {
	if out := phase2[questiongenerator.AgentName]; out != nil && out.Success {
		if qs, ok := out.Data.(*notes.QuestionSet); ok {
			return qs
		}
	}
	return nil
}

func diagramsFrom(phase2 map[string]*notes.AgentOutput) *notes.DiagramSet {
	if out := phase2[diagramanalyzer.AgentName]; out != nil && out.Success {
		if ds, ok := out.Data.(*notes.DiagramSet); ok {
			return ds
		}
	}
	return nil
}

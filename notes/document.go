// Package notes defines the study-notes document model and the shapes
// exchanged between the generation agents and the orchestrator.
package notes

// StudyNotes is the assembled document handed back to the caller. It is
// built exactly once per run and never mutated afterwards.
type StudyNotes struct {
	Title          string             `json:"title"`
	Subject        string             `json:"subject"`
	EducationLevel string             `json:"education_level"`
	Difficulty     string             `json:"difficulty"`
	Complexity     ComplexityAnalysis `json:"complexity"`
	Outline        []OutlineEntry     `json:"outline"`
	KeyTerms       []KeyTerm          `json:"key_terms"`
	Concepts       []ConceptBlock     `json:"concepts"`
	Diagrams       []Diagram          `json:"diagrams"`
	Formulas       []Formula          `json:"formulas"`
	Questions      []Question         `json:"questions"`
	StudyTips      []string           `json:"study_tips"`
	Misconceptions []Misconception    `json:"misconceptions"`
}

// ComplexityAnalysis classifies how demanding the source material is.
type ComplexityAnalysis struct {
	VocabularyLevel       string   `json:"vocabulary_level,omitempty"`
	ConceptSophistication string   `json:"concept_sophistication,omitempty"`
	ReasoningLevel        string   `json:"reasoning_level,omitempty"`
	Prerequisites         []string `json:"prerequisites,omitempty"`
	EducationLevel        string   `json:"education_level,omitempty"`
	Difficulty            string   `json:"difficulty,omitempty"`
}

// OutlineEntry is one ordered entry of the document outline.
type OutlineEntry struct {
	Title     string   `json:"title"`
	Subtopics []string `json:"subtopics,omitempty"`
}

// KeyTerm is a term/definition pair; the page citation is baked into the
// definition string (e.g. "... (p. 12)").
type KeyTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Importance string `json:"importance,omitempty"`
}

// ConceptBlock is one organized concept with supporting detail.
type ConceptBlock struct {
	Heading         string   `json:"heading"`
	Bullets         []string `json:"bullets,omitempty"`
	Examples        []string `json:"examples,omitempty"`
	RelatedConcepts []string `json:"related_concepts,omitempty"`
}

// Diagram describes one visual element, either analyzed by the diagram
// agent or synthesized as a placeholder from a raw extracted image.
type Diagram struct {
	SourceType     string   `json:"source_type"`
	Title          string   `json:"title"`
	Caption        string   `json:"caption"`
	Page           int      `json:"page"`
	Keywords       []string `json:"keywords,omitempty"`
	RelatedConcept string   `json:"related_concept,omitempty"`
	ImageData      string   `json:"image_data,omitempty"` // base64 bitmap
}

// Formula is one extracted formula with its variable glossary.
type Formula struct {
	Name          string            `json:"name"`
	Formula       string            `json:"formula"`
	Variables     map[string]string `json:"variables,omitempty"`
	Page          int               `json:"page,omitempty"`
	WorkedExample string            `json:"worked_example,omitempty"`
}

// QuestionType enumerates the supported practice question variants.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionOpenEnded      QuestionType = "open_ended"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionFillBlank      QuestionType = "fill_blank"
)

// Question is one practice question with its explanation and citation.
type Question struct {
	Type        QuestionType `json:"type"`
	Question    string       `json:"question"`
	Options     []string     `json:"options,omitempty"`
	Answer      string       `json:"answer"`
	Explanation string       `json:"explanation"`
	Page        int          `json:"page,omitempty"`
}

// Misconception is a misconception/correction/why-common triple.
type Misconception struct {
	Misconception string `json:"misconception"`
	Correction    string `json:"correction"`
	WhyCommon     string `json:"why_common"`
}

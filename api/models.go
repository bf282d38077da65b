// Package api defines the HTTP request and response models.
package api

import (
	"github.com/brain-battle/notes-server/notes"
	"github.com/brain-battle/notes-server/storage"
)

// DocumentUpload is one uploaded source document.
type DocumentUpload struct {
	Name string `json:"name" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// ImageUpload is one image extracted from an uploaded document.
type ImageUpload struct {
	Page   int    `json:"page" validate:"required,min=1"`
	Width  int    `json:"width" validate:"min=0"`
	Height int    `json:"height" validate:"min=0"`
	Data   string `json:"data" validate:"required,base64"`
}

// ChunkUpload is one pre-computed relevant text chunk.
type ChunkUpload struct {
	Source string  `json:"source,omitempty"`
	Text   string  `json:"text" validate:"required"`
	Score  float64 `json:"score,omitempty"`
}

// GenerateNotesRequest is the POST /v1/notes body.
type GenerateNotesRequest struct {
	Documents      []DocumentUpload `json:"documents" validate:"required,min=1,dive"`
	Topic          string           `json:"topic,omitempty"`
	Difficulty     string           `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Instructions   string           `json:"instructions,omitempty"`
	StudyContext   string           `json:"study_context,omitempty"`
	Images         []ImageUpload    `json:"images,omitempty" validate:"omitempty,dive"`
	RelevantChunks []ChunkUpload    `json:"relevant_chunks,omitempty" validate:"omitempty,dive"`
}

// GenerateNotesResponse is the POST /v1/notes reply.
type GenerateNotesResponse struct {
	ID     string                    `json:"id,omitempty"`
	Result *notes.OrchestratorResult `json:"result"`
}

// GetNotesResponse is the GET /v1/notes/{id} reply.
type GetNotesResponse struct {
	ID         string            `json:"id"`
	Notes      *notes.StudyNotes `json:"notes"`
	TokensUsed int               `json:"tokens_used"`
	CreatedAt  string            `json:"created_at"`
}

// ListNotesResponse is the GET /v1/notes reply.
type ListNotesResponse struct {
	Notes []storage.NotesSummary `json:"notes"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

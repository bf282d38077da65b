// Package handlers implements the HTTP route handlers.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/brain-battle/notes-server/api"
	"github.com/brain-battle/notes-server/notes"
	"github.com/brain-battle/notes-server/storage"
)

// NotesGenerator is the orchestration entry point the handler calls.
type NotesGenerator interface {
	GenerateNotes(ctx context.Context, input *notes.AgentInput) *notes.OrchestratorResult
}

// NotesHandler handles notes generation and retrieval requests.
type NotesHandler struct {
	generator NotesGenerator
	store     *storage.Storage
	validate  *validator.Validate
	logger    zerolog.Logger
}

// NewNotesHandler creates a new notes handler. store may be nil, in
// which case runs are not persisted.
func NewNotesHandler(generator NotesGenerator, store *storage.Storage, logger zerolog.Logger) *NotesHandler {
	return &NotesHandler{
		generator: generator,
		store:     store,
		validate:  validator.New(),
		logger:    logger.With().Str("component", "notes_handler").Logger(),
	}
}

// Generate handles POST /v1/notes
func (h *NotesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req api.GenerateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, http.StatusBadRequest, "invalid JSON request", err.Error())
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.writeJSONError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result := h.generator.GenerateNotes(r.Context(), buildAgentInput(&req))

	resp := api.GenerateNotesResponse{Result: result}
	if h.store != nil && result.Success && result.Notes != nil {
		id, err := h.persist(r, result)
		if err != nil {
			// Persistence is best-effort; the generated notes still go
			// back to the caller.
			h.logger.Error().Err(err).Msg("failed to persist notes run")
		} else {
			resp.ID = id
		}
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	h.writeJSON(w, status, resp)
}

// Get handles GET /v1/notes/{id}
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeJSONError(w, http.StatusNotFound, "persistence disabled", "no storage configured")
		return
	}

	id := mux.Vars(r)["id"]
	record, err := h.store.GetRecord(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		h.writeJSONError(w, http.StatusNotFound, "notes not found", id)
		return
	}
	if err != nil {
		h.writeJSONError(w, http.StatusInternalServerError, "failed to load notes", err.Error())
		return
	}

	var doc notes.StudyNotes
	if err := json.Unmarshal(record.Document, &doc); err != nil {
		h.writeJSONError(w, http.StatusInternalServerError, "stored notes are corrupt", err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, api.GetNotesResponse{
		ID:         record.ID,
		Notes:      &doc,
		TokensUsed: record.TokensUsed,
		CreatedAt:  record.CreatedAt.Format(time.RFC3339),
	})
}

// List handles GET /v1/notes
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeJSON(w, http.StatusOK, api.ListNotesResponse{Notes: []storage.NotesSummary{}})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeJSONError(w, http.StatusBadRequest, "invalid limit", raw)
			return
		}
		limit = n
	}

	summaries, err := h.store.ListRecords(r.Context(), limit)
	if err != nil {
		h.writeJSONError(w, http.StatusInternalServerError, "failed to list notes", err.Error())
		return
	}
	if summaries == nil {
		summaries = []storage.NotesSummary{}
	}

	h.writeJSON(w, http.StatusOK, api.ListNotesResponse{Notes: summaries})
}

func (h *NotesHandler) persist(r *http.Request, result *notes.OrchestratorResult) (string, error) {
	doc, err := json.Marshal(result.Notes)
	if err != nil {
		return "", err
	}

	record := &storage.NotesRecord{
		ID:         uuid.NewString(),
		Title:      result.Notes.Title,
		Subject:    result.Notes.Subject,
		Difficulty: result.Notes.Difficulty,
		Document:   doc,
		TokensUsed: result.Metadata.TokensUsed,
		DurationMS: result.Metadata.TotalDuration.Milliseconds(),
		Errors:     strings.Join(result.Errors, "\n"),
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.store.SaveRecord(r.Context(), record); err != nil {
		return "", err
	}
	return record.ID, nil
}

func buildAgentInput(req *api.GenerateNotesRequest) *notes.AgentInput {
	input := &notes.AgentInput{
		Topic:        req.Topic,
		Difficulty:   req.Difficulty,
		Instructions: req.Instructions,
		StudyContext: req.StudyContext,
	}

	texts := make([]string, 0, len(req.Documents))
	for _, doc := range req.Documents {
		input.FileNames = append(input.FileNames, doc.Name)
		texts = append(texts, doc.Text)
	}
	input.DocumentText = strings.Join(texts, "\n\n")

	for _, img := range req.Images {
		input.Images = append(input.Images, notes.SourceImage{
			Page:   img.Page,
			Width:  img.Width,
			Height: img.Height,
			Data:   img.Data,
		})
	}
	for _, chunk := range req.RelevantChunks {
		input.RelevantChunks = append(input.RelevantChunks, notes.TextChunk{
			Source: chunk.Source,
			Text:   chunk.Text,
			Score:  chunk.Score,
		})
	}

	return input
}

func (h *NotesHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *NotesHandler) writeJSONError(w http.ResponseWriter, status int, message, details string) {
	h.writeJSON(w, status, api.ErrorResponse{
		Error:   message,
		Code:    http.StatusText(status),
		Details: details,
	})
}

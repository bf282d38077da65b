package storage

import (
	"time"
)

// NotesRecord persists one completed generation run.
type NotesRecord struct {
	ID         string `gorm:"primaryKey;size:36"`
	Title      string `gorm:"index"`
	Subject    string
	Difficulty string
	// Document is the assembled StudyNotes serialized as JSON.
	Document   []byte `gorm:"type:blob"`
	TokensUsed int
	DurationMS int64
	// Errors holds the run's accumulated agent error strings, newline
	// separated, for later inspection.
	Errors    string
	CreatedAt time.Time `gorm:"index"`
}

// NotesSummary is the listing projection of NotesRecord.
type NotesSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Subject    string    `json:"subject"`
	Difficulty string    `json:"difficulty"`
	TokensUsed int       `json:"tokens_used"`
	CreatedAt  time.Time `json:"created_at"`
}

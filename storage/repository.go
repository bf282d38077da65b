package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("notes record not found")

// SaveRecord inserts one completed run.
func (s *Storage) SaveRecord(ctx context.Context, record *NotesRecord) error {
	if s == nil || s.db == nil {
		return errors.New("storage not initialized")
	}
	if record == nil {
		return errors.New("record is nil")
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert notes record: %w", err)
	}
	return nil
}

// GetRecord fetches one run by id.
func (s *Storage) GetRecord(ctx context.Context, id string) (*NotesRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("storage not initialized")
	}

	var record NotesRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get notes record: %w", err)
	}
	return &record, nil
}

// ListRecords returns run summaries, newest first.
func (s *Storage) ListRecords(ctx context.Context, limit int) ([]NotesSummary, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("storage not initialized")
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var out []NotesSummary
	err := s.db.WithContext(ctx).
		Model(&NotesRecord{}).
		Select("id", "title", "subject", "difficulty", "tokens_used", "created_at").
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list notes records: %w", err)
	}
	return out, nil
}

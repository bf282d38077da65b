package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := Open(context.Background(), Config{
		Path: filepath.Join(t.TempDir(), "notes.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open(context.Background(), Config{InMemory: true})
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpen_MissingPathFails(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite path is required")
}

func TestSaveAndGetRecord(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	doc, err := json.Marshal(map[string]any{"title": "Thermodynamics"})
	require.NoError(t, err)

	record := &NotesRecord{
		ID:         uuid.NewString(),
		Title:      "Thermodynamics",
		Subject:    "Physics",
		Difficulty: "medium",
		Document:   doc,
		TokensUsed: 420,
		DurationMS: 1250,
		Errors:     "DiagramAnalyzer: rate limited",
	}
	require.NoError(t, s.SaveRecord(ctx, record))

	got, err := s.GetRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Title, got.Title)
	assert.Equal(t, record.TokensUsed, got.TokensUsed)
	assert.JSONEq(t, string(doc), string(got.Document))
	assert.Equal(t, record.Errors, got.Errors)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetRecord_NotFound(t *testing.T) {
	s := openTestStorage(t)

	_, err := s.GetRecord(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRecord_NilRecord(t *testing.T) {
	s := openTestStorage(t)
	assert.Error(t, s.SaveRecord(context.Background(), nil))
}

func TestListRecords_NewestFirst(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	older := &NotesRecord{
		ID:        uuid.NewString(),
		Title:     "Older",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := &NotesRecord{
		ID:        uuid.NewString(),
		Title:     "Newer",
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.SaveRecord(ctx, older))
	require.NoError(t, s.SaveRecord(ctx, newer))

	out, err := s.ListRecords(ctx, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Newer", out[0].Title)
	assert.Equal(t, "Older", out[1].Title)
}

func TestListRecords_LimitApplied(t *testing.T) {
	s := openTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.SaveRecord(ctx, &NotesRecord{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}))
	}

	out, err := s.ListRecords(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

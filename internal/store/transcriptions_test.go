package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afdhalrashid/voice-to-text-Manglish/internal/models"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/errors"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/util"
)

func newTestStore(t *testing.T) *TranscriptionStore {
	t.Helper()
	db, err := util.OpenDatabase("sqlite", "")
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return NewTranscriptionStore(db)
}

func seed(t *testing.T, s *TranscriptionStore, owner uint, filename string) *models.Transcription {
	t.Helper()
	rec := &models.Transcription{
		UserID:   owner,
		Filename: filename,
		Text:     "some transcribed text",
		Language: "en",
		FileSize: 1024,
	}
	require.NoError(t, s.Create(context.Background(), rec))
	return rec
}

func TestListByOwnerScopesToOwner(t *testing.T) {
	s := newTestStore(t)
	seed(t, s, 1, "mine.mp3")
	seed(t, s, 1, "mine2.wav")
	seed(t, s, 2, "theirs.mp3")

	got, err := s.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, sum := range got {
		assert.NotEqual(t, "theirs.mp3", sum.Filename)
	}
}

func TestListByOwnerNewestFirst(t *testing.T) {
	s := newTestStore(t)
	first := seed(t, s, 1, "old.mp3")
	second := seed(t, s, 1, "new.mp3")

	got, err := s.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
}

func TestGetByIDForeignRecordIsForbidden(t *testing.T) {
	s := newTestStore(t)
	rec := seed(t, s, 2, "theirs.mp3")

	_, err := s.GetByID(context.Background(), rec.ID, 1)
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errors.GetCode(err))
}

func TestGetByIDMissingIsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetByID(context.Background(), 9999, 1)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestDeleteByIDForeignRecordLeftIntact(t *testing.T) {
	s := newTestStore(t)
	rec := seed(t, s, 2, "theirs.mp3")

	err := s.DeleteByID(context.Background(), rec.ID, 1)
	require.Error(t, err)
	assert.Equal(t, errors.CodeForbidden, errors.GetCode(err))

	// Still there for the rightful owner.
	got, err := s.GetByID(context.Background(), rec.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, rec.Filename, got.Filename)
}

func TestDeleteByIDOwnRecord(t *testing.T) {
	s := newTestStore(t)
	rec := seed(t, s, 1, "mine.mp3")

	require.NoError(t, s.DeleteByID(context.Background(), rec.ID, 1))

	_, err := s.GetByID(context.Background(), rec.ID, 1)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestListPreviewTruncated(t *testing.T) {
	s := newTestStore(t)
	rec := &models.Transcription{
		UserID:   1,
		Filename: "long.mp3",
		Text:     strings.Repeat("a", 300),
		Language: "en",
	}
	require.NoError(t, s.Create(context.Background(), rec))

	got, err := s.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].TextPreview, 103) // 100 chars + ellipsis
}

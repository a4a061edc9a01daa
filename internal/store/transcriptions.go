// Package store is the persistence layer for transcription records.
// Every read and delete takes the requesting identity explicitly and
// enforces ownership: a record that exists but belongs to someone else
// is Forbidden, not NotFound.
package store

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/afdhalrashid/voice-to-text-Manglish/internal/models"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/errors"
)

const previewLen = 100

type TranscriptionStore struct {
	db *gorm.DB
}

func NewTranscriptionStore(db *gorm.DB) *TranscriptionStore {
	return &TranscriptionStore{db: db}
}

// Create persists one completed job. This is the pipeline's single
// persistence point; records are never updated afterwards.
func (s *TranscriptionStore) Create(ctx context.Context, rec *models.Transcription) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return errors.WrapCode(errors.CodeStorageError, err, "failed to save transcription")
	}
	return nil
}

// ListByOwner returns the owner's records newest first as listing summaries.
func (s *TranscriptionStore) ListByOwner(ctx context.Context, ownerID uint) ([]models.Summary, error) {
	var recs []models.Transcription
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, errors.WrapCode(errors.CodeStorageError, err, "failed to list transcriptions")
	}

	summaries := make([]models.Summary, 0, len(recs))
	for _, r := range recs {
		summaries = append(summaries, models.Summary{
			ID:          r.ID,
			Filename:    r.Filename,
			Language:    r.Language,
			FileSize:    r.FileSize,
			CreatedAt:   r.CreatedAt,
			NumSpeakers: r.NumSpeakers,
			TextPreview: preview(r.Text),
		})
	}
	return summaries, nil
}

// GetByID returns the full record after verifying ownership.
func (s *TranscriptionStore) GetByID(ctx context.Context, id, ownerID uint) (*models.Transcription, error) {
	var rec models.Transcription
	err := s.db.WithContext(ctx).First(&rec, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.WithCode(errors.CodeNotFound, "transcription not found")
	}
	if err != nil {
		return nil, errors.WrapCode(errors.CodeStorageError, err, "failed to load transcription")
	}
	if rec.UserID != ownerID {
		return nil, errors.WithCode(errors.CodeForbidden, "transcription belongs to another user")
	}
	return &rec, nil
}

// DeleteByID removes the record after verifying ownership.
func (s *TranscriptionStore) DeleteByID(ctx context.Context, id, ownerID uint) error {
	rec, err := s.GetByID(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Transcription{}, rec.ID).Error; err != nil {
		return errors.WrapCode(errors.CodeStorageError, err, "failed to delete transcription")
	}
	return nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return string(runes[:previewLen]) + "..."
}

// Package pipeline drives one upload through validation, transcription,
// optional diarization and persistence. A job is strictly linear and
// request-scoped: it runs on the handling goroutine, holds no shared
// state beyond the database row it finally inserts, and is never retried.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/afdhalrashid/voice-to-text-Manglish/internal/diarize"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/models"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/store"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/transcribe"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/cache"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/errors"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/logger"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/metrics"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/search"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/storage"
)

// Upload is the request-scoped input: raw bytes behind a reader plus
// the client-declared name and size. It is discarded when the job ends.
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}

// Options are the user-selected knobs for one job.
type Options struct {
	Language          string // ISO-639-1-like hint, "auto" or "" for detection
	EnableDiarization bool
	NumSpeakers       int // exact count, wins over the range below
	MinSpeakers       int
	MaxSpeakers       int
}

// Result is the normalized outcome of a successful job.
type Result struct {
	RecordID         uint
	Text             string
	Language         string
	Segments         []transcribe.Segment
	SpeakerSummary   map[string]diarize.SpeakerStat
	NumSpeakers      int
	Diarized         bool
	DiarizationError string
}

// Pipeline wires the validator, the model providers and the record
// store. Audio retention and search indexing are optional enrichments;
// leave the corresponding field nil to disable.
type Pipeline struct {
	MaxUploadBytes int64
	UploadDir      string

	Transcriber transcribe.Provider
	Diarizer    diarize.Provider
	Store       *store.TranscriptionStore

	Cache  cache.Cache
	Audio  storage.Store
	Search *search.Engine
}

// HistoryCacheKey names the cached history listing for one user.
func HistoryCacheKey(ownerID uint) string {
	return fmt.Sprintf("history:%d", ownerID)
}

// Run executes one job for the given owner. Validation and transcription
// failures abort the job with a coded error; diarization failure
// degrades to an empty speaker set and a warning carried on the Result.
func (p *Pipeline) Run(ctx context.Context, ownerID uint, up Upload, opts Options) (*Result, error) {
	start := time.Now()
	res, err := p.run(ctx, ownerID, up, opts)
	metrics.ObserveJob(outcome(err), time.Since(start).Seconds(), up.Size)
	return res, err
}

func (p *Pipeline) run(ctx context.Context, ownerID uint, up Upload, opts Options) (*Result, error) {
	if err := ValidateUpload(up.Filename, up.Size, p.MaxUploadBytes); err != nil {
		return nil, err
	}

	// The external models operate on file paths, so the upload is
	// materialized once and removed on every exit path.
	tempPath, err := p.materialize(up)
	if err != nil {
		return nil, errors.WrapCode(errors.CodeInternal, err, "failed to store uploaded file")
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			logger.Warn("could not remove temp file", zap.String("path", tempPath), zap.Error(err))
		}
	}()

	language := opts.Language
	if language == "auto" {
		language = ""
	}

	tr, err := p.Transcriber.Transcribe(ctx, transcribe.Request{
		AudioPath: tempPath,
		Language:  language,
	})
	if err != nil {
		return nil, errors.WrapCode(errors.CodeTranscriptionFailed, err, "transcription failed")
	}
	logger.Info("transcription completed",
		zap.String("filename", up.Filename),
		zap.String("language", tr.Language),
		zap.Int("segments", len(tr.Segments)),
		zap.Uint("user_id", ownerID))

	result := &Result{
		Text:     tr.Text,
		Language: tr.Language,
		Segments: tr.Segments,
	}

	if opts.EnableDiarization {
		p.diarizeInto(ctx, result, tempPath, opts)
	}

	rec := &models.Transcription{
		UserID:      ownerID,
		Filename:    up.Filename,
		Text:        result.Text,
		Language:    result.Language,
		FileSize:    up.Size,
		NumSpeakers: result.NumSpeakers,
		Diarized:    result.Diarized,
	}
	if err := rec.SetSegments(result.Segments); err != nil {
		return nil, errors.WrapCode(errors.CodeInternal, err, "failed to encode segments")
	}
	if err := rec.SetSpeakerSummary(result.SpeakerSummary); err != nil {
		return nil, errors.WrapCode(errors.CodeInternal, err, "failed to encode speaker summary")
	}
	if p.Audio != nil {
		rec.AudioURL = p.retain(ctx, tempPath, up)
	}

	if err := p.Store.Create(ctx, rec); err != nil {
		return nil, err
	}
	result.RecordID = rec.ID

	p.afterPersist(ctx, ownerID, rec)
	return result, nil
}

// diarizeInto runs the best-effort diarization pass. Any failure leaves
// the transcript untouched and records a warning for the caller.
func (p *Pipeline) diarizeInto(ctx context.Context, result *Result, audioPath string, opts Options) {
	if p.Diarizer == nil {
		result.DiarizationError = "speaker diarization is not enabled on this server"
		return
	}
	resp, err := p.Diarizer.Diarize(ctx, diarize.Request{
		AudioPath:   audioPath,
		NumSpeakers: opts.NumSpeakers,
		MinSpeakers: opts.MinSpeakers,
		MaxSpeakers: opts.MaxSpeakers,
	})
	if err != nil {
		logger.Warn("speaker diarization failed, continuing without speakers", zap.Error(err))
		metrics.ObserveDiarizationDegraded()
		result.DiarizationError = errors.GetMessage(err)
		return
	}
	if len(resp.Turns) == 0 {
		result.DiarizationError = "no speaker turns detected"
		return
	}
	result.Segments = diarize.Merge(result.Segments, resp.Turns)
	result.SpeakerSummary = diarize.Summarize(result.Segments)
	result.NumSpeakers = resp.NumSpeakers
	result.Diarized = true
}

func (p *Pipeline) materialize(up Upload) (string, error) {
	if err := os.MkdirAll(p.UploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(up.Filename)
	path := filepath.Join(p.UploadDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, up.Content); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// retain copies the original audio into the configured object store.
// Retention is an enrichment, never a reason to fail a finished job.
func (p *Pipeline) retain(ctx context.Context, tempPath string, up Upload) string {
	f, err := os.Open(tempPath)
	if err != nil {
		logger.Warn("audio retention skipped", zap.Error(err))
		return ""
	}
	defer f.Close()
	key := uuid.NewString() + filepath.Ext(up.Filename)
	url, err := p.Audio.Save(ctx, key, f, up.Size, up.ContentType)
	if err != nil {
		logger.Warn("audio retention failed", zap.Error(err))
		return ""
	}
	return url
}

func (p *Pipeline) afterPersist(ctx context.Context, ownerID uint, rec *models.Transcription) {
	if p.Cache != nil {
		if err := p.Cache.Delete(ctx, HistoryCacheKey(ownerID)); err != nil {
			logger.Warn("history cache invalidation failed", zap.Error(err))
		}
	}
	if p.Search != nil {
		if err := p.Search.Index(rec.ID, ownerID, rec.Filename, rec.Text, rec.Language); err != nil {
			logger.Warn("search indexing failed", zap.Uint("record_id", rec.ID), zap.Error(err))
		}
	}
}

func outcome(err error) string {
	if err == nil {
		return "done"
	}
	switch errors.GetCode(err) {
	case errors.CodeUnsupportedFormat:
		return "unsupported_format"
	case errors.CodeFileTooLarge:
		return "file_too_large"
	case errors.CodeTranscriptionFailed:
		return "transcription_failed"
	case errors.CodeStorageError:
		return "storage_error"
	default:
		return "error"
	}
}

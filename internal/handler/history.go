package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/afdhalrashid/voice-to-text-Manglish/internal/models"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/pipeline"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/errors"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/logger"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/middleware"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/response"
)

const historyCacheTTL = 5 * time.Minute

// GetHistory lists the caller's transcriptions newest first. The listing
// is cached per user; every new job and every delete invalidates it.
func (h *Handlers) GetHistory(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()
	key := pipeline.HistoryCacheKey(userID)

	if h.cache != nil {
		if raw, ok := h.cache.Get(ctx, key); ok {
			var summaries []models.Summary
			if err := json.Unmarshal(raw, &summaries); err == nil {
				h.renderHistory(c, summaries)
				return
			}
		}
	}

	summaries, err := h.store.ListByOwner(ctx, userID)
	if err != nil {
		response.FailWith(c, err)
		return
	}
	if h.cache != nil {
		if raw, err := json.Marshal(summaries); err == nil {
			if err := h.cache.Set(ctx, key, raw, historyCacheTTL); err != nil {
				logger.Warn("history cache write failed", zap.Error(err))
			}
		}
	}
	h.renderHistory(c, summaries)
}

func (h *Handlers) renderHistory(c *gin.Context, summaries []models.Summary) {
	response.Success(c, "", gin.H{
		"transcriptions": summaries,
		"total":          len(summaries),
	})
}

// GetTranscription returns one full record including segments and the
// speaker summary, after the ownership check in the store.
func (h *Handlers) GetTranscription(c *gin.Context) {
	userID := middleware.UserID(c)
	id := cast.ToUint(c.Param("id"))
	if id == 0 {
		response.FailWith(c, errors.WithCode(errors.CodeBadRequest, "invalid transcription id"))
		return
	}

	rec, err := h.store.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		response.FailWith(c, err)
		return
	}

	segments, err := rec.Segments()
	if err != nil {
		response.FailWith(c, errors.Wrap(err, "stored segments are corrupt"))
		return
	}
	summary, err := rec.SpeakerSummary()
	if err != nil {
		response.FailWith(c, errors.Wrap(err, "stored speaker summary is corrupt"))
		return
	}

	response.Success(c, "", gin.H{
		"id":              rec.ID,
		"filename":        rec.Filename,
		"text":            rec.Text,
		"language":        rec.Language,
		"file_size":       rec.FileSize,
		"audio_url":       rec.AudioURL,
		"created_at":      rec.CreatedAt,
		"segments":        segments,
		"speaker_summary": summary,
		"num_speakers":    rec.NumSpeakers,
		"diarized":        rec.Diarized,
	})
}

// DeleteTranscription removes one record the caller owns and keeps the
// cache and the search index consistent with the database.
func (h *Handlers) DeleteTranscription(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()
	id := cast.ToUint(c.Param("id"))
	if id == 0 {
		response.FailWith(c, errors.WithCode(errors.CodeBadRequest, "invalid transcription id"))
		return
	}

	if err := h.store.DeleteByID(ctx, id, userID); err != nil {
		response.FailWith(c, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.Delete(ctx, pipeline.HistoryCacheKey(userID)); err != nil {
			logger.Warn("history cache invalidation failed", zap.Error(err))
		}
	}
	if h.search != nil {
		if err := h.search.Delete(id); err != nil {
			logger.Warn("search index delete failed", zap.Uint("record_id", id), zap.Error(err))
		}
	}
	response.Success(c, "transcription deleted", nil)
}

// SearchHistory runs a full-text query over the caller's transcripts.
func (h *Handlers) SearchHistory(c *gin.Context) {
	if h.search == nil {
		response.Fail(c, "search is not enabled on this server", nil)
		return
	}
	query := c.Query("q")
	if query == "" {
		response.Fail(c, "query parameter q is required", nil)
		return
	}
	limit := cast.ToInt(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	hits, err := h.search.Search(middleware.UserID(c), query, limit)
	if err != nil {
		logger.Error("history search failed", zap.String("query", query), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "search failed"})
		return
	}
	response.Success(c, "", gin.H{
		"results": hits,
		"total":   len(hits),
	})
}

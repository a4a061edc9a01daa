package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/afdhalrashid/voice-to-text-Manglish/internal/pipeline"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/errors"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/middleware"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/response"
)

// Transcribe accepts one audio file as multipart field "audio" and runs
// the full job synchronously. Speaker fields appear in the response only
// when diarization actually produced labels.
func (h *Handlers) Transcribe(c *gin.Context) {
	userID := middleware.UserID(c)

	header, err := c.FormFile("audio")
	if err != nil {
		response.FailWith(c, errors.WithCode(errors.CodeBadRequest, "no audio file provided"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.FailWith(c, errors.WrapCode(errors.CodeInternal, err, "could not read uploaded file"))
		return
	}
	defer file.Close()

	opts := pipeline.Options{
		Language:          c.DefaultPostForm("language", "auto"),
		EnableDiarization: cast.ToBool(c.PostForm("enable_diarization")),
		NumSpeakers:       cast.ToInt(c.PostForm("num_speakers")),
		MinSpeakers:       cast.ToInt(c.PostForm("min_speakers")),
		MaxSpeakers:       cast.ToInt(c.PostForm("max_speakers")),
	}

	// The job keeps running even if the client goes away; the record
	// must be persisted once the model call has started.
	ctx := context.WithoutCancel(c.Request.Context())
	res, err := h.pipeline.Run(ctx, userID, pipeline.Upload{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	}, opts)
	if err != nil {
		response.FailWith(c, err)
		return
	}

	body := gin.H{
		"success":    true,
		"text":       res.Text,
		"language":   res.Language,
		"segments":   res.Segments,
		"history_id": res.RecordID,
	}
	if res.Diarized {
		body["speaker_summary"] = res.SpeakerSummary
		body["num_speakers"] = res.NumSpeakers
	}
	if res.DiarizationError != "" {
		body["diarization_error"] = res.DiarizationError
	}
	c.JSON(http.StatusOK, body)
}

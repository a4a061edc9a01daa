package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/afdhalrashid/voice-to-text-Manglish/internal/pipeline"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/store"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/cache"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/config"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/metrics"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/middleware"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/search"
)

type Handlers struct {
	cfg      *config.Config
	db       *gorm.DB
	store    *store.TranscriptionStore
	pipeline *pipeline.Pipeline
	cache    cache.Cache
	search   *search.Engine
}

func New(cfg *config.Config, db *gorm.DB, pl *pipeline.Pipeline, c cache.Cache, eng *search.Engine) *Handlers {
	return &Handlers{
		cfg:      cfg,
		db:       db,
		store:    store.NewTranscriptionStore(db),
		pipeline: pl,
		cache:    c,
		search:   eng,
	}
}

// RegisterRoutes wires every route. Sessions and recovery middleware
// are installed by the caller before this runs.
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	r.GET("/metrics", metrics.Handler())

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password/:token", h.ResetPassword)

		auth.GET("/profile", middleware.AuthRequired(), h.Profile)
		auth.POST("/change-password", middleware.AuthRequired(), h.ChangePassword)
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		authed := api.Group("", middleware.AuthRequired())
		authed.POST("/transcribe", middleware.RateLimit(h.cfg.RateLimit), h.Transcribe)
		authed.GET("/history", h.GetHistory)
		authed.GET("/history/search", h.SearchHistory)
		authed.GET("/history/:id", h.GetTranscription)
		authed.DELETE("/history/:id", h.DeleteTranscription)
	}
}

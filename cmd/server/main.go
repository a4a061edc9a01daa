package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/afdhalrashid/voice-to-text-Manglish/internal/diarize"
	handlers "github.com/afdhalrashid/voice-to-text-Manglish/internal/handler"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/listeners"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/models"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/pipeline"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/store"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/transcribe"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/cache"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/config"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/logger"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/metrics"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/middleware"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/scheduler"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/search"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/storage"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/util"
)

func main() {
	if err := config.Load(); err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}
	cfg := config.GlobalConfig

	logger.Init(cfg.Log)
	defer logger.Sync()

	db, err := util.OpenDatabase(cfg.DBDriver, cfg.DSN)
	if err != nil {
		logger.Fatal("database open failed", zap.Error(err))
	}
	if err := models.Migrate(db); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	c, err := cache.NewCache(cache.Config{
		Type: cfg.CacheType,
		Redis: cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       int(cfg.RedisDB),
		},
	})
	if err != nil {
		logger.Fatal("cache init failed", zap.Error(err))
	}
	defer c.Close()

	transcriber, err := transcribe.NewProvider(cfg)
	if err != nil {
		logger.Fatal("transcriber init failed", zap.Error(err))
	}

	var diarizer diarize.Provider
	if cfg.DiarizationEnabled {
		diarizer = diarize.NewPyannoteProvider(diarize.PyannoteConfig{
			BaseURL: cfg.PyannoteURL,
			Timeout: time.Duration(cfg.PyannoteTimeoutSec) * time.Second,
		})
	}

	var audio storage.Store
	if cfg.RetainAudio {
		audio, err = storage.NewStore(cfg.StorageBackend)
		if err != nil {
			logger.Fatal("storage init failed", zap.Error(err))
		}
	}

	var searchEngine *search.Engine
	if cfg.SearchEnabled {
		searchEngine, err = search.Open(cfg.SearchPath)
		if err != nil {
			logger.Fatal("search index open failed", zap.Error(err))
		}
		defer searchEngine.Close()
	}

	pl := &pipeline.Pipeline{
		MaxUploadBytes: cfg.MaxFileSizeBytes(),
		UploadDir:      cfg.UploadDir,
		Transcriber:    transcriber,
		Diarizer:       diarizer,
		Store:          store.NewTranscriptionStore(db),
		Cache:          c,
		Audio:          audio,
		Search:         searchEngine,
	}

	listeners.InitUserListeners()

	gin.SetMode(ginMode(cfg.Mode))
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.OperationLog())
	r.Use(metrics.Middleware())

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionExpireDays) * 24 * 3600,
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("v2t_session", sessionStore))

	handlers.New(cfg, db, pl, c, searchEngine).RegisterRoutes(r)

	cr := scheduler.NewCron(nil)
	if _, err := cr.Add(cfg.SweepSchedule, scheduler.FuncJob(
		pipeline.SweepUploads(cfg.UploadDir, time.Duration(cfg.TempMaxAgeMin)*time.Minute),
	)); err != nil {
		logger.Fatal("sweep schedule invalid", zap.String("expr", cfg.SweepSchedule), zap.Error(err))
	}
	cr.Start()
	defer cr.Stop()

	sched := scheduler.New()
	sched.Every(15*time.Second, scheduler.FuncJob(metrics.SampleSystem))
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// In-flight transcription jobs can run for minutes; give them room.
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("forced shutdown", zap.Error(err))
	}
}

func ginMode(mode string) string {
	switch mode {
	case "release", "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

package config

import (
	"log"
	"os"

	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/logger"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/notification"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/util"
)

type Config struct {
	Addr    string `env:"ADDR"`
	Mode    string `env:"MODE"`
	BaseURL string `env:"BASE_URL"` // external URL used in password reset links

	DBDriver string `env:"DB_DRIVER"`
	DSN      string `env:"DSN"`

	SessionSecret     string `env:"SESSION_SECRET"`
	SessionExpireDays int64  `env:"SESSION_EXPIRE_DAYS"`

	// Upload pipeline
	MaxFileSizeMB int64  `env:"MAX_FILE_SIZE_MB"`
	UploadDir     string `env:"UPLOAD_DIR"`
	TempMaxAgeMin int64  `env:"TEMP_MAX_AGE_MIN"`
	SweepSchedule string `env:"SWEEP_SCHEDULE"` // cron expr for the upload dir sweep

	// Transcription backend: "openai" (Whisper API) or "whisperd" (sidecar)
	Transcriber   string `env:"TRANSCRIBER"`
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	WhisperModel  string `env:"WHISPER_MODEL"`
	WhisperdURL   string `env:"WHISPERD_URL"`

	// Diarization sidecar
	DiarizationEnabled bool   `env:"ENABLE_DIARIZATION"`
	PyannoteURL        string `env:"PYANNOTE_URL"`
	PyannoteTimeoutSec int64  `env:"PYANNOTE_TIMEOUT_SEC"`

	// Original-audio retention; backend selection mirrors pkg/storage
	RetainAudio    bool   `env:"RETAIN_AUDIO"`
	StorageBackend string `env:"STORAGE_BACKEND"` // local | minio | cos

	CacheType     string `env:"CACHE_TYPE"` // local | redis
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int64  `env:"REDIS_DB"`

	SearchEnabled bool   `env:"SEARCH_ENABLED"`
	SearchPath    string `env:"SEARCH_PATH"`

	RateLimit string `env:"RATE_LIMIT"` // e.g. "10-M" for the transcribe endpoint

	Log  logger.LogConfig
	Mail notification.MailConfig
}

var GlobalConfig *Config

func Load() error {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	if err := util.LoadEnv(env); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	GlobalConfig = &Config{
		Addr:    util.GetEnvDefault("ADDR", ":5001"),
		Mode:    util.GetEnvDefault("MODE", "debug"),
		BaseURL: util.GetEnvDefault("BASE_URL", "http://localhost:5001"),

		DBDriver: util.GetEnv("DB_DRIVER"),
		DSN:      util.GetEnvDefault("DSN", "voice2text.db"),

		SessionSecret:     util.GetEnvDefault("SESSION_SECRET", "dev-secret-key-change-in-production"),
		SessionExpireDays: util.GetIntEnvDefault("SESSION_EXPIRE_DAYS", 7),

		MaxFileSizeMB: util.GetIntEnvDefault("MAX_FILE_SIZE_MB", 500),
		UploadDir:     util.GetEnvDefault("UPLOAD_DIR", "uploads"),
		TempMaxAgeMin: util.GetIntEnvDefault("TEMP_MAX_AGE_MIN", 60),
		SweepSchedule: util.GetEnvDefault("SWEEP_SCHEDULE", "@hourly"),

		Transcriber:   util.GetEnvDefault("TRANSCRIBER", "openai"),
		OpenAIKey:     util.GetEnv("OPENAI_API_KEY"),
		OpenAIBaseURL: util.GetEnv("OPENAI_BASE_URL"),
		WhisperModel:  util.GetEnvDefault("WHISPER_MODEL", "base"),
		WhisperdURL:   util.GetEnvDefault("WHISPERD_URL", "http://localhost:8387"),

		DiarizationEnabled: util.GetEnvDefault("ENABLE_DIARIZATION", "true") == "true",
		PyannoteURL:        util.GetEnvDefault("PYANNOTE_URL", "http://localhost:8388"),
		PyannoteTimeoutSec: util.GetIntEnvDefault("PYANNOTE_TIMEOUT_SEC", 300),

		RetainAudio:    util.GetBoolEnv("RETAIN_AUDIO"),
		StorageBackend: util.GetEnvDefault("STORAGE_BACKEND", "local"),

		CacheType:     util.GetEnvDefault("CACHE_TYPE", "local"),
		RedisAddr:     util.GetEnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: util.GetEnv("REDIS_PASSWORD"),
		RedisDB:       util.GetIntEnv("REDIS_DB"),

		SearchEnabled: util.GetBoolEnv("SEARCH_ENABLED"),
		SearchPath:    util.GetEnvDefault("SEARCH_PATH", "search.bleve"),

		RateLimit: util.GetEnvDefault("RATE_LIMIT", "10-M"),

		Log: logger.LogConfig{
			Level:      util.GetEnvDefault("LOG_LEVEL", "info"),
			Filename:   util.GetEnvDefault("LOG_FILENAME", "logs/voice2text.log"),
			MaxSize:    int(util.GetIntEnv("LOG_MAX_SIZE")),
			MaxAge:     int(util.GetIntEnv("LOG_MAX_AGE")),
			MaxBackups: int(util.GetIntEnv("LOG_MAX_BACKUPS")),
		},
		Mail: notification.MailConfig{
			Host:     util.GetEnv("MAIL_HOST"),
			Port:     util.GetIntEnvDefault("MAIL_PORT", 587),
			Username: util.GetEnv("MAIL_USERNAME"),
			Password: util.GetEnv("MAIL_PASSWORD"),
			From:     util.GetEnv("MAIL_FROM"),
		},
	}
	return nil
}

// MaxFileSizeBytes is the validator limit derived from MAX_FILE_SIZE_MB.
func (c *Config) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

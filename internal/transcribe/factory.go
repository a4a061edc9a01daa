package transcribe

import (
	"fmt"
	"strings"

	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/config"
)

// NewProvider builds the backend selected by TRANSCRIBER.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch strings.ToLower(cfg.Transcriber) {
	case "", "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai transcriber")
		}
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
		}), nil
	case "whisperd":
		return NewWhisperdProvider(WhisperdConfig{
			BaseURL: cfg.WhisperdURL,
			Model:   cfg.WhisperModel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown transcriber: %s", cfg.Transcriber)
	}
}

package transcribe

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider transcribes through the OpenAI Whisper API. Verbose
// JSON output gives the time-aligned segments the merge step needs.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string // optional, for API-compatible gateways
	Model   string
}

func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(clientCfg), model: model}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Transcribe(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    model,
		FilePath: req.AudioPath,
		Language: req.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, err
	}

	segments := make([]Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, Segment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}

	language := resp.Language
	if req.Language != "" {
		// An explicit hint skips detection; echo it back as confirmed.
		language = req.Language
	}
	if language == "" {
		language = "unknown"
	}

	return &Response{
		Text:     strings.TrimSpace(resp.Text),
		Language: language,
		Duration: resp.Duration,
		Segments: segments,
	}, nil
}

package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultWhisperdTimeout = 10 * time.Minute

// WhisperdProvider talks to a local faster-whisper HTTP sidecar. Useful
// when audio must not leave the host.
type WhisperdProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

type WhisperdConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

func NewWhisperdProvider(cfg WhisperdConfig) *WhisperdProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8387"
	}
	if cfg.Model == "" {
		cfg.Model = "base"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultWhisperdTimeout
	}
	return &WhisperdProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *WhisperdProvider) Name() string { return "whisperd" }

type whisperdResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
	Error string `json:"error,omitempty"`
}

func (p *WhisperdProvider) Transcribe(ctx context.Context, req Request) (*Response, error) {
	audio, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}

	model := req.Model
	if model == "" {
		model = p.model
	}

	// Stream the file straight into the request body; audio can be
	// hundreds of megabytes and must not be buffered whole.
	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)
	go func() {
		defer audio.Close()
		part, err := w.CreateFormFile("audio", filepath.Base(req.AudioPath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, audio); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := w.WriteField("model", model); err != nil {
			pw.CloseWithError(err)
			return
		}
		if req.Language != "" {
			if err := w.WriteField("language", req.Language); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(w.Close())
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transcribe", pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("whisperd request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("whisperd error (status %d): %s", resp.StatusCode, string(body))
	}

	var out whisperdResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode whisperd response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("whisperd error: %s", out.Error)
	}

	segments := make([]Segment, 0, len(out.Segments))
	for _, s := range out.Segments {
		segments = append(segments, Segment{Start: s.Start, End: s.End, Text: strings.TrimSpace(s.Text)})
	}
	language := out.Language
	if req.Language != "" {
		language = req.Language
	}
	if language == "" {
		language = "unknown"
	}
	return &Response{
		Text:     strings.TrimSpace(out.Text),
		Language: language,
		Duration: out.Duration,
		Segments: segments,
	}, nil
}

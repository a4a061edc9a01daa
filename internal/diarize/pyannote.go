package diarize

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const defaultPyannoteTimeout = 5 * time.Minute

// PyannoteProvider talks to a pyannote.audio HTTP sidecar. The sidecar
// owns the Hugging Face credential; a missing grant surfaces here as a
// request error and the pipeline degrades to no diarization.
type PyannoteProvider struct {
	baseURL string
	client  *http.Client
}

type PyannoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

func NewPyannoteProvider(cfg PyannoteConfig) *PyannoteProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8388"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultPyannoteTimeout
	}
	return &PyannoteProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *PyannoteProvider) Name() string { return "pyannote" }

type pyannoteResponse struct {
	Segments []struct {
		Speaker string  `json:"speaker"`
		Start   float64 `json:"start"`
		End     float64 `json:"end"`
	} `json:"segments"`
	NumSpeakers int    `json:"num_speakers"`
	Error       string `json:"error,omitempty"`
}

func (p *PyannoteProvider) Diarize(ctx context.Context, req Request) (*Response, error) {
	audio, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
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
		// Exact count wins over the range hint.
		if req.NumSpeakers > 0 {
			if err := w.WriteField("num_speakers", strconv.Itoa(req.NumSpeakers)); err != nil {
				pw.CloseWithError(err)
				return
			}
		} else {
			if req.MinSpeakers > 0 {
				if err := w.WriteField("min_speakers", strconv.Itoa(req.MinSpeakers)); err != nil {
					pw.CloseWithError(err)
					return
				}
			}
			if req.MaxSpeakers > 0 {
				if err := w.WriteField("max_speakers", strconv.Itoa(req.MaxSpeakers)); err != nil {
					pw.CloseWithError(err)
					return
				}
			}
		}
		pw.CloseWithError(w.Close())
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/diarize", pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("diarization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("diarization error (status %d): %s", resp.StatusCode, string(body))
	}

	var out pyannoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode diarization response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("diarization error: %s", out.Error)
	}

	turns := make([]Turn, 0, len(out.Segments))
	speakers := make(map[string]struct{})
	for _, s := range out.Segments {
		turns = append(turns, Turn{Speaker: s.Speaker, Start: s.Start, End: s.End})
		speakers[s.Speaker] = struct{}{}
	}
	sort.Slice(turns, func(i, j int) bool { return turns[i].Start < turns[j].Start })

	numSpeakers := out.NumSpeakers
	if numSpeakers == 0 {
		numSpeakers = len(speakers)
	}
	return &Response{Turns: turns, NumSpeakers: numSpeakers}, nil
}

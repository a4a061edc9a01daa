// Package transcribe wraps external speech-recognition backends behind
// one provider interface. The pipeline treats a backend as an opaque
// synchronous call: audio path plus options in, segments plus language out.
package transcribe

import "context"

// Request holds parameters for one transcription call. Language is an
// ISO-639-1 style hint; empty means the backend detects it.
type Request struct {
	AudioPath string
	Language  string
	Model     string
}

// Segment is a contiguous span of transcribed text. Speaker is filled
// in later by the diarization merge, never by the transcriber itself.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Response is the normalized transcription result.
type Response struct {
	Text     string
	Language string
	Duration float64
	Segments []Segment
}

// Provider is implemented by each speech-recognition backend.
type Provider interface {
	Name() string
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// Package diarize wraps the external speaker-diarization backend and
// merges its speaker turns into transcription segments. Diarization is
// best-effort enrichment: the pipeline never fails a job because of it.
package diarize

import "context"

// Request holds parameters for one diarization call. NumSpeakers is the
// exact count and takes precedence; Min/MaxSpeakers act as a range hint.
type Request struct {
	AudioPath   string
	NumSpeakers int
	MinSpeakers int
	MaxSpeakers int
}

// Turn is one diarization-produced interval attributed to a speaker.
type Turn struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Response is the normalized diarization result.
type Response struct {
	Turns       []Turn
	NumSpeakers int
}

// SpeakerStat aggregates a speaker's share of the merged segments.
type SpeakerStat struct {
	Seconds  float64 `json:"seconds"`
	Segments int     `json:"segments"`
	Words    int     `json:"words"`
}

// Provider is implemented by each diarization backend.
type Provider interface {
	Name() string
	Diarize(ctx context.Context, req Request) (*Response, error)
}

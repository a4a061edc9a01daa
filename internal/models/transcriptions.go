package models

import (
	"encoding/json"
	"time"

	"github.com/afdhalrashid/voice-to-text-Manglish/internal/diarize"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/transcribe"
)

// Transcription is one completed job. Rows are immutable once created
// and only ever removed by the owner; the pipeline never persists a
// partial result. Segment and speaker data are serialized JSON text
// columns so the row stays portable across sqlite/mysql/postgres.
type Transcription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Filename  string    `gorm:"size:255;not null" json:"filename"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Language  string    `gorm:"size:10;default:unknown" json:"language"`
	FileSize  int64     `gorm:"default:0" json:"file_size"`
	AudioURL  string    `gorm:"size:1024" json:"audio_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	SegmentsJSON       string `gorm:"type:text" json:"-"`
	SpeakerSummaryJSON string `gorm:"type:text" json:"-"`
	NumSpeakers        int    `gorm:"default:0" json:"num_speakers"`
	Diarized           bool   `gorm:"default:false" json:"diarized"`
}

func (t *Transcription) SetSegments(segs []transcribe.Segment) error {
	b, err := json.Marshal(segs)
	if err != nil {
		return err
	}
	t.SegmentsJSON = string(b)
	return nil
}

func (t *Transcription) Segments() ([]transcribe.Segment, error) {
	if t.SegmentsJSON == "" {
		return nil, nil
	}
	var segs []transcribe.Segment
	if err := json.Unmarshal([]byte(t.SegmentsJSON), &segs); err != nil {
		return nil, err
	}
	return segs, nil
}

func (t *Transcription) SetSpeakerSummary(summary map[string]diarize.SpeakerStat) error {
	if len(summary) == 0 {
		t.SpeakerSummaryJSON = ""
		return nil
	}
	b, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	t.SpeakerSummaryJSON = string(b)
	return nil
}

func (t *Transcription) SpeakerSummary() (map[string]diarize.SpeakerStat, error) {
	if t.SpeakerSummaryJSON == "" {
		return nil, nil
	}
	var summary map[string]diarize.SpeakerStat
	if err := json.Unmarshal([]byte(t.SpeakerSummaryJSON), &summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// Summary is the listing projection returned by the history endpoint.
type Summary struct {
	ID          uint      `json:"id"`
	Filename    string    `json:"filename"`
	Language    string    `json:"language"`
	FileSize    int64     `json:"file_size"`
	CreatedAt   time.Time `json:"created_at"`
	NumSpeakers int       `json:"num_speakers"`
	TextPreview string    `json:"text_preview"`
}

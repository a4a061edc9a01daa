package diarize

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAudioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPyannoteDiarize(t *testing.T) {
	audioContent := strings.Repeat("x", 64*1024)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, _, err := r.FormFile("audio")
		require.NoError(t, err)
		defer f.Close()
		got, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Len(t, got, len(audioContent), "full audio body must arrive")

		assert.Equal(t, "2", r.FormValue("num_speakers"))
		assert.Empty(t, r.FormValue("min_speakers"), "exact count suppresses the range hint")

		json.NewEncoder(w).Encode(map[string]any{
			"segments": []map[string]any{
				{"speaker": "SPEAKER_01", "start": 3.0, "end": 6.0},
				{"speaker": "SPEAKER_00", "start": 0.0, "end": 3.0},
			},
			"num_speakers": 2,
		})
	}))
	defer srv.Close()

	p := NewPyannoteProvider(PyannoteConfig{BaseURL: srv.URL})
	resp, err := p.Diarize(context.Background(), Request{
		AudioPath:   writeAudioFile(t, audioContent),
		NumSpeakers: 2,
		MinSpeakers: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.NumSpeakers)
	require.Len(t, resp.Turns, 2)
	assert.Equal(t, "SPEAKER_00", resp.Turns[0].Speaker, "turns sorted by start")
}

func TestPyannoteRangeHint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "1", r.FormValue("min_speakers"))
		assert.Equal(t, "4", r.FormValue("max_speakers"))
		json.NewEncoder(w).Encode(map[string]any{"segments": []any{}})
	}))
	defer srv.Close()

	p := NewPyannoteProvider(PyannoteConfig{BaseURL: srv.URL})
	resp, err := p.Diarize(context.Background(), Request{
		AudioPath:   writeAudioFile(t, "data"),
		MinSpeakers: 1,
		MaxSpeakers: 4,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Turns)
}

func TestPyannoteErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		json.NewEncoder(w).Encode(map[string]any{"error": "missing hugging face access grant"})
	}))
	defer srv.Close()

	p := NewPyannoteProvider(PyannoteConfig{BaseURL: srv.URL})
	_, err := p.Diarize(context.Background(), Request{AudioPath: writeAudioFile(t, "data")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hugging face")
}

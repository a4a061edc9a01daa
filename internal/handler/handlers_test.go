package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/afdhalrashid/voice-to-text-Manglish/internal/diarize"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/models"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/pipeline"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/store"
	"github.com/afdhalrashid/voice-to-text-Manglish/internal/transcribe"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/cache"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/config"
	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/util"
)

type stubTranscriber struct {
	calls int
	err   error
}

func (s *stubTranscriber) Name() string { return "stub" }

func (s *stubTranscriber) Transcribe(_ context.Context, req transcribe.Request) (*transcribe.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	language := req.Language
	if language == "" {
		language = "ms"
	}
	return &transcribe.Response{
		Text:     "selamat pagi everyone",
		Language: language,
		Duration: 4,
		Segments: []transcribe.Segment{
			{Start: 0, End: 2, Text: "selamat pagi"},
			{Start: 2, End: 4, Text: "everyone"},
		},
	}, nil
}

type stubDiarizer struct{ err error }

func (s *stubDiarizer) Name() string { return "stub" }

func (s *stubDiarizer) Diarize(context.Context, diarize.Request) (*diarize.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &diarize.Response{
		Turns: []diarize.Turn{
			{Speaker: "SPEAKER_00", Start: 0, End: 2},
			{Speaker: "SPEAKER_01", Start: 2, End: 4},
		},
		NumSpeakers: 2,
	}, nil
}

type testApp struct {
	router      *gin.Engine
	db          *gorm.DB
	transcriber *stubTranscriber
	diarizer    *stubDiarizer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := util.OpenDatabase("sqlite", "")
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	tr := &stubTranscriber{}
	di := &stubDiarizer{}
	pl := &pipeline.Pipeline{
		MaxUploadBytes: 1024 * 1024,
		UploadDir:      t.TempDir(),
		Transcriber:    tr,
		Diarizer:       di,
		Store:          store.NewTranscriptionStore(db),
		Cache:          cache.NewLocalCache(cache.LocalConfig{}),
	}

	cfg := &config.Config{
		SessionSecret:     "test-secret",
		SessionExpireDays: 7,
		RateLimit:         "100-S",
		BaseURL:           "http://localhost:5001",
	}

	r := gin.New()
	r.Use(sessions.Sessions("v2t_session", cookie.NewStore([]byte(cfg.SessionSecret))))
	New(cfg, db, pl, pl.Cache, nil).RegisterRoutes(r)

	return &testApp{router: r, db: db, transcriber: tr, diarizer: di}
}

// client carries the session cookie across requests like a browser.
type client struct {
	app     *testApp
	cookies []string
}

func (a *testApp) client() *client { return &client{app: a} }

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range cl.cookies {
		req.Header.Add("Cookie", c)
	}
	w := httptest.NewRecorder()
	cl.app.router.ServeHTTP(w, req)
	if set := w.Result().Header["Set-Cookie"]; len(set) > 0 {
		cl.cookies = set
	}
	return w
}

func (cl *client) postJSON(path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return cl.do(req)
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) delete(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodDelete, path, nil))
}

func (cl *client) upload(filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("audio", filename)
	fw.Write([]byte(content))
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return cl.do(req)
}

func (cl *client) register(t *testing.T, username string) {
	t.Helper()
	w := cl.postJSON("/auth/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "passw0rd123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRouteRegistration(t *testing.T) {
	app := newTestApp(t)

	routes := map[string]bool{}
	for _, r := range app.router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /auth/register",
		"POST /auth/login",
		"POST /auth/logout",
		"GET /auth/profile",
		"POST /auth/change-password",
		"POST /auth/forgot-password",
		"POST /auth/reset-password/:token",
		"POST /api/transcribe",
		"GET /api/history",
		"GET /api/history/search",
		"GET /api/history/:id",
		"DELETE /api/history/:id",
		"GET /api/health",
		"GET /metrics",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestTranscribeEndToEnd(t *testing.T) {
	app := newTestApp(t)
	cl := app.client()
	cl.register(t, "alice")

	w := cl.upload("clip.mp3", strings.Repeat("x", 10*1024), map[string]string{"language": "en"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["text"])
	assert.Equal(t, "en", body["language"])
	assert.NotEmpty(t, body["segments"])
	assert.NotNil(t, body["history_id"])
	assert.NotContains(t, body, "speaker_summary")
	assert.NotContains(t, body, "num_speakers")

	w = cl.get("/api/history")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["total"])
}

func TestTranscribeWithDiarization(t *testing.T) {
	app := newTestApp(t)
	cl := app.client()
	cl.register(t, "alice")

	w := cl.upload("clip.wav", "data", map[string]string{"enable_diarization": "true"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, float64(2), body["num_speakers"])
	assert.NotEmpty(t, body["speaker_summary"])
	assert.NotContains(t, body, "diarization_error")
}

func TestTranscribeDiarizationFailureStillSucceeds(t *testing.T) {
	app := newTestApp(t)
	app.diarizer.err = fmt.Errorf("model not loaded")
	cl := app.client()
	cl.register(t, "alice")

	w := cl.upload("clip.wav", "data", map[string]string{"enable_diarization": "true"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["diarization_error"])
	assert.NotContains(t, body, "speaker_summary")
}

func TestTranscribeRejectsUnsupportedFormat(t *testing.T) {
	app := newTestApp(t)
	cl := app.client()
	cl.register(t, "alice")

	w := cl.upload("clip.xyz", "data", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, app.transcriber.calls)

	var n int64
	app.db.Model(&models.Transcription{}).Count(&n)
	assert.Equal(t, int64(0), n, "rejected upload must not leave a record")
}

func TestTranscribeRequiresAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.client().upload("clip.mp3", "data", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, app.transcriber.calls)
}

func TestHistoryOwnership(t *testing.T) {
	app := newTestApp(t)

	alice := app.client()
	alice.register(t, "alice")
	w := alice.upload("clip.mp3", "data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	recordID := int(decode(t, w)["history_id"].(float64))

	bob := app.client()
	bob.register(t, "bob")

	assert.Equal(t, http.StatusForbidden, bob.get(fmt.Sprintf("/api/history/%d", recordID)).Code)
	assert.Equal(t, http.StatusForbidden, bob.delete(fmt.Sprintf("/api/history/%d", recordID)).Code)
	assert.Equal(t, http.StatusNotFound, bob.get("/api/history/999").Code)

	// Bob's listing is empty, Alice still sees her record.
	data := decode(t, bob.get("/api/history"))["data"].(map[string]any)
	assert.Equal(t, float64(0), data["total"])
	assert.Equal(t, http.StatusOK, alice.get(fmt.Sprintf("/api/history/%d", recordID)).Code)
}

func TestDeleteTranscription(t *testing.T) {
	app := newTestApp(t)
	cl := app.client()
	cl.register(t, "alice")

	w := cl.upload("clip.mp3", "data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	recordID := int(decode(t, w)["history_id"].(float64))

	assert.Equal(t, http.StatusOK, cl.delete(fmt.Sprintf("/api/history/%d", recordID)).Code)
	assert.Equal(t, http.StatusNotFound, cl.get(fmt.Sprintf("/api/history/%d", recordID)).Code)

	data := decode(t, cl.get("/api/history"))["data"].(map[string]any)
	assert.Equal(t, float64(0), data["total"])
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	app := newTestApp(t)
	cl := app.client()

	for _, password := range []string{"short1", "onlyletters", "12345678"} {
		w := cl.postJSON("/auth/register", gin.H{
			"username": "alice",
			"email":    "alice@example.com",
			"password": password,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, password)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	app := newTestApp(t)
	cl := app.client()
	cl.register(t, "alice")

	w := cl.postJSON("/auth/register", gin.H{
		"username": "alice",
		"email":    "other@example.com",
		"password": "passw0rd123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	cl := app.client()
	cl.register(t, "alice")

	w := app.client().postJSON("/auth/login", gin.H{
		"username": "alice",
		"password": "wrongpass1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginThenProfile(t *testing.T) {
	app := newTestApp(t)
	app.client().register(t, "alice")

	cl := app.client()
	w := cl.postJSON("/auth/login", gin.H{"username": "alice", "password": "passw0rd123"})
	require.Equal(t, http.StatusOK, w.Code)

	w = cl.get("/auth/profile")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "alice", data["username"])
}

func TestLogoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	cl := app.client()
	cl.register(t, "alice")

	require.Equal(t, http.StatusOK, cl.postJSON("/auth/logout", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, cl.get("/auth/profile").Code)
}

func TestChangePassword(t *testing.T) {
	app := newTestApp(t)
	cl := app.client()
	cl.register(t, "alice")

	w := cl.postJSON("/auth/change-password", gin.H{
		"current_password": "passw0rd123",
		"new_password":     "newpassw0rd9",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	fresh := app.client()
	assert.Equal(t, http.StatusUnauthorized,
		fresh.postJSON("/auth/login", gin.H{"username": "alice", "password": "passw0rd123"}).Code)
	assert.Equal(t, http.StatusOK,
		fresh.postJSON("/auth/login", gin.H{"username": "alice", "password": "newpassw0rd9"}).Code)
}

func TestResetPasswordFlow(t *testing.T) {
	app := newTestApp(t)
	app.client().register(t, "alice")

	// Unknown address still answers success.
	w := app.client().postJSON("/auth/forgot-password", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.client().postJSON("/auth/forgot-password", gin.H{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, app.db.Where("username = ?", "alice").First(&user).Error)
	require.NotEmpty(t, user.ResetToken)

	w = app.client().postJSON("/auth/reset-password/"+user.ResetToken, gin.H{"password": "brandnew1pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, http.StatusOK,
		app.client().postJSON("/auth/login", gin.H{"username": "alice", "password": "brandnew1pass"}).Code)

	// Token is single use.
	w = app.client().postJSON("/auth/reset-password/"+user.ResetToken, gin.H{"password": "anotherpass2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)

	w := app.client().get("/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-coach-go/internal/analyzer"
	"speech-coach-go/internal/config"
	"speech-coach-go/internal/logger"
	"speech-coach-go/internal/types"
)

type fakeAnalyzer struct {
	res         *types.SpeechAnalysisResult
	err         error
	transcript  string
	videoLength string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, transcript, videoLength string) (*types.SpeechAnalysisResult, error) {
	f.transcript = transcript
	f.videoLength = videoLength
	return f.res, f.err
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = "0"
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.Gemini.Model = "gemini-2.0-flash"
	return cfg
}

func newTestServer(a Analyzer) *Server {
	return New(testConfig(), a, logger.NewWithOptions("test", "error", io.Discard))
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeSuccess(t *testing.T) {
	fa := &fakeAnalyzer{res: &types.SpeechAnalysisResult{Score: 7, Summary: "ok"}}
	s := newTestServer(fa)

	rec := post(t, s.Handler(), `{"transcript": "um so basically...", "video_length": "2:15"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(logger.RequestIDHeader))

	var got types.SpeechAnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 7, got.Score)
	assert.Equal(t, "ok", got.Summary)
	assert.Equal(t, "um so basically...", fa.transcript)
	assert.Equal(t, "2:15", fa.videoLength)
}

func TestAnalyzeBadRequests(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{})

	for _, body := range []string{`not json`, `{"transcript": "   ", "video_length": "1:00"}`, `{}`} {
		rec := post(t, s.Handler(), body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)

		var eb errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eb))
		assert.NotEmpty(t, eb.Detail)
	}
}

func TestAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{name: "invalid format", err: analyzer.ErrInvalidFormat, status: http.StatusBadGateway, detail: analyzer.ErrInvalidFormat.Error()},
		{name: "empty", err: analyzer.ErrEmptyResponse, status: http.StatusBadGateway, detail: analyzer.ErrEmptyResponse.Error()},
		{name: "exhausted", err: &analyzer.RetryExhaustedError{Attempts: 2, Err: errors.New("503")}, status: http.StatusServiceUnavailable},
		{name: "deadline", err: context.DeadlineExceeded, status: http.StatusGatewayTimeout},
		{name: "unexpected", err: errors.New("secret internal detail"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeAnalyzer{err: tt.err})
			rec := post(t, s.Handler(), `{"transcript": "hello", "video_length": "0:30"}`)
			assert.Equal(t, tt.status, rec.Code)

			var eb errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &eb))
			if tt.detail != "" {
				assert.Equal(t, tt.detail, eb.Detail)
			}
			assert.NotContains(t, eb.Detail, "secret")
		})
	}
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "gemini-2.0-flash", body["model"])

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRequestIDPropagated(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(logger.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(logger.RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newTestServer(&fakeAnalyzer{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}

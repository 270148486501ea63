package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryWritesPanicResponse(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	handler := Recovery(logger, func(w http.ResponseWriter, _ *http.Request, err any) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(err.(string)))
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/games/g1", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "boom", rr.Body.String())
	assert.Contains(t, logs.String(), `"msg":"panic recovered"`)
	assert.Contains(t, logs.String(), `"path":"/api/v1/games/g1"`)
}

func TestRecoveryReraisesAbort(t *testing.T) {
	handler := Recovery(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)), func(http.ResponseWriter, *http.Request, any) {
		t.Fatal("abort must not be handled")
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestLoggingLevels(t *testing.T) {
	tests := []struct {
		path   string
		status int
		level  string
	}{
		{"/api/v1/games/g1", http.StatusOK, "INFO"},
		{"/api/v1/games/g1", http.StatusNotFound, "WARN"},
		{"/api/v1/games/g1", http.StatusInternalServerError, "ERROR"},
		{"/api/v1/health", http.StatusOK, "DEBUG"},
	}
	for _, tt := range tests {
		var logs bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		withPlayer := func(r *http.Request) []slog.Attr {
			return []slog.Attr{slog.String("player_id", r.Header.Get("X-Player-ID"))}
		}

		handler := Logging(logger, withPlayer)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte("hello"))
		}))
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		req.Header.Set("X-Player-ID", "alice")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		require.NotEmpty(t, logs.String())
		assert.Contains(t, logs.String(), `"level":"`+tt.level+`"`, tt.path)
		assert.Contains(t, logs.String(), `"size":5`)
		assert.Contains(t, logs.String(), `"player_id":"alice"`)
	}
}

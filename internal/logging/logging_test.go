package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(NewHandler(&buf, true)))
	return &buf
}

func TestNewHandlerDevMode(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, true))
	log.Debug("test debug")
	log.Info("test info")

	out := buf.String()
	if !strings.Contains(out, "test debug") {
		t.Error("expected debug message visible in dev mode")
	}
	if !strings.Contains(out, "level=INFO") {
		t.Errorf("expected text output, got %q", out)
	}
}

func TestNewHandlerProdMode(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, false))
	log.Debug("hidden")
	log.Info("shown", "rows", 3)

	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug message should be dropped outside dev mode")
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "shown" || entry["rows"] != float64(3) {
		t.Errorf("entry = %v", entry)
	}
}

func TestSetup(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	Setup(false)
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled in prod mode")
	}
	Setup(true)
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be enabled in dev mode")
	}
}

func TestRequestLogger(t *testing.T) {
	buf := captureDefault(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"count":0}`))
	})

	req := httptest.NewRequest("GET", "/api/listings?room_type=Shared+room", nil)
	rec := httptest.NewRecorder()
	RequestLogger(inner).ServeHTTP(rec, req)

	out := buf.String()
	if out == "" {
		t.Fatal("expected log output")
	}
	for _, want := range []string{"GET", "/api/listings", "room_type=Shared+room", "bytes=11"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log %q", want, out)
		}
	}
}

func TestRequestLoggerSkipsQuietPaths(t *testing.T) {
	for _, path := range []string{"/static/style.css", "/health", "/chart/rooms.svg"} {
		t.Run(path, func(t *testing.T) {
			buf := captureDefault(t)

			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			rec := httptest.NewRecorder()
			RequestLogger(inner).ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

			if buf.Len() > 0 {
				t.Errorf("expected no log for %s, got %q", path, buf.String())
			}
		})
	}
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusNotFound, "level=WARN"},
		{http.StatusInternalServerError, "level=ERROR"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			buf := captureDefault(t)

			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			rec := httptest.NewRecorder()
			RequestLogger(inner).ServeHTTP(rec, httptest.NewRequest("GET", "/missing", nil))

			out := buf.String()
			if !strings.Contains(out, "status="+strconv.Itoa(tt.status)) {
				t.Errorf("expected status %d in log %q", tt.status, out)
			}
			if !strings.Contains(out, tt.level) {
				t.Errorf("expected %s in log %q", tt.level, out)
			}
		})
	}
}

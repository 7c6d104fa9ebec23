package api

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"starshunters-server/config"
	game "starshunters-server/src"
)

type fakeSource struct {
	status game.Status
	err    error
}

func (f fakeSource) Status(context.Context) (game.Status, error) {
	return f.status, f.err
}

func sampleStatus() game.Status {
	remaining := 42
	return game.Status{
		Timestamp:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Uptime:        90 * time.Second,
		Sessions:      3,
		AdminBound:    true,
		Players:       2,
		Stars:         8,
		Running:       true,
		RemainingTime: &remaining,
		Ticks:         17,
		Config:        game.Config{Width: 800, Height: 600, ScoreLimit: 3, TimeLimit: 60},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   int
		status string
	}{
		{"ok", nil, http.StatusOK, "ok"},
		{"stopped", game.ErrServerStopped, http.StatusServiceUnavailable, "down"},
		{"slow", context.DeadlineExceeded, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, NewAPIRouter(fakeSource{err: tc.err}), "/v1/health")
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d", rec.Code, tc.code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["status"] != tc.status {
				t.Fatalf("body = %v, want status %q", body, tc.status)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	r := NewAPIRouter(fakeSource{status: sampleStatus()})

	rec := get(t, r, "/v1/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var m MetricsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Health != HealthOk || m.ServerUptime != 90 {
		t.Fatalf("metrics = %+v", m)
	}
	if !m.Match.Running || m.Match.Players != 2 || m.Match.Stars != 8 || m.Match.Ticks != 17 {
		t.Fatalf("match metrics = %+v", m.Match)
	}
	if m.Match.RemainingTime == nil || *m.Match.RemainingTime != 42 {
		t.Fatalf("remaining time = %v", m.Match.RemainingTime)
	}
	if m.WebSocket.ActiveConnections != 3 || !m.WebSocket.AdminBound {
		t.Fatalf("websocket metrics = %+v", m.WebSocket)
	}

	rec = get(t, r, "/v1/metrics/match")
	var match MatchMetrics
	if err := json.Unmarshal(rec.Body.Bytes(), &match); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if match.Config.Width != 800 || match.Config.TimeLimit != 60 {
		t.Fatalf("match config = %+v", match.Config)
	}

	rec = get(t, NewAPIRouter(fakeSource{err: game.ErrServerStopped}), "/v1/metrics/websocket")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("stopped loop status = %d, want 503", rec.Code)
	}
}

func TestRouterServesStaticAndAPI(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>hi</p>"), 0o644); err != nil {
		t.Fatal(err)
	}
	gs := game.NewGameServer(game.Options{Logger: log.New(io.Discard, "", 0)})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gs.Run(ctx)

	cfg := config.ServerConfig{StaticDir: dir, AllowedOrigins: []string{"*"}}
	r := NewRouter(cfg, gs)

	rec := get(t, r, "/")
	if rec.Code != http.StatusOK || rec.Body.String() != "<p>hi</p>" {
		t.Fatalf("GET / = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, r, "/nope.js"); rec.Code != http.StatusNotFound {
		t.Fatalf("GET /nope.js = %d, want 404", rec.Code)
	}

	rec = get(t, r, "/api/v1/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/metrics = %d", rec.Code)
	}
	var m MetricsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Match.Running || m.Match.Config.Width != config.MinWidth {
		t.Fatalf("fresh server metrics = %+v", m.Match)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://example.com")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

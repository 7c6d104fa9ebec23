package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "GRPC_ADDR", "STATIC_DIR", "API_READ_TIMEOUT", "WS_MESSAGE_RATE", "WS_MESSAGE_BURST", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := LoadServerConfig()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != "" {
		t.Fatalf("GRPCAddr = %q, want empty", cfg.GRPCAddr)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("ReadTimeout = %s, want 15s", cfg.ReadTimeout)
	}
	if cfg.MessageRate != 50 || cfg.MessageBurst != 100 {
		t.Fatalf("rate = %g/%d, want 50/100", cfg.MessageRate, cfg.MessageBurst)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("AllowedOrigins = %v, want [*]", cfg.AllowedOrigins)
	}
}

func TestLoadServerConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("API_READ_TIMEOUT", "not-a-duration")
	t.Setenv("WS_MESSAGE_BURST", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg := LoadServerConfig()
	if cfg.HTTPAddr != ":9000" {
		t.Fatalf("HTTPAddr = %q, want :9000", cfg.HTTPAddr)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("invalid duration should fall back, got %s", cfg.ReadTimeout)
	}
	if cfg.MessageBurst != 7 {
		t.Fatalf("MessageBurst = %d, want 7", cfg.MessageBurst)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing env file should be ignored, got %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("STARS_TEST_KEY=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("STARS_TEST_KEY", "")
	os.Unsetenv("STARS_TEST_KEY")
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("STARS_TEST_KEY"); got != "from-file" {
		t.Fatalf("STARS_TEST_KEY = %q, want from-file", got)
	}
}

func TestArenaBounds(t *testing.T) {
	if MinWidth != 640 || MaxWidth != 1280 || MinHeight != 480 || MaxHeight != 960 {
		t.Fatalf("unexpected arena bounds %d..%d x %d..%d", MinWidth, MaxWidth, MinHeight, MaxHeight)
	}
	if ShipExtent < ShipSize {
		t.Fatalf("ShipExtent %d must cover ShipSize %d", ShipExtent, ShipSize)
	}
}

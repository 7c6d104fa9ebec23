package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds process settings loaded from environment variables.
type ServerConfig struct {
	HTTPAddr       string
	GRPCAddr       string
	StaticDir      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MessageRate    float64
	MessageBurst   int
	AllowedOrigins []string
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment. A missing
// file is not an error; variables already set in the environment win.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	log.Printf("Loaded environment variables from %s", path)
	return nil
}

// LoadServerConfig reads the server settings, falling back to defaults.
func LoadServerConfig() ServerConfig {
	return ServerConfig{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:       lookupEnv("GRPC_ADDR", ":8181"),
		StaticDir:      getEnv("STATIC_DIR", "./public"),
		ReadTimeout:    parseDuration(getEnv("API_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout:   parseDuration(getEnv("API_WRITE_TIMEOUT", "15s"), 15*time.Second),
		MessageRate:    parseFloat(getEnv("WS_MESSAGE_RATE", "50"), 50),
		MessageBurst:   parseInt(getEnv("WS_MESSAGE_BURST", "100"), 100),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// lookupEnv distinguishes an unset variable (default applies) from one set
// to the empty string (feature disabled).
func lookupEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("[WARN] invalid duration %q, using %s", s, def)
		return def
	}
	return d
}

func parseFloat(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		log.Printf("[WARN] invalid rate %q, using %g", s, def)
		return def
	}
	return f
}

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Printf("[WARN] invalid integer %q, using %d", s, def)
		return def
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

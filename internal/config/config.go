// Package config loads process configuration from the environment. A .env
// file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	// Addr is the listen address for the HTTP/WebSocket server.
	Addr string
	// Env selects the logger flavor: "dev" or "prod".
	Env string
	// OutboxSize is the per-connection outbound event buffer. Events beyond
	// it are dropped rather than blocking the engine.
	OutboxSize int
	// MaxMessageBytes caps a single inbound WebSocket frame.
	MaxMessageBytes int64
}

const (
	defaultAddr            = ":8080"
	defaultEnv             = "dev"
	defaultOutboxSize      = 32
	defaultMaxMessageBytes = 64 * 1024
)

func Load() (Config, error) {
	// Missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	cfg := Config{
		Addr:            envOr("RELAY_ADDR", defaultAddr),
		Env:             envOr("RELAY_ENV", defaultEnv),
		OutboxSize:      defaultOutboxSize,
		MaxMessageBytes: defaultMaxMessageBytes,
	}

	if cfg.Env != "dev" && cfg.Env != "prod" {
		return Config{}, fmt.Errorf("RELAY_ENV must be dev or prod, got %q", cfg.Env)
	}

	if v := os.Getenv("RELAY_OUTBOX_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid RELAY_OUTBOX_SIZE %q", v)
		}
		cfg.OutboxSize = n
	}

	if v := os.Getenv("RELAY_MAX_MESSAGE_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid RELAY_MAX_MESSAGE_BYTES %q", v)
		}
		cfg.MaxMessageBytes = n
	}

	return cfg, nil
}

// NewLogger builds the process logger for the configured environment.
func NewLogger(cfg Config) (*zap.Logger, error) {
	if cfg.Env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

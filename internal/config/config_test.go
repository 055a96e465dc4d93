package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RELAY_ADDR", "")
	t.Setenv("RELAY_ENV", "")
	t.Setenv("RELAY_OUTBOX_SIZE", "")
	t.Setenv("RELAY_MAX_MESSAGE_BYTES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 32, cfg.OutboxSize)
	assert.Equal(t, int64(64*1024), cfg.MaxMessageBytes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RELAY_ADDR", "127.0.0.1:9000")
	t.Setenv("RELAY_ENV", "prod")
	t.Setenv("RELAY_OUTBOX_SIZE", "64")
	t.Setenv("RELAY_MAX_MESSAGE_BYTES", "4096")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, 64, cfg.OutboxSize)
	assert.Equal(t, int64(4096), cfg.MaxMessageBytes)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("RELAY_ENV", "staging")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("RELAY_ENV", "dev")
	t.Setenv("RELAY_OUTBOX_SIZE", "zero")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("RELAY_OUTBOX_SIZE", "-1")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("RELAY_OUTBOX_SIZE", "8")
	t.Setenv("RELAY_MAX_MESSAGE_BYTES", "0")
	_, err = Load()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"dev", "prod"} {
		log, err := NewLogger(Config{Env: env})
		require.NoError(t, err)
		require.NotNil(t, log)
	}
}

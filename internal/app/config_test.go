package app

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "s3cret")
	t.Setenv("APP_ENV", "staging")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":3333", cfg.AppAddr)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "   ")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("TOKEN_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "-1h")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("LOG_LEVEL", "chatty")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestNewLoggerHonoursLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogFormat: "json", LogLevel: "warn"})

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown", slog.String("k", "v"))
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestInTestMode(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	assert.True(t, InTestMode())

	t.Setenv(testModeEnv, "0")
	assert.False(t, InTestMode())
}

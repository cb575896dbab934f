package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.OtpTTL)
	assert.Equal(t, 5, cfg.OtpMaxAttempts)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "dinein.notifications", cfg.NotifyExchange)
	assert.Equal(t, 256, cfg.NotifyQueueSize)
	assert.Equal(t, 3*time.Second, cfg.NotifyTimeout)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dinein.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: \"9000\"\nOTP_TTL: 2m\nJWT_SECRET: from-file\n"), 0o600))
	t.Setenv("PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.OtpTTL)
	assert.Equal(t, "from-file", cfg.JWTSecret)
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	_, err := OpenDB("oracle", "dsn")
	assert.Error(t, err)
}

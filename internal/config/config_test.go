package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_LOCALE", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("DB_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "id-ID", cfg.AppLocale)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.DBEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_LOCALE", "en-US")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("WORKER_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "en-US", cfg.AppLocale)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, 8, cfg.WorkerConcurrency)
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("SESSION_TTL", "-5m")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{DBUsername: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBDatabase: "d"}
	assert.Equal(t, "u:p@tcp(h:3306)/d?parseTime=true&loc=Local", cfg.GetDSN())
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "http://localhost:8080", cfg.AppBaseURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.ReminderDedupTTL)
	assert.Empty(t, cfg.BotAPISecret)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BOT_API_SECRET", "s3cret")
	t.Setenv("APP_BASE_URL", "https://api.mettly.app")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "s3cret", cfg.BotAPISecret)
	assert.Equal(t, "https://api.mettly.app", cfg.AppBaseURL)
}

func TestDedupTTLParsing(t *testing.T) {
	t.Setenv("REMINDER_DEDUP_TTL", "90m")
	assert.Equal(t, 90*time.Minute, Load().ReminderDedupTTL)

	// bare integers are minutes
	t.Setenv("REMINDER_DEDUP_TTL", "45")
	assert.Equal(t, 45*time.Minute, Load().ReminderDedupTTL)

	t.Setenv("REMINDER_DEDUP_TTL", "junk")
	assert.Equal(t, 24*time.Hour, Load().ReminderDedupTTL)
}

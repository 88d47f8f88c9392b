package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the .env lookups at an empty directory.
func isolate(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"BOT_TOKEN", "ADMIN_TELEGRAM_ID", "ESTATE_DB_PATH", "REDIS_ADDR", "REDIS_PASS", "REDIS_DB",
		"SESSION_TTL", "REMINDER_SCHEDULE", "REMINDER_DAYS_BEFORE", "PAYMENT_BANK", "PAYMENT_CARD",
		"PAYMENT_RECIPIENT", "DEFAULT_CURRENCY", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "estate.db", cfg.Database.Path)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "0 10 * * *", cfg.Reminder.Schedule)
	assert.Equal(t, 7, cfg.Reminder.DaysBefore)
	assert.Equal(t, "uzs", cfg.Currency)
	assert.Equal(t, "estate-bot.log", cfg.LogFile)
	assert.Empty(t, cfg.Redis.Addr)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
	assert.Contains(t, err.Error(), "ADMIN_TELEGRAM_ID")
}

func TestLoad_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("BOT_TOKEN", " 123:abc ")
	t.Setenv("ADMIN_TELEGRAM_ID", "555")
	t.Setenv("ESTATE_DB_PATH", "/var/lib/estate/bot.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("REMINDER_DAYS_BEFORE", "3")
	t.Setenv("PAYMENT_CARD", "8600 0000 0000 0000")
	t.Setenv("DEFAULT_CURRENCY", "USD")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, int64(555), cfg.Bot.AdminID)
	assert.Equal(t, "/var/lib/estate/bot.db", cfg.Database.Path)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 3, cfg.Reminder.DaysBefore)
	assert.Equal(t, "8600 0000 0000 0000", cfg.Payment.Card)
	assert.Equal(t, "usd", cfg.Currency)
}

func TestLoad_InvalidTTLFallsBack(t *testing.T) {
	isolate(t)
	t.Setenv("SESSION_TTL", "forever")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
}

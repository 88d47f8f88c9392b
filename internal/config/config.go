package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	AppName     = "estate-bot"
	EnvFileName = "config.env"
)

type Config struct {
	Bot      BotConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Reminder ReminderConfig
	Payment  PaymentConfig
	Currency string
	LogFile  string
}

type BotConfig struct {
	Token   string
	AdminID int64
}

type DatabaseConfig struct {
	Path string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

type SessionConfig struct {
	TTL time.Duration
}

type ReminderConfig struct {
	Schedule   string
	DaysBefore int
}

// PaymentConfig holds the bank details shown in payment instructions.
type PaymentConfig struct {
	Bank      string
	Card      string
	Recipient string
}

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// Load reads configuration from .env, the user config file and environment
// variables. Variables already set in the environment win.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()
	LoadEnvFile()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ESTATE_DB_PATH", "estate.db")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("REMINDER_SCHEDULE", "0 10 * * *")
	v.SetDefault("REMINDER_DAYS_BEFORE", 7)
	v.SetDefault("DEFAULT_CURRENCY", "uzs")
	v.SetDefault("LOG_FILE", AppName+".log")

	ttl, err := time.ParseDuration(v.GetString("SESSION_TTL"))
	if err != nil || ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	cfg := &Config{
		Bot: BotConfig{
			Token:   strings.TrimSpace(v.GetString("BOT_TOKEN")),
			AdminID: v.GetInt64("ADMIN_TELEGRAM_ID"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("ESTATE_DB_PATH"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("REDIS_ADDR"),
			Pass: v.GetString("REDIS_PASS"),
			DB:   v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			TTL: ttl,
		},
		Reminder: ReminderConfig{
			Schedule:   v.GetString("REMINDER_SCHEDULE"),
			DaysBefore: v.GetInt("REMINDER_DAYS_BEFORE"),
		},
		Payment: PaymentConfig{
			Bank:      v.GetString("PAYMENT_BANK"),
			Card:      v.GetString("PAYMENT_CARD"),
			Recipient: v.GetString("PAYMENT_RECIPIENT"),
		},
		Currency: strings.ToLower(v.GetString("DEFAULT_CURRENCY")),
		LogFile:  v.GetString("LOG_FILE"),
	}
	return cfg, nil
}

// Validate reports every missing required setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Bot.Token == "" {
		errs = append(errs, errors.New("BOT_TOKEN is required"))
	}
	if c.Bot.AdminID == 0 {
		errs = append(errs, errors.New("ADMIN_TELEGRAM_ID is required"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("ESTATE_DB_PATH must not be empty"))
	}
	if c.Reminder.DaysBefore <= 0 {
		errs = append(errs, errors.New("REMINDER_DAYS_BEFORE must be positive"))
	}
	return errors.Join(errs...)
}

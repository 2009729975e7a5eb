package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Store drivers
const (
	DriverPostgres   = "postgres"
	DriverClickHouse = "clickhouse"
)

// Config holds the application configuration
type Config struct {
	Environment   string `env:"ENVIRONMENT" envDefault:"dev"`
	Port          string `env:"PORT" envDefault:"8080"`
	DefaultUserID string `env:"KATALOG_USER_ID"`

	// Store selection
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	UseMockDB   bool   `env:"USE_MOCK_DB"`

	// Supabase Postgres configuration
	SupabaseURL      string `env:"SUPABASE_DB_URL"`
	SupabasePassword string `env:"SUPABASE_DB_PASSWORD"`

	// ClickHouse configuration
	ClickHouseHost     string `env:"CLICKHOUSE_HOST"`
	ClickHousePort     int    `env:"CLICKHOUSE_PORT" envDefault:"9000"`
	ClickHouseDatabase string `env:"CLICKHOUSE_DATABASE" envDefault:"default"`
	ClickHouseUser     string `env:"CLICKHOUSE_USER" envDefault:"default"`
	ClickHousePassword string `env:"CLICKHOUSE_PASSWORD"`
	ClickHouseUseTLS   bool   `env:"CLICKHOUSE_USE_TLS"`

	// Feed windows
	FeedLimit        int `env:"FEED_LIMIT" envDefault:"2000"`
	FeedMessageLimit int `env:"FEED_MESSAGE_LIMIT" envDefault:"10"`

	// Telegram bot, disabled when the token is empty
	TelegramToken  string  `env:"TELEGRAM_BOT_TOKEN"`
	AllowedUserIDs []int64 `env:"-"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

// rawEnv holds values that need custom parsing
type rawEnv struct {
	AllowedUserIDs string `env:"ALLOWED_USER_IDS"`
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := config.validate(raw); err != nil {
		return nil, err
	}
	return config, nil
}

// Production reports whether the app runs against the production tables
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// BotEnabled reports whether a Telegram token was configured
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func (c *Config) validate(raw rawEnv) error {
	if c.FeedLimit <= 0 {
		return fmt.Errorf("FEED_LIMIT must be positive, got %d", c.FeedLimit)
	}
	if c.FeedMessageLimit <= 0 {
		return fmt.Errorf("FEED_MESSAGE_LIMIT must be positive, got %d", c.FeedMessageLimit)
	}

	cleaned := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			cleaned = append(cleaned, origin)
		}
	}
	c.AllowedOrigins = cleaned

	// Allowed User IDs (required with the bot)
	if c.BotEnabled() {
		if raw.AllowedUserIDs == "" {
			return fmt.Errorf("ALLOWED_USER_IDS is required when TELEGRAM_BOT_TOKEN is set (comma-separated list of Telegram user IDs)")
		}
		for _, idStr := range strings.Split(raw.AllowedUserIDs, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user ID in ALLOWED_USER_IDS: %s", idStr)
			}
			c.AllowedUserIDs = append(c.AllowedUserIDs, id)
		}
	}

	// Store settings are not needed with the mock
	if c.UseMockDB {
		return nil
	}

	switch c.StoreDriver {
	case DriverPostgres:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_DB_URL is required when STORE_DRIVER is %s", DriverPostgres)
		}
	case DriverClickHouse:
		if c.ClickHouseHost == "" {
			return fmt.Errorf("CLICKHOUSE_HOST is required when STORE_DRIVER is %s", DriverClickHouse)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.StoreDriver, DriverPostgres, DriverClickHouse)
	}
	return nil
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("USE_MOCK_DB", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Environment)
	assert.False(t, cfg.Production())
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 9000, cfg.ClickHousePort)
	assert.Equal(t, "default", cfg.ClickHouseDatabase)
	assert.Equal(t, 2000, cfg.FeedLimit)
	assert.Equal(t, 10, cfg.FeedMessageLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.False(t, cfg.BotEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "postgres",
			env: map[string]string{
				"ENVIRONMENT":     "production",
				"SUPABASE_DB_URL": "postgres://db.example.supabase.co:5432/postgres",
				"KATALOG_USER_ID": "42",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Production())
				assert.Equal(t, "42", cfg.DefaultUserID)
			},
		},
		{
			name:    "postgres without url",
			env:     map[string]string{},
			wantErr: "SUPABASE_DB_URL is required",
		},
		{
			name: "clickhouse",
			env: map[string]string{
				"STORE_DRIVER":       "clickhouse",
				"CLICKHOUSE_HOST":    "localhost",
				"CLICKHOUSE_PORT":    "19000",
				"CLICKHOUSE_USE_TLS": "true",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 19000, cfg.ClickHousePort)
				assert.True(t, cfg.ClickHouseUseTLS)
			},
		},
		{
			name:    "clickhouse without host",
			env:     map[string]string{"STORE_DRIVER": "clickhouse"},
			wantErr: "CLICKHOUSE_HOST is required",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"STORE_DRIVER": "sqlite"},
			wantErr: "unknown STORE_DRIVER",
		},
		{
			name:    "invalid port",
			env:     map[string]string{"USE_MOCK_DB": "true", "CLICKHOUSE_PORT": "nine"},
			wantErr: "failed to parse environment",
		},
		{
			name: "bot with allowed users",
			env: map[string]string{
				"USE_MOCK_DB":        "true",
				"TELEGRAM_BOT_TOKEN": "token",
				"ALLOWED_USER_IDS":   "1, 2,3",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.BotEnabled())
				assert.Equal(t, []int64{1, 2, 3}, cfg.AllowedUserIDs)
			},
		},
		{
			name:    "bot without allowed users",
			env:     map[string]string{"USE_MOCK_DB": "true", "TELEGRAM_BOT_TOKEN": "token"},
			wantErr: "ALLOWED_USER_IDS is required",
		},
		{
			name:    "bot with invalid user id",
			env:     map[string]string{"USE_MOCK_DB": "true", "TELEGRAM_BOT_TOKEN": "token", "ALLOWED_USER_IDS": "1,abc"},
			wantErr: "invalid user ID",
		},
		{
			name:    "non-positive feed limit",
			env:     map[string]string{"USE_MOCK_DB": "true", "FEED_LIMIT": "0"},
			wantErr: "FEED_LIMIT must be positive",
		},
		{
			name: "cors origins",
			env: map[string]string{
				"USE_MOCK_DB":          "true",
				"CORS_ALLOWED_ORIGINS": "https://katalog.example, http://localhost:5173,",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"https://katalog.example", "http://localhost:5173"}, cfg.AllowedOrigins)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for key, value := range tc.env {
				t.Setenv(key, value)
			}

			cfg, err := LoadFromEnv()
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("PAGE_SIZE", "not-a-number")
	t.Setenv("LOG_PRETTY", "false")

	cfg := FromEnv()
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 5, cfg.RelatedLimit)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "breakdown:", cfg.RedisPrefix)
	assert.False(t, cfg.LogPretty)
	assert.NotEmpty(t, cfg.SQLitePath)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "supabase")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("TIMEZONE", "America/New_York")
	t.Setenv("FEED_SESSION_TTL", "5m")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.FeedSessionTTL)
	assert.Equal(t, "America/New_York", cfg.Location().String())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StoreDriver:    DriverFile,
			DataPath:       "./data",
			PageSize:       20,
			RelatedLimit:   5,
			MaxPageSize:    100,
			RequestTimeout: time.Second,
			Timezone:       "UTC",
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown driver", func(c *Config) { c.StoreDriver = "mongo" }, "unknown STORE_DRIVER"},
		{"supabase without url", func(c *Config) { c.StoreDriver = DriverSupabase; c.SupabaseAnonKey = "k" }, "SUPABASE_URL"},
		{"supabase without key", func(c *Config) { c.StoreDriver = DriverSupabase; c.SupabaseURL = "u" }, "SUPABASE_ANON_KEY"},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, "PAGE_SIZE must be positive"},
		{"page above max", func(c *Config) { c.PageSize = 500 }, "exceeds MAX_PAGE_SIZE"},
		{"bad zone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "unknown TIMEZONE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

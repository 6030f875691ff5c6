package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Host: "localhost", Name: "simorgh"},
		Server:   ServerConfig{Port: 8080},
		Mailer:   MailerConfig{Provider: "mock"},
		Dispatch: DispatchConfig{
			Interval:   2 * time.Minute,
			GapMinutes: []int{2, 3},
		},
	}
}

func TestValidateConfig(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, ValidateConfig(validTestConfig()))
	})

	t.Run("MissingDatabaseName", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Database.Name = ""
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database name")
	})

	t.Run("InvalidServerPort", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Server.Port = 70000
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server port")
	})

	t.Run("UnknownMailerProvider", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Mailer.Provider = "pigeon"
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mailer provider")
	})

	t.Run("SMTPProviderNeedsHost", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Mailer.Provider = "smtp"
		cfg.Mailer.SMTPHost = ""
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "smtp host")
	})

	t.Run("NonPositiveInterval", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Dispatch.Interval = 0
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dispatch interval")
	})

	t.Run("EmptyGapMinutes", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Dispatch.GapMinutes = nil
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gap minutes")
	})

	t.Run("NegativeGapMinutes", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Dispatch.GapMinutes = []int{2, -1}
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})
}

func TestEnvHelpers(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		t.Setenv("TEST_STRING", "value")
		assert.Equal(t, "value", getEnvString("TEST_STRING", "default"))
		assert.Equal(t, "default", getEnvString("TEST_STRING_MISSING", "default"))
	})

	t.Run("Int", func(t *testing.T) {
		t.Setenv("TEST_INT", "42")
		assert.Equal(t, 42, getEnvInt("TEST_INT", 7))

		t.Setenv("TEST_INT_BAD", "not-a-number")
		assert.Equal(t, 7, getEnvInt("TEST_INT_BAD", 7))
	})

	t.Run("Bool", func(t *testing.T) {
		t.Setenv("TEST_BOOL", "true")
		assert.True(t, getEnvBool("TEST_BOOL", false))

		t.Setenv("TEST_BOOL_BAD", "yeah")
		assert.True(t, getEnvBool("TEST_BOOL_BAD", true))
	})

	t.Run("Duration", func(t *testing.T) {
		t.Setenv("TEST_DURATION", "90s")
		assert.Equal(t, 90*time.Second, getEnvDuration("TEST_DURATION", time.Minute))

		t.Setenv("TEST_DURATION_BAD", "soon")
		assert.Equal(t, time.Minute, getEnvDuration("TEST_DURATION_BAD", time.Minute))
	})

	t.Run("IntSlice", func(t *testing.T) {
		t.Setenv("TEST_SLICE", "1, 2,3")
		assert.Equal(t, []int{1, 2, 3}, getEnvIntSlice("TEST_SLICE", []int{9}))

		t.Setenv("TEST_SLICE_BAD", "1,x,3")
		assert.Equal(t, []int{9}, getEnvIntSlice("TEST_SLICE_BAD", []int{9}))

		t.Setenv("TEST_SLICE_EMPTY", " , ")
		assert.Equal(t, []int{9}, getEnvIntSlice("TEST_SLICE_EMPTY", []int{9}))
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "simorgh", cfg.Database.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mock", cfg.Mailer.Provider)
	assert.Equal(t, 2*time.Minute, cfg.Dispatch.Interval)
	assert.Equal(t, []int{2, 3}, cfg.Dispatch.GapMinutes)
	assert.Equal(t, 30*time.Second, cfg.Cache.StatsTTL)
}

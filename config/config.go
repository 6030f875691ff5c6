// Package config provides configuration management and environment variable handling for the application
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the service
type Config struct {
	Database DatabaseConfig `json:"database"`
	Server   ServerConfig   `json:"server"`
	Mailer   MailerConfig   `json:"mailer"`
	Dispatch DispatchConfig `json:"dispatch"`
	Cache    CacheConfig    `json:"cache"`
}

type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
}

type ServerConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	BodyLimit       int           `json:"body_limit"`
	EnableMetrics   bool          `json:"enable_metrics"`
}

// MailerConfig selects and configures the outbound mail provider
type MailerConfig struct {
	Provider     string `json:"provider"` // mock, smtp, ses
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUsername string `json:"smtp_username"`
	SMTPPassword string `json:"smtp_password"`
	SESRegion    string `json:"ses_region"`
}

// DispatchConfig controls the campaign dispatch scheduler
type DispatchConfig struct {
	Enabled       bool          `json:"enabled"`
	Interval      time.Duration `json:"interval"`
	SendTimeout   time.Duration `json:"send_timeout"`
	StoreTimeout  time.Duration `json:"store_timeout"`
	GapMinutes    []int         `json:"gap_minutes"`
	SkipSaturated bool          `json:"skip_saturated"`
	LogFile       string        `json:"log_file"`
	LogMaxSizeMB  int           `json:"log_max_size_mb"`
	LogMaxBackups int           `json:"log_max_backups"`
	LogMaxAgeDays int           `json:"log_max_age_days"`
}

type CacheConfig struct {
	Host     string        `json:"host"`
	Port     int           `json:"port"`
	Password string        `json:"password"`
	DB       int           `json:"db"`
	StatsTTL time.Duration `json:"stats_ttl"`
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:            getEnvString("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnvString("DB_NAME", "simorgh"),
			User:            getEnvString("DB_USER", "postgres"),
			Password:        getEnvString("DB_PASSWORD", ""),
			SSLMode:         getEnvString("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
		},
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			BodyLimit:       getEnvInt("SERVER_BODY_LIMIT", 4*1024*1024), // 4MB
			EnableMetrics:   getEnvBool("SERVER_ENABLE_METRICS", true),
		},
		Mailer: MailerConfig{
			Provider:     getEnvString("MAILER_PROVIDER", "mock"),
			SMTPHost:     getEnvString("MAILER_SMTP_HOST", "localhost"),
			SMTPPort:     getEnvInt("MAILER_SMTP_PORT", 587),
			SMTPUsername: getEnvString("MAILER_SMTP_USERNAME", ""),
			SMTPPassword: getEnvString("MAILER_SMTP_PASSWORD", ""),
			SESRegion:    getEnvString("MAILER_SES_REGION", "us-east-1"),
		},
		Dispatch: DispatchConfig{
			Enabled:       getEnvBool("DISPATCH_ENABLED", true),
			Interval:      getEnvDuration("DISPATCH_INTERVAL", 2*time.Minute),
			SendTimeout:   getEnvDuration("DISPATCH_SEND_TIMEOUT", 30*time.Second),
			StoreTimeout:  getEnvDuration("DISPATCH_STORE_TIMEOUT", 10*time.Second),
			GapMinutes:    getEnvIntSlice("DISPATCH_GAP_MINUTES", []int{2, 3}),
			SkipSaturated: getEnvBool("DISPATCH_SKIP_SATURATED", false),
			LogFile:       getEnvString("DISPATCH_LOG_FILE", "data/dispatcher.log"),
			LogMaxSizeMB:  getEnvInt("DISPATCH_LOG_MAX_SIZE_MB", 50),
			LogMaxBackups: getEnvInt("DISPATCH_LOG_MAX_BACKUPS", 5),
			LogMaxAgeDays: getEnvInt("DISPATCH_LOG_MAX_AGE_DAYS", 30),
		},
		Cache: CacheConfig{
			Host:     getEnvString("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			StatsTTL: getEnvDuration("CACHE_STATS_TTL", 30*time.Second),
		},
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateConfig validates the loaded configuration
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.Database.Host == "" {
		errs = append(errs, "database host is required")
	}
	if cfg.Database.Name == "" {
		errs = append(errs, "database name is required")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid server port: %d", cfg.Server.Port))
	}

	switch cfg.Mailer.Provider {
	case "mock", "ses":
	case "smtp":
		if cfg.Mailer.SMTPHost == "" {
			errs = append(errs, "smtp host is required for the smtp mailer")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown mailer provider: %s", cfg.Mailer.Provider))
	}

	if cfg.Dispatch.Interval <= 0 {
		errs = append(errs, "dispatch interval must be positive")
	}
	if len(cfg.Dispatch.GapMinutes) == 0 {
		errs = append(errs, "dispatch gap minutes must not be empty")
	}
	for _, m := range cfg.Dispatch.GapMinutes {
		if m <= 0 {
			errs = append(errs, fmt.Sprintf("dispatch gap minutes must be positive, got %d", m))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// loadEnvFile loads variables from a .env file if present, without
// overriding values already set in the environment
func loadEnvFile() error {
	file, err := os.Open(".env")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if (strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) ||
			(strings.HasPrefix(value, `'`) && strings.HasSuffix(value, `'`)) {
			value = value[1 : len(value)-1]
		}

		// Set environment variable if not already set
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvIntSlice(key string, defaultValue []int) []int {
	if value := os.Getenv(key); value != "" {
		var result []int
		for _, item := range strings.Split(value, ",") {
			trimmed := strings.TrimSpace(item)
			if trimmed == "" {
				continue
			}
			parsed, err := strconv.Atoi(trimmed)
			if err != nil {
				return defaultValue
			}
			result = append(result, parsed)
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

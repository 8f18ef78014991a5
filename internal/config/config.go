package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	SMSAPIKey         string `mapstructure:"SMS_API_KEY"`
	SMSSender         string `mapstructure:"SMS_SENDER"`
	SMSBaseURL        string `mapstructure:"SMS_BASE_URL"`
	SMSTimeoutSeconds int    `mapstructure:"SMS_TIMEOUT_SECONDS"`

	AvatarDir string `mapstructure:"AVATAR_DIR"`

	LoginMaxAttempts int `mapstructure:"LOGIN_MAX_ATTEMPTS"`
	LoginLockSeconds int `mapstructure:"LOGIN_LOCK_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SMS_TIMEOUT_SECONDS", 10)
	v.SetDefault("AVATAR_DIR", "./uploads/avatars")
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 3)
	v.SetDefault("LOGIN_LOCK_SECONDS", 30)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("SMS_API_KEY")
	v.BindEnv("SMS_SENDER")
	v.BindEnv("SMS_BASE_URL")
	v.BindEnv("SMS_TIMEOUT_SECONDS")
	v.BindEnv("AVATAR_DIR")
	v.BindEnv("LOGIN_MAX_ATTEMPTS")
	v.BindEnv("LOGIN_LOCK_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SMSTimeout returns the per-send gateway timeout.
func (c *Config) SMSTimeout() time.Duration {
	return time.Duration(c.SMSTimeoutSeconds) * time.Second
}

// LockDuration returns the login lockout window.
func (c *Config) LockDuration() time.Duration {
	return time.Duration(c.LoginLockSeconds) * time.Second
}

// Validate checks that settings required for SMS dispatch are present when a
// gateway base URL is configured.
func (c *Config) Validate() error {
	if c.SMSBaseURL != "" && c.SMSAPIKey == "" {
		return fmt.Errorf("SMS_API_KEY is required when SMS_BASE_URL is set")
	}
	if c.LoginMaxAttempts < 1 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be at least 1, got %d", c.LoginMaxAttempts)
	}
	if c.LoginLockSeconds < 1 {
		return fmt.Errorf("LOGIN_LOCK_SECONDS must be at least 1, got %d", c.LoginLockSeconds)
	}
	return nil
}

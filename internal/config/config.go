// Package config loads client and gateway settings from an optional .env
// file, MPESA_* environment variables and an optional YAML or JSON file.
// Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dvcrn/mpesa-go/internal/urls"
)

const (
	envPrefix = "MPESA"
	// EnvFileVar names an alternative .env file
	EnvFileVar = "MPESA_ENV_FILE"

	DefaultStaleTokenCode = "404.001.03"
	DefaultServerPort     = 9879
)

type Config struct {
	Environment    string
	APIVersion     string
	BaseURL        string
	Timeout        time.Duration
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	StaleTokenCode string
	GrantType      string
	CredsPath      string
	LogLevel       string
	ServerPort     int
	AdminAPIKey    string
}

func defaults(v *viper.Viper) {
	v.SetDefault("environment", string(urls.Sandbox))
	v.SetDefault("api_version", urls.DefaultVersion)
	v.SetDefault("base_url", "")
	v.SetDefault("timeout_seconds", 0)
	v.SetDefault("consumer_key", "")
	v.SetDefault("consumer_secret", "")
	v.SetDefault("access_token", "")
	v.SetDefault("stale_token_code", DefaultStaleTokenCode)
	v.SetDefault("grant_type", "client_credentials")
	v.SetDefault("creds_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("server_port", DefaultServerPort)
	v.SetDefault("admin_api_key", "")
}

// Load reads configuration. path may be empty; a missing .env is not an error.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Environment:    v.GetString("environment"),
		APIVersion:     v.GetString("api_version"),
		BaseURL:        v.GetString("base_url"),
		Timeout:        time.Duration(v.GetInt("timeout_seconds")) * time.Second,
		ConsumerKey:    v.GetString("consumer_key"),
		ConsumerSecret: v.GetString("consumer_secret"),
		AccessToken:    v.GetString("access_token"),
		StaleTokenCode: v.GetString("stale_token_code"),
		GrantType:      v.GetString("grant_type"),
		CredsPath:      v.GetString("creds_path"),
		LogLevel:       v.GetString("log_level"),
		ServerPort:     v.GetInt("server_port"),
		AdminAPIKey:    v.GetString("admin_api_key"),
	}
	return cfg, nil
}

func loadDotEnv() error {
	if p := os.Getenv(EnvFileVar); p != "" {
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", p, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return fmt.Errorf("failed to load .env: %w", err)
		}
	}
	return nil
}

// Validate checks the settings needed to build a client. Consumer
// credentials may also come from a credentials file, so only a known
// environment is required here.
func (c *Config) Validate() error {
	switch urls.Environment(c.Environment) {
	case urls.Sandbox, urls.Production:
	default:
		return fmt.Errorf("%w: %q", urls.ErrUnknownEnvironment, c.Environment)
	}
	if c.Timeout < 0 {
		return errors.New("timeout_seconds must not be negative")
	}
	if (c.ConsumerKey == "") != (c.ConsumerSecret == "") {
		return errors.New("consumer_key and consumer_secret must be set together")
	}
	return nil
}

// HasConsumerCredentials reports whether key and secret were configured directly
func (c *Config) HasConsumerCredentials() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != ""
}

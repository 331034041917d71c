package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	API     APIConfig     `mapstructure:"api"`
	Store   StoreConfig   `mapstructure:"store"`
	Session SessionConfig `mapstructure:"session"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Host string    `mapstructure:"host"`
	Port string    `mapstructure:"port"`
	TLS  TLSConfig `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// APIConfig describes how to reach the remote content API.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	MaxRetries   int           `mapstructure:"max_retries"`
	LoginPath    string        `mapstructure:"login_path"`
	SignupPath   string        `mapstructure:"signup_path"`
}

// StoreConfig holds the location of the durable token store.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// SessionConfig controls the client session and flash cookies.
type SessionConfig struct {
	DiscardExpired bool          `mapstructure:"discard_expired"`
	FlashLifetime  time.Duration `mapstructure:"flash_lifetime"`
}

// CacheConfig holds the in-memory response cache configuration.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "3000")
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.retry_backoff", "250ms")
	v.SetDefault("api.max_retries", 1)
	v.SetDefault("api.login_path", "/api/auth/login")
	v.SetDefault("api.signup_path", "/api/auth/signup")
	v.SetDefault("store.path", "femilyship.db")
	v.SetDefault("session.discard_expired", true)
	v.SetDefault("session.flash_lifetime", "10m")
	v.SetDefault("cache.ttl", "15s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Set up viper to read from config file
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("$HOME/.femilyship")

	// Attempt to read the config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
		// Config file not found; proceed with defaults and env vars
	}

	// Set up viper to read from environment variables
	v.SetEnvPrefix("FEMILY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	return &cfg, nil
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Upstream UpstreamConfig `json:"upstream"`
	Session  SessionConfig  `json:"session"`
	Catalog  CatalogConfig  `json:"catalog"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port" validate:"min=1,max=65535"`
}

// UpstreamConfig points at the AlumniLink core API
type UpstreamConfig struct {
	BaseURL        string        `json:"base_url" validate:"required,url"`
	RequestTimeout time.Duration `json:"request_timeout"`
	SubmitTimeout  time.Duration `json:"submit_timeout"`
}

// SessionConfig controls wizard session lifetime and tokens
type SessionConfig struct {
	TTL       time.Duration `json:"ttl"`
	JWTSecret string        `json:"jwt_secret" validate:"required,min=16"`
}

// CatalogConfig controls the dropdown catalog cache
type CatalogConfig struct {
	RefreshSpec string        `json:"refresh_spec"`
	CacheTTL    time.Duration `json:"cache_ttl"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Upstream: UpstreamConfig{
			RequestTimeout: 10 * time.Second,
			SubmitTimeout:  30 * time.Second,
		},
		Session: SessionConfig{
			TTL: 30 * time.Minute,
		},
		Catalog: CatalogConfig{
			RefreshSpec: "@every 5m",
			CacheTTL:    time.Hour,
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if baseURL := os.Getenv("UPSTREAM_BASE_URL"); baseURL != "" {
		config.Upstream.BaseURL = baseURL
	}
	if timeout := os.Getenv("UPSTREAM_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Upstream.RequestTimeout = d
		}
	}
	if timeout := os.Getenv("UPSTREAM_SUBMIT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Upstream.SubmitTimeout = d
		}
	}
	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.Session.TTL = d
		}
	}
	if secret := os.Getenv("SESSION_JWT_SECRET"); secret != "" {
		config.Session.JWTSecret = secret
	}
	if spec := os.Getenv("CATALOG_REFRESH_SPEC"); spec != "" {
		config.Catalog.RefreshSpec = spec
	}
	if ttl := os.Getenv("CATALOG_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.Catalog.CacheTTL = d
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

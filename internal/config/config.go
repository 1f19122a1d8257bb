// Package config loads process configuration from defaults, an optional YAML
// file and MINDGAMES_ environment variables.
package config

import (
	"strings"
	"time"
)

// Config contains process configuration. Keys are flat so env names map 1:1.
type Config struct {
	Addr    string `koanf:"addr"`
	LogMode string `koanf:"log_mode"`

	DBHost         string `koanf:"db_host"`
	DBPort         string `koanf:"db_port"`
	DBUser         string `koanf:"db_user"`
	DBPassword     string `koanf:"db_password"`
	DBName         string `koanf:"db_name"`
	DBSSLMode      string `koanf:"db_sslmode"`
	DBMaxOpenConns int    `koanf:"db_max_open_conns"`
	DBMaxIdleConns int    `koanf:"db_max_idle_conns"`

	JWTSecret         string `koanf:"jwt_secret"`
	TokenTTLHours     int    `koanf:"token_ttl_hours"`
	SessionTTLMinutes int    `koanf:"session_ttl_minutes"`
	CookieSecure      bool   `koanf:"cookie_secure"`

	// RedisAddr selects the Redis session store when set; otherwise sessions
	// live in process memory.
	RedisAddr string `koanf:"redis_addr"`

	// CORSOrigins is a comma separated list.
	CORSOrigins string `koanf:"cors_origins"`

	CoachEnabled    bool   `koanf:"coach_enabled"`
	CoachMock       bool   `koanf:"coach_mock"` // canned tips, no API calls
	AnthropicAPIKey string `koanf:"anthropic_api_key"`
	AnthropicModel  string `koanf:"anthropic_model"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:              ":8080",
		LogMode:           "dev",
		DBHost:            "localhost",
		DBPort:            "5432",
		DBUser:            "mindgames",
		DBPassword:        "mindgames",
		DBName:            "mindgames",
		DBSSLMode:         "disable",
		DBMaxOpenConns:    25,
		DBMaxIdleConns:    5,
		TokenTTLHours:     72,
		SessionTTLMinutes: 720,
		CORSOrigins:       "*",
		AnthropicModel:    "claude-sonnet-4-5",
	}
}

// DSN renders the lib/pq connection string.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=" + c.DBSSLMode
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Origins splits CORSOrigins, dropping blanks.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

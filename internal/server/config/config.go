// Package config centralises configuration parsing for the reference server.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config captures runtime configuration values for the server.
type Config struct {
	HTTPAddress string
	DBPath      string
	JWTSecret   string        // пустой секрет отключает проверку токенов
	TokenTTL    time.Duration // 0 выпускает токены без срока действия
	RateLimit   int           // запросов за RateWindow на одно устройство или IP
	RateWindow  time.Duration
	LogLevel    string
	LogFormat   string
	IssueToken  string // имя устройства: напечатать токен и выйти
	ShowVersion bool
}

// Load reads environment variables into Config, applying defaults for local dev,
// then applies command line flags on top.
func Load(args []string, output io.Writer) (Config, error) {
	cfg := Config{
		HTTPAddress: getEnv("HTTP_ADDRESS", ":8080"),
		DBPath:      getEnv("DB_PATH", "dashsync.db"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenTTL:    getDurationEnv("TOKEN_TTL", 0),
		RateLimit:   getIntEnv("RATE_LIMIT", 120),
		RateWindow:  getDurationEnv("RATE_WINDOW", time.Minute),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}

	fs := flag.NewFlagSet("dashsync-server", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.HTTPAddress, "addr", cfg.HTTPAddress, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.IssueToken, "issue-token", "", "print a device token signed with JWT_SECRET and exit")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks value ranges that defaults cannot fix.
func (c Config) Validate() error {
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("RATE_WINDOW must be positive, got %s", c.RateWindow)
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("TOKEN_TTL cannot be negative, got %s", c.TokenTTL)
	}
	if c.IssueToken != "" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required to issue tokens")
	}
	return nil
}

// AuthEnabled reports whether requests must carry a device token.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

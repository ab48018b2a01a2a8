// Package config loads the dashsync client configuration.
//
// Values come from (highest priority first) command line flags bound by the
// caller, DASHSYNC_* environment variables, the YAML config file and the
// built-in defaults. Nested keys map to env names by replacing "." with "_",
// e.g. sync.interval -> DASHSYNC_SYNC_INTERVAL.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by the client
const EnvPrefix = "DASHSYNC"

// Keys
const (
	KeyServerURL     = "server_url"
	KeyDBPath        = "db_path"
	KeyToken         = "token"
	KeyPassphrase    = "passphrase"
	KeyMetricsAddr   = "metrics_addr"
	KeySyncInterval  = "sync.interval"
	KeySyncItemDelay = "sync.item_delay"
	KeySyncRetries   = "sync.max_retries"
	KeyProbeInterval = "sync.probe_interval"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyLogFile       = "log.file"
)

var (
	ErrInvalidServerURL = errors.New("invalid server url")
	ErrInvalidSync      = errors.New("invalid sync settings")
	ErrInvalidLog       = errors.New("invalid log settings")
)

// Sync holds sync manager and connectivity settings
type Sync struct {
	Interval      time.Duration `mapstructure:"interval"`
	ItemDelay     time.Duration `mapstructure:"item_delay"`
	ProbeInterval time.Duration `mapstructure:"probe_interval"`
	MaxRetries    int           `mapstructure:"max_retries"`
}

// Log holds logger settings
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Config is the resolved client configuration
type Config struct {
	ServerURL   string `mapstructure:"server_url"`
	DBPath      string `mapstructure:"db_path"`
	Token       string `mapstructure:"token"`
	Passphrase  string `mapstructure:"passphrase"`
	MetricsAddr string `mapstructure:"metrics_addr"`
	Log         Log    `mapstructure:"log"`
	Sync        Sync   `mapstructure:"sync"`
}

// DefaultDir returns $XDG_CONFIG_HOME/dashsync (or the OS equivalent)
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".dashsync"
	}
	return filepath.Join(dir, "dashsync")
}

// New creates a viper instance with defaults and env binding
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyServerURL, "http://localhost:8080")
	v.SetDefault(KeyDBPath, filepath.Join(DefaultDir(), "dashsync.db"))
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyPassphrase, "")
	v.SetDefault(KeyMetricsAddr, "")
	v.SetDefault(KeySyncInterval, 5*time.Minute)
	v.SetDefault(KeySyncItemDelay, time.Second)
	v.SetDefault(KeySyncRetries, 3)
	v.SetDefault(KeyProbeInterval, 30*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file and decodes the merged settings.
// An empty path searches DefaultDir() and the working directory;
// a missing file in that case is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return Decode(v)
}

// Decode converts the current viper state into Config and validates it
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the value ranges
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidServerURL, c.ServerURL)
	}

	if c.Sync.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidSync)
	}
	if c.Sync.ItemDelay < 0 {
		return fmt.Errorf("%w: item_delay cannot be negative", ErrInvalidSync)
	}
	if c.Sync.ProbeInterval <= 0 {
		return fmt.Errorf("%w: probe_interval must be positive", ErrInvalidSync)
	}
	if c.Sync.MaxRetries < 1 {
		return fmt.Errorf("%w: max_retries must be at least 1", ErrInvalidSync)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidLog, c.Log.Format)
	}

	return nil
}

// Watch reloads the file on change and passes the new config to onChange.
// Invalid edits are reported through onError and the previous config stays in effect.
func Watch(v *viper.Viper, onChange func(*Config), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Decode(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

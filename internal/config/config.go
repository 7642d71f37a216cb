package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Remote RemoteConfig
	UI     UIConfig
	Log    LogConfig
	Server ServerConfig
}

// RemoteConfig points at the user collection endpoint.
type RemoteConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Collection string
	UserAgent  string `mapstructure:"user_agent"`
	// Timeout of zero leaves requests bounded only by the transport.
	Timeout time.Duration
}

// UIConfig holds presentation settings.
type UIConfig struct {
	NoticeDuration time.Duration `mapstructure:"notice_duration"`
	Placeholder    string
}

// LogConfig holds logging settings.
type LogConfig struct {
	File   string
	Prefix string
}

// ServerConfig holds settings for the reference collection server.
type ServerConfig struct {
	Addr         string
	DatabasePath string `mapstructure:"database_path"`
}

// Load reads configuration from file and env. Env var overrides use prefix USERDESK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("remote.base_url", "https://jsonplaceholder.typicode.com")
	v.SetDefault("remote.collection", "users")
	v.SetDefault("remote.user_agent", "userdesk")
	v.SetDefault("remote.timeout", "0s")
	v.SetDefault("ui.notice_duration", "3s")
	v.SetDefault("ui.placeholder", "N/A")
	v.SetDefault("log.file", "")
	v.SetDefault("log.prefix", "userdesk")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.database_path", filepath.Join(os.Getenv("HOME"), ".local", "share", "userdesk", "users.db"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("USERDESK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "userdesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("USERDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the client cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Remote.BaseURL) == "" {
		return fmt.Errorf("remote.base_url is required")
	}
	if strings.Trim(c.Remote.Collection, "/ ") == "" {
		return fmt.Errorf("remote.collection is required")
	}
	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout must not be negative")
	}
	if c.UI.NoticeDuration <= 0 {
		return fmt.Errorf("ui.notice_duration must be positive")
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("USERDESK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "userdesk", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("remote.base_url", cfg.Remote.BaseURL)
	v.Set("remote.collection", cfg.Remote.Collection)
	v.Set("remote.user_agent", cfg.Remote.UserAgent)
	v.Set("remote.timeout", cfg.Remote.Timeout.String())
	v.Set("ui.notice_duration", cfg.UI.NoticeDuration.String())
	v.Set("ui.placeholder", cfg.UI.Placeholder)
	v.Set("log.file", cfg.Log.File)
	v.Set("log.prefix", cfg.Log.Prefix)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.database_path", cfg.Server.DatabasePath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Package config handles configuration for askai.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/diogo/askai/internal/models"
)

// Environment variables that override values from the config file
const (
	EnvEndpoint     = "ASKAI_ENDPOINT"
	EnvLogLevel     = "ASKAI_LOG_LEVEL"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// ServerConfig configures the reference backend started by `askai serve`
type ServerConfig struct {
	Addr string `json:"addr"`
	// Provider is "echo" or "openai". An empty value picks openai when an
	// API key is available and echo otherwise.
	Provider     string `json:"provider,omitempty"`
	OpenAIModel  string `json:"openai_model"`
	OpenAIAPIKey string `json:"-"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// Config represents the user configuration
type Config struct {
	// Endpoint is the URL the prompt is posted to.
	Endpoint string `json:"endpoint"`
	// TimeoutSeconds bounds a single exchange. Zero disables the timeout.
	TimeoutSeconds  int            `json:"timeout_seconds"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	LogLevel        string         `json:"log_level"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
	Server          ServerConfig   `json:"server,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultServerConfig returns the default backend configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:        "127.0.0.1:8000",
		OpenAIModel: "gpt-4o-mini",
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:        models.DefaultEndpoint,
		TimeoutSeconds:  models.DefaultTimeoutSeconds,
		TUITheme:        "tokyonight",
		CopyToClipboard: false,
		LogLevel:        "info",
		Markdown:        DefaultMarkdownConfig(),
		Server:          DefaultServerConfig(),
	}
}

// Timeout returns the configured exchange timeout, zero meaning none
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".askai"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the default log file used while the chat TUI owns the terminal
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "askai.log"), nil
}

// LoadConfig loads the configuration from disk and applies environment overrides
func LoadConfig() (Config, error) {
	cfg, err := ReadConfig()
	return cfg.WithEnv(), err
}

// ReadConfig loads the configuration file as stored, without environment
// overrides. A missing file yields the defaults.
func ReadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = models.DefaultEndpoint
	}

	return cfg, nil
}

// WithEnv returns a copy of the config with environment overrides applied
func (c Config) WithEnv() Config {
	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		c.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOpenAIAPIKey)); v != "" {
		c.Server.OpenAIAPIKey = v
	}
	return c
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setters maps the dotted keys accepted by `askai config set` to their fields
var setters = map[string]func(*Config, string) error{
	"endpoint": func(c *Config, v string) error {
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			return fmt.Errorf("endpoint must be an http(s) URL, got %q", v)
		}
		c.Endpoint = v
		return nil
	},
	"timeout_seconds": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("timeout_seconds must be a non-negative integer, got %q", v)
		}
		c.TimeoutSeconds = n
		return nil
	},
	"tui_theme": func(c *Config, v string) error {
		c.TUITheme = v
		return nil
	},
	"copy_to_clipboard": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard must be a boolean, got %q", v)
		}
		c.CopyToClipboard = b
		return nil
	},
	"log_level": func(c *Config, v string) error {
		c.LogLevel = v
		return nil
	},
	"markdown.style": func(c *Config, v string) error {
		c.Markdown.Style = v
		return nil
	},
	"server.addr": func(c *Config, v string) error {
		c.Server.Addr = v
		return nil
	},
	"server.provider": func(c *Config, v string) error {
		switch v {
		case "", "echo", "openai":
			c.Server.Provider = v
			return nil
		}
		return fmt.Errorf("server.provider must be echo or openai, got %q", v)
	},
	"server.openai_model": func(c *Config, v string) error {
		c.Server.OpenAIModel = v
		return nil
	},
	"server.system_prompt": func(c *Config, v string) error {
		c.Server.SystemPrompt = v
		return nil
	},
}

// Set updates a single field addressed by its dotted key
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (available: %s)", key, strings.Join(Keys(), ", "))
	}
	return set(c, value)
}

// Keys returns the keys accepted by Set, sorted
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diogo/askai/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Endpoint != models.DefaultEndpoint {
		t.Errorf("Expected default endpoint to be %q, got %q", models.DefaultEndpoint, cfg.Endpoint)
	}

	if cfg.TimeoutSeconds != models.DefaultTimeoutSeconds {
		t.Errorf("Expected TimeoutSeconds to be %d, got %d", models.DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	}

	if cfg.Server.Addr != "127.0.0.1:8000" {
		t.Errorf("Expected server addr 127.0.0.1:8000, got %s", cfg.Server.Addr)
	}
}

func TestConfig_Timeout(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{0, 0},
		{-5, 0},
		{30, 30 * time.Second},
	}

	for _, tt := range tests {
		cfg := Config{TimeoutSeconds: tt.seconds}
		if got := cfg.Timeout(); got != tt.want {
			t.Errorf("Timeout() with %d = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("GetConfigPath() returned relative path: %s", path)
	}
	if filepath.Base(path) != "config.json" {
		t.Errorf("GetConfigPath() should end with config.json, got %s", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".askai" {
		t.Errorf("GetConfigPath() should live under .askai, got %s", path)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Directory does not exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Path is not a directory")
	}
	if info.Mode().Perm() != 0o700 {
		t.Errorf("Directory permissions = %o, want 700", info.Mode().Perm())
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvEndpoint, "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Endpoint != models.DefaultEndpoint {
		t.Errorf("Endpoint = %s, want %s", cfg.Endpoint, models.DefaultEndpoint)
	}
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cfg := DefaultConfig()
	cfg.Endpoint = "http://localhost:9000/api/ask-ai"
	cfg.TimeoutSeconds = 10
	cfg.Server.OpenAIAPIKey = "sk-secret"

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	configPath := filepath.Join(tmpDir, ".askai", "config.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var saved Config
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("Failed to parse saved config: %v", err)
	}

	if saved.Endpoint != cfg.Endpoint {
		t.Errorf("Endpoint = %s, want %s", saved.Endpoint, cfg.Endpoint)
	}
	if saved.TimeoutSeconds != 10 {
		t.Errorf("TimeoutSeconds = %d, want 10", saved.TimeoutSeconds)
	}
	if saved.Server.OpenAIAPIKey != "" {
		t.Error("API key must not be written to the config file")
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("File permissions = %o, want 600", perm)
	}
}

func TestLoadConfig_WithExistingFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv(EnvEndpoint, "")

	configDir := filepath.Join(tmpDir, ".askai")
	_ = os.MkdirAll(configDir, 0o755)

	data := []byte(`{"endpoint": "http://10.0.0.2:8000/api/ask-ai", "timeout_seconds": 5}`)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), data, 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if cfg.Endpoint != "http://10.0.0.2:8000/api/ask-ai" {
		t.Errorf("Endpoint = %s", cfg.Endpoint)
	}
	if cfg.TimeoutSeconds != 5 {
		t.Errorf("TimeoutSeconds = %d, want 5", cfg.TimeoutSeconds)
	}
	// Fields missing from the file keep their defaults
	if cfg.Markdown.Style != "dark" {
		t.Errorf("Markdown.Style = %s, want dark", cfg.Markdown.Style)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv(EnvEndpoint, "")

	configDir := filepath.Join(tmpDir, ".askai")
	_ = os.MkdirAll(configDir, 0o755)

	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"invalid": json content`), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("LoadConfig() with invalid JSON should return error")
	}

	if cfg.Endpoint != models.DefaultEndpoint {
		t.Errorf("Endpoint = %s, want default", cfg.Endpoint)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvEndpoint, "http://override:1234/api/ask-ai")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvOpenAIAPIKey, "sk-test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if cfg.Endpoint != "http://override:1234/api/ask-ai" {
		t.Errorf("Endpoint = %s", cfg.Endpoint)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.Server.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %s, want sk-test", cfg.Server.OpenAIAPIKey)
	}
}

func TestReadConfig_IgnoresEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvEndpoint, "http://override:1234/api/ask-ai")

	cfg, err := ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig() returned error: %v", err)
	}
	if cfg.Endpoint != models.DefaultEndpoint {
		t.Errorf("Endpoint = %s, want the stored default", cfg.Endpoint)
	}
}

func TestConfig_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		check   func(Config) bool
	}{
		{"endpoint", "http://a:1/api/ask-ai", false, func(c Config) bool { return c.Endpoint == "http://a:1/api/ask-ai" }},
		{"endpoint", "ftp://nope", true, nil},
		{"timeout_seconds", "0", false, func(c Config) bool { return c.TimeoutSeconds == 0 }},
		{"timeout_seconds", "-1", true, nil},
		{"timeout_seconds", "abc", true, nil},
		{"copy_to_clipboard", "true", false, func(c Config) bool { return c.CopyToClipboard }},
		{"copy_to_clipboard", "maybe", true, nil},
		{"server.provider", "openai", false, func(c Config) bool { return c.Server.Provider == "openai" }},
		{"server.provider", "claude", true, nil},
		{"markdown.style", "light", false, func(c Config) bool { return c.Markdown.Style == "light" }},
		{"nope", "x", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Error("Set() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Set() unexpected error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("Set(%q, %q) did not update the config", tt.key, tt.value)
			}
		})
	}
}

func TestKeys_Sorted(t *testing.T) {
	keys := Keys()
	if len(keys) == 0 {
		t.Fatal("Keys() returned no keys")
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("Keys() not sorted: %q before %q", keys[i-1], keys[i])
		}
	}
}

// Package config handles configuration loading and persistence for zelig.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Backend names understood by the guide registry.
const (
	BackendZelig  = "zelig"
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
	BackendEcho   = "echo"
)

// Environment variables that override the config file.
const (
	EnvBackend      = "ZELIG_BACKEND"
	EnvEndpoint     = "ZELIG_ENDPOINT"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

const configDirName = ".zelig"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style       string `json:"style"`        // "dark", "light", "notty" or path to JSON theme
	EnableEmoji bool   `json:"enable_emoji"` // Convert :emoji: to unicode
}

// Config represents the user configuration
type Config struct {
	// Backend selects the guide implementation: zelig, gemini, openai or echo.
	Backend string `json:"backend"`
	// Endpoint is the base URL of the zelig HTTP backend.
	Endpoint string `json:"endpoint"`
	// RequestTimeout is the number of seconds a guide call may take before it
	// counts as failed. Zero disables the timeout.
	RequestTimeout int `json:"request_timeout"`

	GeminiModel  string `json:"gemini_model"`
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`

	OpenAIModel   string `json:"openai_model"`
	OpenAIBaseURL string `json:"openai_base_url,omitempty"`
	OpenAIAPIKey  string `json:"openai_api_key,omitempty"`

	Debug     bool           `json:"debug"`
	Telemetry bool           `json:"telemetry"`
	LogDir    string         `json:"log_dir,omitempty"`
	Markdown  MarkdownConfig `json:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:       "dark",
		EnableEmoji: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		Backend:        BackendZelig,
		Endpoint:       "http://localhost:8000",
		RequestTimeout: 60,
		GeminiModel:    "gemini-2.5-flash",
		OpenAIModel:    "gpt-4o-mini",
		Telemetry:      true,
		LogDir:         filepath.Join(homeDir, configDirName, "logs"),
		Markdown:       DefaultMarkdownConfig(),
	}
}

// Timeout returns RequestTimeout as a duration.
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the config may hold API keys
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

// GetLogDir returns the log directory from config, creating it if necessary
func GetLogDir(cfg Config) (string, error) {
	dir := cfg.LogDir
	if dir == "" {
		configDir, err := GetConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(configDir, "logs")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	return dir, nil
}

// LoadConfig loads the configuration from disk and applies environment
// overrides. A missing file yields the defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnv(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyEnv(&cfg)
	return cfg, nil
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

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with values from the environment.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv(EnvEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv(EnvOpenAIAPIKey); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("ZELIG_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeout = secs
		}
	}
}

// Redacted returns a copy of cfg with API keys masked, for display.
func (c Config) Redacted() Config {
	c.GeminiAPIKey = redact(c.GeminiAPIKey)
	c.OpenAIAPIKey = redact(c.OpenAIAPIKey)
	return c
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// AvailableBackends returns the backend names that can be configured
func AvailableBackends() []string {
	return []string{
		BackendZelig,
		BackendGemini,
		BackendOpenAI,
		BackendEcho,
	}
}

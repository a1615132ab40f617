package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/bcl"
	"github.com/oarkflow/json"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the cash command.
type Config struct {
	Prompt           string         `json:"prompt" yaml:"prompt"`
	HistoryFile      string         `json:"history_file" yaml:"history_file"`
	HistoryDB        string         `json:"history_db" yaml:"history_db"`
	LogLevel         string         `json:"log_level" yaml:"log_level"`
	MaxCallDepth     int            `json:"max_call_depth" yaml:"max_call_depth"`
	CommandCacheSize int            `json:"command_cache_size" yaml:"command_cache_size"`
	Globals          map[string]any `json:"globals" yaml:"globals"`
}

func Default() *Config {
	cfg := &Config{
		Prompt:           "cash> ",
		LogLevel:         "error",
		MaxCallDepth:     1024,
		CommandCacheSize: 256,
		Globals:          make(map[string]any),
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".cash_history")
	}
	return cfg
}

// Load reads a config file based on its extension. Unset fields keep their
// defaults.
func Load(path string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return loadConfig(path, yaml.Unmarshal)
	case ".json":
		return loadConfig(path, func(data []byte, v any) error {
			return json.Unmarshal(data, v)
		})
	case ".bcl":
		return loadConfig(path, func(data []byte, v any) error {
			_, err := bcl.Unmarshal(data, v)
			return err
		})
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// LoadFromString loads the config from raw text.
func LoadFromString(content, format string) (*Config, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return decodeConfig([]byte(content), yaml.Unmarshal)
	case "json":
		return decodeConfig([]byte(content), func(data []byte, v any) error {
			return json.Unmarshal(data, v)
		})
	case "bcl":
		return decodeConfig([]byte(content), func(data []byte, v any) error {
			_, err := bcl.Unmarshal(data, v)
			return err
		})
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

var logLevels = map[string]bool{
	"": true, "trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
}

func (cfg *Config) Validate() error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if !logLevels[strings.ToLower(cfg.LogLevel)] {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	if cfg.MaxCallDepth <= 0 {
		return fmt.Errorf("max_call_depth must be positive")
	}
	if cfg.CommandCacheSize < 0 {
		return fmt.Errorf("command_cache_size must not be negative")
	}
	for name := range cfg.Globals {
		if !validName(name) {
			return fmt.Errorf("global %q is not a valid identifier", name)
		}
	}
	return nil
}

// ExpandPath resolves a leading ~ against the home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func validName(name string) bool {
	if name == "" || ('0' <= name[0] && name[0] <= '9') {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_' || c == '.') {
			return false
		}
	}
	return true
}

func loadConfig(path string, fn func([]byte, any) error) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeConfig(raw, fn)
}

func decodeConfig(data []byte, fn func([]byte, any) error) (*Config, error) {
	cfg := Default()
	if err := fn(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Globals == nil {
		cfg.Globals = make(map[string]any)
	}
	return cfg, cfg.Validate()
}

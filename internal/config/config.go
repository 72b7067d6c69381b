// Package config loads dashboard settings from defaults, a .env file, a YAML
// file and environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Tincho2002/dotacion-assa-2025/internal/roster"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "dotacion.yaml"

// Environment variables that override the file.
const (
	EnvConfig    = "DOTACION_CONFIG"
	EnvAddr      = "DOTACION_ADDR"
	EnvSheet     = "DOTACION_SHEET"
	EnvCacheSize = "DOTACION_CACHE_SIZE"
	EnvLogLevel  = "DOTACION_LOG_LEVEL"
)

// Config holds every runtime setting.
type Config struct {
	Addr          string        `yaml:"addr"`
	SheetName     string        `yaml:"sheet_name"`
	CacheSize     int           `yaml:"cache_size"`
	ViewCacheSize int           `yaml:"view_cache_size"`
	MaxUploadMB   int64         `yaml:"max_upload_mb"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	Log           LogConfig     `yaml:"log"`
}

// LogConfig selects the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		SheetName:     roster.DefaultSheetName,
		CacheSize:     4,
		ViewCacheSize: 64,
		MaxUploadMB:   25,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  30 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration. A .env file next to the config file is applied
// to the process environment first without replacing variables already set.
// path falls back to $DOTACION_CONFIG, then DefaultPath; a missing file leaves
// the defaults in place.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = DefaultPath
	}
	if err := LoadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return cfg, fmt.Errorf("read .env: %w", err)
	}
	if p := os.Getenv(EnvConfig); p != "" && !explicit {
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvSheet); v != "" {
		c.SheetName = v
	}
	if v := os.Getenv(EnvCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheSize, err)
		}
		c.CacheSize = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return errors.New("config: addr is required")
	case strings.TrimSpace(c.SheetName) == "":
		return errors.New("config: sheet_name is required")
	case c.CacheSize < 1:
		return fmt.Errorf("config: cache_size must be positive, got %d", c.CacheSize)
	case c.ViewCacheSize < 1:
		return fmt.Errorf("config: view_cache_size must be positive, got %d", c.ViewCacheSize)
	case c.MaxUploadMB < 1:
		return fmt.Errorf("config: max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// MaxUploadBytes is the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Save writes c as YAML. An existing file is kept unless overwrite is set.
func (c Config) Save(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Environment variables overriding the file settings.
const (
	EnvAddr      = "FORMBUILDER_ADDR"
	EnvLogLevel  = "FORMBUILDER_LOG_LEVEL"
	EnvLogFormat = "FORMBUILDER_LOG_FORMAT"
	EnvRenderer  = "FORMBUILDER_RENDERER"
	EnvRestore   = "FORMBUILDER_RESTORE"
	EnvQuestions = "FORMBUILDER_QUESTIONS"
)

type Config struct {
	Renderer  string      `yaml:"renderer"`
	Restore   string      `yaml:"restore"`
	Questions string      `yaml:"questions"`
	Title     string      `yaml:"title"`
	Log       LogConfig   `yaml:"log"`
	HTTP      HTTPConfig  `yaml:"http"`
	Theme     ThemeConfig `yaml:"theme"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type ThemeConfig struct {
	Name    string            `yaml:"name"`
	Variant string            `yaml:"variant"`
	Tokens  map[string]string `yaml:"tokens"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Renderer: "vanilla",
		Restore:  "position",
		Log:      LogConfig{Level: "info", Format: "text"},
		HTTP:     HTTPConfig{Addr: ":8080"},
	}
}

// Load reads the optional YAML file at path over the defaults, then applies
// environment overrides. Variables from envFiles (".env" when none are given)
// are loaded first; missing env files are ignored.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HTTP.Addr = getEnv(EnvAddr, c.HTTP.Addr)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Log.Format = getEnv(EnvLogFormat, c.Log.Format)
	c.Renderer = getEnv(EnvRenderer, c.Renderer)
	c.Restore = getEnv(EnvRestore, c.Restore)
	c.Questions = getEnv(EnvQuestions, c.Questions)
}

// Validate rejects unknown enumerated settings.
func (c Config) Validate() error {
	if _, err := c.RestoreKey(); err != nil {
		return fmt.Errorf("config: restore: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// RestoreKey parses the restore setting.
func (c Config) RestoreKey() (model.RestoreKey, error) {
	return model.ParseRestoreKey(c.Restore)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

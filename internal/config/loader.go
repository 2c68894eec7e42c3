package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the optional YAML file inside the rotate home
const ConfigFile = "config.yaml"

// Environment variables read by Load
const (
	EnvCodexHome  = "CODEX_HOME"
	EnvRotateHome = "CODEX_ROTATE_HOME"
	EnvLogLevel   = "CODEX_ROTATE_LOG_LEVEL"
	EnvColor      = "CODEX_ROTATE_COLOR"
)

// Overrides are command line values; empty fields are ignored.
type Overrides struct {
	CodexHome  string
	RotateHome string
	LogLevel   string
	Color      string
}

// Defaults returns the built-in configuration rooted at home
func Defaults(home string) Config {
	return Config{
		CodexHome:  filepath.Join(home, ".codex"),
		RotateHome: filepath.Join(home, ".codex-rotate"),
		Color:      ColorAuto,
		Logging:    Logging{Level: "warn"},
	}
}

// Load returns a Config using the hierarchy: defaults < YAML < ENV < flags.
// The YAML file lives in the resolved rotate home and is optional.
func Load(o Overrides) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home directory: %w", err)
	}
	cfg := Defaults(home)

	// The rotate home decides where the YAML file is, so resolve it first.
	setString(&cfg.RotateHome, os.Getenv(EnvRotateHome))
	setString(&cfg.RotateHome, o.RotateHome)
	cfg.RotateHome = expandHome(cfg.RotateHome, home)

	if err := loadYAML(&cfg, cfg.FilePath()); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	setString(&cfg.CodexHome, os.Getenv(EnvCodexHome))
	setString(&cfg.Logging.Level, os.Getenv(EnvLogLevel))
	if c := os.Getenv(EnvColor); c != "" {
		cfg.Color = ColorMode(c)
	}
	if termenv.EnvNoColor() {
		cfg.Color = ColorNever
	}

	setString(&cfg.CodexHome, o.CodexHome)
	setString(&cfg.Logging.Level, o.LogLevel)
	if o.Color != "" {
		cfg.Color = ColorMode(o.Color)
	}

	cfg.CodexHome = expandHome(cfg.CodexHome, home)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}
	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.CodexHome) == "" {
		return errors.New("codex home cannot be empty")
	}
	if strings.TrimSpace(cfg.RotateHome) == "" {
		return errors.New("rotate home cannot be empty")
	}

	color, err := ValidateColor(string(cfg.Color))
	if err != nil {
		return err
	}
	cfg.Color = color

	level, err := ValidateLogLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	cfg.Logging.Level = level
	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

// Package config resolves where codex-rotate keeps its files and how it logs.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/codex-rotate/cli/internal/auth"
	"github.com/codex-rotate/cli/internal/pool"
)

// ColorMode controls styled output
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ValidateColor checks if the given string is a valid ColorMode
func ValidateColor(mode string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(mode)) {
	case ColorAuto, "":
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	default:
		return "", fmt.Errorf("unsupported color mode %q: must be 'auto', 'always' or 'never'", mode)
	}
}

// ValidateLogLevel checks if the given string is a supported log level
func ValidateLogLevel(level string) (string, error) {
	switch l := strings.ToLower(level); l {
	case "debug", "info", "warn", "error":
		return l, nil
	case "warning":
		return "warn", nil
	case "":
		return "warn", nil
	default:
		return "", fmt.Errorf("unsupported log level %q: must be one of debug, info, warn, error", level)
	}
}

// Logging configures diagnostic output
type Logging struct {
	Level string `yaml:"level"`
}

// Config holds the resolved settings for one invocation
type Config struct {
	// CodexHome is the directory holding the live auth.json
	CodexHome string `yaml:"codex_home"`
	// RotateHome is the directory holding pool.json and config.yaml
	RotateHome string    `yaml:"-"`
	Color      ColorMode `yaml:"color"`
	Logging    Logging   `yaml:"logging"`
}

// CredentialsPath is the live credential file read by Codex
func (c *Config) CredentialsPath() string {
	return filepath.Join(c.CodexHome, auth.CredentialsFile)
}

// PoolPath is the pool file owned by codex-rotate
func (c *Config) PoolPath() string {
	return filepath.Join(c.RotateHome, pool.PoolFile)
}

// FilePath is the optional YAML config file
func (c *Config) FilePath() string {
	return filepath.Join(c.RotateHome, ConfigFile)
}

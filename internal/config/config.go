// Package config handles configuration loading and validation for xplat
// batch and watch mode.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"

	"xplat/internal/namestyle"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidFormat   ConfigErrorType = "INVALID_FORMAT"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidFormat:
		return fmt.Sprintf("invalid configuration file: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// WatchSettings configures watch mode.
type WatchSettings struct {
	DebounceSeconds   int      `json:"debounceSeconds" yaml:"debounceSeconds"`
	StableThresholdMs int      `json:"stableThresholdMs" yaml:"stableThresholdMs"`
	IgnorePatterns    []string `json:"ignorePatterns" yaml:"ignorePatterns"`
}

// AuditSettings configures the rename journal.
type AuditSettings struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	LogDirectory string `json:"logDirectory" yaml:"logDirectory"`
}

// Configuration holds all settings for batch and watch mode.
type Configuration struct {
	SourceDirectories []string       `json:"sourceDirectories" yaml:"sourceDirectories"`
	Style             string         `json:"style" yaml:"style"`
	TargetDirectory   string         `json:"targetDirectory,omitempty" yaml:"targetDirectory,omitempty"`
	Watch             *WatchSettings `json:"watch,omitempty" yaml:"watch,omitempty"`
	Audit             *AuditSettings `json:"audit,omitempty" yaml:"audit,omitempty"`
}

// DefaultAuditSettings returns the journal defaults: enabled, logging
// under .xplat/audit in the working directory.
func DefaultAuditSettings() AuditSettings {
	return AuditSettings{
		Enabled:      true,
		LogDirectory: filepath.Join(".xplat", "audit"),
	}
}

// DefaultWatchSettings returns the watch mode defaults.
func DefaultWatchSettings() WatchSettings {
	return WatchSettings{
		DebounceSeconds:   2,
		StableThresholdMs: 1000,
	}
}

// Load reads, parses and validates a configuration file. YAML is selected
// for .yaml/.yml files, JSON for everything else.
func Load(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Type: FileNotFound, Path: filePath}
		}
		return nil, &ConfigError{Type: FileNotFound, Path: filePath, Message: err.Error()}
	}

	var config Configuration
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, &ConfigError{Type: InvalidFormat, Path: filePath, Message: err.Error()}
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, &ConfigError{Type: InvalidFormat, Path: filePath, Message: err.Error()}
		}
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyDefaults fills in defaults for style, watch and audit settings.
func (c *Configuration) ApplyDefaults() {
	if c.Style == "" {
		c.Style = string(namestyle.DefaultStyle)
	}

	if c.Audit == nil {
		defaults := DefaultAuditSettings()
		c.Audit = &defaults
	} else if c.Audit.LogDirectory == "" {
		c.Audit.LogDirectory = DefaultAuditSettings().LogDirectory
	}

	if c.Watch == nil {
		defaults := DefaultWatchSettings()
		c.Watch = &defaults
	} else {
		defaults := DefaultWatchSettings()
		if c.Watch.DebounceSeconds == 0 {
			c.Watch.DebounceSeconds = defaults.DebounceSeconds
		}
		if c.Watch.StableThresholdMs == 0 {
			c.Watch.StableThresholdMs = defaults.StableThresholdMs
		}
		// Empty IgnorePatterns means "use the watcher's built-in set".
	}
}

// Validate checks that the configuration has all required fields.
func (c *Configuration) Validate() error {
	if len(c.SourceDirectories) == 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: "sourceDirectories must contain at least one directory",
		}
	}

	for i, dir := range c.SourceDirectories {
		if strings.TrimSpace(dir) == "" {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("sourceDirectories[%d] cannot be empty", i),
			}
		}
	}

	if _, err := namestyle.ParseStyle(c.Style); err != nil {
		return &ConfigError{
			Type:    ValidationError,
			Message: err.Error(),
		}
	}

	return nil
}

// ParsedStyle returns the configured style. Validate must have accepted
// the configuration first; an unparseable style falls back to the default.
func (c *Configuration) ParsedStyle() namestyle.Style {
	style, err := namestyle.ParseStyle(c.Style)
	if err != nil {
		return namestyle.DefaultStyle
	}
	return style
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xplat/internal/namestyle"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"sourceDirectories": ["/tmp/inbox", "/tmp/downloads"],
		"style": "snake",
		"targetDirectory": "/tmp/clean"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/tmp/inbox", "/tmp/downloads"}, cfg.SourceDirectories)
	assert.Equal(t, namestyle.StyleSnake, cfg.ParsedStyle())
	assert.Equal(t, "/tmp/clean", cfg.TargetDirectory)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
sourceDirectories:
  - /tmp/inbox
style: kebab
watch:
  debounceSeconds: 5
  ignorePatterns:
    - "*.part"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"/tmp/inbox"}, cfg.SourceDirectories)
	assert.Equal(t, namestyle.StyleKebab, cfg.ParsedStyle())
	require.NotNil(t, cfg.Watch)
	assert.Equal(t, 5, cfg.Watch.DebounceSeconds)
	assert.Equal(t, []string{"*.part"}, cfg.Watch.IgnorePatterns)
	// Unset watch fields still get defaults.
	assert.Equal(t, 1000, cfg.Watch.StableThresholdMs)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{"sourceDirectories": ["/tmp/inbox"]}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, namestyle.DefaultStyle, cfg.ParsedStyle())
	assert.Empty(t, cfg.TargetDirectory)

	require.NotNil(t, cfg.Audit)
	assert.True(t, cfg.Audit.Enabled)
	assert.Equal(t, filepath.Join(".xplat", "audit"), cfg.Audit.LogDirectory)

	require.NotNil(t, cfg.Watch)
	assert.Equal(t, 2, cfg.Watch.DebounceSeconds)
	assert.Equal(t, 1000, cfg.Watch.StableThresholdMs)
	assert.Empty(t, cfg.Watch.IgnorePatterns)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, FileNotFound, cfgErr.Type)
}

func TestLoadInvalidFormat(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"broken json", "config.json", `{"sourceDirectories": [`},
		{"broken yaml", "config.yaml", "sourceDirectories:\n  - a\n -b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)

			_, err := Load(path)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, InvalidFormat, cfgErr.Type)
		})
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no source directories", `{"style": "web"}`},
		{"empty source directory", `{"sourceDirectories": ["  "]}`},
		{"unknown style", `{"sourceDirectories": ["/tmp/in"], "style": "pascal"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.json", tt.content)

			_, err := Load(path)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, ValidationError, cfgErr.Type)
		})
	}
}

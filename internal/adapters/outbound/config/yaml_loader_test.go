package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	appconfig "github.com/stackguard/stackguard/internal/adapters/outbound/config"
	"github.com/stackguard/stackguard/internal/domain"
	"github.com/stackguard/stackguard/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".stackguard.yaml"), []byte(content), 0644))
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := appconfig.New()

	cfg, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_EmptyFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
preset:
  name: python-fastapi
  package_manager: pdm
  src_dirs: [app]
max_depth: 3
exclude_paths:
  - legacy
  - "docs/**"
rules_path: config/rules.yaml
hook:
  skip_paths: ["migrations/**"]
`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)

	require.NotNil(t, cfg.Preset)
	assert.Equal(t, domain.PresetPythonFastAPI, cfg.Preset.Name)
	assert.Equal(t, "pdm", cfg.Preset.PackageManager)
	assert.Equal(t, []string{"app"}, cfg.Preset.SrcDirs)
	assert.Equal(t, 3, cfg.EffectiveMaxDepth())
	assert.Equal(t, []string{"legacy", "docs/**"}, cfg.ExcludePaths)
	assert.Equal(t, "config/rules.yaml", cfg.EffectiveRulesPath())
	assert.Equal(t, []string{"migrations/**"}, cfg.EffectiveSkipPaths())
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)

	_, err := appconfig.New().Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .stackguard.yaml")
}

func TestYAMLLoader_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"depth too large", "max_depth: 12", "max_depth"},
		{"unknown language", "preset:\n  language: cobol", "preset.language"},
		{"absolute rules path", "rules_path: /etc/rules.yaml", "rules_path"},
		{"escaping src dir", "preset:\n  src_dirs: [../other]", "preset.src_dirs[0]"},
		{"malformed exclude glob", "exclude_paths: [\"src/[\"]", "exclude_paths[0]"},
		{"malformed skip glob", "hook:\n  skip_paths: [\"{a,b\"]", "hook.skip_paths[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := appconfig.New().Load(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid .stackguard.yaml")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestYAMLLoader_UnknownPresetNameIsAccepted(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "preset:\n  name: rails\n")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "rails", cfg.Preset.Name)
}

func TestYAMLLoader_EmptyPresetBlockIsDropped(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "preset: {}\nhook:\n  disabled: true\n")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Nil(t, cfg.Preset)
	assert.True(t, cfg.Hook.Disabled)
	assert.Equal(t, domain.DefaultHookSkipPaths, cfg.EffectiveSkipPaths())
}

func TestYAMLLoader_UnknownPresetIsAcceptedWithWarning(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer
	logger.Init(logger.Config{Level: slog.LevelWarn, Output: &buf})

	dir := t.TempDir()
	writeConfig(t, dir, "preset:\n  name: rails\n")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg.Preset)
	assert.Equal(t, "rails", cfg.Preset.Name)
	assert.Contains(t, buf.String(), "preset=rails")

	buf.Reset()
	writeConfig(t, dir, "preset:\n  name: nextjs\n")
	_, err = appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

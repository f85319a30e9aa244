package rulestore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackguard/stackguard/internal/adapters/outbound/rulestore"
	"github.com/stackguard/stackguard/internal/domain"
)

func sampleRules() domain.RuleSet {
	return domain.RuleSet{
		Version: domain.RuleSetVersion,
		Preset:  domain.PresetPythonFastAPI,
		Layers: []domain.LayerRule{
			{ID: "layer:src/core/", Prefix: "src/core/", Forbidden: []string{"sqlalchemy", "fastapi"}},
			{ID: "layer:src/db/", Prefix: "src/db/", Forbidden: []string{"fastapi"}},
		},
		Siblings: []domain.SiblingBlock{
			{ID: "sibling:src/worker/", Prefix: "src/worker/", Patterns: []string{"from src.api", "import src.api"}},
		},
		FileBlocks: []domain.FileBlock{
			{ID: "file:src/core/", Prefix: "src/core/", Names: []string{"openai"}},
		},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := rulestore.New()
	projectPath := t.TempDir()

	original := sampleRules()
	require.NoError(t, store.Save(projectPath, domain.DefaultRulesPath, original))

	loaded, err := store.Load(projectPath, domain.DefaultRulesPath)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, original, *loaded)

	data, err := os.ReadFile(filepath.Join(projectPath, ".stackguard", "rules.yaml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Generated by stackguard"))
	assert.Contains(t, string(data), "version: 1\n")
	assert.Contains(t, string(data), "prefix: src/core/")
}

func TestStore_LoadNonExistent(t *testing.T) {
	loaded, err := rulestore.New().Load(t.TempDir(), domain.DefaultRulesPath)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_CustomPath(t *testing.T) {
	store := rulestore.New()
	projectPath := t.TempDir()

	require.NoError(t, store.Save(projectPath, "config/guard/rules.yaml", sampleRules()))
	assert.FileExists(t, filepath.Join(projectPath, "config", "guard", "rules.yaml"))

	loaded, err := store.Load(projectPath, "config/guard/rules.yaml")
	require.NoError(t, err)
	require.NotNil(t, loaded)
}

func TestStore_RejectsUnknownVersion(t *testing.T) {
	projectPath := t.TempDir()
	dir := filepath.Join(projectPath, ".stackguard")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.yaml"), []byte("version: 2\npreset: nextjs\nlayers: []\n"), 0644))

	_, err := rulestore.New().Load(projectPath, domain.DefaultRulesPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedRuleVersion)
	assert.Contains(t, err.Error(), "got 2")
}

func TestStore_RejectsMissingVersion(t *testing.T) {
	projectPath := t.TempDir()
	dir := filepath.Join(projectPath, ".stackguard")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.yaml"), []byte("preset: nextjs\n"), 0644))

	_, err := rulestore.New().Load(projectPath, domain.DefaultRulesPath)
	assert.ErrorIs(t, err, domain.ErrUnsupportedRuleVersion)
}

func TestStore_InvalidYAML(t *testing.T) {
	projectPath := t.TempDir()
	dir := filepath.Join(projectPath, ".stackguard")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.yaml"), []byte("{{{invalid"), 0644))

	_, err := rulestore.New().Load(projectPath, domain.DefaultRulesPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .stackguard/rules.yaml")
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	store := rulestore.New()
	projectPath := t.TempDir()

	require.NoError(t, store.Save(projectPath, domain.DefaultRulesPath, sampleRules()))
	require.NoError(t, store.Save(projectPath, domain.DefaultRulesPath, sampleRules()))

	entries, err := os.ReadDir(filepath.Join(projectPath, ".stackguard"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "rules.yaml", entries[0].Name())
}

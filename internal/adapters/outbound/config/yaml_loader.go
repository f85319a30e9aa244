package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/stackguard/stackguard/internal/domain"
	"github.com/stackguard/stackguard/internal/logger"
)

// FileName is the project configuration file read from the project root.
const FileName = ".stackguard.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .stackguard.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .stackguard.yaml from projectPath.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ProjectConfig{}, err
	}

	var cfg domain.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	if err := validateGlobs("exclude_paths", cfg.ExcludePaths); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	if err := validateGlobs("hook.skip_paths", cfg.Hook.SkipPaths); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}

	// An empty preset block declares nothing; drop it so callers can test for nil.
	if cfg.Preset != nil && cfg.Preset.IsZero() {
		cfg.Preset = nil
	}

	// Unknown names are allowed but usually a typo.
	if cfg.Preset != nil && cfg.Preset.Name != "" && !domain.IsKnownPreset(cfg.Preset.Name) {
		logger.ForComponent("config").Warn("preset is not built in and compiles to an empty rule set",
			"file", FileName, "preset", cfg.Preset.Name)
	}

	return cfg, nil
}

func validateGlobs(field string, patterns []string) error {
	for i, p := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return fmt.Errorf("%s[%d]: malformed glob %q", field, i, p)
		}
	}
	return nil
}

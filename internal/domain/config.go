package domain

import (
	"fmt"
	"path"
	"strings"
)

const (
	// DefaultMaxDepth is the default traversal depth bound for scans.
	DefaultMaxDepth = 2
	// MaxAllowedDepth caps user-configured traversal depth.
	MaxAllowedDepth = 8
	// DefaultRulesPath is where the compiled rule-set document is persisted.
	DefaultRulesPath = ".stackguard/rules.yaml"
)

// DefaultHookSkipPaths are path globs the pre-write hook never enforces.
var DefaultHookSkipPaths = []string{"tests/**", "test/**", ".claude/**", ".stackguard/**"}

// ProjectConfig holds project-level configuration loaded from .stackguard.yaml.
type ProjectConfig struct {
	Preset       *PresetOverride `yaml:"preset,omitempty"        json:"preset,omitempty"`
	MaxDepth     int             `yaml:"max_depth,omitempty"     json:"max_depth,omitempty"`
	ExcludePaths []string        `yaml:"exclude_paths,omitempty" json:"exclude_paths,omitempty"`
	RulesPath    string          `yaml:"rules_path,omitempty"    json:"rules_path,omitempty"`
	Hook         HookConfig      `yaml:"hook,omitempty"          json:"hook,omitempty"`
}

// HookConfig tunes the pre-write hook.
type HookConfig struct {
	SkipPaths []string `yaml:"skip_paths,omitempty" json:"skip_paths,omitempty"`
	Disabled  bool     `yaml:"disabled,omitempty"   json:"disabled,omitempty"`
}

// DefaultConfig returns a zero-value config that changes nothing.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{}
}

// EffectiveMaxDepth returns the configured depth, falling back to DefaultMaxDepth.
func (c ProjectConfig) EffectiveMaxDepth() int {
	if c.MaxDepth > 0 {
		return c.MaxDepth
	}
	return DefaultMaxDepth
}

// EffectiveRulesPath returns the rule-set document path relative to the project root.
func (c ProjectConfig) EffectiveRulesPath() string {
	if c.RulesPath != "" {
		return c.RulesPath
	}
	return DefaultRulesPath
}

// EffectiveSkipPaths returns the hook skip globs, falling back to DefaultHookSkipPaths.
func (c ProjectConfig) EffectiveSkipPaths() []string {
	if len(c.Hook.SkipPaths) > 0 {
		return c.Hook.SkipPaths
	}
	return DefaultHookSkipPaths
}

// Validate checks the config for invalid values and returns a descriptive error.
// Unknown preset names are not rejected: they compile to an empty rule set.
func (c ProjectConfig) Validate() error {
	if c.MaxDepth < 0 || c.MaxDepth > MaxAllowedDepth {
		return fmt.Errorf("max_depth must be between 1 and %d (got %d)", MaxAllowedDepth, c.MaxDepth)
	}

	if c.Preset != nil {
		if c.Preset.Language != "" && !IsValidLanguage(c.Preset.Language) {
			return fmt.Errorf("unknown preset.language %q (valid: python, typescript, javascript, mixed, unknown)", c.Preset.Language)
		}
		for i, d := range c.Preset.SrcDirs {
			if err := validateRelative(d); err != nil {
				return fmt.Errorf("preset.src_dirs[%d]: %w", i, err)
			}
		}
		for i, d := range c.Preset.TestDirs {
			if err := validateRelative(d); err != nil {
				return fmt.Errorf("preset.test_dirs[%d]: %w", i, err)
			}
		}
	}

	if c.RulesPath != "" {
		if err := validateRelative(c.RulesPath); err != nil {
			return fmt.Errorf("rules_path: %w", err)
		}
	}

	for i, p := range c.ExcludePaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("exclude_paths[%d] must not be empty", i)
		}
	}
	for i, p := range c.Hook.SkipPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("hook.skip_paths[%d] must not be empty", i)
		}
	}

	return nil
}

// validateRelative rejects absolute paths and paths escaping the project root.
func validateRelative(p string) error {
	slashed := strings.ReplaceAll(p, "\\", "/")
	if slashed == "" {
		return fmt.Errorf("path must not be empty")
	}
	if path.IsAbs(slashed) || (len(slashed) > 1 && slashed[1] == ':') {
		return fmt.Errorf("path %q must be relative to the project root", p)
	}
	clean := path.Clean(slashed)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("path %q escapes the project root", p)
	}
	return nil
}

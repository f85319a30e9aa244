package domain

import (
	"errors"
	"strings"
)

// RuleSetVersion is the version of the persisted rule-set document this
// build writes and understands. Readers reject any other major version.
const RuleSetVersion = 1

// ErrUnsupportedRuleVersion is returned when a persisted rule-set document
// declares a version this build cannot read.
var ErrUnsupportedRuleVersion = errors.New("unsupported rule-set version")

// LayerRule forbids imports matching any Forbidden pattern in files under Prefix.
type LayerRule struct {
	ID        string   `yaml:"id"        json:"id"`
	Prefix    string   `yaml:"prefix"    json:"prefix"`
	Forbidden []string `yaml:"forbidden" json:"forbidden"`
}

// SiblingBlock forbids import statements that name a sibling layer directly.
// Patterns are matched against the start of the import statement text.
type SiblingBlock struct {
	ID       string   `yaml:"id"       json:"id"`
	Prefix   string   `yaml:"prefix"   json:"prefix"`
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// FileBlock forbids files whose basename contains any of Names under Prefix.
type FileBlock struct {
	ID     string   `yaml:"id"     json:"id"`
	Prefix string   `yaml:"prefix" json:"prefix"`
	Names  []string `yaml:"names"  json:"names"`
}

// RuleSet is the compiled, typed form of the boundary rules for one project.
type RuleSet struct {
	Version    int            `yaml:"version"               json:"version"`
	Preset     string         `yaml:"preset"                json:"preset"`
	Layers     []LayerRule    `yaml:"layers"                json:"layers"`
	Siblings   []SiblingBlock `yaml:"siblings"              json:"siblings"`
	FileBlocks []FileBlock    `yaml:"file_blocks,omitempty" json:"file_blocks,omitempty"`

	// MaxFileLines caps the length of a whole source file written in one
	// go. Zero means no limit.
	MaxFileLines int `yaml:"max_file_lines,omitempty" json:"max_file_lines,omitempty"`
}

// IsEmpty reports whether the rule set enforces nothing.
func (rs RuleSet) IsEmpty() bool {
	return len(rs.Layers) == 0 && len(rs.Siblings) == 0 && len(rs.FileBlocks) == 0 && rs.MaxFileLines == 0
}

// CompileGap notes that no rules could be compiled for a requested stack.
// It is informational: the result is an empty, permissive rule set.
type CompileGap struct {
	Preset string `json:"preset"`
	Reason string `json:"reason"`
}

// Rule identifier kinds.
const (
	RuleKindLayer   = "layer"
	RuleKindSibling = "sibling"
	RuleKindFile    = "file"
	RuleKindSize    = "size"
)

// DefaultMaxFileLines is the file-size limit the built-in presets compile.
const DefaultMaxFileLines = 500

// RuleID builds the identifier for a rule of the given kind at prefix.
func RuleID(kind, prefix string) string {
	return kind + ":" + prefix
}

// NormalizePrefix returns prefix in slash form with exactly one trailing slash.
// The project root normalizes to "".
func NormalizePrefix(prefix string) string {
	p := strings.ReplaceAll(prefix, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return ""
	}
	return p + "/"
}

// PolicyDecision is the outcome of evaluating one proposed write.
type PolicyDecision struct {
	Allow         bool   `json:"allow"`
	RuleID        string `json:"rule_id,omitempty"`
	MatchedImport string `json:"matched_import,omitempty"`
	Pattern       string `json:"pattern,omitempty"`
	Line          int    `json:"line,omitempty"`
	Message       string `json:"message,omitempty"`
	Hint          string `json:"hint,omitempty"`
}

// Allowed is the permissive decision.
func Allowed() PolicyDecision {
	return PolicyDecision{Allow: true}
}

// RuleDrift is one difference between the persisted rule-set document and a
// fresh compile. Path is a JSON pointer into the rule set.
type RuleDrift struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

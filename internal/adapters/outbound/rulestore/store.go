package rulestore

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stackguard/stackguard/internal/domain"
)

const header = "# Generated by stackguard compile. Edits are overwritten on the next compile.\n"

// Store is a file-based implementation of domain.RuleStore. The document is
// versioned YAML so the pre-write hook can read it without recompiling.
type Store struct{}

// New creates a new file-based rule store.
func New() *Store {
	return &Store{}
}

// Load reads the rule-set document. Returns (nil, nil) if none exists.
func (s *Store) Load(projectPath, rulesPath string) (*domain.RuleSet, error) {
	path := documentPath(projectPath, rulesPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil // not compiled yet is not an error
		}
		return nil, err
	}

	var rs domain.RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rulesPath, err)
	}
	if rs.Version != domain.RuleSetVersion {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", rulesPath, domain.ErrUnsupportedRuleVersion, rs.Version, domain.RuleSetVersion)
	}
	return &rs, nil
}

// Save writes the rule-set document, creating directories as needed. The
// file is replaced atomically so a concurrent hook never reads a partial write.
func (s *Store) Save(projectPath, rulesPath string, rs domain.RuleSet) error {
	path := documentPath(projectPath, rulesPath)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := Encode(rs)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".rules-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Encode renders a rule set as the persisted YAML document.
func Encode(rs domain.RuleSet) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rs); err != nil {
		return nil, fmt.Errorf("encoding rule set: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func documentPath(projectPath, rulesPath string) string {
	if rulesPath == "" {
		rulesPath = domain.DefaultRulesPath
	}
	return filepath.Join(projectPath, filepath.FromSlash(rulesPath))
}

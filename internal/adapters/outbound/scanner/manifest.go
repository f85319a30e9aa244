package scanner

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/stackguard/stackguard/internal/domain"
)

var manifestKinds = map[string]domain.ManifestKind{
	"pyproject.toml":   domain.ManifestPyProject,
	"requirements.txt": domain.ManifestRequirements,
	"package.json":     domain.ManifestPackageJSON,
}

const maxManifestSize = 1 << 20 // 1MB cap for manifest reads.

// requirementName captures the distribution name at the start of a PEP 508 requirement.
var requirementName = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._-]*)`)

// parseManifest extracts dependency names and a few descriptive fields.
// Failures are reported in ParseError; they never abort a scan.
func parseManifest(kind domain.ManifestKind, absPath string) domain.Manifest {
	m := domain.Manifest{Kind: kind}

	data, err := readCapped(absPath)
	if err != nil {
		m.ParseError = err.Error()
		return m
	}

	switch kind {
	case domain.ManifestPyProject:
		err = parsePyProject(data, &m)
	case domain.ManifestRequirements:
		err = parseRequirements(data, &m)
	case domain.ManifestPackageJSON:
		err = parsePackageJSON(data, &m)
	}
	if err != nil {
		m.ParseError = err.Error()
	}

	m.Dependencies = uniqueSorted(m.Dependencies)
	return m
}

func readCapped(absPath string) ([]byte, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxManifestSize))
}

type pyProject struct {
	Project struct {
		Name           string   `toml:"name"`
		Description    string   `toml:"description"`
		RequiresPython string   `toml:"requires-python"`
		Dependencies   []string `toml:"dependencies"`
	} `toml:"project"`
	Tool map[string]any `toml:"tool"`
}

func parsePyProject(data []byte, m *domain.Manifest) error {
	var doc pyProject
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return fmt.Errorf("decoding toml: %w", err)
	}

	m.Name = doc.Project.Name
	m.Description = doc.Project.Description
	m.RuntimeVersion = doc.Project.RequiresPython

	for _, req := range doc.Project.Dependencies {
		if name := normalizeRequirement(req); name != "" {
			m.Dependencies = append(m.Dependencies, name)
		}
	}

	for tool := range doc.Tool {
		m.Tools = append(m.Tools, tool)
	}
	sort.Strings(m.Tools)

	// Poetry keeps dependencies as a table keyed by name.
	if poetry, ok := doc.Tool["poetry"].(map[string]any); ok {
		if deps, ok := poetry["dependencies"].(map[string]any); ok {
			for name := range deps {
				if strings.EqualFold(name, "python") {
					if v, ok := deps[name].(string); ok && m.RuntimeVersion == "" {
						m.RuntimeVersion = v
					}
					continue
				}
				m.Dependencies = append(m.Dependencies, normalizeName(name))
			}
		}
		if m.Name == "" {
			m.Name, _ = poetry["name"].(string)
		}
		if m.Description == "" {
			m.Description, _ = poetry["description"].(string)
		}
	}
	return nil
}

func parseRequirements(data []byte, m *domain.Manifest) error {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}
		if name := normalizeRequirement(line); name != "" {
			m.Dependencies = append(m.Dependencies, name)
		}
	}
	return sc.Err()
}

type packageJSON struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Engines         map[string]string `json:"engines"`
}

func parsePackageJSON(data []byte, m *domain.Manifest) error {
	var doc packageJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}
	m.Name = doc.Name
	m.Description = doc.Description
	m.RuntimeVersion = doc.Engines["node"]
	for _, deps := range []map[string]string{doc.Dependencies, doc.DevDependencies} {
		for name := range deps {
			m.Dependencies = append(m.Dependencies, strings.ToLower(name))
		}
	}
	return nil
}

func normalizeRequirement(req string) string {
	match := requirementName.FindStringSubmatch(req)
	if match == nil {
		return ""
	}
	return normalizeName(match[1])
}

// normalizeName lowercases and folds underscores and dots to dashes, so
// "Flask_SQLAlchemy" and "flask-sqlalchemy" compare equal.
func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	return strings.ReplaceAll(n, ".", "-")
}

func uniqueSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

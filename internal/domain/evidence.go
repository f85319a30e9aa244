package domain

import (
	"errors"
	"fmt"
	"path"
	"slices"
)

// ErrScanRoot is returned (wrapped in *ScanError) when the scan root cannot be read.
var ErrScanRoot = errors.New("scan root unreadable")

// ScanError is the only fatal scanner failure: the root itself is unreadable.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scanning %s: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() []error { return []error{ErrScanRoot, e.Err} }

// ScanNote records a non-fatal scan problem such as an unreadable subdirectory.
type ScanNote struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// ManifestKind identifies a recognized dependency-declaration file.
type ManifestKind string

const (
	ManifestPyProject    ManifestKind = "pyproject.toml"
	ManifestRequirements ManifestKind = "requirements.txt"
	ManifestPackageJSON  ManifestKind = "package.json"
)

// IsPython reports whether the manifest kind declares a Python project.
func (k ManifestKind) IsPython() bool {
	return k == ManifestPyProject || k == ManifestRequirements
}

// Manifest holds the shallow facts extracted from one dependency-declaration file.
type Manifest struct {
	Kind           ManifestKind `json:"kind"`
	Path           string       `json:"path"`
	Depth          int          `json:"depth"`
	Name           string       `json:"name,omitempty"`
	Description    string       `json:"description,omitempty"`
	RuntimeVersion string       `json:"runtime_version,omitempty"`
	Dependencies   []string     `json:"dependencies,omitempty"` // sorted, lower-case
	Tools          []string     `json:"tools,omitempty"`
	ParseError     string       `json:"parse_error,omitempty"`
}

// HasDependency reports whether name is among the declared dependencies.
func (m Manifest) HasDependency(name string) bool {
	_, found := slices.BinarySearch(m.Dependencies, name)
	return found
}

// HasTool reports whether the manifest carries configuration for the named tool.
func (m Manifest) HasTool(name string) bool {
	return slices.Contains(m.Tools, name)
}

// Evidence is the raw, uninterpreted output of a bounded-depth scan.
// Paths are slash-separated and relative to Root.
type Evidence struct {
	Root      string     `json:"root"`
	RootName  string     `json:"root_name"`
	MaxDepth  int        `json:"max_depth"`
	Files     []string   `json:"files"`
	Dirs      []string   `json:"dirs"`
	Manifests []Manifest `json:"manifests"`
	GitRepo   bool       `json:"git_repo"`
	Notes     []ScanNote `json:"notes,omitempty"`
}

// HasFile reports whether the relative file path was observed.
func (e *Evidence) HasFile(rel string) bool {
	return slices.Contains(e.Files, rel)
}

// HasDir reports whether the relative directory path was observed.
func (e *Evidence) HasDir(rel string) bool {
	return slices.Contains(e.Dirs, rel)
}

// HasPath reports whether rel was observed as either a file or a directory.
func (e *Evidence) HasPath(rel string) bool {
	return e.HasFile(rel) || e.HasDir(rel)
}

// RootManifest returns the manifest of the given kind located at the scan root.
func (e *Evidence) RootManifest(kind ManifestKind) (Manifest, bool) {
	for _, m := range e.Manifests {
		if m.Kind == kind && m.Depth == 0 {
			return m, true
		}
	}
	return Manifest{}, false
}

// TopLevelDirs returns the names of observed directories directly under the root.
func (e *Evidence) TopLevelDirs() []string {
	var out []string
	for _, d := range e.Dirs {
		if path.Dir(d) == "." {
			out = append(out, d)
		}
	}
	return out
}

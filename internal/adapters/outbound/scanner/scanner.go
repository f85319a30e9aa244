package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/stackguard/stackguard/internal/domain"
	"github.com/stackguard/stackguard/internal/logger"
)

var skipDirs = map[string]bool{
	".git":          true,
	"node_modules":  true,
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	".tox":          true,
	".mypy_cache":   true,
	".pytest_cache": true,
	"dist":          true,
	"build":         true,
	".next":         true,
	".nuxt":         true,
	"coverage":      true,
	"htmlcov":       true,
	"vendor":        true,
}

// FileScanner implements domain.EvidenceScanner by walking the filesystem
// to a bounded depth.
type FileScanner struct {
	git     domain.GitInfo
	readDir func(string) ([]os.DirEntry, error)
}

// New creates a FileScanner. git may be nil, in which case repository
// evidence falls back to the presence of a .git entry.
func New(git domain.GitInfo) *FileScanner {
	return &FileScanner{git: git, readDir: os.ReadDir}
}

func (s *FileScanner) Scan(root string, opts domain.ScanOptions) (*domain.Evidence, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &domain.ScanError{Root: root, Err: err}
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, &domain.ScanError{Root: absRoot, Err: err}
	}
	info, err := os.Stat(realRoot)
	if err != nil {
		return nil, &domain.ScanError{Root: absRoot, Err: err}
	}
	if !info.IsDir() {
		return nil, &domain.ScanError{Root: absRoot, Err: fmt.Errorf("not a directory")}
	}
	entries, err := s.readDir(realRoot)
	if err != nil {
		return nil, &domain.ScanError{Root: absRoot, Err: err}
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = domain.DefaultMaxDepth
	}

	w := &walker{
		root:     realRoot,
		readDir:  s.readDir,
		maxDepth: maxDepth,
		excludes: opts.ExcludePaths,
		ev: &domain.Evidence{
			Root:     absRoot,
			RootName: filepath.Base(absRoot),
			MaxDepth: maxDepth,
			Files:    []string{},
			Dirs:     []string{},
		},
	}
	w.visit("", entries, 1)

	w.ev.GitRepo = s.isGitRepo(realRoot)
	return w.ev, nil
}

func (s *FileScanner) isGitRepo(root string) bool {
	if s.git != nil && s.git.IsGitRepo(root) {
		return true
	}
	_, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil
}

type walker struct {
	root     string
	readDir  func(string) ([]os.DirEntry, error)
	maxDepth int
	excludes []string
	ev       *domain.Evidence
}

// visit records entries of the directory at relDir. level is the depth of
// the entries themselves; root entries are level 1.
func (w *walker) visit(relDir string, entries []os.DirEntry, level int) {
	for _, entry := range entries {
		name := entry.Name()
		rel := path.Join(relDir, name)
		abs := filepath.Join(w.root, filepath.FromSlash(rel))

		if w.excluded(name, rel) {
			continue
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			w.visitSymlink(rel, abs)
			continue
		}

		if entry.IsDir() {
			if skipDirs[name] {
				continue
			}
			w.ev.Dirs = append(w.ev.Dirs, rel)
			if level >= w.maxDepth {
				continue
			}
			children, err := w.readDir(abs)
			if err != nil {
				w.note(rel, fmt.Sprintf("unreadable directory: %v", err))
				continue
			}
			w.visit(rel, children, level+1)
			continue
		}

		w.ev.Files = append(w.ev.Files, rel)
		if kind, ok := manifestKinds[name]; ok {
			m := parseManifest(kind, abs)
			m.Path = rel
			m.Depth = level - 1
			if m.ParseError != "" {
				w.note(rel, "unparsable manifest: "+m.ParseError)
			}
			w.ev.Manifests = append(w.ev.Manifests, m)
		}
	}
}

// visitSymlink records a link only when it resolves inside the root.
// Linked directories are never descended, which keeps cyclic links finite.
func (w *walker) visitSymlink(rel, abs string) {
	target, err := filepath.EvalSymlinks(abs)
	if err != nil {
		w.note(rel, "broken symlink")
		return
	}
	if !within(w.root, target) {
		w.note(rel, "symlink resolves outside the scan root")
		return
	}
	info, err := os.Stat(target)
	if err != nil {
		w.note(rel, fmt.Sprintf("unreadable symlink target: %v", err))
		return
	}
	if info.IsDir() {
		w.ev.Dirs = append(w.ev.Dirs, rel)
		return
	}
	w.ev.Files = append(w.ev.Files, rel)
}

func (w *walker) note(rel, reason string) {
	logger.ForComponent("scanner").Debug("skipping path", "path", rel, "reason", reason)
	w.ev.Notes = append(w.ev.Notes, domain.ScanNote{Path: rel, Reason: reason})
}

// excluded matches user exclude patterns. Bare names match any entry with
// that name; anything else is a doublestar glob over the relative path.
func (w *walker) excluded(name, rel string) bool {
	for _, p := range w.excludes {
		p = strings.TrimSuffix(filepath.ToSlash(p), "/")
		if !strings.ContainsAny(p, "*?[{/") {
			if p == name {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

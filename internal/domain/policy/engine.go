package policy

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/stackguard/stackguard/internal/domain"
)

// Evaluate decides whether writing content to filePath respects rs.
// content is the whole file.
//
// filePath is relative to the project root. Files of unrecognized kinds and
// binary content are allowed; Evaluate has no side effects and keeps no state.
// The first violation found, in line order, blocks the write.
func Evaluate(rs domain.RuleSet, filePath, content string) domain.PolicyDecision {
	return evaluate(rs, filePath, content, true)
}

// EvaluateFragment is Evaluate for text spliced into an existing file. The
// file-size limit does not apply to a fragment.
func EvaluateFragment(rs domain.RuleSet, filePath, fragment string) domain.PolicyDecision {
	return evaluate(rs, filePath, fragment, false)
}

func evaluate(rs domain.RuleSet, filePath, content string, wholeFile bool) domain.PolicyDecision {
	rel := NormalizePath(filePath)

	kind := KindForPath(rel)
	if kind == KindUnknown || strings.IndexByte(content, 0) >= 0 {
		return domain.Allowed()
	}

	if fb, ok := longestFileBlock(rs.FileBlocks, rel); ok {
		if d, blocked := checkFileName(fb, rel); blocked {
			return d
		}
	}

	if wholeFile && rs.MaxFileLines > 0 {
		if n := CountLines(content); n > rs.MaxFileLines {
			id := domain.RuleID(domain.RuleKindSize, strconv.Itoa(rs.MaxFileLines))
			return domain.PolicyDecision{
				RuleID:  id,
				Line:    rs.MaxFileLines + 1,
				Message: fmt.Sprintf("%s: %s has %d lines, more than the %d allowed", id, rel, n, rs.MaxFileLines),
				Hint:    "split the file into smaller modules along its responsibilities",
			}
		}
	}

	layer, hasLayer := longestLayer(rs.Layers, rel)
	sibling, hasSibling := longestSibling(rs.Siblings, rel)
	if !hasLayer && !hasSibling {
		return domain.Allowed()
	}

	for _, imp := range ParseImports(kind, content) {
		target, forms := imp.Target, []string{imp.Text}
		if kind == KindPython {
			var ok bool
			if target, forms, ok = pythonForms(rel, imp); !ok {
				continue
			}
		}

		if hasLayer {
			for _, pattern := range layer.Forbidden {
				if matchesForbidden(target, pattern) {
					return domain.PolicyDecision{
						RuleID:        layer.ID,
						MatchedImport: target,
						Pattern:       pattern,
						Line:          imp.Line,
						Message:       fmt.Sprintf("%s: %s must not import %q (line %d matches forbidden %q)", layer.ID, layer.Prefix, target, imp.Line, pattern),
						Hint:          fmt.Sprintf("keep %s independent of %s; depend on an interface here and wire the implementation from an outer layer", layer.Prefix, pattern),
					}
				}
			}
		}
		if hasSibling {
			for _, pattern := range sibling.Patterns {
				for _, form := range forms {
					if matchesSibling(form, pattern) {
						return domain.PolicyDecision{
							RuleID:        sibling.ID,
							MatchedImport: target,
							Pattern:       pattern,
							Line:          imp.Line,
							Message:       fmt.Sprintf("%s: %s must not reach a sibling layer (line %d: %q)", sibling.ID, sibling.Prefix, imp.Line, imp.Text),
							Hint:          fmt.Sprintf("move the shared code into a lower layer both sides may import instead of %q", pattern),
						}
					}
				}
			}
		}
	}

	return domain.Allowed()
}

// CountLines counts the lines of content; a final newline does not start
// another line.
func CountLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// pythonForms returns the absolute module an import names and the statement
// forms sibling patterns are matched against. Relative imports are resolved
// against the package of rel; one climbing above the project root is
// skipped.
func pythonForms(rel string, imp ImportRef) (string, []string, bool) {
	target := imp.Target
	if strings.HasPrefix(target, ".") {
		resolved, ok := resolveRelative(rel, target)
		if !ok {
			return "", nil, false
		}
		target = resolved
	}
	if !imp.From {
		return target, []string{"import " + target}, true
	}

	forms := []string{"from " + target}
	for _, name := range imp.Names {
		if target == "" {
			forms = append(forms, "from "+name)
			continue
		}
		forms = append(forms, "from "+target+"."+name)
	}
	return target, forms, true
}

// resolveRelative turns "..db" imported from src/core/x.py into "src.db".
func resolveRelative(rel, target string) (string, bool) {
	module := strings.TrimLeft(target, ".")
	dots := len(target) - len(module)

	pkg := path.Dir(rel)
	for i := 1; i < dots; i++ {
		if pkg == "." {
			return "", false
		}
		pkg = path.Dir(pkg)
	}

	var parts []string
	if pkg != "." {
		parts = strings.Split(pkg, "/")
	}
	if module != "" {
		parts = append(parts, module)
	}
	return strings.Join(parts, "."), true
}

// NormalizePath converts a project-relative path to clean slash form.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}

func checkFileName(fb domain.FileBlock, rel string) (domain.PolicyDecision, bool) {
	base := strings.ToLower(path.Base(rel))
	for _, name := range fb.Names {
		if strings.Contains(base, strings.ToLower(name)) {
			return domain.PolicyDecision{
				RuleID:  fb.ID,
				Pattern: name,
				Message: fmt.Sprintf("%s: files named like %q do not belong in %s (%s)", fb.ID, name, fb.Prefix, rel),
				Hint:    fmt.Sprintf("place %s integrations in an adapter layer outside %s", name, fb.Prefix),
			}, true
		}
	}
	return domain.PolicyDecision{}, false
}

// matchesForbidden reports whether target is pattern itself or a submodule of it.
func matchesForbidden(target, pattern string) bool {
	if target == pattern {
		return true
	}
	if !strings.HasPrefix(target, pattern) {
		return false
	}
	next := target[len(pattern)]
	return next == '.' || next == '/'
}

// matchesSibling reports whether the import line starts with pattern at a
// module boundary, so "from src.db" matches "from src.db.session import x"
// but not "from src.dbx import y".
func matchesSibling(line, pattern string) bool {
	if !strings.HasPrefix(line, pattern) {
		return false
	}
	if len(line) == len(pattern) {
		return true
	}
	next := line[len(pattern)]
	return next == '.' || next == ' ' || next == '\t'
}

func hasPrefix(rel, prefix string) bool {
	return prefix == "" || strings.HasPrefix(rel, prefix)
}

func longestLayer(rules []domain.LayerRule, rel string) (domain.LayerRule, bool) {
	best, found := domain.LayerRule{}, false
	for _, r := range rules {
		if hasPrefix(rel, r.Prefix) && (!found || len(r.Prefix) > len(best.Prefix)) {
			best, found = r, true
		}
	}
	return best, found
}

func longestSibling(rules []domain.SiblingBlock, rel string) (domain.SiblingBlock, bool) {
	best, found := domain.SiblingBlock{}, false
	for _, r := range rules {
		if hasPrefix(rel, r.Prefix) && (!found || len(r.Prefix) > len(best.Prefix)) {
			best, found = r, true
		}
	}
	return best, found
}

func longestFileBlock(rules []domain.FileBlock, rel string) (domain.FileBlock, bool) {
	best, found := domain.FileBlock{}, false
	for _, r := range rules {
		if hasPrefix(rel, r.Prefix) && (!found || len(r.Prefix) > len(best.Prefix)) {
			best, found = r, true
		}
	}
	return best, found
}

package policy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stackguard/stackguard/internal/domain"
)

// Compile turns an effective configuration into a typed rule set.
//
// An unknown preset or a layout the preset's template cannot bind to yields
// an empty rule set plus a CompileGap. Compile never fails: an empty rule
// set allows every write.
func Compile(cfg domain.EffectiveConfig) (domain.RuleSet, []domain.CompileGap) {
	rs := domain.RuleSet{
		Version:  domain.RuleSetVersion,
		Preset:   cfg.Preset,
		Layers:   []domain.LayerRule{},
		Siblings: []domain.SiblingBlock{},
	}

	tpl, ok := templates[cfg.Preset]
	if !ok {
		return rs, []domain.CompileGap{{
			Preset: cfg.Preset,
			Reason: fmt.Sprintf("no rule template for preset %q (built-in: %s)", cfg.Preset, strings.Join(builtinPresets(), ", ")),
		}}
	}

	root, ok := bindRoot(tpl.roots, cfg.Profile.SrcDirs)
	if !ok && tpl.flat && hasTopLevelRole(tpl, cfg.Profile.SrcDirs) {
		root, ok = "", true
	}
	if !ok && tpl.canonical {
		root, ok = domain.NormalizePrefix(tpl.roots[0]), true
	}
	if !ok {
		return rs, []domain.CompileGap{{
			Preset: cfg.Preset,
			Reason: fmt.Sprintf("no source root found: expected one of %s", strings.Join(withSlash(tpl.roots), ", ")),
		}}
	}

	rs.MaxFileLines = tpl.maxLines

	for _, l := range tpl.layers {
		prefix := rolePrefix(root, l.role)
		rs.Layers = append(rs.Layers, domain.LayerRule{
			ID:        domain.RuleID(domain.RuleKindLayer, prefix),
			Prefix:    prefix,
			Forbidden: append([]string{}, l.forbidden...),
		})
	}

	for _, s := range tpl.siblings {
		prefix := rolePrefix(root, s.role)
		var patterns []string
		for _, target := range s.targets {
			patterns = append(patterns, siblingPatterns(root, target)...)
		}
		rs.Siblings = append(rs.Siblings, domain.SiblingBlock{
			ID:       domain.RuleID(domain.RuleKindSibling, prefix),
			Prefix:   prefix,
			Patterns: patterns,
		})
	}

	for _, f := range tpl.files {
		prefix := rolePrefix(root, f.role)
		rs.FileBlocks = append(rs.FileBlocks, domain.FileBlock{
			ID:     domain.RuleID(domain.RuleKindFile, prefix),
			Prefix: prefix,
			Names:  append([]string{}, f.names...),
		})
	}

	sort.Slice(rs.Layers, func(i, j int) bool { return rs.Layers[i].Prefix < rs.Layers[j].Prefix })
	sort.Slice(rs.Siblings, func(i, j int) bool { return rs.Siblings[i].Prefix < rs.Siblings[j].Prefix })
	sort.Slice(rs.FileBlocks, func(i, j int) bool { return rs.FileBlocks[i].Prefix < rs.FileBlocks[j].Prefix })

	return rs, nil
}

// bindRoot picks the first candidate root the profile actually has.
func bindRoot(candidates, srcDirs []string) (string, bool) {
	for _, c := range candidates {
		if c == "" {
			return "", true
		}
		want := domain.NormalizePrefix(c)
		for _, d := range srcDirs {
			if domain.NormalizePrefix(d) == want {
				return want, true
			}
		}
	}
	return "", false
}

// hasTopLevelRole reports whether one of the template's layer roles was
// detected directly under the project root.
func hasTopLevelRole(tpl template, srcDirs []string) bool {
	for _, l := range tpl.layers {
		want := domain.NormalizePrefix(l.role)
		for _, d := range srcDirs {
			if domain.NormalizePrefix(d) == want {
				return true
			}
		}
	}
	return false
}

func rolePrefix(root, role string) string {
	return domain.NormalizePrefix(root + role)
}

// siblingPatterns renders the import statements that reach a sibling role,
// e.g. "from src.db" and "import src.db".
func siblingPatterns(root, role string) []string {
	module := strings.ReplaceAll(strings.TrimSuffix(rolePrefix(root, role), "/"), "/", ".")
	return []string{"from " + module, "import " + module}
}

func builtinPresets() []string {
	ids := make([]string, len(domain.KnownPresets))
	for i, p := range domain.KnownPresets {
		ids[i] = p.ID
	}
	return ids
}

func withSlash(roots []string) []string {
	out := make([]string, 0, len(roots))
	for _, r := range roots {
		if r == "" {
			out = append(out, "./")
			continue
		}
		out = append(out, domain.NormalizePrefix(r))
	}
	return out
}

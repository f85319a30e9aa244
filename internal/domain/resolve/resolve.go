package resolve

import (
	"github.com/stackguard/stackguard/internal/domain"
)

// reducer resolves one profile field against preset hints. detected reports
// whether the profile carries a real value; fill copies the preset value in
// and reports whether the preset declared one.
type reducer struct {
	field    string
	detected func(p domain.ProjectProfile) bool
	fill     func(p *domain.ProjectProfile, hints domain.PresetOverride) bool
}

// reducers is the per-field merge table. Every entry uses the same strategy:
// the detected value wins unless it is the unknown/absent sentinel.
var reducers = []reducer{
	{
		field:    "language",
		detected: func(p domain.ProjectProfile) bool { return p.Language.Known() },
		fill: func(p *domain.ProjectProfile, h domain.PresetOverride) bool {
			if h.Language == "" {
				return false
			}
			p.Language = h.Language
			return true
		},
	},
	{
		field:    "framework",
		detected: func(p domain.ProjectProfile) bool { return p.Framework != "" },
		fill: func(p *domain.ProjectProfile, h domain.PresetOverride) bool {
			if h.Framework == "" {
				return false
			}
			p.Framework = h.Framework
			return true
		},
	},
	{
		field:    "package_manager",
		detected: func(p domain.ProjectProfile) bool { return p.PackageManager != "" },
		fill: func(p *domain.ProjectProfile, h domain.PresetOverride) bool {
			if h.PackageManager == "" {
				return false
			}
			p.PackageManager = h.PackageManager
			return true
		},
	},
	{
		field:    "db_type",
		detected: func(p domain.ProjectProfile) bool { return p.DatabaseType != "" },
		fill: func(p *domain.ProjectProfile, h domain.PresetOverride) bool {
			if h.Database == "" {
				return false
			}
			p.DatabaseType = h.Database
			p.HasDatabase = true
			return true
		},
	},
	{
		field:    "src_dirs",
		detected: func(p domain.ProjectProfile) bool { return len(p.SrcDirs) > 0 },
		fill: func(p *domain.ProjectProfile, h domain.PresetOverride) bool {
			if len(h.SrcDirs) == 0 {
				return false
			}
			p.SrcDirs = normalizeDirs(h.SrcDirs)
			return true
		},
	},
	{
		field:    "test_dirs",
		detected: func(p domain.ProjectProfile) bool { return len(p.TestDirs) > 0 },
		fill: func(p *domain.ProjectProfile, h domain.PresetOverride) bool {
			if len(h.TestDirs) == 0 {
				return false
			}
			p.TestDirs = normalizeDirs(h.TestDirs)
			return true
		},
	},
}

// Fields lists the profile fields the resolver tracks provenance for, in table order.
func Fields() []string {
	out := make([]string, len(reducers))
	for i, r := range reducers {
		out[i] = r.field
	}
	return out
}

// Resolve merges a detected profile with an optional preset override.
//
// Without an override the profile is used verbatim and the preset is
// auto-selected. With one, preset hints fill only fields the detector left
// at the unknown/absent sentinel. A named override selects that preset and
// also contributes the preset's built-in hints beneath the user's own.
func Resolve(profile domain.ProjectProfile, override *domain.PresetOverride) domain.EffectiveConfig {
	p := profile.Clone()

	var hints domain.PresetOverride
	selection := domain.SelectionAuto
	presetID := ""
	if override != nil {
		hints = *override
		if override.Name != "" {
			presetID = override.Name
			selection = domain.SelectionOverride
			hints = domain.PresetDeclaration(override.Name).Overlay(*override)
		}
	}

	sources := make(map[string]domain.FieldSource, len(reducers))
	for _, r := range reducers {
		switch {
		case r.detected(p):
			sources[r.field] = domain.SourceDetected
		case r.fill(&p, hints):
			sources[r.field] = domain.SourcePreset
		default:
			sources[r.field] = domain.SourceAbsent
		}
	}

	if presetID == "" {
		presetID, _ = SelectPreset(p.Language, p.Framework)
	}

	return domain.EffectiveConfig{
		Profile:   p,
		Preset:    presetID,
		Selection: selection,
		Sources:   sources,
	}
}

func normalizeDirs(dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if n := domain.NormalizePrefix(d); n != "" {
			out = append(out, n)
		}
	}
	return out
}

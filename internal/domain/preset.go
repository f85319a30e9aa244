package domain

// Preset identifiers. Each known preset has a rule template in the policy compiler.
const (
	PresetPythonFastAPI = "python-fastapi"
	PresetPythonDjango  = "python-django"
	PresetNextJS        = "nextjs"
	PresetGeneric       = "generic"
)

// PresetInfo describes a built-in preset.
type PresetInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// KnownPresets lists the built-in presets in display order.
var KnownPresets = []PresetInfo{
	{ID: PresetPythonFastAPI, Description: "Python API service with core/db/api/worker layering"},
	{ID: PresetPythonDjango, Description: "Django project with apps/ layout"},
	{ID: PresetNextJS, Description: "Next.js / React frontend with lib and components separation"},
	{ID: PresetGeneric, Description: "Any stack; no enforced layer rules"},
}

// IsKnownPreset reports whether id names a built-in preset.
func IsKnownPreset(id string) bool {
	for _, p := range KnownPresets {
		if p.ID == id {
			return true
		}
	}
	return false
}

// PresetOverride is a user-declared preset: hints that fill in fields the
// detector could not determine. Empty fields declare nothing.
type PresetOverride struct {
	Name           string   `yaml:"name,omitempty"            json:"name,omitempty"`
	Language       Language `yaml:"language,omitempty"        json:"language,omitempty"`
	Framework      string   `yaml:"framework,omitempty"       json:"framework,omitempty"`
	PackageManager string   `yaml:"package_manager,omitempty" json:"package_manager,omitempty"`
	Database       string   `yaml:"database,omitempty"        json:"database,omitempty"`
	SrcDirs        []string `yaml:"src_dirs,omitempty"        json:"src_dirs,omitempty"`
	TestDirs       []string `yaml:"test_dirs,omitempty"       json:"test_dirs,omitempty"`
}

// IsZero reports whether the override declares nothing at all.
func (o PresetOverride) IsZero() bool {
	return o.Name == "" && o.Language == "" && o.Framework == "" &&
		o.PackageManager == "" && o.Database == "" &&
		len(o.SrcDirs) == 0 && len(o.TestDirs) == 0
}

// PresetDeclaration returns the stack hints a built-in preset carries.
// Unknown ids return an override carrying only the name.
func PresetDeclaration(id string) PresetOverride {
	switch id {
	case PresetPythonFastAPI:
		return PresetOverride{Name: id, Language: LanguagePython, Framework: "fastapi", PackageManager: "uv", SrcDirs: []string{"src/"}, TestDirs: []string{"tests/"}}
	case PresetPythonDjango:
		return PresetOverride{Name: id, Language: LanguagePython, Framework: "django", PackageManager: "pip", SrcDirs: []string{"apps/"}, TestDirs: []string{"tests/"}}
	case PresetNextJS:
		return PresetOverride{Name: id, Language: LanguageTypeScript, Framework: "next", PackageManager: "pnpm", SrcDirs: []string{"src/"}}
	default:
		return PresetOverride{Name: id}
	}
}

// Overlay returns o with every non-empty field of top replacing o's value.
func (o PresetOverride) Overlay(top PresetOverride) PresetOverride {
	out := o
	if top.Name != "" {
		out.Name = top.Name
	}
	if top.Language != "" {
		out.Language = top.Language
	}
	if top.Framework != "" {
		out.Framework = top.Framework
	}
	if top.PackageManager != "" {
		out.PackageManager = top.PackageManager
	}
	if top.Database != "" {
		out.Database = top.Database
	}
	if len(top.SrcDirs) > 0 {
		out.SrcDirs = top.SrcDirs
	}
	if len(top.TestDirs) > 0 {
		out.TestDirs = top.TestDirs
	}
	return out
}

// FieldSource records where an effective field value came from.
type FieldSource string

const (
	SourceDetected FieldSource = "detected"
	SourcePreset   FieldSource = "preset"
	SourceAbsent   FieldSource = "absent"
)

// PresetSelection records how the preset id was chosen.
type PresetSelection string

const (
	SelectionAuto     PresetSelection = "auto"
	SelectionOverride PresetSelection = "override"
)

// EffectiveConfig is a ProjectProfile resolved against an optional preset.
type EffectiveConfig struct {
	Profile   ProjectProfile         `json:"profile"`
	Preset    string                 `json:"preset"`
	Selection PresetSelection        `json:"selection"`
	Sources   map[string]FieldSource `json:"sources"`
}

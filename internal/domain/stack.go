package domain

// Language is the primary language classification of a project.
type Language string

const (
	LanguagePython     Language = "python"
	LanguageTypeScript Language = "typescript"
	LanguageJavaScript Language = "javascript"
	LanguageMixed      Language = "mixed"
	LanguageUnknown    Language = "unknown"
)

// ValidLanguages enumerates every language the detector can report.
var ValidLanguages = []Language{
	LanguagePython,
	LanguageTypeScript,
	LanguageJavaScript,
	LanguageMixed,
	LanguageUnknown,
}

// IsJS reports whether the language uses the JavaScript module ecosystem.
func (l Language) IsJS() bool {
	return l == LanguageTypeScript || l == LanguageJavaScript
}

// Known reports whether l is set to anything other than the unknown sentinel.
func (l Language) Known() bool {
	return l != "" && l != LanguageUnknown
}

// IsValidLanguage reports whether l is one of ValidLanguages.
func IsValidLanguage(l Language) bool {
	for _, v := range ValidLanguages {
		if v == l {
			return true
		}
	}
	return false
}

// ProjectProfile is the immutable snapshot of detected facts about a source tree.
// Every directory and file field lists only paths observed during the scan.
type ProjectProfile struct {
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Language       Language `json:"language"`
	Framework      string   `json:"framework,omitempty"`
	PackageManager string   `json:"package_manager,omitempty"`
	RuntimeVersion string   `json:"runtime_version,omitempty"`

	SrcDirs  []string `json:"src_dirs"`
	TestDirs []string `json:"test_dirs"`

	HasDocker    bool   `json:"has_docker"`
	HasCI        bool   `json:"has_ci"`
	HasDatabase  bool   `json:"has_database"`
	HasRedis     bool   `json:"has_redis"`
	DatabaseType string `json:"db_type,omitempty"`

	EntryPoints   []string `json:"entry_points"`
	DirectoryTree string   `json:"directory_tree"`
	Linter        string   `json:"linter,omitempty"`

	ExistingConfigFile bool `json:"existing_config_file"`
	ExistingConfigDir  bool `json:"existing_config_dir"`
	GitInitialized     bool `json:"git_initialized"`
	IsMonorepo         bool `json:"is_monorepo"`

	Notes []ScanNote `json:"notes,omitempty"`
}

// IsUnknownStack reports whether detection found no recognizable stack.
// This is a legitimate outcome, not an error.
func (p ProjectProfile) IsUnknownStack() bool {
	return !p.Language.Known() && p.Framework == "" && p.PackageManager == ""
}

// Clone returns a deep copy so callers can never alias the profile's slices.
func (p ProjectProfile) Clone() ProjectProfile {
	c := p
	c.SrcDirs = cloneStrings(p.SrcDirs)
	c.TestDirs = cloneStrings(p.TestDirs)
	c.EntryPoints = cloneStrings(p.EntryPoints)
	if p.Notes != nil {
		c.Notes = append([]ScanNote(nil), p.Notes...)
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

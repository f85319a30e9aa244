package domain

// ScanOptions bounds and filters an evidence scan.
type ScanOptions struct {
	MaxDepth     int
	ExcludePaths []string
}

// EvidenceScanner collects raw filesystem evidence from a project tree.
type EvidenceScanner interface {
	Scan(root string, opts ScanOptions) (*Evidence, error)
}

// StackDetector classifies evidence into a ProjectProfile against the
// lookup tables it was built with.
type StackDetector interface {
	Detect(ev *Evidence) ProjectProfile
	Tables() StackTables
}

// ConfigLoader loads project configuration.
type ConfigLoader interface {
	Load(projectPath string) (ProjectConfig, error)
}

// RuleStore persists the compiled rule-set document read by the pre-write hook.
type RuleStore interface {
	Load(projectPath, rulesPath string) (*RuleSet, error)
	Save(projectPath, rulesPath string, rs RuleSet) error
}

// GitInfo reports repository facts for a project path.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	Revision(projectPath string) (string, error)
}

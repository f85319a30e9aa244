package application

import (
	"encoding/json"
	"fmt"

	"github.com/wI2L/jsondiff"

	"github.com/stackguard/stackguard/internal/domain"
	"github.com/stackguard/stackguard/internal/domain/policy"
	"github.com/stackguard/stackguard/internal/domain/resolve"
	"github.com/stackguard/stackguard/internal/logger"
)

// CompileReport describes one compile run.
type CompileReport struct {
	Effective domain.EffectiveConfig `json:"effective"`
	RuleSet   domain.RuleSet         `json:"rules"`
	Gaps      []domain.CompileGap    `json:"gaps,omitempty"`
	Path      string                 `json:"path"`
	Written   bool                   `json:"written"`
	Revision  string                 `json:"revision,omitempty"`
}

// DriftReport compares the persisted rule-set document with a fresh compile.
type DriftReport struct {
	Path      string             `json:"path"`
	Persisted bool               `json:"persisted"`
	Drift     []domain.RuleDrift `json:"drift"`
}

// UpToDate reports whether the persisted document matches a fresh compile.
func (r *DriftReport) UpToDate() bool {
	return r.Persisted && len(r.Drift) == 0
}

// CompileService orchestrates the compile pipeline:
// detect → resolve against the preset → compile rules → persist the document.
type CompileService struct {
	detect *DetectService
	store  domain.RuleStore
	git    domain.GitInfo
}

// NewCompileService wires a compiler. git may be nil.
func NewCompileService(
	scanner domain.EvidenceScanner,
	detector domain.StackDetector,
	configLoader domain.ConfigLoader,
	store domain.RuleStore,
	git domain.GitInfo,
) *CompileService {
	return &CompileService{
		detect: NewDetectService(scanner, detector, configLoader),
		store:  store,
		git:    git,
	}
}

// Compile resolves the project against presetName (or the configured or
// auto-selected preset when empty) and persists the rule set unless dryRun.
func (s *CompileService) Compile(root, presetName string, dryRun bool) (*CompileReport, error) {
	cfg, err := s.detect.configLoader.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	report, err := s.compile(root, cfg, presetName)
	if err != nil {
		return nil, err
	}

	log := logger.ForComponent("compile")
	for _, g := range report.Gaps {
		log.Warn("compile gap", "preset", g.Preset, "reason", g.Reason)
	}

	if dryRun {
		return report, nil
	}

	if err := s.store.Save(root, report.Path, report.RuleSet); err != nil {
		return nil, fmt.Errorf("saving rules: %w", err)
	}
	report.Written = true
	log.Info("wrote rule set",
		"path", report.Path,
		"preset", report.RuleSet.Preset,
		"layers", len(report.RuleSet.Layers),
		"siblings", len(report.RuleSet.Siblings),
	)
	return report, nil
}

// Check reports drift between the persisted document and a fresh compile of
// the configured preset. A missing document is reported, not an error.
func (s *CompileService) Check(root string) (*DriftReport, error) {
	cfg, err := s.detect.configLoader.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	fresh, err := s.compile(root, cfg, "")
	if err != nil {
		return nil, err
	}

	report := &DriftReport{Path: fresh.Path, Drift: []domain.RuleDrift{}}

	persisted, err := s.store.Load(root, fresh.Path)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	if persisted == nil {
		return report, nil
	}
	report.Persisted = true

	// Compile against the persisted preset so a deliberate --preset choice
	// is not reported as drift.
	if persisted.Preset != fresh.RuleSet.Preset {
		fresh, err = s.compile(root, cfg, persisted.Preset)
		if err != nil {
			return nil, err
		}
	}

	drift, err := diffRuleSets(*persisted, fresh.RuleSet)
	if err != nil {
		return nil, err
	}
	report.Drift = drift
	return report, nil
}

// Rules returns the persisted rule set, or compiles one in memory when the
// project has not been compiled yet.
func (s *CompileService) Rules(root string) (domain.RuleSet, error) {
	cfg, err := s.detect.configLoader.Load(root)
	if err != nil {
		return domain.RuleSet{}, fmt.Errorf("loading config: %w", err)
	}
	return s.rules(root, cfg)
}

func (s *CompileService) rules(root string, cfg domain.ProjectConfig) (domain.RuleSet, error) {
	path := cfg.EffectiveRulesPath()
	rs, err := s.store.Load(root, path)
	if err != nil {
		return domain.RuleSet{}, fmt.Errorf("loading rules: %w", err)
	}
	if rs != nil {
		return *rs, nil
	}

	logger.ForComponent("compile").Debug("no persisted rules, compiling in memory", "path", path)
	report, err := s.compile(root, cfg, "")
	if err != nil {
		return domain.RuleSet{}, err
	}
	return report.RuleSet, nil
}

func (s *CompileService) compile(root string, cfg domain.ProjectConfig, presetName string) (*CompileReport, error) {
	profile, err := s.detect.profile(root, cfg)
	if err != nil {
		return nil, err
	}

	override := cfg.Preset
	if presetName != "" {
		var o domain.PresetOverride
		if cfg.Preset != nil {
			o = *cfg.Preset
		}
		o.Name = presetName
		override = &o
	}

	eff := resolve.Resolve(profile, override)
	rs, gaps := policy.Compile(eff)

	return &CompileReport{
		Effective: eff,
		RuleSet:   rs,
		Gaps:      gaps,
		Path:      cfg.EffectiveRulesPath(),
		Revision:  s.revision(root),
	}, nil
}

func (s *CompileService) revision(root string) string {
	if s.git == nil || !s.git.IsGitRepo(root) {
		return ""
	}
	rev, err := s.git.Revision(root)
	if err != nil {
		logger.ForComponent("compile").Debug("no revision", "root", root, "error", err)
		return ""
	}
	return rev
}

func diffRuleSets(persisted, fresh domain.RuleSet) ([]domain.RuleDrift, error) {
	persistedJSON, err := json.Marshal(withEmptyLists(persisted))
	if err != nil {
		return nil, fmt.Errorf("marshaling persisted rules: %w", err)
	}
	freshJSON, err := json.Marshal(withEmptyLists(fresh))
	if err != nil {
		return nil, fmt.Errorf("marshaling compiled rules: %w", err)
	}

	patch, err := jsondiff.CompareJSON(persistedJSON, freshJSON)
	if err != nil {
		return nil, fmt.Errorf("diffing rules: %w", err)
	}

	drift := make([]domain.RuleDrift, 0, len(patch))
	for _, op := range patch {
		drift = append(drift, domain.RuleDrift{Op: op.Type, Path: op.Path, Value: op.Value})
	}
	return drift, nil
}

// withEmptyLists maps nil lists to empty ones so a YAML round trip does not
// show up as drift.
func withEmptyLists(rs domain.RuleSet) domain.RuleSet {
	layers := make([]domain.LayerRule, 0, len(rs.Layers))
	for _, l := range rs.Layers {
		if l.Forbidden == nil {
			l.Forbidden = []string{}
		}
		layers = append(layers, l)
	}
	siblings := make([]domain.SiblingBlock, 0, len(rs.Siblings))
	for _, sb := range rs.Siblings {
		if sb.Patterns == nil {
			sb.Patterns = []string{}
		}
		siblings = append(siblings, sb)
	}
	rs.Layers = layers
	rs.Siblings = siblings
	return rs
}

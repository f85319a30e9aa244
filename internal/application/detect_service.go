package application

import (
	"fmt"

	"github.com/stackguard/stackguard/internal/domain"
	"github.com/stackguard/stackguard/internal/domain/resolve"
	"github.com/stackguard/stackguard/internal/logger"
)

// DetectOptions tunes one detection run. Zero values fall back to the
// project configuration.
type DetectOptions struct {
	MaxDepth int
}

// DetectReport is the dry-run view of a project: what was detected and which
// preset would be auto-selected. Nothing is written.
type DetectReport struct {
	Profile       domain.ProjectProfile `json:"profile"`
	FrameworkName string                `json:"framework_name,omitempty"`
	UnknownStack  bool                  `json:"unknown_stack"`
	Preset        string                `json:"preset"`
	PresetMatched bool                  `json:"preset_matched"`
	Notes         []domain.ScanNote     `json:"notes,omitempty"`
}

// DetectService orchestrates the detection pipeline:
// load config → scan evidence → classify stack → select preset.
type DetectService struct {
	scanner      domain.EvidenceScanner
	detector     domain.StackDetector
	configLoader domain.ConfigLoader
}

func NewDetectService(
	scanner domain.EvidenceScanner,
	detector domain.StackDetector,
	configLoader domain.ConfigLoader,
) *DetectService {
	return &DetectService{
		scanner:      scanner,
		detector:     detector,
		configLoader: configLoader,
	}
}

func (s *DetectService) Detect(root string, opts DetectOptions) (*DetectReport, error) {
	cfg, err := s.configLoader.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if opts.MaxDepth > 0 {
		cfg.MaxDepth = opts.MaxDepth
	}

	profile, err := s.profile(root, cfg)
	if err != nil {
		return nil, err
	}

	preset, matched := resolve.SelectPreset(profile.Language, profile.Framework)
	report := &DetectReport{
		Profile:       profile,
		UnknownStack:  profile.IsUnknownStack(),
		Preset:        preset,
		PresetMatched: matched,
		Notes:         profile.Notes,
	}
	if profile.Framework != "" {
		report.FrameworkName = s.detector.Tables().FrameworkDisplayName(profile.Framework)
	}
	if report.UnknownStack {
		logger.ForComponent("detect").Info("unknown stack", "root", root)
	}
	return report, nil
}

// profile scans root with the configured bounds and classifies the evidence.
func (s *DetectService) profile(root string, cfg domain.ProjectConfig) (domain.ProjectProfile, error) {
	ev, err := s.scanner.Scan(root, domain.ScanOptions{
		MaxDepth:     cfg.EffectiveMaxDepth(),
		ExcludePaths: cfg.ExcludePaths,
	})
	if err != nil {
		return domain.ProjectProfile{}, fmt.Errorf("scanning project: %w", err)
	}

	profile := s.detector.Detect(ev)
	logger.ForComponent("detect").Debug("detected stack",
		"root", ev.Root,
		"language", profile.Language,
		"framework", profile.Framework,
		"package_manager", profile.PackageManager,
		"notes", len(profile.Notes),
	)
	return profile, nil
}

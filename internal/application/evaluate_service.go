package application

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/stackguard/stackguard/internal/domain"
	"github.com/stackguard/stackguard/internal/domain/policy"
	"github.com/stackguard/stackguard/internal/logger"
)

// EvaluateService decides whether one proposed write is allowed.
type EvaluateService struct {
	configLoader domain.ConfigLoader
	compiler     *CompileService
}

func NewEvaluateService(configLoader domain.ConfigLoader, compiler *CompileService) *EvaluateService {
	return &EvaluateService{configLoader: configLoader, compiler: compiler}
}

// Evaluate checks content proposed as the whole of filePath against the
// project's rules. filePath may be absolute or relative to root. Files
// outside root, files matching a hook skip glob and projects with the hook
// disabled are allowed.
func (s *EvaluateService) Evaluate(root, filePath, content string) (domain.PolicyDecision, error) {
	return s.evaluate(root, filePath, content, policy.Evaluate)
}

// EvaluateFragment checks text an edit splices into filePath. The file-size
// limit is not applied.
func (s *EvaluateService) EvaluateFragment(root, filePath, fragment string) (domain.PolicyDecision, error) {
	return s.evaluate(root, filePath, fragment, policy.EvaluateFragment)
}

func (s *EvaluateService) evaluate(root, filePath, content string, check func(domain.RuleSet, string, string) domain.PolicyDecision) (domain.PolicyDecision, error) {
	cfg, err := s.configLoader.Load(root)
	if err != nil {
		return domain.PolicyDecision{}, fmt.Errorf("loading config: %w", err)
	}

	log := logger.ForComponent("evaluate")
	if cfg.Hook.Disabled {
		log.Debug("hook disabled by config", "file", filePath)
		return domain.Allowed(), nil
	}

	rel, ok := relativeTo(root, filePath)
	if !ok {
		log.Debug("file outside project", "file", filePath, "root", root)
		return domain.Allowed(), nil
	}

	for _, glob := range cfg.EffectiveSkipPaths() {
		if matched, _ := doublestar.Match(glob, rel); matched {
			log.Debug("file skipped", "file", rel, "glob", glob)
			return domain.Allowed(), nil
		}
	}

	rs, err := s.compiler.rules(root, cfg)
	if err != nil {
		return domain.PolicyDecision{}, err
	}

	d := check(rs, rel, content)
	if !d.Allow {
		log.Info("write blocked", "file", rel, "rule", d.RuleID, "import", d.MatchedImport)
	}
	return d, nil
}

// relativeTo returns filePath relative to root in slash form. ok is false
// when the path lies outside root.
func relativeTo(root, filePath string) (string, bool) {
	if !filepath.IsAbs(filePath) {
		rel := policy.NormalizePath(filePath)
		return rel, rel != ".." && !strings.HasPrefix(rel, "../")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, filePath)
	if err != nil {
		return "", false
	}
	if escapes(rel) {
		// Retry with symlinks resolved (e.g. /var vs /private/var).
		realRoot, rootErr := filepath.EvalSymlinks(absRoot)
		realDir, dirErr := filepath.EvalSymlinks(filepath.Dir(filePath))
		if rootErr != nil || dirErr != nil {
			return "", false
		}
		rel, err = filepath.Rel(realRoot, filepath.Join(realDir, filepath.Base(filePath)))
		if err != nil || escapes(rel) {
			return "", false
		}
	}
	return policy.NormalizePath(filepath.ToSlash(rel)), true
}

func escapes(rel string) bool {
	rel = filepath.ToSlash(rel)
	return rel == ".." || strings.HasPrefix(rel, "../")
}

package detector

import (
	"path"
	"slices"
	"strings"

	"github.com/stackguard/stackguard/internal/domain"
)

// StackDetector implements domain.StackDetector. It classifies scanner
// evidence against an explicit, read-only set of lookup tables; the same
// evidence always yields the same profile.
type StackDetector struct {
	tables domain.StackTables
}

func New(tables domain.StackTables) *StackDetector {
	return &StackDetector{tables: tables}
}

// Tables returns the lookup tables the detector classifies against.
// Callers use them to label what Detect reports.
func (d *StackDetector) Tables() domain.StackTables {
	return d.tables
}

func (d *StackDetector) Detect(ev *domain.Evidence) domain.ProjectProfile {
	profile := domain.ProjectProfile{
		Language:    domain.LanguageUnknown,
		SrcDirs:     []string{},
		TestDirs:    []string{},
		EntryPoints: []string{},
	}
	if ev == nil {
		return profile
	}

	py, hasPy := rootPythonManifests(ev)
	js, hasJS := ev.RootManifest(domain.ManifestPackageJSON)

	profile.Language = d.detectLanguage(ev, hasPy, hasJS)
	d.detectIdentity(ev, &profile, py, js, hasJS)

	var jsManifests []domain.Manifest
	if hasJS {
		jsManifests = []domain.Manifest{js}
	}
	all := append(append([]domain.Manifest{}, py...), jsManifests...)

	profile.Framework = d.detectFramework(profile.Language, py, jsManifests)
	profile.PackageManager = d.detectPackageManager(ev)
	profile.SrcDirs = existingDirs(ev, d.tables.SrcDirNames)
	profile.TestDirs = existingDirs(ev, d.tables.TestDirNames)
	profile.EntryPoints = d.detectEntryPoints(ev, profile.SrcDirs)
	profile.HasDatabase, profile.DatabaseType = d.detectDatabase(ev, all)
	profile.HasRedis = declaresAny(all, d.tables.RedisClients)
	profile.HasDocker = anyPath(ev, d.tables.DockerFiles)
	profile.HasCI = anyPath(ev, d.tables.CIPaths)
	profile.Linter = d.detectLinter(ev, py)
	profile.ExistingConfigFile = ev.HasFile(d.tables.ConfigFileName)
	profile.ExistingConfigDir = ev.HasDir(d.tables.ConfigDirName)
	profile.GitInitialized = ev.GitRepo
	profile.IsMonorepo = detectMonorepo(ev.Manifests)
	profile.DirectoryTree = renderTree(ev)

	if len(ev.Notes) > 0 {
		profile.Notes = append([]domain.ScanNote(nil), ev.Notes...)
	}

	return profile
}

// detectLanguage applies manifest precedence: python+js is mixed, python
// alone is python, js is typescript when a TypeScript config exists.
func (d *StackDetector) detectLanguage(ev *domain.Evidence, hasPy, hasJS bool) domain.Language {
	switch {
	case hasPy && hasJS:
		return domain.LanguageMixed
	case hasPy:
		return domain.LanguagePython
	case hasJS && anyPath(ev, d.tables.TypeScriptConfigs):
		return domain.LanguageTypeScript
	case hasJS:
		return domain.LanguageJavaScript
	default:
		return domain.LanguageUnknown
	}
}

func (d *StackDetector) detectIdentity(ev *domain.Evidence, p *domain.ProjectProfile, py []domain.Manifest, js domain.Manifest, hasJS bool) {
	candidates := append([]domain.Manifest{}, py...)
	if hasJS {
		candidates = append(candidates, js)
	}
	for _, m := range candidates {
		if m.Name != "" {
			p.Name = m.Name
			p.Description = m.Description
			break
		}
	}
	if p.Name == "" {
		p.Name = ev.RootName
	}

	for _, m := range candidates {
		if m.RuntimeVersion != "" {
			p.RuntimeVersion = m.RuntimeVersion
			break
		}
	}
}

// detectFramework returns the first table entry, in table order, whose
// dependency is declared. Mixed projects consult the Python table first.
func (d *StackDetector) detectFramework(lang domain.Language, py, js []domain.Manifest) string {
	var groups [][]domain.FrameworkEntry
	var manifests [][]domain.Manifest
	switch {
	case lang == domain.LanguagePython:
		groups, manifests = [][]domain.FrameworkEntry{d.tables.PythonFrameworks}, [][]domain.Manifest{py}
	case lang.IsJS():
		groups, manifests = [][]domain.FrameworkEntry{d.tables.JSFrameworks}, [][]domain.Manifest{js}
	case lang == domain.LanguageMixed:
		groups = [][]domain.FrameworkEntry{d.tables.PythonFrameworks, d.tables.JSFrameworks}
		manifests = [][]domain.Manifest{py, js}
	}

	for i, table := range groups {
		for _, fw := range table {
			if declares(manifests[i], fw.Dependency) {
				return fw.ID
			}
		}
	}
	return ""
}

// detectPackageManager trusts lock files only, in table priority order.
func (d *StackDetector) detectPackageManager(ev *domain.Evidence) string {
	for _, lf := range d.tables.LockFiles {
		if ev.HasFile(lf.File) {
			return lf.Manager
		}
	}
	return ""
}

func (d *StackDetector) detectEntryPoints(ev *domain.Evidence, srcDirs []string) []string {
	entries := []string{}
	for _, name := range d.tables.EntryPointNames {
		if ev.HasFile(name) {
			entries = append(entries, name)
		}
	}
	for _, dir := range srcDirs {
		for _, name := range d.tables.EntryPointNames {
			rel := dir + name
			if ev.HasFile(rel) {
				entries = append(entries, rel)
			}
		}
	}
	return entries
}

// detectDatabase takes the kind from a driver dependency first, then from
// an ORM's default kind. A migrations directory alone sets only the flag.
func (d *StackDetector) detectDatabase(ev *domain.Evidence, manifests []domain.Manifest) (bool, string) {
	for _, group := range [][]domain.DatabaseEntry{d.tables.Drivers, d.tables.ORMs} {
		for _, db := range group {
			if declaresAny(manifests, db.Dependencies) {
				return true, db.Kind
			}
		}
	}
	for _, dir := range ev.Dirs {
		if slices.Contains(d.tables.MigrationDirs, path.Base(dir)) {
			return true, ""
		}
	}
	return false, ""
}

func (d *StackDetector) detectLinter(ev *domain.Evidence, py []domain.Manifest) string {
	if anyPath(ev, d.tables.RuffConfigs) {
		return "ruff"
	}
	for _, m := range py {
		if m.HasTool("ruff") {
			return "ruff"
		}
	}
	switch {
	case anyPath(ev, d.tables.ESLintConfigs):
		return "eslint"
	case anyPath(ev, d.tables.BiomeConfigs):
		return "biome"
	}
	return ""
}

// detectMonorepo reports whether manifests of one kind appear at more than one depth.
func detectMonorepo(manifests []domain.Manifest) bool {
	depths := map[domain.ManifestKind]map[int]bool{}
	for _, m := range manifests {
		if depths[m.Kind] == nil {
			depths[m.Kind] = map[int]bool{}
		}
		depths[m.Kind][m.Depth] = true
		if len(depths[m.Kind]) > 1 {
			return true
		}
	}
	return false
}

// renderTree draws observed, non-hidden directories to the scan depth.
func renderTree(ev *domain.Evidence) string {
	lines := []string{ev.RootName + "/"}
	for _, dir := range ev.Dirs {
		if hiddenPath(dir) {
			continue
		}
		depth := strings.Count(dir, "/")
		lines = append(lines, strings.Repeat("  ", depth+1)+path.Base(dir)+"/")
	}
	return strings.Join(lines, "\n")
}

func rootPythonManifests(ev *domain.Evidence) ([]domain.Manifest, bool) {
	var out []domain.Manifest
	for _, kind := range []domain.ManifestKind{domain.ManifestPyProject, domain.ManifestRequirements} {
		if m, ok := ev.RootManifest(kind); ok {
			out = append(out, m)
		}
	}
	return out, len(out) > 0
}

// declares reports whether any manifest lists dep.
func declares(manifests []domain.Manifest, dep string) bool {
	for _, m := range manifests {
		if m.HasDependency(dep) {
			return true
		}
	}
	return false
}

func declaresAny(manifests []domain.Manifest, deps []string) bool {
	for _, dep := range deps {
		if declares(manifests, dep) {
			return true
		}
	}
	return false
}

func existingDirs(ev *domain.Evidence, names []string) []string {
	out := []string{}
	for _, name := range names {
		if ev.HasDir(name) {
			out = append(out, name+"/")
		}
	}
	return out
}

func anyPath(ev *domain.Evidence, paths []string) bool {
	for _, p := range paths {
		if ev.HasPath(p) {
			return true
		}
	}
	return false
}

func hiddenPath(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

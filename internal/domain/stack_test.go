package domain_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stackguard/stackguard/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLanguage(t *testing.T) {
	assert.True(t, domain.LanguageTypeScript.IsJS())
	assert.True(t, domain.LanguageJavaScript.IsJS())
	assert.False(t, domain.LanguageMixed.IsJS())
	assert.False(t, domain.LanguageUnknown.Known())
	assert.False(t, domain.Language("").Known())
	assert.True(t, domain.LanguagePython.Known())
	assert.True(t, domain.IsValidLanguage(domain.LanguageMixed))
	assert.False(t, domain.IsValidLanguage("go"))
}

func TestProjectProfile_IsUnknownStack(t *testing.T) {
	assert.True(t, domain.ProjectProfile{Language: domain.LanguageUnknown}.IsUnknownStack())
	assert.False(t, domain.ProjectProfile{Language: domain.LanguageUnknown, PackageManager: "npm"}.IsUnknownStack())
	assert.False(t, domain.ProjectProfile{Language: domain.LanguagePython}.IsUnknownStack())
}

func TestProjectProfile_CloneIsDeep(t *testing.T) {
	p := domain.ProjectProfile{
		SrcDirs: []string{"src/"},
		Notes:   []domain.ScanNote{{Path: "x", Reason: "y"}},
	}
	c := p.Clone()
	c.SrcDirs[0] = "app/"
	c.Notes[0].Path = "z"

	assert.Equal(t, "src/", p.SrcDirs[0])
	assert.Equal(t, "x", p.Notes[0].Path)
	assert.Nil(t, c.TestDirs)
}

func TestScanError_Unwrap(t *testing.T) {
	err := &domain.ScanError{Root: "/srv/app", Err: fs.ErrPermission}

	assert.True(t, errors.Is(err, domain.ErrScanRoot))
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Equal(t, "scanning /srv/app: permission denied", err.Error())
}

func TestEvidence_Lookups(t *testing.T) {
	ev := &domain.Evidence{
		Files: []string{"pyproject.toml", "src/main.py"},
		Dirs:  []string{"src", "src/core", ".github/workflows"},
		Manifests: []domain.Manifest{
			{Kind: domain.ManifestPackageJSON, Path: "web/package.json", Depth: 1},
			{Kind: domain.ManifestPyProject, Path: "pyproject.toml", Dependencies: []string{"fastapi", "redis"}},
		},
	}

	assert.True(t, ev.HasFile("src/main.py"))
	assert.False(t, ev.HasFile("src"))
	assert.True(t, ev.HasPath(".github/workflows"))
	assert.Equal(t, []string{"src"}, ev.TopLevelDirs())

	_, ok := ev.RootManifest(domain.ManifestPackageJSON)
	assert.False(t, ok, "nested manifests are not root manifests")

	m, ok := ev.RootManifest(domain.ManifestPyProject)
	assert.True(t, ok)
	assert.True(t, m.HasDependency("redis"))
	assert.False(t, m.HasDependency("django"))
	assert.True(t, m.Kind.IsPython())
}

func TestDefaultStackTables(t *testing.T) {
	tables := domain.DefaultStackTables()
	assert.Equal(t, domain.StackTablesVersion, tables.Version)
	assert.Equal(t, "fastapi", tables.PythonFrameworks[0].ID)
	assert.Equal(t, "uv.lock", tables.LockFiles[0].File)
	assert.Equal(t, "Next.js", tables.FrameworkDisplayName("next"))
	assert.Equal(t, "remix", tables.FrameworkDisplayName("remix"))

	tables.PythonFrameworks[0].ID = "mutated"
	assert.Equal(t, "fastapi", domain.DefaultStackTables().PythonFrameworks[0].ID)
}

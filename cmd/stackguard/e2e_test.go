package main_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackguard/stackguard/internal/application"
	"github.com/stackguard/stackguard/internal/domain"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build binary before running tests
	dir, err := os.MkdirTemp("", "stackguard-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	binaryPath = filepath.Join(dir, "stackguard")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func run(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.Output()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return string(out), exitCode
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestE2E_FastAPIProject(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pyproject.toml":       "[project]\nname = \"orders\"\ndependencies = [\"fastapi\"]\n",
		"uv.lock":              "",
		"src/main.py":          "",
		"tests/test_orders.py": "",
	})

	out, code := run(t, "", "detect", root, "--json")
	require.Equal(t, 0, code)

	var report application.DetectReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	p := report.Profile
	assert.Equal(t, domain.LanguagePython, p.Language)
	assert.Equal(t, "fastapi", p.Framework)
	assert.Equal(t, "uv", p.PackageManager)
	assert.Equal(t, []string{"src/"}, p.SrcDirs)
	assert.Equal(t, []string{"tests/"}, p.TestDirs)
	assert.False(t, p.HasDocker)
	assert.False(t, p.HasCI)
	assert.Equal(t, domain.PresetPythonFastAPI, report.Preset)
}

func TestE2E_NextJSHookBlocksReactInLib(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json":          `{"name": "storefront", "dependencies": {"next": "15.0.0", "react": "19.0.0"}}`,
		"pnpm-lock.yaml":        "",
		"components/Button.tsx": "",
	})

	out, code := run(t, "", "detect", root, "--json")
	require.Equal(t, 0, code)
	var report application.DetectReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, domain.LanguageJavaScript, report.Profile.Language)
	assert.Equal(t, "next", report.Profile.Framework)
	assert.Equal(t, "pnpm", report.Profile.PackageManager)

	_, code = run(t, "", "compile", root)
	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(root, domain.DefaultRulesPath))

	payload := `{"tool_name": "Write", "tool_input": {"file_path": "src/lib/foo.ts", "content": "import React from 'react'\n"}}`
	out, code = run(t, payload, "hook", "--root", root)
	assert.Equal(t, 2, code)

	var d domain.PolicyDecision
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.False(t, d.Allow)
	assert.Equal(t, "layer:src/lib/", d.RuleID)
}

func TestE2E_EmptyDirectory(t *testing.T) {
	root := t.TempDir()

	out, code := run(t, "", "detect", root, "--json")
	require.Equal(t, 0, code)
	var report application.DetectReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, domain.LanguageUnknown, report.Profile.Language)
	assert.Empty(t, report.Profile.SrcDirs)
	assert.Equal(t, domain.PresetGeneric, report.Preset)

	out, code = run(t, "", "compile", root, "--json")
	require.Equal(t, 0, code)
	var compiled application.CompileReport
	require.NoError(t, json.Unmarshal([]byte(out), &compiled))
	assert.True(t, compiled.RuleSet.IsEmpty())

	out, code = run(t, "import sqlalchemy\n", "evaluate", "src/core/x.py", "--root", root, "--json")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"allow": true`)
}

func TestE2E_Version(t *testing.T) {
	out, code := run(t, "", "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "stackguard")
}

package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackguard/stackguard/internal/adapters/outbound/config"
	"github.com/stackguard/stackguard/internal/adapters/outbound/detector"
	"github.com/stackguard/stackguard/internal/adapters/outbound/gitinfo"
	"github.com/stackguard/stackguard/internal/adapters/outbound/rulestore"
	"github.com/stackguard/stackguard/internal/adapters/outbound/scanner"
	"github.com/stackguard/stackguard/internal/application"
	"github.com/stackguard/stackguard/internal/domain"
)

const stacksDir = "../../testdata/stacks"

type services struct {
	detect   *application.DetectService
	compile  *application.CompileService
	evaluate *application.EvaluateService
	store    *rulestore.Store
}

func newServices() services {
	git := gitinfo.New()
	sc := scanner.New(git)
	det := detector.New(domain.DefaultStackTables())
	cfg := config.New()
	store := rulestore.New()

	compile := application.NewCompileService(sc, det, cfg, store, git)
	return services{
		detect:   application.NewDetectService(sc, det, cfg),
		compile:  compile,
		evaluate: application.NewEvaluateService(cfg, compile),
		store:    store,
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// fastAPIProject builds a small FastAPI service with the canonical layers.
func fastAPIProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pyproject.toml": `[project]
name = "orders"
dependencies = ["fastapi", "sqlalchemy"]
`,
		"uv.lock":              "",
		"src/main.py":          "from src.api.routes import router\n",
		"src/core/models.py":   "from dataclasses import dataclass\n",
		"src/db/session.py":    "import sqlalchemy\n",
		"src/api/routes.py":    "from fastapi import APIRouter\n",
		"src/worker/tasks.py":  "import os\n",
		"tests/test_orders.py": "import sqlalchemy\n",
	})
	return root
}

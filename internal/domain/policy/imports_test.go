package policy_test

import (
	"testing"

	"github.com/stackguard/stackguard/internal/domain/policy"
	"github.com/stretchr/testify/assert"
)

func targets(refs []policy.ImportRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Target
	}
	return out
}

func TestKindForPath(t *testing.T) {
	tests := map[string]policy.SourceKind{
		"src/core/models.py":   policy.KindPython,
		"stubs/api.pyi":        policy.KindPython,
		"src/lib/format.ts":    policy.KindJS,
		"src/app/page.tsx":     policy.KindJS,
		"server.mjs":           policy.KindJS,
		"config.cjs":           policy.KindJS,
		`src\components\A.jsx`: policy.KindJS,
		"src/core/LEGACY.PY":   policy.KindPython,
		"src/app/Page.TSX":     policy.KindJS,
		"README.md":            policy.KindUnknown,
		"Makefile":             policy.KindUnknown,
	}
	for p, want := range tests {
		assert.Equal(t, want, policy.KindForPath(p), p)
	}
}

func TestParseImports_Python(t *testing.T) {
	src := `"""Order service."""
from __future__ import annotations

import os, sys
import sqlalchemy.orm as orm
from src.db.session import get_session  # noqa
from . import models
from .schemas import OrderIn
# import redis
    from fastapi import Depends
importlib_thing = 1
`
	refs := policy.ParseImports(policy.KindPython, src)

	assert.Equal(t, []string{
		"__future__", "os", "sys", "sqlalchemy.orm", "src.db.session", ".", ".schemas", "fastapi",
	}, targets(refs))
	assert.Equal(t, 6, refs[4].Line)
	assert.Equal(t, "from src.db.session import get_session", refs[4].Text)
	assert.True(t, refs[4].From)
	assert.Equal(t, []string{"get_session"}, refs[4].Names)
	assert.Equal(t, "import sys", refs[2].Text)
}

func TestParseImports_PythonStatementsOnOneLine(t *testing.T) {
	refs := policy.ParseImports(policy.KindPython, "import os; import sqlalchemy\nx = 1; from src.db import (Session, engine as e)  # db\n")

	assert.Equal(t, []string{"os", "sqlalchemy", "src.db"}, targets(refs))
	assert.Equal(t, 1, refs[1].Line)
	assert.Equal(t, "import sqlalchemy", refs[1].Text)
	assert.Equal(t, []string{"Session", "engine"}, refs[2].Names)
}

func TestParseImports_PythonIgnoresStringsAndDocstrings(t *testing.T) {
	src := `"""Usage:

    from sqlalchemy import create_engine
"""
msg = "done; import redis"
note = 'a # b'; import httpx
`
	refs := policy.ParseImports(policy.KindPython, src)

	assert.Equal(t, []string{"httpx"}, targets(refs))
	assert.Equal(t, 6, refs[0].Line)
}

func TestParseImports_JS(t *testing.T) {
	src := `import React from 'react';
import './globals.css';
import { Button } from "@/components/Button";
import {
  formatPrice,
  formatDate,
} from '../lib/format';
export * from './types';
// import legacy from 'legacy';
const fs = require('fs');
const Chart = await import("chart.js");
`
	refs := policy.ParseImports(policy.KindJS, src)

	assert.Equal(t, []string{
		"react", "./globals.css", "@/components/Button", "../lib/format", "./types", "fs", "chart.js",
	}, targets(refs))
	assert.Equal(t, 7, refs[3].Line, "multi-line import is reported on its from line")
}

func TestParseImports_JSIgnoresStringsAndComments(t *testing.T) {
	src := "const s = `text from 'react'`;\n" +
		"const msg = \"call require('fs') later\";\n" +
		"const tpl = `first line\n" +
		"import x from 'lodash'\n" +
		"`;\n" +
		"/* import y from 'moment';\n" +
		"   export { z } from 'dayjs' */\n" +
		"const label = 'pick one from \"list\"';\n" +
		"import { a } from './a'; // from 'b'\n"
	refs := policy.ParseImports(policy.KindJS, src)

	assert.Equal(t, []string{"./a"}, targets(refs))
	assert.Equal(t, 9, refs[0].Line)
}

func TestParseImports_JSFromOnlyInImportStatements(t *testing.T) {
	refs := policy.ParseImports(policy.KindJS, "const picked = choose from 'menu'\nexport { x } from './x'\n")

	assert.Equal(t, []string{"./x"}, targets(refs))
}

func TestParseImports_UnknownKind(t *testing.T) {
	assert.Empty(t, policy.ParseImports(policy.KindUnknown, "import os\n"))
}

package cli_test

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackguard/stackguard/internal/adapters/inbound/cli"
)

func hookPayload(t *testing.T, tool string, input map[string]any, cwd string) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"hook_event_name": "PreToolUse",
		"tool_name":       tool,
		"tool_input":      input,
		"cwd":             cwd,
	})
	require.NoError(t, err)
	return string(data)
}

func decodeDecision(t *testing.T, out string) map[string]any {
	t.Helper()
	var d map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &d))
	return d
}

func TestHookCommand_BlocksWrite(t *testing.T) {
	root := fastAPIProject(t)
	payload := hookPayload(t, "Write", map[string]any{
		"file_path": filepath.Join(root, "src", "core", "order.py"),
		"content":   "from sqlalchemy.orm import Session\n",
	}, root)

	out, stderr, err := run(t, payload, "hook")
	require.Error(t, err)
	assert.Equal(t, 2, cli.ExitCode(err))

	d := decodeDecision(t, out)
	assert.Equal(t, false, d["allow"])
	assert.Equal(t, "layer:src/core/", d["rule_id"])
	assert.Contains(t, stderr, "sqlalchemy.orm")
}

func TestHookCommand_AllowsCleanWrite(t *testing.T) {
	root := fastAPIProject(t)
	payload := hookPayload(t, "Write", map[string]any{
		"file_path": "src/core/order.py",
		"content":   "from dataclasses import dataclass\n",
	}, "")

	out, _, err := run(t, payload, "hook", "--root", root)
	require.NoError(t, err)
	assert.Equal(t, `{"allow":true}`, strings.TrimSpace(out))
}

func TestHookCommand_EditUsesNewString(t *testing.T) {
	root := fastAPIProject(t)
	payload := hookPayload(t, "Edit", map[string]any{
		"file_path":  "src/worker/tasks.py",
		"old_string": "pass",
		"new_string": "from src.api.routes import router",
	}, root)

	_, _, err := run(t, payload, "hook")
	assert.Equal(t, 2, cli.ExitCode(err))
}

func TestHookCommand_MultiEditChecksEveryEdit(t *testing.T) {
	root := fastAPIProject(t)
	payload := hookPayload(t, "MultiEdit", map[string]any{
		"file_path": "src/core/models.py",
		"edits": []map[string]any{
			{"old_string": "a", "new_string": "import os"},
			{"old_string": "b", "new_string": "import httpx"},
		},
	}, root)

	out, _, err := run(t, payload, "hook")
	assert.Equal(t, 2, cli.ExitCode(err))
	assert.Equal(t, "httpx", decodeDecision(t, out)["matched_import"])
}

func TestHookCommand_OversizedWriteIsBlocked(t *testing.T) {
	root := fastAPIProject(t)
	payload := hookPayload(t, "Write", map[string]any{
		"file_path": "src/api/routes.py",
		"content":   strings.Repeat("x = 1\n", 600),
	}, root)

	out, stderr, err := run(t, payload, "hook")
	assert.Equal(t, 2, cli.ExitCode(err))
	assert.Equal(t, "size:500", decodeDecision(t, out)["rule_id"])
	assert.Contains(t, stderr, "600 lines")
}

func TestHookCommand_LongEditIsNotSizeChecked(t *testing.T) {
	root := fastAPIProject(t)
	payload := hookPayload(t, "Edit", map[string]any{
		"file_path":  "src/api/routes.py",
		"old_string": "pass",
		"new_string": strings.Repeat("x = 1\n", 600),
	}, root)

	out, _, err := run(t, payload, "hook")
	require.NoError(t, err)
	assert.Equal(t, `{"allow":true}`, strings.TrimSpace(out))
}

func TestHookCommand_FailsOpen(t *testing.T) {
	root := fastAPIProject(t)

	tests := []struct {
		name  string
		stdin string
	}{
		{"unparsable payload", "{not json"},
		{"empty payload", ""},
		{"non-write tool", hookPayload(t, "Bash", map[string]any{"command": "rm -rf src"}, root)},
		{"missing file path", hookPayload(t, "Write", map[string]any{"content": "import httpx"}, root)},
		{"skipped path", hookPayload(t, "Write", map[string]any{"file_path": "tests/test_core.py", "content": "import httpx"}, root)},
		{"non-source file", hookPayload(t, "Write", map[string]any{"file_path": "src/core/README.md", "content": "import httpx"}, root)},
		{"missing project root", hookPayload(t, "Write", map[string]any{"file_path": "src/core/x.py", "content": "import httpx"}, filepath.Join(t.TempDir(), "missing"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.stdin, "hook")
			require.NoError(t, err)
			assert.Equal(t, `{"allow":true}`, strings.TrimSpace(out))
		})
	}
}

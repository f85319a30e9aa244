package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/stackguard/stackguard/internal/adapters/outbound/config"
	"github.com/stackguard/stackguard/internal/adapters/outbound/detector"
	"github.com/stackguard/stackguard/internal/adapters/outbound/gitinfo"
	"github.com/stackguard/stackguard/internal/adapters/outbound/rulestore"
	"github.com/stackguard/stackguard/internal/adapters/outbound/scanner"
	"github.com/stackguard/stackguard/internal/application"
	"github.com/stackguard/stackguard/internal/domain"
	"github.com/stackguard/stackguard/internal/domain/resolve"
)

// registerTools registers all stackguard MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	s.AddTool(
		mcplib.NewTool("stackguard_detect",
			mcplib.WithDescription("Detect the project's language, framework, package manager and layout, and the preset stackguard would auto-select. Read-only."),
			mcplib.WithNumber("depth", mcplib.Description("Scan depth (default: max_depth from .stackguard.yaml, or 2)")),
		),
		handleDetect(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("stackguard_select_preset",
			mcplib.WithDescription("Return the preset id for a language and framework pair"),
			mcplib.WithString("language",
				mcplib.Required(),
				mcplib.Description("python, typescript, javascript, mixed or unknown"),
			),
			mcplib.WithString("framework", mcplib.Description("Framework id such as fastapi, django or next")),
		),
		handleSelectPreset(),
	)

	s.AddTool(
		mcplib.NewTool("stackguard_compile",
			mcplib.WithDescription("Compile the project's boundaries into a rule set and write the rule-set document"),
			mcplib.WithString("preset", mcplib.Description("Preset id (default: configured or auto-selected)")),
			mcplib.WithBoolean("dry_run", mcplib.Description("Compile without writing the document")),
		),
		handleCompile(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("stackguard_check",
			mcplib.WithDescription("Compare the persisted rule-set document with a fresh compile and list the drift"),
		),
		handleCheck(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("stackguard_evaluate",
			mcplib.WithDescription("Check whether writing content to a file would cross an architectural boundary. Call before creating or editing source files."),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("File path, relative to the project root or absolute"),
			),
			mcplib.WithString("content",
				mcplib.Required(),
				mcplib.Description("Proposed file content or the inserted fragment"),
			),
		),
		handleEvaluate(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("stackguard_contract",
			mcplib.WithDescription("Render the project's boundaries as Markdown instructions for CLAUDE.md or AGENTS.md"),
			mcplib.WithString("preset", mcplib.Description("Preset id (default: configured or auto-selected)")),
		),
		handleContract(projectPath),
	)
}

type services struct {
	detect   *application.DetectService
	compile  *application.CompileService
	evaluate *application.EvaluateService
}

// newServices creates the standard set of outbound adapters and services.
func newServices() services {
	git := gitinfo.New()
	sc := scanner.New(git)
	det := detector.New(domain.DefaultStackTables())
	cfg := config.New()

	compile := application.NewCompileService(sc, det, cfg, rulestore.New(), git)
	return services{
		detect:   application.NewDetectService(sc, det, cfg),
		compile:  compile,
		evaluate: application.NewEvaluateService(cfg, compile),
	}
}

func handleDetect(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		depth, _ := request.GetArguments()["depth"].(float64)
		opts := application.DetectOptions{MaxDepth: int(depth)}
		report, err := newServices().detect.Detect(projectPath, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("detection failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleSelectPreset() server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		language, err := request.RequireString("language")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		lang := domain.Language(language)
		if !domain.IsValidLanguage(lang) {
			return errorResult(fmt.Sprintf("unknown language %q", language)), nil
		}

		framework, _ := request.GetArguments()["framework"].(string)
		preset, matched := resolve.SelectPreset(lang, framework)
		return jsonResult(map[string]any{
			"preset":  preset,
			"matched": matched,
		})
	}
}

func handleCompile(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		preset, _ := args["preset"].(string)
		dryRun, _ := args["dry_run"].(bool)

		report, err := newServices().compile.Compile(projectPath, preset, dryRun)
		if err != nil {
			return errorResult(fmt.Sprintf("compile failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleCheck(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		report, err := newServices().compile.Check(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("check failed: %v", err)), nil
		}
		return jsonResult(map[string]any{
			"path":       report.Path,
			"persisted":  report.Persisted,
			"up_to_date": report.UpToDate(),
			"drift":      report.Drift,
		})
	}
}

func handleEvaluate(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		content, err := request.RequireString("content")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		d, err := newServices().evaluate.Evaluate(projectPath, file, content)
		if err != nil {
			return errorResult(fmt.Sprintf("evaluation failed: %v", err)), nil
		}
		return jsonResult(d)
	}
}

func handleContract(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		preset, _ := request.GetArguments()["preset"].(string)
		report, err := newServices().compile.Compile(projectPath, preset, true)
		if err != nil {
			return errorResult(fmt.Sprintf("compile failed: %v", err)), nil
		}
		return textResult(application.RenderContract(report)), nil
	}
}

// jsonResult marshals v to indented JSON and wraps it in a CallToolResult.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}

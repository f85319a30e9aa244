package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/stackguard/stackguard/internal/adapters/outbound/rulestore"
	"github.com/stackguard/stackguard/internal/application"
	"github.com/stackguard/stackguard/internal/domain"
)

const (
	profileURI = "stackguard://profile"
	rulesURI   = "stackguard://rules"
	presetsURI = "stackguard://presets"
)

// registerResources registers all stackguard MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string) {
	s.AddResource(
		mcplib.NewResource(
			profileURI,
			"Project Profile",
			mcplib.WithResourceDescription("Detected stack facts for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleProfileResource(projectPath),
	)

	s.AddResource(
		mcplib.NewResource(
			rulesURI,
			"Rule Set",
			mcplib.WithResourceDescription("The enforced rule-set document, or an in-memory compile when none is persisted"),
			mcplib.WithMIMEType("application/yaml"),
		),
		handleRulesResource(projectPath),
	)

	s.AddResource(
		mcplib.NewResource(
			presetsURI,
			"Presets",
			mcplib.WithResourceDescription("Built-in presets"),
			mcplib.WithMIMEType("application/json"),
		),
		handlePresetsResource(),
	)
}

func handleProfileResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		report, err := newServices().detect.Detect(projectPath, application.DetectOptions{})
		if err != nil {
			return nil, fmt.Errorf("detection failed: %w", err)
		}

		data, err := json.MarshalIndent(report.Profile, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling profile: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      profileURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleRulesResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		rs, err := newServices().compile.Rules(projectPath)
		if err != nil {
			return nil, err
		}

		data, err := rulestore.Encode(rs)
		if err != nil {
			return nil, fmt.Errorf("encoding rules: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      rulesURI,
				MIMEType: "application/yaml",
				Text:     string(data),
			},
		}, nil
	}
}

func handlePresetsResource() server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(domain.KnownPresets, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling presets: %w", err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      presetsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

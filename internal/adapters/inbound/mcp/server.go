package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewStackguardMCPServer creates a new MCP server with all stackguard tools
// and resources registered. The projectPath is the root directory of the
// project to guard.
func NewStackguardMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"stackguard",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath)
	registerResources(s, projectPath)

	return s
}

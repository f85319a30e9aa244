package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/stackguard/stackguard/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the stackguard MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the stackguard MCP server (stdio)",
		Long: "Start the stackguard MCP server using stdio transport. Coding agents can detect the stack, " +
			"compile rules, and check a write before making it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := projectArg([]string{projectPath})
			if err != nil {
				return err
			}
			s := mcpadapter.NewStackguardMCPServer(root)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project path (defaults to current working directory)")

	return cmd
}

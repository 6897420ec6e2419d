package cli

import (
	mcpadapter "github.com/openkraft/autograder/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the autograder MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(a))
	return cmd
}

func newMCPServeCmd(a *app) *cobra.Command {
	var rootPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start autograder MCP server (stdio)",
		Long:  "Start the autograder MCP server using stdio transport. Clients can grade submission directories and read grading history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootPath == "" {
				rootPath = "."
			}
			s := mcpadapter.NewAutograderMCPServer(rootPath, a.logger)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&rootPath, "path", "", "Default submissions directory (defaults to current working directory)")

	return cmd
}

package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// NewAutograderMCPServer creates a new MCP server with all autograder tools
// and resources registered. rootPath is the submissions directory used when
// a request names none.
func NewAutograderMCPServer(rootPath string, logger *zap.Logger) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		"autograder",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, rootPath, logger)
	registerResources(s, rootPath)

	return s
}

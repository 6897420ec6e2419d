package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/autograder/internal/adapters/outbound/scanner"
	"github.com/openkraft/autograder/internal/domain"
)

// registerResources registers all autograder MCP resources on the given server.
func registerResources(s *server.MCPServer, rootPath string) {
	// 1. autograder://history - batch history of the root directory
	s.AddResource(
		mcplib.NewResource(
			"autograder://history",
			"Grading History",
			mcplib.WithResourceDescription("Summary of every batch graded in the submissions directory"),
			mcplib.WithMIMEType("application/json"),
		),
		handleHistoryResource(rootPath),
	)

	// 2. autograder://last-batch - full result of the most recent batch
	s.AddResource(
		mcplib.NewResource(
			"autograder://last-batch",
			"Last Batch",
			mcplib.WithResourceDescription("Per-unit reports of the most recent batch graded in the submissions directory"),
			mcplib.WithMIMEType("application/json"),
		),
		handleLastBatchResource(rootPath),
	)
}

func handleHistoryResource(rootPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		dir, err := scanner.ResolveDir(rootPath)
		if err != nil {
			return nil, fmt.Errorf("resolving root: %w", err)
		}

		entries, err := newRecordService().History(dir)
		if err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
		if entries == nil {
			entries = []domain.BatchEntry{}
		}
		return jsonContents(request.Params.URI, entries)
	}
}

func handleLastBatchResource(rootPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		dir, err := scanner.ResolveDir(rootPath)
		if err != nil {
			return nil, fmt.Errorf("resolving root: %w", err)
		}

		result, err := newRecordService().LastBatch(dir)
		if err != nil {
			return nil, fmt.Errorf("loading last batch: %w", err)
		}
		if result == nil {
			return nil, fmt.Errorf("no graded batch found in %s", dir)
		}
		return jsonContents(request.Params.URI, result)
	}
}

func jsonContents(uri string, v interface{}) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

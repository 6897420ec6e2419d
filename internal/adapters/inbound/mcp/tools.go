package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/openkraft/autograder/internal/adapters/outbound/cache"
	"github.com/openkraft/autograder/internal/adapters/outbound/config"
	"github.com/openkraft/autograder/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/autograder/internal/adapters/outbound/history"
	"github.com/openkraft/autograder/internal/adapters/outbound/process"
	"github.com/openkraft/autograder/internal/adapters/outbound/scanner"
	"github.com/openkraft/autograder/internal/adapters/outbound/sink"
	"github.com/openkraft/autograder/internal/application"
	"github.com/openkraft/autograder/internal/domain"
)

// registerTools registers all autograder MCP tools on the given server.
func registerTools(s *server.MCPServer, rootPath string, logger *zap.Logger) {
	// 1. autograder_grade
	s.AddTool(
		mcplib.NewTool("autograder_grade",
			mcplib.WithDescription("Compile, run and score every source file in a directory. Returns the batch result, its summary and the progress log as JSON"),
			mcplib.WithString("path", mcplib.Description("Directory or file to grade, relative to the server root (default: the root)")),
			mcplib.WithString("expected_output", mcplib.Description("Expected program output for the correctness criterion")),
			mcplib.WithNumber("timeout_seconds", mcplib.Description("Per-process time limit in seconds (0 waits indefinitely)")),
		),
		handleGrade(rootPath, config.New(), logger),
	)

	// 2. autograder_last_batch
	s.AddTool(
		mcplib.NewTool("autograder_last_batch",
			mcplib.WithDescription("Returns the last batch graded in a directory as JSON"),
			mcplib.WithString("path", mcplib.Description("Submissions directory, relative to the server root (default: the root)")),
		),
		handleLastBatch(rootPath),
	)
}

// gradeResponse is what autograder_grade returns.
type gradeResponse struct {
	Result  *domain.BatchResult `json:"result"`
	Summary domain.BatchSummary `json:"summary"`
	Log     []string            `json:"log"`
}

func newRecordService() *application.RecordService {
	return application.NewRecordService(history.New(), cache.New(), gitinfo.New())
}

func resolve(rootPath, path string) string {
	if path == "" {
		return rootPath
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootPath, path)
}

func handleGrade(rootPath string, loader domain.ConfigLoader, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		args := request.GetArguments()
		path, _ := args["path"].(string)
		target, err := filepath.Abs(resolve(rootPath, path))
		if err != nil {
			return errorResult(fmt.Sprintf("resolving path: %v", err)), nil
		}

		dir, err := scanner.ResolveDir(target)
		if err != nil {
			dir = target
		}

		cfg, err := loader.Load(dir)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}
		if expected, _ := args["expected_output"].(string); expected != "" {
			cfg.ExpectedOutput = expected
		}
		if secs, _ := args["timeout_seconds"].(float64); secs > 0 {
			cfg.Timeout = time.Duration(secs * float64(time.Second))
		}

		svc, err := application.NewGradeService(scanner.New(), process.New(cfg.Timeout), cfg, logger)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		recorder := newRecordService()
		if err := recorder.Forget(dir); err != nil {
			logger.Debug("clearing last batch", zap.Error(err))
		}

		events := sink.NewCollector()
		result, err := svc.Grade(ctx, target, events)
		if err != nil {
			return errorResult(fmt.Sprintf("grading failed: %v", err)), nil
		}

		if _, err := recorder.Record(result); err != nil {
			logger.Warn("recording batch", zap.Error(err))
		}

		return jsonResult(gradeResponse{Result: result, Summary: result.Summary(), Log: events.Lines()})
	}
}

func handleLastBatch(rootPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		path, _ := request.GetArguments()["path"].(string)
		dir, err := scanner.ResolveDir(resolve(rootPath, path))
		if err != nil {
			return errorResult(fmt.Sprintf("resolving path: %v", err)), nil
		}

		result, err := newRecordService().LastBatch(dir)
		if err != nil {
			return errorResult(fmt.Sprintf("loading last batch: %v", err)), nil
		}
		if result == nil {
			return errorResult(fmt.Sprintf("no graded batch found in %s", dir)), nil
		}
		return jsonResult(result)
	}
}

// jsonResult marshals v as indented JSON into a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns an error content result.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}

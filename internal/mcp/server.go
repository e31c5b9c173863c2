// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/application/service"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/changelog"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
)

// ServerName identifies this server to MCP clients.
const ServerName = "problem-tracker"

// EntryReader reads the tracker log.
type EntryReader interface {
	Entries(ctx context.Context) ([]int, error)
}

// ProblemFinder looks up synced problems.
type ProblemFinder interface {
	Get(ctx context.Context, id int64) (problem.Problem, error)
	Search(ctx context.Context, name string) ([]problem.Problem, error)
}

// Server wraps the MCP server with tracker tools.
type Server struct {
	mcpServer *server.MCPServer
	entries   EntryReader
	problems  ProblemFinder
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(entries EntryReader, problems ProblemFinder, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		entries:  entries,
		problems: problems,
		logger:   logger,
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(mcp.NewTool("tracked_rows",
		mcp.WithDescription("List the problem sheet rows edited since the last sync, in edit order. Duplicates are kept."),
	), s.handleTrackedRows)

	mcpServer.AddTool(mcp.NewTool("search_problems",
		mcp.WithDescription("Find synced problems whose name contains the given text, ignoring case"),
		mcp.WithString("problem_name",
			mcp.Required(),
			mcp.Description("Part of the problem name"),
		),
	), s.handleSearchProblems)

	mcpServer.AddTool(mcp.NewTool("get_problem",
		mcp.WithDescription("Get a synced problem by its ID"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("The numeric problem ID"),
		),
	), s.handleGetProblem)
}

func (s *Server) handleTrackedRows(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.entries.Entries(ctx)
	if err != nil {
		s.logger.Error("failed to read tracker log", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to read tracker log: %v", err)), nil
	}

	type trackedRows struct {
		Entries []int `json:"entries"`
		Rows    []int `json:"rows"`
	}
	return jsonResult(trackedRows{Entries: entries, Rows: changelog.Unique(entries)})
}

func (s *Server) handleSearchProblems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("problem_name")
	if err != nil {
		return mcp.NewToolResultError("problem_name is required"), nil
	}

	found, err := s.problems.Search(ctx, name)
	if err != nil {
		if errors.Is(err, service.ErrProblemNotFound) {
			return jsonResult([]problemResult{})
		}
		s.logger.Error("problem search failed", slog.String("problem_name", name), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	results := make([]problemResult, len(found))
	for i, p := range found {
		results[i] = newProblemResult(p)
	}
	return jsonResult(results)
}

func (s *Server) handleGetProblem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}

	p, err := s.problems.Get(ctx, int64(id))
	if err != nil {
		if errors.Is(err, service.ErrProblemNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("problem %d not found", id)), nil
		}
		s.logger.Error("failed to get problem", slog.Int("id", id), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("failed to get problem: %v", err)), nil
	}
	return jsonResult(newProblemResult(p))
}

type problemResult struct {
	ID                   int64  `json:"id"`
	SpreadsheetRowID     int    `json:"spreadsheet_row_id"`
	ProblemName          string `json:"problem_name"`
	ProblemType          string `json:"problem_type"`
	DifficultyLevel      string `json:"difficulty_level"`
	ProblemLink          string `json:"problem_link"`
	CompletionMinutes    int    `json:"completion_time_minutes"`
	RuntimeComplexity    string `json:"solution_runtime_complexity"`
	SpaceComplexity      string `json:"solution_space_complexity"`
	FoundOptimalSolution bool   `json:"found_optimal_solution"`
}

func newProblemResult(p problem.Problem) problemResult {
	f := p.Fields()
	return problemResult{
		ID:                   p.ID(),
		SpreadsheetRowID:     p.RowID(),
		ProblemName:          f.Name,
		ProblemType:          f.Type,
		DifficultyLevel:      f.DifficultyLevel,
		ProblemLink:          f.Link,
		CompletionMinutes:    f.CompletionTimeMinutes,
		RuntimeComplexity:    f.RuntimeComplexity,
		SpaceComplexity:      f.SpaceComplexity,
		FoundOptimalSolution: f.FoundOptimalSolution,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

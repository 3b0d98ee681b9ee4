package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seb1232/cppindex-mcp/index"
)

// DepsArgs defines the input parameters for the cppindex_deps tool.
type DepsArgs struct {
	FilePath string `json:"filePath,omitempty" jsonschema:"Relative path of one file to inspect; omit for the whole project graph"`
}

// DepsHandler holds the dependencies for the deps tool.
type DepsHandler struct {
	Store  *index.Store
	Logger *slog.Logger
}

// Handle processes a cppindex_deps request.
func (h *DepsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args DepsArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	root := h.Store.Root()

	if args.FilePath == "" {
		files, edges := h.Store.DependencyGraph()

		order := make([]string, 0, len(files))
		display := make(map[string][]string, len(edges))
		for _, file := range files {
			rel := displayPath(root, file)
			order = append(order, rel)
			if targets := edges[file]; len(targets) > 0 {
				display[rel] = displayPaths(root, targets)
			}
		}

		elapsed := time.Since(start)
		h.Logger.Info("cppindex_deps", "scope", "project", "files", len(files), "elapsed", elapsed)

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: FormatDependencyGraph(order, display)}},
		}, nil, nil
	}

	record, ok := h.Store.Record(args.FilePath)
	if !ok {
		h.Logger.Info("cppindex_deps file not found", "filePath", args.FilePath)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("File not found in index: %s", args.FilePath)}},
			IsError: true,
		}, nil, nil
	}

	includes := displayPaths(root, h.Store.DependenciesOf(record.Path))
	dependents := displayPaths(root, h.Store.DependentsOf(record.Path))
	declared := h.Store.RawIncludesOf(record.Path)

	elapsed := time.Since(start)
	h.Logger.Info("cppindex_deps",
		"filePath", record.RelPath,
		"includes", len(includes),
		"dependents", len(dependents),
		"elapsed", elapsed,
	)

	output := FormatFileDependencies(record.RelPath, includes, dependents, declared)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}

package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seb1232/cppindex-mcp/index"
	"github.com/seb1232/cppindex-mcp/search"
)

// UsageArgs defines the input parameters for the cppindex_usage tool.
type UsageArgs struct {
	FilePath    string `json:"filePath" jsonschema:"Relative path of the file whose symbols to find usages of"`
	MaxExamples int    `json:"maxExamples,omitempty" jsonschema:"Maximum number of example snippets to return (default 5)"`
}

// UsageHandler holds the dependencies for the usage tool. DefaultMax caps
// requests that pass no maxExamples; zero defers to the engine default.
type UsageHandler struct {
	Engine     *search.Engine
	Store      *index.Store
	DefaultMax int
	Logger     *slog.Logger
}

// Handle processes a cppindex_usage request.
func (h *UsageHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args UsageArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.FilePath == "" {
		h.Logger.Warn("cppindex_usage called with empty filePath")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: filePath parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	record, ok := h.Store.Record(args.FilePath)
	if !ok {
		h.Logger.Info("cppindex_usage file not found", "filePath", args.FilePath)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("File not found in index: %s", args.FilePath)}},
			IsError: true,
		}, nil, nil
	}

	maxExamples := args.MaxExamples
	if maxExamples <= 0 {
		maxExamples = h.DefaultMax
	}
	examples := h.Engine.UsageExamples(record.Path, maxExamples)

	elapsed := time.Since(start)
	h.Logger.Info("cppindex_usage", "filePath", record.RelPath, "examples", len(examples), "elapsed", elapsed)

	output := FormatUsageExamples(record.RelPath, examples)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}

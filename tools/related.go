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

// RelatedArgs defines the input parameters for the cppindex_related tool.
type RelatedArgs struct {
	FilePath string `json:"filePath" jsonschema:"Relative path of the file to find related files for"`
}

// RelatedHandler holds the dependencies for the related tool.
type RelatedHandler struct {
	Engine *search.Engine
	Store  *index.Store
	Logger *slog.Logger
}

// Handle processes a cppindex_related request.
func (h *RelatedHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RelatedArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.FilePath == "" {
		h.Logger.Warn("cppindex_related called with empty filePath")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: filePath parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	record, ok := h.Store.Record(args.FilePath)
	if !ok {
		h.Logger.Info("cppindex_related file not found", "filePath", args.FilePath)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("File not found in index: %s", args.FilePath)}},
			IsError: true,
		}, nil, nil
	}

	related := h.Engine.Related(record.Path)

	elapsed := time.Since(start)
	h.Logger.Info("cppindex_related", "filePath", record.RelPath, "results", len(related), "elapsed", elapsed)

	output := FormatRelated(record.RelPath, related)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}

package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seb1232/cppindex-mcp/index"
)

// ReadArgs defines the input parameters for the cppindex_read tool.
type ReadArgs struct {
	FilePath string `json:"filePath" jsonschema:"Relative file path to read from the index (e.g. src/main.cpp)"`
	Offset   int    `json:"offset,omitempty" jsonschema:"1-based line number to start from (default 1)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of lines to return (default all)"`
}

// ReadHandler holds the dependencies for the read tool.
type ReadHandler struct {
	Store  *index.Store
	Logger *slog.Logger
}

// Handle processes a cppindex_read request.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.FilePath == "" {
		h.Logger.Warn("cppindex_read called with empty filePath")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: filePath parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	record, ok := h.Store.Record(args.FilePath)
	if !ok {
		h.Logger.Info("cppindex_read file not found", "filePath", args.FilePath)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("File not found in index: %s", args.FilePath)}},
			IsError: true,
		}, nil, nil
	}

	content, err := h.Store.Content(record.Path)
	if err != nil {
		h.Logger.Info("cppindex_read content missing", "filePath", args.FilePath)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("File not found in index: %s", args.FilePath)}},
			IsError: true,
		}, nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("cppindex_read", "filePath", record.RelPath, "elapsed", elapsed)

	output := FormatFileContent(record.RelPath, content, args.Offset, args.Limit)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}

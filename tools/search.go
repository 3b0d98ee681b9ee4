package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seb1232/cppindex-mcp/search"
)

// SearchArgs defines the input parameters for the cppindex_search tool.
type SearchArgs struct {
	Query         string   `json:"query" jsonschema:"Symbol name, text fragment, or /regex/ to look for"`
	Kind          string   `json:"kind,omitempty" jsonschema:"Search kind: component, function, class, ui_element, dependency, regex, text, or content (default component)"`
	CaseSensitive bool     `json:"caseSensitive,omitempty" jsonschema:"Match case exactly instead of case-insensitively"`
	FileTypes     []string `json:"fileTypes,omitempty" jsonschema:"Restrict results to these file extensions (e.g. cpp, h)"`
	MaxResults    int      `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Engine *search.Engine
	Logger *slog.Logger
}

// Handle processes a cppindex_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("cppindex_search called with empty query")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: query parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	kind := search.Kind(args.Kind)
	if args.Kind == "" {
		kind = search.KindComponent
	}

	results, err := h.Engine.Search(kind, args.Query, search.Options{
		CaseSensitive: args.CaseSensitive,
		Extensions:    args.FileTypes,
		MaxResults:    args.MaxResults,
	})
	if err != nil {
		h.Logger.Error("cppindex_search failed", "kind", kind, "query", args.Query, "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Search error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	elapsed := time.Since(start)
	h.Logger.Info("cppindex_search",
		"kind", kind,
		"query", args.Query,
		"results", len(results),
		"elapsed", elapsed,
	)

	output := FormatSearchResults(results)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: output}},
	}, nil, nil
}

package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seb1232/cppindex-mcp/tools"
)

// Setup creates and configures the MCP server with all tool registrations.
func Setup(
	searchHandler *tools.SearchHandler,
	depsHandler *tools.DepsHandler,
	relatedHandler *tools.RelatedHandler,
	usageHandler *tools.UsageHandler,
	filesHandler *tools.FilesHandler,
	readHandler *tools.ReadHandler,
	statusHandler *tools.StatusHandler,
	reindexHandler *tools.ReindexHandler,
) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "cppindex",
			Version: "0.3.0",
		},
		&mcp.ServerOptions{
			Instructions: `This server indexes a C/C++ source tree in memory: symbols (classes, functions, UI components), include dependencies, and full file contents. Its tools answer from the index without scanning the filesystem, and the index follows file changes automatically.

Prefer these tools over built-in alternatives:
- Use cppindex_search for symbol and text lookups instead of Grep
- Use cppindex_deps to follow #include relationships instead of reading headers
- Use cppindex_related and cppindex_usage to explore how files connect
- Use cppindex_read instead of Read for any indexed file (served from memory)
- Use cppindex_files instead of Glob or find for file discovery`,
		},
	)

	// Register cppindex_search tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "cppindex_search",
		Description: `Search the index for symbols, text, or patterns. Results are ranked by relevance.

Kinds:
  - component: UI vocabulary tags (button, dialog, panel, ...)
  - function, class, ui_element: extracted symbol names
  - dependency: files whose dependents or includes match the query
  - regex: /pattern/ matching per line with column spans
  - text: literal substring over every indexed line
  - content: token/phrase/regex search over the full-text index`,
	}, searchHandler.Handle)

	// Register cppindex_deps tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "cppindex_deps",
		Description: "Show include dependencies. With filePath: what the file includes, what includes it, and its declared directives. Without: every resolved edge in the project.",
	}, depsHandler.Handle)

	// Register cppindex_related tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "cppindex_related",
		Description: "List files related to one file: its dependencies, its dependents, and files sharing a component or class with it.",
	}, relatedHandler.Handle)

	// Register cppindex_usage tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "cppindex_usage",
		Description: "Show code snippets from other files that use the components or classes defined in the given file.",
	}, usageHandler.Handle)

	// Register cppindex_files tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "cppindex_files",
		Description: `Find indexed files by glob pattern.

Pattern examples:
  - "**/*.h" - all headers
  - "src/**/*.cpp" - sources under src/
  - "*.rtf" - rich-text exports in the root only`,
	}, filesHandler.Handle)

	// Register cppindex_read tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "cppindex_read",
		Description: `Read a file's contents from the in-memory index with real line numbers (format: "N: content"). Supports offset and limit for large files.`,
	}, readHandler.Handle)

	// Register cppindex_status tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "cppindex_status",
		Description: "Show index status: file and symbol counts, dependency edges, dialect breakdown, memory usage, and uptime.",
	}, statusHandler.Handle)

	// Register cppindex_reindex tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "cppindex_reindex",
		Description: "Force a full re-index of the project. Clears the existing index and rebuilds from scratch.",
	}, reindexHandler.Handle)

	return mcpServer
}

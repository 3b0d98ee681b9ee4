package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/seb1232/cppindex-mcp/index"
)

// StatusArgs defines the input parameters for the cppindex_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Store     *index.Store
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes a cppindex_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	stats := h.Store.Snapshot()
	dialectCounts := h.Store.DialectCounts()
	uptime := time.Since(h.StartTime)

	// Memory stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("cppindex_status",
		"files", stats.Files,
		"totalSize", stats.TotalBytes,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	var builder strings.Builder
	builder.WriteString("=== cppindex-mcp Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Root directory: %s\n", h.Store.Root()))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Index generation: %d\n", stats.Generation))
	builder.WriteString(fmt.Sprintf("Indexed files: %d\n", stats.Files))
	builder.WriteString(fmt.Sprintf("Content-indexed documents: %d\n", stats.ContentDocs))
	builder.WriteString(fmt.Sprintf("Dependency edges: %d\n", stats.Edges))
	builder.WriteString(fmt.Sprintf("Symbols: %d components / %d functions / %d classes / %d UI elements\n",
		stats.Components, stats.Functions, stats.Classes, stats.UIElements))
	builder.WriteString(fmt.Sprintf("Total indexed size: %s\n", formatFileSize(stats.TotalBytes)))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	// Dialect breakdown
	if len(dialectCounts) > 0 {
		builder.WriteString("\nFile kinds:\n")

		// Sort by count descending, name as the tiebreak
		type dialectEntry struct {
			dialect string
			count   int
		}
		entries := make([]dialectEntry, 0, len(dialectCounts))
		for dialect, count := range dialectCounts {
			entries = append(entries, dialectEntry{dialect, count})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].count != entries[j].count {
				return entries[i].count > entries[j].count
			}
			return entries[i].dialect < entries[j].dialect
		})

		for _, entry := range entries {
			builder.WriteString(fmt.Sprintf("  %-20s %d files\n", entry.dialect, entry.count))
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}

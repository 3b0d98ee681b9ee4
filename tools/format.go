package tools

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/seb1232/cppindex-mcp/index"
	"github.com/seb1232/cppindex-mcp/search"
)

// FormatSearchResults formats engine results as human-readable text, one
// numbered block per result in relevance order.
func FormatSearchResults(results []search.Result) string {
	if len(results) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d results:\n\n", len(results)))

	for i, result := range results {
		builder.WriteString(fmt.Sprintf("%d. %s:%d  [%.2f]", i+1, result.File, result.Line, result.Relevance))
		if result.End > result.Start {
			builder.WriteString(fmt.Sprintf("  (cols %d-%d)", result.Start, result.End))
		}
		builder.WriteString("\n")

		if text := strings.TrimRight(result.Text, " \t\r"); text != "" {
			builder.WriteString(fmt.Sprintf("   %s\n", text))
		}
		if len(result.Dependents) > 0 {
			builder.WriteString(fmt.Sprintf("   dependents: %s\n", strings.Join(result.Dependents, ", ")))
		}
	}

	return builder.String()
}

// FormatFileDependencies formats the dependency neighborhood of one file:
// what it includes, what includes it, and the include directives as written.
func FormatFileDependencies(file string, includes, dependents, declared []string) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s ──\n", file))

	builder.WriteString(fmt.Sprintf("includes (%d):\n", len(includes)))
	for _, inc := range includes {
		builder.WriteString(fmt.Sprintf("  %s\n", inc))
	}

	builder.WriteString(fmt.Sprintf("included by (%d):\n", len(dependents)))
	for _, dep := range dependents {
		builder.WriteString(fmt.Sprintf("  %s\n", dep))
	}

	if len(declared) > 0 {
		builder.WriteString(fmt.Sprintf("declared: %s\n", strings.Join(declared, ", ")))
	}

	return builder.String()
}

// FormatDependencyGraph formats the resolved include edges of the whole
// project, one line per file with outgoing edges.
func FormatDependencyGraph(files []string, edges map[string][]string) string {
	edgeCount := 0
	for _, targets := range edges {
		edgeCount += len(targets)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Dependency graph: %d files, %d edges\n\n", len(files), edgeCount))

	for _, file := range files {
		targets := edges[file]
		if len(targets) == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("%s -> %s\n", file, strings.Join(targets, ", ")))
	}

	return builder.String()
}

// FormatRelated formats the related-file list for one file.
func FormatRelated(file string, related []search.Related) string {
	if len(related) == 0 {
		return fmt.Sprintf("No related files for %s.", file)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Related to %s (%d):\n\n", file, len(related)))

	for _, r := range related {
		builder.WriteString(fmt.Sprintf("  %-32s %s\n", r.File, r.Relationship))
	}

	return builder.String()
}

// FormatUsageExamples formats usage example snippets, one block per example.
func FormatUsageExamples(file string, examples []search.UsageExample) string {
	if len(examples) == 0 {
		return fmt.Sprintf("No usage examples for %s.", file)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d usage examples:\n\n", len(examples)))

	for i, example := range examples {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("── %s (%s %s) ──\n", example.File, example.Kind, example.Name))
		builder.WriteString(example.Code)
		builder.WriteString("\n")
	}

	return builder.String()
}

// FormatFileRecords formats glob search results as human-readable text.
func FormatFileRecords(records []index.FileRecord, nameOnly bool) string {
	if len(records) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(records)))

	for _, record := range records {
		if nameOnly {
			builder.WriteString(record.RelPath)
			builder.WriteString("\n")
		} else {
			builder.WriteString(fmt.Sprintf("  %s  (%s, %s)\n",
				record.RelPath,
				record.Dialect,
				formatFileSize(record.SizeBytes),
			))
		}
	}

	return builder.String()
}

// FormatFileContent formats a file's content with real line numbers. Offset
// is the 1-based first line to show (0 means from the start), limit caps how
// many lines follow (0 means to the end).
func FormatFileContent(filePath string, content string, offset, limit int) string {
	lines := strings.Split(content, "\n")
	lineCount := len(lines)

	if offset <= 0 {
		offset = 1
	}
	if offset > lineCount {
		return fmt.Sprintf("Offset exceeds file length: %s has %d lines.", filePath, lineCount)
	}

	end := lineCount
	if limit > 0 && offset-1+limit < end {
		end = offset - 1 + limit
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%d lines) ──\n", filePath, lineCount))
	for i := offset - 1; i < end; i++ {
		builder.WriteString(fmt.Sprintf("%d: %s\n", i+1, lines[i]))
	}

	return builder.String()
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// displayPath converts an absolute store path to its root-relative form.
func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func displayPaths(root string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, displayPath(root, p))
	}
	return out
}

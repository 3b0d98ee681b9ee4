// Package language labels tracked file kinds for reporting and screens out
// content the indexer cannot use.
package language

import (
	"path/filepath"
	"strings"
)

// ExtensionToDialect maps tracked file extensions (without dot) to the
// dialect label shown in status breakdowns.
var ExtensionToDialect = map[string]string{
	"cpp": "C++ source",
	"cc":  "C++ source",
	"cxx": "C++ source",
	"h":   "C/C++ header",
	"hpp": "C++ header",
	"rtf": "Rich text",
}

// Detect returns the dialect label for a file path based on its extension.
// Returns "Other" for extensions outside the tracked set.
func Detect(filePath string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	if dialect, ok := ExtensionToDialect[ext]; ok {
		return dialect
	}
	return "Other"
}

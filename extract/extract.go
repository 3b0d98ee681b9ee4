// Package extract pulls searchable facts out of C/C++ source text using
// line-oriented heuristics. There is no compiler and no AST behind it, just
// patterns that hit the common shapes of declarations, so results are
// approximate on purpose.
package extract

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Facts is everything recovered from a single file.
type Facts struct {
	Includes   []string // include targets as written, delimiters stripped later
	Classes    []string // class names, base classes included
	Functions  []string // "returnType name" pairs
	Components []string // lowercase component keywords found in the text
	UIElements []string // widget type names, first occurrence order
}

// Empty reports whether no facts were recovered at all.
func (f Facts) Empty() bool {
	return len(f.Includes) == 0 && len(f.Classes) == 0 && len(f.Functions) == 0 &&
		len(f.Components) == 0 && len(f.UIElements) == 0
}

// Extractor turns file content into Facts. Implementations must not fail:
// content that defeats the heuristics yields empty Facts, never an error.
type Extractor interface {
	Extract(path string, content string) Facts
}

// codeExtensions get full structural extraction. Other tracked kinds (rich
// text exports of code) only contribute includes.
var codeExtensions = map[string]bool{
	".cpp": true,
	".h":   true,
	".hpp": true,
	".cc":  true,
	".cxx": true,
}

var (
	includePattern  = regexp.MustCompile(`#include\s+["<](.*)[">]`)
	classPattern    = regexp.MustCompile(`class\s+(\w+)(?:\s*:\s*(?:public|protected|private)\s+(\w+))?`)
	functionPattern = regexp.MustCompile(`(\w+)\s+(\w+)\s*\([^)]*\)`)
	uiElementPattern = regexp.MustCompile(
		`(Button|CheckBox|ComboBox|Dialog|Label|ListView|Menu|ProgressBar|RadioButton|` +
			`ScrollBar|Slider|Spinner|TabControl|TextBox|ToolBar|TreeView|Window)`)
	actionButtonPattern = regexp.MustCompile(`(?i)\baction\s*button\b`)
)

// componentKeywords tag a file by the UI vocabulary it mentions. Matched at
// word boundaries, case-insensitively, recorded in lowercase.
var componentKeywords = []string{
	"widget", "component", "control", "view", "panel", "dialog", "window",
	"form", "button", "checkbox", "radio", "slider", "menu", "toolbar",
	"label", "textbox", "listview", "treeview", "combobox", "container",
	"scroll", "tab", "grid", "image",
}

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

var keywordPatterns = compileKeywordPatterns()

func compileKeywordPatterns() []keywordPattern {
	out := make([]keywordPattern, 0, len(componentKeywords))
	for _, kw := range componentKeywords {
		out = append(out, keywordPattern{kw, regexp.MustCompile(`(?i)\b` + kw + `\b`)})
	}
	return out
}

// RegexExtractor is the default Extractor implementation.
type RegexExtractor struct{}

// NewRegexExtractor creates the default heuristic extractor.
func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{}
}

// Extract implements Extractor.
func (e *RegexExtractor) Extract(path string, content string) Facts {
	var facts Facts

	for _, m := range includePattern.FindAllStringSubmatch(content, -1) {
		facts.Includes = append(facts.Includes, m[1])
	}

	if !codeExtensions[strings.ToLower(filepath.Ext(path))] {
		return facts
	}

	classMatches := classPattern.FindAllStringSubmatch(content, -1)
	for _, m := range classMatches {
		facts.Classes = append(facts.Classes, m[1])
	}
	// Base classes count as classes too, appended after the direct names.
	for _, m := range classMatches {
		if m[2] != "" && !containsString(facts.Classes, m[2]) {
			facts.Classes = append(facts.Classes, m[2])
		}
	}

	for _, m := range functionPattern.FindAllStringSubmatch(content, -1) {
		facts.Functions = append(facts.Functions, m[1]+" "+m[2])
	}

	seen := make(map[string]bool)
	for _, m := range uiElementPattern.FindAllString(content, -1) {
		if !seen[m] {
			seen[m] = true
			facts.UIElements = append(facts.UIElements, m)
		}
	}

	for _, kp := range keywordPatterns {
		if kp.re.MatchString(content) {
			facts.Components = append(facts.Components, kp.keyword)
		}
	}
	if actionButtonPattern.MatchString(content) {
		facts.Components = append(facts.Components, "action button")
	}

	return facts
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

package tools

import (
	"context"
	"strings"
	"testing"
)

func Test_UsageHandler_EmptyFilePath(t *testing.T) {
	store, engine := newToolsFixture(t)

	h := &UsageHandler{Engine: engine, Store: store, Logger: discardLogger()}

	result, _, err := h.Handle(context.Background(), nil, UsageArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty filePath")
	}
}

func Test_UsageHandler_UnknownFile(t *testing.T) {
	store, engine := newToolsFixture(t)

	h := &UsageHandler{Engine: engine, Store: store, Logger: discardLogger()}

	result, _, err := h.Handle(context.Background(), nil, UsageArgs{FilePath: "ghost.cpp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for unknown file")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "File not found in index") {
		t.Errorf("expected 'File not found in index', got: %s", text)
	}
}

func Test_UsageHandler_Examples(t *testing.T) {
	store, engine := newToolsFixture(t)
	writeIndexed(t, store, "src/button.h", buttonHeader)
	writeIndexed(t, store, "src/main.cpp", mainSource)
	store.ResolveDependencies()

	h := &UsageHandler{Engine: engine, Store: store, Logger: discardLogger()}

	result, _, err := h.Handle(context.Background(), nil, UsageArgs{FilePath: "src/button.h"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "src/main.cpp") {
		t.Errorf("expected example from src/main.cpp, got:\n%s", text)
	}
	if !strings.Contains(text, "Button btn;") {
		t.Errorf("expected snippet with usage line, got:\n%s", text)
	}
}

func Test_UsageHandler_NoExamples(t *testing.T) {
	store, engine := newToolsFixture(t)
	writeIndexed(t, store, "src/button.h", buttonHeader)

	h := &UsageHandler{Engine: engine, Store: store, Logger: discardLogger()}

	result, _, err := h.Handle(context.Background(), nil, UsageArgs{FilePath: "src/button.h"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "No usage examples for src/button.h") {
		t.Errorf("expected empty-result message, got:\n%s", text)
	}
}

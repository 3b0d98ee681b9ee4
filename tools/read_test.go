package tools

import (
	"context"
	"strings"
	"testing"
)

func Test_ReadHandler_EmptyFilePath(t *testing.T) {
	store, _ := newToolsFixture(t)

	h := &ReadHandler{Store: store, Logger: discardLogger()}

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty filePath")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "filePath parameter is required") {
		t.Errorf("expected error message about empty filePath, got: %s", text)
	}
}

func Test_ReadHandler_FileNotFound(t *testing.T) {
	store, _ := newToolsFixture(t)

	h := &ReadHandler{Store: store, Logger: discardLogger()}

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: "nonexistent.cpp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for missing file")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "File not found") {
		t.Errorf("expected 'File not found' message, got: %s", text)
	}
}

func Test_ReadHandler_Success(t *testing.T) {
	store, _ := newToolsFixture(t)
	writeIndexed(t, store, "src/main.cpp", mainSource)

	h := &ReadHandler{Store: store, Logger: discardLogger()}

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: "src/main.cpp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "src/main.cpp") {
		t.Errorf("expected header with path, got:\n%s", text)
	}
	if !strings.Contains(text, `1: #include "button.h"`) {
		t.Errorf("expected line-numbered content, got:\n%s", text)
	}
	if !strings.Contains(text, "4:     Button btn;") {
		t.Errorf("expected line 4 with file numbering, got:\n%s", text)
	}
}

func Test_ReadHandler_WithOffset(t *testing.T) {
	store, _ := newToolsFixture(t)
	writeIndexed(t, store, "lines.cpp", "int l1;\nint l2;\nint l3;\nint l4;\nint l5;")

	h := &ReadHandler{Store: store, Logger: discardLogger()}

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: "lines.cpp", Offset: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}

	text := resultText(t, result)
	if strings.Contains(text, "1: int l1;") || strings.Contains(text, "2: int l2;") {
		t.Errorf("expected offset to skip first two lines, got:\n%s", text)
	}
	if !strings.Contains(text, "3: int l3;") {
		t.Errorf("expected line 3 with actual file number, got:\n%s", text)
	}
	if !strings.Contains(text, "5: int l5;") {
		t.Errorf("expected remaining lines, got:\n%s", text)
	}
}

func Test_ReadHandler_WithLimit(t *testing.T) {
	store, _ := newToolsFixture(t)
	writeIndexed(t, store, "lines.cpp", "int l1;\nint l2;\nint l3;\nint l4;\nint l5;")

	h := &ReadHandler{Store: store, Logger: discardLogger()}

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: "lines.cpp", Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "1: int l1;") {
		t.Errorf("expected line 1, got:\n%s", text)
	}
	if !strings.Contains(text, "2: int l2;") {
		t.Errorf("expected line 2, got:\n%s", text)
	}
	if strings.Contains(text, "int l3;") {
		t.Errorf("expected limit to stop after 2 lines, got:\n%s", text)
	}
}

func Test_ReadHandler_OffsetBeyondEOF(t *testing.T) {
	store, _ := newToolsFixture(t)
	writeIndexed(t, store, "lines.cpp", "int l1;\nint l2;")

	h := &ReadHandler{Store: store, Logger: discardLogger()}

	result, _, err := h.Handle(context.Background(), nil, ReadArgs{FilePath: "lines.cpp", Offset: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success result carrying the message")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Offset exceeds file length") {
		t.Errorf("expected offset message, got:\n%s", text)
	}
}

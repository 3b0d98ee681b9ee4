package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func Test_Default_Values(t *testing.T) {
	cfg := Default("/tmp/project")

	if cfg.Root != "/tmp/project" {
		t.Errorf("Root = %s, want /tmp/project", cfg.Root)
	}
	if cfg.Debounce() != 2*time.Second {
		t.Errorf("Debounce = %v, want 2s", cfg.Debounce())
	}
	if cfg.SyncInterval() != 0 {
		t.Errorf("SyncInterval = %v, want disabled", cfg.SyncInterval())
	}
	if cfg.MaxUsageExamples != 5 || cfg.SnippetContext != 5 {
		t.Errorf("usage example defaults = (%d, %d), want (5, 5)",
			cfg.MaxUsageExamples, cfg.SnippetContext)
	}
	if len(cfg.Extensions) != 6 {
		t.Errorf("Extensions = %v, want the six tracked defaults", cfg.Extensions)
	}
	if !cfg.Watch {
		t.Error("expected watching enabled by default")
	}
}

func Test_Load_MissingFileUsesDefaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxResults != 50 {
		t.Errorf("MaxResults = %d, want default 50", cfg.MaxResults)
	}
}

func Test_Load_FileOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	content := `
extensions = ["cpp", "h"]
debounce_seconds = 0.5
max_results = 10
log_level = "debug"
`
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Extensions) != 2 {
		t.Errorf("Extensions = %v, want the two configured", cfg.Extensions)
	}
	if cfg.Debounce() != 500*time.Millisecond {
		t.Errorf("Debounce = %v, want 500ms", cfg.Debounce())
	}
	if cfg.MaxResults != 10 {
		t.Errorf("MaxResults = %d, want 10", cfg.MaxResults)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	// Untouched keys keep their defaults.
	if cfg.MaxUsageExamples != 5 {
		t.Errorf("MaxUsageExamples = %d, want default 5", cfg.MaxUsageExamples)
	}
}

func Test_Load_ExplicitPathMustExist(t *testing.T) {
	root := t.TempDir()

	if _, err := Load(root, filepath.Join(root, "nope.toml")); err == nil {
		t.Error("expected an error for an explicitly named missing config file")
	}
}

func Test_Load_BadTomlFails(t *testing.T) {
	root := t.TempDir()
	os.WriteFile(filepath.Join(root, FileName), []byte("max_results = ["), 0644)

	if _, err := Load(root, ""); err == nil {
		t.Error("expected a parse error for malformed toml")
	}
}

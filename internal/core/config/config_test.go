// # internal/core/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
root_dir = "./channel"
source_dir = "\\source\\"

[diagnostics]
ignore_codes = [1002, 1001, 1002]

[exclude]
dirs = [".git", "out"]
files = ["*.bak"]

[watch]
debounce = "1s"
revalidate_per_second = 2.5
burst = 3

[load]
concurrency = 2

[history]
enabled = true
project_key = "roku-app"

[output]
format = "JSON"
color = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.RootDir != "./channel" {
		t.Errorf("Expected RootDir ./channel, got %s", cfg.RootDir)
	}
	if cfg.SourceDir != "source" {
		t.Errorf("Expected SourceDir source, got %q", cfg.SourceDir)
	}
	if len(cfg.Diagnostics.IgnoreCodes) != 2 || cfg.Diagnostics.IgnoreCodes[0] != 1001 || cfg.Diagnostics.IgnoreCodes[1] != 1002 {
		t.Errorf("Unexpected IgnoreCodes: %v", cfg.Diagnostics.IgnoreCodes)
	}
	if !cfg.Diagnostics.Ignores(1002) || cfg.Diagnostics.Ignores(1004) {
		t.Errorf("Ignores mismatch for %v", cfg.Diagnostics.IgnoreCodes)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.RevalidatePerSecond != 2.5 || cfg.Watch.Burst != 3 {
		t.Errorf("Unexpected watch limits: %+v", cfg.Watch)
	}
	if cfg.Load.Concurrency != 2 {
		t.Errorf("Expected concurrency 2, got %d", cfg.Load.Concurrency)
	}
	if !cfg.History.Enabled || cfg.History.Path != ".bslint/history.db" || cfg.History.ProjectKey != "roku-app" {
		t.Errorf("Unexpected history config: %+v", cfg.History)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Expected format json, got %s", cfg.Output.Format)
	}
	if cfg.Output.ColorEnabled() {
		t.Error("Expected color to be disabled")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `version = 1`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SourceDir != "source" {
		t.Errorf("Expected default source dir, got %q", cfg.SourceDir)
	}
	if cfg.Watch.Debounce != 300*time.Millisecond {
		t.Errorf("Expected default debounce 300ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Load.Concurrency != runtime.GOMAXPROCS(0) {
		t.Errorf("Expected default concurrency %d, got %d", runtime.GOMAXPROCS(0), cfg.Load.Concurrency)
	}
	if cfg.Output.Format != "text" || !cfg.Output.ColorEnabled() {
		t.Errorf("Unexpected output defaults: %+v", cfg.Output)
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("Expected default exclude dirs")
	}
}

func TestDefaultConfigMatchesLoadDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Version != 1 || cfg.SourceDir != "source" || cfg.Observability.ServiceName != "bslint" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoadError(t *testing.T) {
	if _, err := Load("nonexistent.toml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
	if _, err := Load(writeConfig(t, "bad = toml = format")); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "future version", content: `version = 3`},
		{name: "escaping source dir", content: `source_dir = "../elsewhere"`},
		{name: "negative ignore code", content: "[diagnostics]\nignore_codes = [-1]"},
		{name: "empty exclude pattern", content: "[exclude]\nfiles = [\"\"]"},
		{name: "bad exclude glob", content: "[exclude]\ndirs = [\"[\"]"},
		{name: "unknown output format", content: "[output]\nformat = \"xml\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatalf("expected validation error for %q", tt.content)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("BSLINT_SOURCE_DIR", "src/")
	t.Setenv("BSLINT_DIAGNOSTICS_IGNORE_CODES", "1010, 1009")
	t.Setenv("BSLINT_WATCH_DEBOUNCE", "750ms")
	t.Setenv("BSLINT_HISTORY_ENABLED", "TRUE")
	t.Setenv("BSLINT_LOAD_CONCURRENCY", "not-a-number")

	cfg := DefaultConfig()
	before := cfg.Load.Concurrency
	ApplyEnvOverrides(cfg)

	if cfg.SourceDir != "src" {
		t.Errorf("Expected source dir src, got %q", cfg.SourceDir)
	}
	if len(cfg.Diagnostics.IgnoreCodes) != 2 || cfg.Diagnostics.IgnoreCodes[0] != 1009 {
		t.Errorf("Unexpected ignore codes: %v", cfg.Diagnostics.IgnoreCodes)
	}
	if cfg.Watch.Debounce != 750*time.Millisecond {
		t.Errorf("Expected debounce 750ms, got %v", cfg.Watch.Debounce)
	}
	if !cfg.History.Enabled {
		t.Error("Expected history to be enabled")
	}
	if cfg.Load.Concurrency != before {
		t.Errorf("Malformed int override should be ignored, got %d", cfg.Load.Concurrency)
	}
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "bslint.example.toml"))
	if err != nil {
		t.Fatalf("Load example: %v", err)
	}
	def := DefaultConfig()
	if cfg.SourceDir != def.SourceDir || cfg.Watch.Debounce != def.Watch.Debounce {
		t.Fatalf("example drifted from defaults: source_dir=%q debounce=%v", cfg.SourceDir, cfg.Watch.Debounce)
	}
	if cfg.History.Enabled || cfg.Observability.Enabled {
		t.Fatal("example should leave history and observability off")
	}
}

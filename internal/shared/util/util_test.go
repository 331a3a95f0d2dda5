package util

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizePatternPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "./source/main.brs", want: "source/main.brs"},
		{in: "source\\lib\\util.brs", want: "source/lib/util.brs"},
		{in: " . ", want: ""},
		{in: "components/../source", want: "source"},
	}
	for _, tt := range tests {
		if got := NormalizePatternPath(tt.in); got != tt.want {
			t.Errorf("NormalizePatternPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortedStringKeys(t *testing.T) {
	got := SortedStringKeys(map[string]int{".xml": 1, ".brs": 2, ".bs": 3})
	want := []string{".brs", ".bs", ".xml"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedStringKeys = %v, want %v", got, want)
		}
	}
}

func TestCompileGlobsAndMatch(t *testing.T) {
	globs, err := CompileGlobs([]string{"*.bak", "node_modules"})
	if err != nil {
		t.Fatal(err)
	}
	if !MatchesAny(globs, "main.brs.bak") {
		t.Error("expected *.bak to match")
	}
	if MatchesAny(globs, "main.brs") {
		t.Error("expected main.brs not to match")
	}
	if _, err := CompileGlobs([]string{"["}); err == nil {
		t.Error("expected invalid glob to fail")
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out", "nested", "report.json")
	if err := WriteFileWithDirs(target, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestLimiter(t *testing.T) {
	// 10 tokens per second, burst of 2
	l := NewLimiter(10, 2)

	if !l.Allow(1) {
		t.Error("expected first token to be allowed")
	}
	if !l.Allow(1) {
		t.Error("expected second token to be allowed (burst)")
	}
	if l.Allow(1) {
		t.Error("expected third token to be rejected (burst exhausted)")
	}
	if l.Delay() <= 0 {
		t.Error("expected a positive delay once the burst is spent")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Wait(ctx, 1); err != nil {
		t.Fatalf("expected wait to succeed: %v", err)
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	RootDir     string
	SourceDir   string
	HistoryPath string
}

// ResolvePaths makes every configured location absolute. base is the
// directory relative paths are resolved against, normally the directory
// holding bslint.toml or the working directory.
func ResolvePaths(cfg *Config, base string) (ResolvedPaths, error) {
	if strings.TrimSpace(base) == "" {
		return ResolvedPaths{}, fmt.Errorf("base directory must not be empty")
	}

	root := strings.TrimSpace(cfg.RootDir)
	if root != "" {
		root = ResolveRelative(base, root)
	} else {
		detected, err := DetectProjectRoot([]string{base})
		if err != nil {
			return ResolvedPaths{}, err
		}
		root = detected
	}

	return ResolvedPaths{
		RootDir:     filepath.Clean(root),
		SourceDir:   filepath.Join(root, filepath.FromSlash(cfg.SourceDir)),
		HistoryPath: ResolveRelative(root, cfg.History.Path),
	}, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// DetectProjectRoot walks up from each candidate until it finds a channel
// manifest, a bslint.toml or a repository root. It falls back to the first
// usable candidate.
func DetectProjectRoot(candidates []string) (string, error) {
	markers := []string{
		"manifest",
		DefaultFileName,
		".git",
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range markers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err == nil {
			return filepath.Clean(abs), nil
		}
	}
	return "", fmt.Errorf("unable to detect project root")
}

// FindConfigFile returns the nearest bslint.toml at or above dir, or "" when
// none exists.
func FindConfigFile(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(abs, DefaultFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return ""
		}
		abs = parent
	}
}

package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateSourceDir(cfg *Config) error {
	if cfg.SourceDir == "" {
		return fmt.Errorf("source_dir must not be empty")
	}
	for _, segment := range strings.Split(cfg.SourceDir, "/") {
		if segment == ".." {
			return fmt.Errorf("source_dir %q must stay inside root_dir", cfg.SourceDir)
		}
	}
	return nil
}

func validateDiagnostics(cfg *Config) error {
	for i, code := range cfg.Diagnostics.IgnoreCodes {
		if code <= 0 {
			return fmt.Errorf("diagnostics.ignore_codes[%d] must be positive, got %d", i, code)
		}
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for i, pattern := range cfg.Exclude.Dirs {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("exclude.dirs[%d] must not be empty", i)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.dirs[%d] is not a valid glob: %w", i, err)
		}
	}
	for i, pattern := range cfg.Exclude.Files {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("exclude.files[%d] must not be empty", i)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.files[%d] is not a valid glob: %w", i, err)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("output.format must be one of: text, json")
	}
}

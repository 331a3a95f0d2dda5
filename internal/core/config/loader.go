// # internal/core/config/loader.go
package config

import (
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	normalizePaths(&cfg)
	normalizeDiagnostics(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateSourceDir(&cfg); err != nil {
		return nil, err
	}
	if err := validateDiagnostics(&cfg); err != nil {
		return nil, err
	}
	if err := validateExclude(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.SourceDir) == "" {
		cfg.SourceDir = "source"
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "node_modules", "out", ".bslint"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.RevalidatePerSecond <= 0 {
		cfg.Watch.RevalidatePerSecond = 4
	}
	if cfg.Watch.Burst <= 0 {
		cfg.Watch.Burst = 1
	}
	if cfg.Load.Concurrency <= 0 {
		cfg.Load.Concurrency = runtime.GOMAXPROCS(0)
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = ".bslint/history.db"
	}
	if strings.TrimSpace(cfg.Observability.MetricsAddr) == "" {
		cfg.Observability.MetricsAddr = "127.0.0.1:9464"
	}
	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "bslint"
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "text"
	}
}

func normalizePaths(cfg *Config) {
	cfg.RootDir = strings.TrimSpace(cfg.RootDir)
	source := strings.ReplaceAll(strings.TrimSpace(cfg.SourceDir), "\\", "/")
	cfg.SourceDir = strings.Trim(source, "/")
	cfg.History.Path = strings.TrimSpace(cfg.History.Path)
	cfg.History.ProjectKey = strings.TrimSpace(cfg.History.ProjectKey)
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
}

func normalizeDiagnostics(cfg *Config) {
	if len(cfg.Diagnostics.IgnoreCodes) == 0 {
		return
	}
	codes := slices.Clone(cfg.Diagnostics.IgnoreCodes)
	slices.Sort(codes)
	cfg.Diagnostics.IgnoreCodes = slices.Compact(codes)
}

// # internal/core/config/config.go
package config

import (
	"slices"
	"time"
)

const DefaultFileName = "bslint.toml"

type Config struct {
	Version       int           `toml:"version"`
	RootDir       string        `toml:"root_dir"`
	SourceDir     string        `toml:"source_dir"`
	Diagnostics   Diagnostics   `toml:"diagnostics"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Load          LoadOptions   `toml:"load"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
	Output        Output        `toml:"output"`
}

type Diagnostics struct {
	// IgnoreCodes is consulted every time diagnostics are read, so changes
	// apply without revalidating.
	IgnoreCodes []int `toml:"ignore_codes"`
}

func (d Diagnostics) Ignores(code int) bool {
	return slices.Contains(d.IgnoreCodes, code)
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce            time.Duration `toml:"debounce"`
	RevalidatePerSecond float64       `toml:"revalidate_per_second"`
	Burst               int           `toml:"burst"`
}

type LoadOptions struct {
	Concurrency int `toml:"concurrency"`
}

type History struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Observability struct {
	Enabled      bool   `toml:"enabled"`
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

type Output struct {
	Format string `toml:"format"`
	Color  *bool  `toml:"color"`
}

func (o Output) ColorEnabled() bool {
	if o.Color == nil {
		return true
	}
	return *o.Color
}

// DefaultConfig returns a configuration with every default applied, used when
// no bslint.toml exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

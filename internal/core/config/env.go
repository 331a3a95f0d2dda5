package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: BSLINT_[SECTION]_[KEY] (e.g., BSLINT_WATCH_DEBOUNCE).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.RootDir, "BSLINT_ROOT_DIR")
	setEnvString(&cfg.SourceDir, "BSLINT_SOURCE_DIR")

	setEnvIntList(&cfg.Diagnostics.IgnoreCodes, "BSLINT_DIAGNOSTICS_IGNORE_CODES")

	setEnvDuration(&cfg.Watch.Debounce, "BSLINT_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.RevalidatePerSecond, "BSLINT_WATCH_REVALIDATE_PER_SECOND")
	setEnvInt(&cfg.Watch.Burst, "BSLINT_WATCH_BURST")

	setEnvInt(&cfg.Load.Concurrency, "BSLINT_LOAD_CONCURRENCY")

	setEnvBool(&cfg.History.Enabled, "BSLINT_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "BSLINT_HISTORY_PATH")
	setEnvString(&cfg.History.ProjectKey, "BSLINT_HISTORY_PROJECT_KEY")

	setEnvBool(&cfg.Observability.Enabled, "BSLINT_OBSERVABILITY_ENABLED")
	setEnvString(&cfg.Observability.MetricsAddr, "BSLINT_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "BSLINT_OBSERVABILITY_OTLP_ENDPOINT")

	setEnvString(&cfg.Output.Format, "BSLINT_OUTPUT_FORMAT")

	normalizePaths(cfg)
	normalizeDiagnostics(cfg)
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvIntList(target *[]int, key string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	out := make([]int, 0)
	for _, raw := range strings.Split(val, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		i, err := strconv.Atoi(raw)
		if err != nil {
			slog.Warn("ignoring malformed env override", "key", key, "value", val)
			return
		}
		out = append(out, i)
	}
	slog.Debug("applying env override", "key", key, "value", val)
	*target = out
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}

package version

// Version is overridden at build time with -ldflags "-X bslint/internal/shared/version.Version=...".
var Version = "0.1.0"

const ToolName = "bslint"

func String() string {
	return ToolName + " v" + Version
}

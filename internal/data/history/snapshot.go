package history

import "time"

const SchemaVersion = 1

// Snapshot summarizes one validation run of a project.
type Snapshot struct {
	SchemaVersion int       `json:"schema_version"`
	ProjectKey    string    `json:"project_key"`
	RunID         string    `json:"run_id"`
	Timestamp     time.Time `json:"timestamp"`
	FileCount     int       `json:"file_count"`
	ContextCount  int       `json:"context_count"`
	ErrorCount    int       `json:"error_count"`
	WarningCount  int       `json:"warning_count"`
	InfoCount     int       `json:"info_count"`
	DurationMS    int64     `json:"duration_ms"`
}

// DiagnosticCount is the total of all severities.
func (s Snapshot) DiagnosticCount() int {
	return s.ErrorCount + s.WarningCount + s.InfoCount
}

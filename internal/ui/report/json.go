// # internal/ui/report/json.go
package report

import (
	"encoding/json"
	"io"

	"bslint/internal/engine/diag"
)

type jsonReport struct {
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Summary     diag.Counts       `json:"summary"`
}

// WriteJSON encodes diags and their per-severity counts as one JSON object.
func WriteJSON(w io.Writer, diags []diag.Diagnostic) error {
	if diags == nil {
		diags = []diag.Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Diagnostics: diags, Summary: diag.Count(diags)})
}

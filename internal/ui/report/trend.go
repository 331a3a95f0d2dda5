package report

import (
	"encoding/json"
	"fmt"
	"io"

	"bslint/internal/data/history"
)

// WriteTrendText prints one row per recorded run, oldest first.
func WriteTrendText(w io.Writer, report history.TrendReport) error {
	if _, err := fmt.Fprintf(w, "%d runs for %s (window %s)\n", report.RunCount, report.ProjectKey, report.Window); err != nil {
		return err
	}
	for _, p := range report.Points {
		_, err := fmt.Fprintf(w, "%s  files=%d (%+d)  errors=%d (%+d)  warnings=%d (%+d)  avg_errors=%.2f\n",
			p.Timestamp.Format("2006-01-02 15:04:05"),
			p.FileCount, p.DeltaFiles,
			p.ErrorCount, p.DeltaErrors,
			p.WarningCount, p.DeltaWarnings,
			p.AvgErrors,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func WriteTrendJSON(w io.Writer, report history.TrendReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

package history

import (
	"fmt"
	"math"
	"time"
)

type TrendPoint struct {
	Timestamp     time.Time `json:"timestamp"`
	RunID         string    `json:"run_id"`
	FileCount     int       `json:"file_count"`
	ErrorCount    int       `json:"error_count"`
	WarningCount  int       `json:"warning_count"`
	InfoCount     int       `json:"info_count"`
	DeltaFiles    int       `json:"delta_files"`
	DeltaErrors   int       `json:"delta_errors"`
	DeltaWarnings int       `json:"delta_warnings"`
	AvgErrors     float64   `json:"avg_errors"`
	WindowHours   float64   `json:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	ProjectKey    string       `json:"project_key"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	RunCount      int          `json:"run_count"`
	Points        []TrendPoint `json:"points"`
}

// BuildTrendReport turns chronologically ordered snapshots into per-run
// deltas and a moving average of errors over window.
func BuildTrendReport(projectKey string, snapshots []Snapshot, window time.Duration) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			Timestamp:    current.Timestamp,
			RunID:        current.RunID,
			FileCount:    current.FileCount,
			ErrorCount:   current.ErrorCount,
			WarningCount: current.WarningCount,
			InfoCount:    current.InfoCount,
		}
		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaFiles = current.FileCount - prev.FileCount
			point.DeltaErrors = current.ErrorCount - prev.ErrorCount
			point.DeltaWarnings = current.WarningCount - prev.WarningCount
		}
		point.AvgErrors = round2(movingAverage(snapshots, i, window))
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		ProjectKey:    projectKey,
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		Window:        window.String(),
		RunCount:      len(points),
		Points:        points,
	}, nil
}

func movingAverage(snapshots []Snapshot, index int, window time.Duration) float64 {
	if window <= 0 {
		return float64(snapshots[index].ErrorCount)
	}

	cutoff := snapshots[index].Timestamp.Add(-window)
	total, count := 0, 0
	for i := index; i >= 0; i-- {
		if snapshots[i].Timestamp.Before(cutoff) {
			break
		}
		total += snapshots[i].ErrorCount
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package app

import (
	"fmt"
	"time"

	"bslint/internal/data/history"
)

// SaveSnapshot records update in the history store.
func (a *App) SaveSnapshot(update Update) error {
	if a.history == nil {
		return fmt.Errorf("history store is not configured")
	}
	if err := a.history.SaveSnapshot(a.ProjectKey(), snapshotFromUpdate(update)); err != nil {
		return fmt.Errorf("save history snapshot: %w", err)
	}
	return nil
}

// HistoryTrend loads snapshots since the given time and summarises them.
func (a *App) HistoryTrend(since time.Time, window time.Duration) (history.TrendReport, error) {
	if a.history == nil {
		return history.TrendReport{}, fmt.Errorf("history store is not configured")
	}
	snapshots, err := a.history.LoadSnapshots(a.ProjectKey(), since)
	if err != nil {
		return history.TrendReport{}, fmt.Errorf("load history snapshots: %w", err)
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return history.BuildTrendReport(a.ProjectKey(), snapshots, window)
}

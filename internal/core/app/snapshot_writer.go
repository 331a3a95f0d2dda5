package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"bslint/internal/data/history"
	"bslint/internal/data/queue"
	"bslint/internal/shared/observability"
)

const (
	snapshotQueueCapacity = 64
	snapshotBatchSize     = 16
	snapshotFlushInterval = 500 * time.Millisecond
)

// startSnapshotWriter moves history writes off the revalidation path. Watch
// mode enqueues a snapshot per pass and a single worker drains them.
func (a *App) startSnapshotWriter() {
	if a.history == nil || a.snapshotQueue != nil {
		return
	}
	a.snapshotQueue = queue.NewMemoryQueue[history.Snapshot](snapshotQueueCapacity)
	a.writerDone = make(chan struct{})
	go a.runSnapshotWriter()
}

func (a *App) enqueueSnapshot(update Update) {
	if a.snapshotQueue == nil {
		return
	}
	if a.snapshotQueue.Enqueue(snapshotFromUpdate(update)) == queue.EnqueueDropped {
		observability.SnapshotWritesTotal.WithLabelValues("dropped").Inc()
		slog.Warn("history snapshot dropped; writer is behind")
	}
	observability.SnapshotQueueDepth.Set(float64(a.snapshotQueue.Len()))
}

func (a *App) runSnapshotWriter() {
	defer close(a.writerDone)
	ctx := context.Background()

	for {
		batch, err := a.snapshotQueue.DequeueBatch(ctx, snapshotBatchSize, snapshotFlushInterval)
		for _, snapshot := range batch {
			if saveErr := a.history.SaveSnapshot(a.ProjectKey(), snapshot); saveErr != nil {
				observability.SnapshotWritesTotal.WithLabelValues("failed").Inc()
				slog.Warn("failed to save history snapshot", "error", saveErr)
				continue
			}
			observability.SnapshotWritesTotal.WithLabelValues("saved").Inc()
		}
		observability.SnapshotQueueDepth.Set(float64(a.snapshotQueue.Len()))

		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			slog.Warn("history queue dequeue failed", "error", err)
		}
	}
}

// stopSnapshotWriter closes the queue and waits for pending snapshots to be
// written.
func (a *App) stopSnapshotWriter() {
	if a.snapshotQueue == nil {
		return
	}
	_ = a.snapshotQueue.Close()
	<-a.writerDone
	a.snapshotQueue = nil
}

func snapshotFromUpdate(update Update) history.Snapshot {
	return history.Snapshot{
		Timestamp:    update.ValidatedAt,
		FileCount:    update.FileCount,
		ContextCount: update.ContextCount,
		ErrorCount:   update.Counts.Errors,
		WarningCount: update.Counts.Warnings,
		InfoCount:    update.Counts.Infos,
		DurationMS:   update.Duration.Milliseconds(),
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bslint_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	FilesTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bslint_files_total",
		Help: "Number of files registered in the program, by kind.",
	}, []string{"kind"})

	ContextsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bslint_contexts_total",
		Help: "Number of live contexts, including global and platform.",
	})

	ValidationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bslint_validation_seconds",
		Help:    "Time spent in a single validate pass.",
		Buckets: prometheus.DefBuckets,
	})

	ContextsValidatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bslint_contexts_validated_total",
		Help: "Contexts examined by validate, split by whether they were stale.",
	}, []string{"result"})

	DiagnosticsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bslint_diagnostics_total",
		Help: "Diagnostics reported by the last validation, by severity.",
	}, []string{"severity"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bslint_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	FileRemovedEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bslint_file_removed_events_total",
		Help: "Total number of file-removed events emitted by the program.",
	})

	SnapshotQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bslint_snapshot_queue_depth",
		Help: "History snapshots waiting to be written.",
	})

	SnapshotWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bslint_snapshot_writes_total",
		Help: "History snapshot writes, by result.",
	}, []string{"result"})
)

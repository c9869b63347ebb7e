// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "openvidreview"

var (
	IngestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_total",
		Help:      "Ingest attempts by terminal outcome",
	}, []string{"outcome"})

	IngestStageSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ingest_stage_seconds",
		Help:      "Time spent in each ingest stage",
		Buckets:   prometheus.ExponentialBuckets(0.005, 4, 10),
	}, []string{"stage"})

	UploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_bytes_total",
		Help:      "Bytes handed to the remote asset store",
	})

	ProbeFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "probe_fallback_total",
		Help:      "Frame rate probes that resolved to the default",
	})

	OrphanedAssetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orphaned_assets_total",
		Help:      "Uploaded assets left without a review after losing an insert race",
	})

	ProgressSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "progress_subscribers",
		Help:      "Connected progress channel subscribers",
	})
)

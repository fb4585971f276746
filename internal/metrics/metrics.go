package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_compressor_jobs_started_total",
			Help: "Total number of compression jobs started",
		},
	)

	JobsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_compressor_jobs_completed_total",
			Help: "Total number of compression jobs that finished successfully",
		},
	)

	JobsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_compressor_jobs_failed_total",
			Help: "Total number of compression jobs that failed",
		},
	)

	UploadedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_compressor_uploaded_bytes_total",
			Help: "Total compressed bytes published to the durable store",
		},
	)

	ProgressObservers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_compressor_progress_observers",
			Help: "Number of currently connected progress observers",
		},
	)
)

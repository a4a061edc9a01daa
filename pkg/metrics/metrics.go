package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	jobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transcription_jobs_total",
			Help: "Transcription jobs by terminal outcome",
		},
		[]string{"outcome"},
	)

	jobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transcription_job_duration_seconds",
			Help:    "End-to-end transcription job duration",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	jobAudioBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transcription_audio_bytes",
			Help:    "Uploaded audio size in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)

	diarizationDegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "diarization_degraded_total",
			Help: "Jobs where diarization failed and the job continued without speakers",
		},
	)
)

// ObserveJob records one finished pipeline run. Outcome is the terminal
// state name ("done", "unsupported_format", "transcription_failed", ...).
func ObserveJob(outcome string, seconds float64, audioBytes int64) {
	jobsTotal.WithLabelValues(outcome).Inc()
	if outcome == "done" {
		jobDuration.Observe(seconds)
	}
	if audioBytes > 0 {
		jobAudioBytes.Observe(float64(audioBytes))
	}
}

// ObserveDiarizationDegraded counts a best-effort diarization failure.
func ObserveDiarizationDegraded() { diarizationDegradedTotal.Inc() }

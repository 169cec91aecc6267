package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

const namespace = "realitycheck"

// WorkerMetrics also implements ports.SourceObserver.
type WorkerMetrics struct {
	registry *prometheus.Registry
	service  string

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec
	sources         *sourceMetrics
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "resume_process_total",
			Help:      "Total processed resumes by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "resume_process_duration_seconds",
			Help:      "Resume processing duration in seconds by status.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "resume_process_in_flight",
			Help:      "Number of in-flight resume processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between resume upload and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	sources := newSourceMetrics("worker")

	registry.MustRegister(processTotal, processDuration, processInFlight, queueLag)
	sources.register(registry)

	return &WorkerMetrics{
		registry:        registry,
		service:         service,
		processTotal:    processTotal,
		processDuration: processDuration,
		processInFlight: processInFlight,
		queueLag:        queueLag,
		sources:         sources,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartResume() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishResume(duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(m.service, status).Inc()
	m.processDuration.WithLabelValues(m.service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(m.service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) ObserveSourceFetch(source domain.SourceKind, outcome string, duration time.Duration) {
	m.sources.observe(m.service, source, outcome, duration)
}

// sourceMetrics is shared by the worker and the API, which both run the
// verification pipeline.
type sourceMetrics struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
}

func newSourceMetrics(subsystem string) *sourceMetrics {
	return &sourceMetrics{
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "source_fetch_total",
				Help:      "Evidence source lookups by source and outcome.",
			},
			[]string{"service", "source", "outcome"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "source_fetch_duration_seconds",
				Help:      "Evidence source lookup duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service", "source"},
		),
	}
}

func (s *sourceMetrics) register(registry *prometheus.Registry) {
	registry.MustRegister(s.fetchTotal, s.fetchDuration)
}

func (s *sourceMetrics) observe(service string, source domain.SourceKind, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	s.fetchTotal.WithLabelValues(service, string(source), outcome).Inc()
	if duration > 0 {
		s.fetchDuration.WithLabelValues(service, string(source)).Observe(duration.Seconds())
	}
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the appraisal metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	analysesTotal   *prometheus.CounterVec
	shotsTotal      prometheus.Counter
	maxUnitEnergy   prometheus.Histogram
	reportsTotal    *prometheus.CounterVec
	reportDuration  prometheus.Histogram
	invalidRequests prometheus.Counter
}

// NewRecorder registers the appraisal metrics on a fresh registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		analysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ballistix_analyses_total",
			Help: "Completed analyses by verdict status",
		}, []string{"status"}),
		shotsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ballistix_shots_analyzed_total",
			Help: "Shots passed through the ballistics calculator",
		}),
		maxUnitEnergy: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ballistix_max_unit_energy_joules_per_cm2",
			Help:    "Strongest shot per analysis in J/cm²",
			Buckets: []float64{1, 2.5, 5, 10, 15, 18, 20, 22, 30, 50, 100},
		}),
		reportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ballistix_reports_total",
			Help: "Report generation attempts by result",
		}, []string{"result"}),
		reportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ballistix_report_duration_seconds",
			Help:    "Report generation latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to ~32s
		}),
		invalidRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "ballistix_invalid_inputs_total",
			Help: "Analyses rejected for invalid shot input",
		}),
	}
}

// ObserveAnalysis records a completed analysis
func (r *Recorder) ObserveAnalysis(status string, shots int, maxUnitEnergy float64) {
	if r == nil {
		return
	}
	r.analysesTotal.WithLabelValues(status).Inc()
	r.shotsTotal.Add(float64(shots))
	if shots > 0 {
		r.maxUnitEnergy.Observe(maxUnitEnergy)
	}
}

// ObserveReport records one report generation attempt
func (r *Recorder) ObserveReport(ok bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	r.reportsTotal.WithLabelValues(result).Inc()
	r.reportDuration.Observe(elapsed.Seconds())
}

// ObserveInvalidInput records an analysis rejected before computation
func (r *Recorder) ObserveInvalidInput() {
	if r == nil {
		return
	}
	r.invalidRequests.Inc()
}

// Registry returns the registry the metrics live on
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler exposes the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

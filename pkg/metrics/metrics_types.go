package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all netwatch metrics backed by a private prometheus
// registry, so tests can create isolated instances.
type Registry struct {
	registry *prometheus.Registry

	// Analysis metrics
	AnalysesTotal       *prometheus.CounterVec
	AnalysisDuration    prometheus.Histogram
	DetectionsTotal     *prometheus.CounterVec
	BatchSize           prometheus.Histogram
	GraphNodes          prometheus.Gauge
	GraphEdges          prometheus.Gauge
	NetworkHealthScore  prometheus.Gauge

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}
	r.initAnalysisMetrics()
	r.initHTTPMetrics()
	return r
}

// Gatherer exposes the underlying registry for the /metrics handler.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

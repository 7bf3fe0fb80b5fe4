package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnalysisMetrics() {
	r.AnalysesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netwatch_analyses_total",
			Help: "Total number of network analyses",
		},
		[]string{"status"},
	)

	r.AnalysisDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netwatch_analysis_duration_seconds",
			Help:    "Network analysis latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.DetectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "netwatch_detections_total",
			Help: "Total detections by kind",
		},
		[]string{"kind"},
	)

	r.BatchSize = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netwatch_batch_size_events",
			Help:    "Telemetry events per analyzed batch",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000},
		},
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netwatch_graph_nodes",
			Help: "Node count of the most recent analysis",
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netwatch_graph_edges",
			Help: "Edge count of the most recent analysis",
		},
	)

	r.NetworkHealthScore = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "netwatch_network_health_score",
			Help: "Health score of the most recent analysis (0-100)",
		},
	)
}

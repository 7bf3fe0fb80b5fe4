package metrics

import (
	"time"

	"github.com/dd0wney/cluso-netwatch/pkg/analyzer"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordAnalysis records the outcome of one analysis call, including
// which detectors fired.
func (r *Registry) RecordAnalysis(result *analyzer.Result, batchSize int, duration time.Duration) {
	r.AnalysesTotal.WithLabelValues("success").Inc()
	r.AnalysisDuration.Observe(duration.Seconds())
	r.BatchSize.Observe(float64(batchSize))

	r.GraphNodes.Set(float64(result.NetworkSummary.TotalDevices))
	r.GraphEdges.Set(float64(result.NetworkSummary.TotalConnections))
	r.NetworkHealthScore.Set(result.NetworkSummary.HealthScore)

	if result.BotnetAnalysis.BotnetDetected {
		r.DetectionsTotal.WithLabelValues("botnet").Inc()
	}
	if result.LateralMovement.LateralMovementDetected {
		r.DetectionsTotal.WithLabelValues("lateral_movement").Inc()
	}
	if result.CoordinatedAttack.CoordinatedAttack {
		r.DetectionsTotal.WithLabelValues("coordinated_attack").Inc()
	}
}

// RecordAnalysisError records a failed analysis call.
func (r *Registry) RecordAnalysisError() {
	r.AnalysesTotal.WithLabelValues("error").Inc()
}

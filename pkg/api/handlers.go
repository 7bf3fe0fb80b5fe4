package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-netwatch/pkg/analyzer"
	"github.com/dd0wney/cluso-netwatch/pkg/logging"
	"github.com/dd0wney/cluso-netwatch/pkg/telemetry"
	"github.com/dd0wney/cluso-netwatch/pkg/validation"
)

// handleAnalyze runs one network behavior analysis over the posted
// telemetry batch.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req validation.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validation.ValidateAnalyzeRequest(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := analyzer.DefaultOptions()
	opts.Graph = s.analysisCfg

	start := time.Now()
	result, err := analyzer.Analyze(req.TelemetryData, opts)
	if err != nil {
		s.metrics.RecordAnalysisError()
		if errors.Is(err, telemetry.ErrEmptyBatch) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("analysis failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "network analysis failed")
		return
	}
	duration := time.Since(start)
	s.metrics.RecordAnalysis(result, len(req.TelemetryData), duration)

	s.logger.Info("analysis complete",
		logging.AnalysisID(result.AnalysisID),
		logging.DeviceCount(result.NetworkSummary.TotalDevices),
		logging.EdgeCount(result.NetworkSummary.TotalConnections),
		logging.Float64("health_score", result.NetworkSummary.HealthScore),
		logging.Latency(duration))

	s.writeJSON(w, http.StatusOK, AnalyzeResponse{
		Success:         true,
		Analysis:        result,
		DevicesAnalyzed: len(req.TelemetryData),
		Timestamp:       time.Now().UTC(),
	})
}

// handleHealth reports server liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   version,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now().UTC(),
	})
}

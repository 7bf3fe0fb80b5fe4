package api

import (
	"time"

	"github.com/dd0wney/cluso-netwatch/pkg/analyzer"
)

// AnalyzeResponse is the envelope returned by the analyze endpoint,
// mirroring what the visualization frontend consumes.
type AnalyzeResponse struct {
	Success         bool             `json:"success"`
	Analysis        *analyzer.Result `json:"analysis"`
	DevicesAnalyzed int              `json:"devices_analyzed"`
	Timestamp       time.Time        `json:"timestamp"`
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse carries a sanitized error message.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

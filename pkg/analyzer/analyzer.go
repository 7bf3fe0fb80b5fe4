// Package analyzer ties the pipeline together: normalize -> build ->
// detect -> score -> export. Analyze is a pure function of the batch
// and options; every call owns a fresh graph, so concurrent analyses
// over disjoint batches need no locking.
package analyzer

import (
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-netwatch/pkg/detect"
	"github.com/dd0wney/cluso-netwatch/pkg/export"
	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
	"github.com/dd0wney/cluso-netwatch/pkg/telemetry"
)

// Options configures one analysis call.
type Options struct {
	// Graph controls construction thresholds. Zero value means
	// netgraph.DefaultConfig.
	Graph netgraph.Config

	// Now supplies the clock, for the timestamp fallback and the
	// coordinated-attack start time. Nil means time.Now.
	Now func() time.Time
}

// DefaultOptions returns options with the standard graph configuration.
func DefaultOptions() Options {
	return Options{
		Graph: netgraph.DefaultConfig(),
		Now:   time.Now,
	}
}

// NetworkSummary is the top-level roll-up of graph state.
type NetworkSummary struct {
	TotalDevices     int      `json:"total_devices"`
	TotalConnections int      `json:"total_connections"`
	HealthScore      float64  `json:"health_score"`
	IsolatedDevices  []string `json:"isolated_devices"`
}

// Result is the full outcome of one analysis call. Nothing in it is
// mutated after Analyze returns.
type Result struct {
	AnalysisID        string                          `json:"analysis_id"`
	Timestamp         time.Time                       `json:"timestamp"`
	NetworkSummary    NetworkSummary                  `json:"network_summary"`
	BotnetAnalysis    *detect.BotnetResult            `json:"botnet_analysis"`
	LateralMovement   *detect.LateralMovementResult   `json:"lateral_movement"`
	CoordinatedAttack *detect.CoordinatedAttackResult `json:"coordinated_attack"`
	CriticalDevices   []detect.CriticalDevice         `json:"critical_devices"`
	Graph             *export.GraphExport             `json:"graph"`
}

// Analyze runs the complete pipeline over one batch of raw telemetry.
// The detectors run in a fixed order (botnet, lateral movement,
// coordinated attack, critical/isolated) because later detectors may
// relabel edges already labeled by earlier ones; the order is part of
// the contract.
func Analyze(raws []telemetry.RawEvent, opts Options) (*Result, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Graph == (netgraph.Config{}) {
		opts.Graph = netgraph.DefaultConfig()
	}
	now := opts.Now()

	events, err := telemetry.NormalizeBatch(raws, now)
	if err != nil {
		return nil, err
	}

	return AnalyzeEvents(events, opts.Graph, now)
}

// AnalyzeEvents runs the pipeline over already-normalized events.
func AnalyzeEvents(events []telemetry.Event, cfg netgraph.Config, now time.Time) (*Result, error) {
	g, err := netgraph.Build(events, cfg)
	if err != nil {
		return nil, err
	}

	botnet := detect.Botnet(g)
	lateral := detect.LateralMovement(g)
	coordinated := detect.CoordinatedAttack(g, now)
	critical := detect.CriticalDevices(g)
	isolated := detect.IsolatedDevices(g)
	health := detect.HealthScore(g)

	return &Result{
		AnalysisID: uuid.NewString(),
		Timestamp:  now.UTC(),
		NetworkSummary: NetworkSummary{
			TotalDevices:     g.NodeCount(),
			TotalConnections: g.EdgeCount(),
			HealthScore:      health,
			IsolatedDevices:  isolated,
		},
		BotnetAnalysis:    botnet,
		LateralMovement:   lateral,
		CoordinatedAttack: coordinated,
		CriticalDevices:   critical,
		Graph:             export.Graph(g, botnet, critical),
	}, nil
}

package detect

import (
	"time"

	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
)

// CoordinatedAttack scans for a simultaneous anomaly wave: at least
// MinAttackWave anomalous devices making up at least MinAttackDensity
// of the fleet. An empty graph is the neutral no-op case. The start
// time is informational only and stamped with the caller's clock, not
// derived from the telemetry.
func CoordinatedAttack(g *netgraph.Graph, now time.Time) *CoordinatedAttackResult {
	result := &CoordinatedAttackResult{
		AffectedDevices: make([]string, 0),
	}

	total := g.NodeCount()
	if total == 0 {
		return result
	}

	anomalous := g.AnomalousIDs()
	if len(anomalous) < MinAttackWave {
		return result
	}
	if float64(len(anomalous))/float64(total) < MinAttackDensity {
		return result
	}

	start := now.UTC()
	result.CoordinatedAttack = true
	result.AttackWave = len(anomalous)
	result.AffectedDevices = anomalous
	result.AttackStartTime = &start

	return result
}
